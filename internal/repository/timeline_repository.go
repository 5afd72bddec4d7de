package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-labs/support-insights/internal/domain"
)

// TimelineRepository reads a ticket's ordered conversation log.
type TimelineRepository interface {
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TimelineEntry, error)
}

type timelineRepository struct {
	pool *pgxpool.Pool
}

// NewTimelineRepository builds repository.
func NewTimelineRepository(pool *pgxpool.Pool) TimelineRepository {
	return &timelineRepository{pool: pool}
}

func (r *timelineRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TimelineEntry, error) {
	const query = `
        SELECT id, ticket_id, type, channel, sender, sender_name, content, internal, external_thread, issue_status, occurred_at
        FROM timeline_entries WHERE ticket_id=$1 ORDER BY occurred_at ASC, seq ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TimelineEntry{}
	for rows.Next() {
		var entry domain.TimelineEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.Type,
			&entry.Channel,
			&entry.Sender,
			&entry.SenderName,
			&entry.Content,
			&entry.Internal,
			&entry.ExternalThread,
			&entry.IssueStatus,
			&entry.OccurredAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
