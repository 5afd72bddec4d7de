package repository

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-labs/support-insights/internal/domain"
)

const defaultListLimit = 50

// TicketFilter captures inbox search parameters.
type TicketFilter struct {
	CustomerID *string
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	Tag        *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	// ListAll returns every ticket; the similarity ranker and KB gap detector read the whole set.
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	Update(ctx context.Context, ticket *domain.Ticket) error
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var ticketColumns = []string{
	"id", "customer_id", "subject", "preview", "status", "priority", "tier", "channel",
	"channels", "tags", "linked_issue_key", "linked_thread", "assignee", "created_at", "updated_at",
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query, args, err := psql.Select(ticketColumns...).From("tickets").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err)
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	query, args, err := buildTicketListQuery(filter).ToSql()
	if err != nil {
		return nil, err
	}
	return r.query(ctx, query, args...)
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	query, args, err := psql.Select(ticketColumns...).From("tickets").OrderBy("created_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, err
	}
	return r.query(ctx, query, args...)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	query, args, err := psql.Update("tickets").
		Set("status", ticket.Status).
		Set("priority", ticket.Priority).
		Set("tier", ticket.Tier).
		Set("tags", ticket.Tags).
		Set("assignee", ticket.Assignee).
		Set("linked_issue_key", ticket.LinkedIssueKey).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": ticket.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return err
	}
	return translate(r.pool.QueryRow(ctx, query, args...).Scan(&ticket.UpdatedAt))
}

func (r *ticketRepository) query(ctx context.Context, query string, args ...any) ([]domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func buildTicketListQuery(filter TicketFilter) sq.SelectBuilder {
	builder := psql.Select(ticketColumns...).From("tickets")

	if filter.CustomerID != nil {
		builder = builder.Where(sq.Eq{"customer_id": *filter.CustomerID})
	}
	if len(filter.Statuses) > 0 {
		builder = builder.Where(sq.Eq{"status": filter.Statuses})
	}
	if len(filter.Priorities) > 0 {
		builder = builder.Where(sq.Eq{"priority": filter.Priorities})
	}
	if filter.Tag != nil {
		builder = builder.Where(sq.Expr("? = ANY(tags)", *filter.Tag))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		pattern := "%" + strings.TrimSpace(*filter.SearchTerm) + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"subject": pattern},
			sq.ILike{"preview": pattern},
		})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	return builder.OrderBy("updated_at DESC", "id ASC").Limit(uint64(limit)).Offset(uint64(offset))
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.CustomerID,
		&ticket.Subject,
		&ticket.Preview,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Tier,
		&ticket.Channel,
		&ticket.Channels,
		&ticket.Tags,
		&ticket.LinkedIssueKey,
		&ticket.LinkedThread,
		&ticket.Assignee,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
