package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-labs/support-insights/internal/domain"
)

// KBArticleRepository exposes the knowledge-base catalog.
type KBArticleRepository interface {
	List(ctx context.Context) ([]domain.KBArticle, error)
}

// EngineeringIssueRepository looks up linked engineering tracker issues.
type EngineeringIssueRepository interface {
	GetByKey(ctx context.Context, key string) (*domain.EngineeringIssue, error)
}

type kbArticleRepository struct {
	pool *pgxpool.Pool
}

// NewKBArticleRepository builds repository.
func NewKBArticleRepository(pool *pgxpool.Pool) KBArticleRepository {
	return &kbArticleRepository{pool: pool}
}

func (r *kbArticleRepository) List(ctx context.Context) ([]domain.KBArticle, error) {
	const query = `
        SELECT id, title, category, last_updated, relevance, views, stale
        FROM kb_articles ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.KBArticle{}
	for rows.Next() {
		var article domain.KBArticle
		if err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.Category,
			&article.LastUpdated,
			&article.Relevance,
			&article.Views,
			&article.Stale,
		); err != nil {
			return nil, err
		}
		result = append(result, article)
	}
	return result, rows.Err()
}

type engineeringIssueRepository struct {
	pool *pgxpool.Pool
}

// NewEngineeringIssueRepository builds repository.
func NewEngineeringIssueRepository(pool *pgxpool.Pool) EngineeringIssueRepository {
	return &engineeringIssueRepository{pool: pool}
}

func (r *engineeringIssueRepository) GetByKey(ctx context.Context, key string) (*domain.EngineeringIssue, error) {
	const query = `
        SELECT key, summary, status, priority, COALESCE(linked_ticket_id, ''), labels, created_at, updated_at
        FROM engineering_issues WHERE key=$1`
	var issue domain.EngineeringIssue
	if err := r.pool.QueryRow(ctx, query, key).Scan(
		&issue.Key,
		&issue.Summary,
		&issue.Status,
		&issue.Priority,
		&issue.LinkedTicketID,
		&issue.Labels,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &issue, nil
}
