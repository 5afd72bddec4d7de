package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-labs/support-insights/internal/domain"
)

// CustomerRepository looks up customers with their optional account data.
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository builds repository.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const query = `
        SELECT id, name, email, company, tier, messaging_channel, account
        FROM customers WHERE id=$1`
	var (
		customer domain.Customer
		account  []byte
	)
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.Company,
		&customer.Tier,
		&customer.MessagingChannel,
		&account,
	); err != nil {
		return nil, translate(err)
	}
	if len(account) > 0 {
		customer.Account = &domain.Account{}
		if err := json.Unmarshal(account, customer.Account); err != nil {
			return nil, fmt.Errorf("decode account for %s: %w", id, err)
		}
	}
	return &customer, nil
}
