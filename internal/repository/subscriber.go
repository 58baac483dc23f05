package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SubscriberRepository reads the subscriber list the sync job filters against.
// The table is owned by the billing system; this repository never writes it.
type SubscriberRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriberRepository(pool *pgxpool.Pool) *SubscriberRepository {
	return &SubscriberRepository{pool: pool}
}

// ListEmails returns all subscriber emails, unnormalized.
func (r *SubscriberRepository) ListEmails(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT email FROM subscribers`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}

	return emails, rows.Err()
}
