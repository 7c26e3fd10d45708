package session

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, token, customerID string, expiresAt time.Time) error {
	const q = `
INSERT INTO sessions (token, customer_id, expires_at)
VALUES ($1, $2, $3)
`
	if _, err := r.pool.Exec(ctx, q, token, customerID, expiresAt); err != nil {
		return errors.Wrap(err, "create session")
	}
	return nil
}

func (r *postgresRepo) CustomerID(ctx context.Context, token string) (string, error) {
	const q = `
SELECT customer_id::text
FROM sessions
WHERE token = $1 AND expires_at > now()
`
	var customerID string
	if err := r.pool.QueryRow(ctx, q, token).Scan(&customerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", errors.Wrap(err, "lookup session")
	}
	return customerID, nil
}

func (r *postgresRepo) Delete(ctx context.Context, token string) error {
	const q = `DELETE FROM sessions WHERE token = $1`
	if _, err := r.pool.Exec(ctx, q, token); err != nil {
		return errors.Wrap(err, "delete session")
	}
	return nil
}
