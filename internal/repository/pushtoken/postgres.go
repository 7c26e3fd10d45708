package pushtoken

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Upsert(ctx context.Context, token string, email *string) error {
	const q = `
INSERT INTO push_tokens (customer_email, token)
VALUES ($1, $2)
ON CONFLICT (token) DO UPDATE SET customer_email = EXCLUDED.customer_email
`
	if _, err := r.pool.Exec(ctx, q, email, token); err != nil {
		return errors.Wrap(err, "upsert push token")
	}
	return nil
}

func (r *postgresRepo) TokensByEmail(ctx context.Context, email string) ([]string, error) {
	const q = `SELECT token FROM push_tokens WHERE customer_email = $1`
	rows, err := r.pool.Query(ctx, q, email)
	if err != nil {
		return nil, errors.Wrap(err, "query push tokens")
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, errors.Wrap(err, "scan push token")
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}
