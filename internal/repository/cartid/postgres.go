package cartid

import (
	"context"

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

func (r *postgresRepo) Load(ctx context.Context, ownerKey string) (string, error) {
	const q = `SELECT cart_id FROM cart_ids WHERE owner_key = $1`
	var cartID string
	if err := r.pool.QueryRow(ctx, q, ownerKey).Scan(&cartID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", errors.Wrap(err, "load cart id")
	}
	return cartID, nil
}

func (r *postgresRepo) Save(ctx context.Context, ownerKey, cartID string) error {
	const q = `
INSERT INTO cart_ids (owner_key, cart_id)
VALUES ($1, $2)
ON CONFLICT (owner_key) DO UPDATE SET cart_id = EXCLUDED.cart_id, updated_at = now()
`
	if _, err := r.pool.Exec(ctx, q, ownerKey, cartID); err != nil {
		return errors.Wrap(err, "save cart id")
	}
	return nil
}

func (r *postgresRepo) Clear(ctx context.Context, ownerKey string) error {
	const q = `DELETE FROM cart_ids WHERE owner_key = $1`
	if _, err := r.pool.Exec(ctx, q, ownerKey); err != nil {
		return errors.Wrap(err, "clear cart id")
	}
	return nil
}
