package cartid

import "context"

// Repository persists the single opaque cart identifier per owner key.
// There is no expiry; a stale identifier is only detected when resumption
// against the remote API fails.
type Repository interface {
	Load(ctx context.Context, ownerKey string) (string, error)
	Save(ctx context.Context, ownerKey, cartID string) error
	Clear(ctx context.Context, ownerKey string) error
}
