package pushtoken

import "context"

// Repository stores push notification tokens, optionally associated with a
// customer email.
type Repository interface {
	Upsert(ctx context.Context, token string, email *string) error
	TokensByEmail(ctx context.Context, email string) ([]string, error)
}
