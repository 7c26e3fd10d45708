package session

import (
	"context"
	"time"
)

// Repository persists opaque session tokens for cookie-based auth.
type Repository interface {
	Create(ctx context.Context, token, customerID string, expiresAt time.Time) error
	// CustomerID resolves a token to its customer, honoring expiry.
	CustomerID(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}
