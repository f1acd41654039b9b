package token

import (
	"context"
	"time"
)

// RefreshToken is a persisted, revocable refresh credential.
type RefreshToken struct {
	Token      string
	CustomerID string
	ExpiresAt  time.Time
	Revoked    bool
	CreatedAt  time.Time
}

type Repository interface {
	Create(ctx context.Context, t RefreshToken) error
	Get(ctx context.Context, token string) (*RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeAll(ctx context.Context, customerID string) error
}
