package token

import (
	"context"
	"time"
)

// Token is a bearer credential for an authenticated buyer. Address is the
// delivery address on file, carried here so checkout can enforce its
// address-required precondition without a customer-profile service.
type Token struct {
	Token     string
	UserID    string
	Address   string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, token Token) error
	Get(ctx context.Context, token string) (*Token, error)
	Delete(ctx context.Context, token string) error
}
