package cartslot

import (
	"context"

	"storefront/internal/domain"
)

// Repository stores carts under named slots, one slot per identity plus the
// legacy unscoped slot. Get returns domain.ErrNotFound for an absent slot.
type Repository interface {
	Get(ctx context.Context, key string) (domain.Cart, error)
	Set(ctx context.Context, key string, cart domain.Cart) error
	Delete(ctx context.Context, key string) error
}
