package cartstore

import (
	"context"
	"errors"

	"storefront/internal/domain"
	"storefront/internal/repository/cartslot"
)

// legacySlotKey is the unscoped slot older storefront builds persisted the
// cart under, before carts were keyed per identity.
const legacySlotKey = "cart"

// Store keeps one cart per identity. Every mutation persists immediately;
// there is no write-behind buffering.
type Store struct {
	slots cartslot.Repository
}

func New(slots cartslot.Repository) *Store {
	return &Store{slots: slots}
}

// Get returns the persisted cart for the identity, empty if none exists.
func (s *Store) Get(ctx context.Context, identity domain.Identity) (domain.Cart, error) {
	cart, err := s.slots.Get(ctx, identity.SlotKey())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Cart{}, nil
		}
		return nil, err
	}
	return cart, nil
}

// Set persists the cart into the identity-scoped slot.
func (s *Store) Set(ctx context.Context, identity domain.Identity, cart domain.Cart) error {
	return s.slots.Set(ctx, identity.SlotKey(), cart)
}

// Resolve determines the active cart for an identity change. For an
// authenticated identity it prefers the identity-scoped slot, then migrates a
// legacy unscoped slot into it (deleting the legacy slot), and otherwise
// starts empty. For the guest identity the visible cart is empty and
// per-identity storage stays untouched.
func (s *Store) Resolve(ctx context.Context, identity domain.Identity) (domain.Cart, error) {
	if !identity.Authenticated() {
		return domain.Cart{}, nil
	}

	cart, err := s.slots.Get(ctx, identity.SlotKey())
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	legacy, err := s.slots.Get(ctx, legacySlotKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Cart{}, nil
		}
		return nil, err
	}
	if err := s.slots.Set(ctx, identity.SlotKey(), legacy); err != nil {
		return nil, err
	}
	if err := s.slots.Delete(ctx, legacySlotKey); err != nil {
		return nil, err
	}
	return legacy, nil
}

// Clear removes the identity's cart slot, e.g. after order completion.
func (s *Store) Clear(ctx context.Context, identity domain.Identity) error {
	return s.slots.Delete(ctx, identity.SlotKey())
}
