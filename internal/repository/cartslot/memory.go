package cartslot

import (
	"context"
	"sync"

	"storefront/internal/domain"
)

// memoryRepo is the in-process analog of browser local storage. It backs
// tests and headless checkout sessions that have no database.
type memoryRepo struct {
	mu    sync.RWMutex
	slots map[string]domain.Cart
}

func NewMemory() Repository {
	return &memoryRepo{slots: make(map[string]domain.Cart)}
}

func (r *memoryRepo) Get(_ context.Context, key string) (domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cart, ok := r.slots[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make(domain.Cart, len(cart))
	copy(out, cart)
	return out, nil
}

func (r *memoryRepo) Set(_ context.Context, key string, cart domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := make(domain.Cart, len(cart))
	copy(stored, cart)
	r.slots[key] = stored
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, key)
	return nil
}
