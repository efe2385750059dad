package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Name        string
	Slug        string
	Description string
	Price       string
	Quantity    int
	Shipping    bool
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Name:        "Demo T-Shirt",
			Slug:        "demo-t-shirt",
			Description: "Soft cotton tee for demo purposes",
			Price:       "19.99",
			Quantity:    25,
			Shipping:    true,
		},
		{
			Name:        "Demo Mug",
			Slug:        "demo-mug",
			Description: "Ceramic mug with demo logo",
			Price:       "12.99",
			Quantity:    40,
			Shipping:    true,
		},
		{
			Name:        "Demo Sticker Pack",
			Slug:        "demo-sticker-pack",
			Description: "Assorted vinyl stickers",
			Price:       "4.50",
			Quantity:    100,
			Shipping:    false,
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}

	if err := ensureDemoToken(ctx, pool); err != nil {
		return fmt.Errorf("ensure demo token: %w", err)
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (name, slug, description, price, quantity, shipping)
VALUES ($1, $2, $3, $4::numeric, $5, $6)
ON CONFLICT (slug) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    quantity = EXCLUDED.quantity,
    shipping = EXCLUDED.shipping
`
	_, err := pool.Exec(ctx, q, p.Name, p.Slug, p.Description, p.Price, p.Quantity, p.Shipping)
	if err != nil {
		return err
	}
	return nil
}

// ensureDemoToken gives manual testing a signed-in buyer with an address on
// file, so the order endpoints can be exercised without an auth service.
func ensureDemoToken(ctx context.Context, pool *pgxpool.Pool) error {
	const q = `
INSERT INTO tokens (token, user_id, address, expires_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (token) DO UPDATE SET expires_at = EXCLUDED.expires_at
`
	_, err := pool.Exec(ctx, q, "demo-token", "demo-buyer", "12 Demo Street", time.Now().Add(30*24*time.Hour))
	return err
}
