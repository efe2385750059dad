package order

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

// Create persists the order row, its product lines, and the stock decrements
// in a single transaction. A decrement that targets an unknown or malformed
// product ID is logged and skipped; the order line itself is still recorded.
func (r *postgresRepo) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var out domain.Order
	var amount string
	err = tx.QueryRow(ctx, `
INSERT INTO orders (buyer_id, payment_method, payment_status, amount, payment_id)
VALUES ($1, $2, $3, $4::numeric, NULLIF($5, ''))
RETURNING id::text, amount::text, created_at
`, in.BuyerID, in.PaymentMethod, in.PaymentStatus, in.Amount.StringFixed(2), in.PaymentID).Scan(&out.ID, &amount, &out.CreatedAt)
	if err != nil {
		return nil, err
	}
	out.Payment = domain.Payment{
		Method:    in.PaymentMethod,
		Status:    in.PaymentStatus,
		PaymentID: in.PaymentID,
	}
	out.Payment.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	out.BuyerID = in.BuyerID
	out.Products = in.ProductIDs

	for pos, productID := range in.ProductIDs {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_products (order_id, product_id, position)
VALUES ($1, $2, $3)
`, out.ID, productID, pos); err != nil {
			return nil, err
		}
	}

	for productID, units := range in.StockDecrements {
		if err := r.decrementStock(ctx, tx, productID, units); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created id=%s buyer=%s lines=%d", out.ID, out.BuyerID, len(out.Products))
	return &out, nil
}

// rowQuerier is the slice of pgx.Tx the stock decrement needs.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// decrementStock applies a clamped decrement: quantity never drops below
// zero, and the clamp happens in the same UPDATE as the subtraction so two
// concurrent orders cannot drive it negative between them.
func (r *postgresRepo) decrementStock(ctx context.Context, tx rowQuerier, productID string, units int) error {
	if units <= 0 {
		return nil
	}
	if _, err := uuid.Parse(productID); err != nil {
		r.logger.Printf("order repo: skip stock decrement, malformed product id %q: %v", productID, err)
		return nil
	}
	var remaining int
	err := tx.QueryRow(ctx, `
UPDATE products
SET quantity = GREATEST(quantity - $2, 0)
WHERE id = $1
RETURNING quantity
`, productID, units).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("order repo: skip stock decrement, product %s not found", productID)
			return nil
		}
		return err
	}
	r.logger.Printf("order repo: product %s stock -%d, now %d", productID, units, remaining)
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
SELECT id::text, buyer_id, payment_method, payment_status, amount::text, COALESCE(payment_id, ''), created_at
FROM orders
WHERE id = $1
`
	var o domain.Order
	var amount string
	err := r.pool.QueryRow(ctx, q, id).Scan(&o.ID, &o.BuyerID, &o.Payment.Method, &o.Payment.Status, &amount, &o.Payment.PaymentID, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if o.Payment.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, err
	}
	if o.Products, err = r.fetchProducts(ctx, o.ID); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error) {
	const q = `
SELECT id::text, buyer_id, payment_method, payment_status, amount::text, COALESCE(payment_id, ''), created_at
FROM orders
WHERE buyer_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		var amount string
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.Payment.Method, &o.Payment.Status, &amount, &o.Payment.PaymentID, &o.CreatedAt); err != nil {
			return nil, err
		}
		if o.Payment.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		if result[i].Products, err = r.fetchProducts(ctx, result[i].ID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *postgresRepo) fetchProducts(ctx context.Context, orderID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
SELECT product_id
FROM order_products
WHERE order_id = $1
ORDER BY position ASC
`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
