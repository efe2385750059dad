package order

import (
	"context"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type CreateOrderInput struct {
	BuyerID       string
	ProductIDs    []string
	PaymentMethod string
	PaymentStatus string
	PaymentID     string
	Amount        decimal.Decimal

	// StockDecrements maps product ID to the number of purchased units,
	// applied together with the order insert. Empty means no stock change.
	StockDecrements map[string]int
}

type Repository interface {
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error)
}
