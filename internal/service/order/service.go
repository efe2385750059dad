package order

import (
	"context"
	"io"
	"log"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	orderrepo "storefront/internal/repository/order"
)

type Service struct {
	repo   orderRepo
	logger *log.Logger
}

type orderRepo interface {
	Create(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error)
}

func New(repo orderrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

type CreateInput struct {
	BuyerID       string
	Cart          domain.Cart
	PaymentMethod string
	PaymentID     string

	// Amount zero means "not supplied": the total is recomputed from the cart.
	Amount decimal.Decimal

	// AdjustStock decrements product stock alongside the order insert. The
	// order-confirmation path records the order without touching stock.
	AdjustStock bool
}

// Create converts a cart and payment outcome into a persisted order,
// optionally decrementing stock for each purchased unit. Every cart entry
// counts as exactly one unit; the entry's Quantity field is a stock hint and
// is ignored here.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	if len(in.Cart) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if in.BuyerID == "" {
		return nil, domain.ErrUnauthorized
	}

	method := in.PaymentMethod
	if method == "" {
		method = "stripe"
	}

	amount := in.Amount
	if amount.IsZero() {
		amount = CartTotal(in.Cart)
	}

	productIDs := make([]string, 0, len(in.Cart))
	for _, entry := range in.Cart {
		productIDs = append(productIDs, entry.ID)
	}

	input := orderrepo.CreateOrderInput{
		BuyerID:       in.BuyerID,
		ProductIDs:    productIDs,
		PaymentMethod: method,
		PaymentStatus: "success",
		PaymentID:     in.PaymentID,
		Amount:        amount,
	}
	if in.AdjustStock {
		input.StockDecrements = purchaseUnits(in.Cart)
	}

	out, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("order service: created order=%s buyer=%s method=%s amount=%s", out.ID, out.BuyerID, method, amount.StringFixed(2))
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error) {
	return s.repo.ListByBuyer(ctx, buyerID)
}

// CartTotal sums entry prices. One unit per entry: no quantity arithmetic.
func CartTotal(cart domain.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range cart {
		total = total.Add(entry.Price)
	}
	return total
}

// purchaseUnits counts how many times each product appears in the cart.
func purchaseUnits(cart domain.Cart) map[string]int {
	units := make(map[string]int, len(cart))
	for _, entry := range cart {
		units[entry.ID]++
	}
	return units
}
