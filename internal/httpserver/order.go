package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	ordersvc "storefront/internal/service/order"
)

type orderService interface {
	Create(ctx context.Context, in ordersvc.CreateInput) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error)
}

type orderItemRequest struct {
	ID          string          `json:"id" binding:"required"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

type createOrderRequest struct {
	Cart          []orderItemRequest `json:"cart" binding:"required,min=1,dive"`
	PaymentMethod string             `json:"paymentMethod"`
	PaymentID     string             `json:"paymentId"`
	Amount        decimal.Decimal    `json:"amount"`
}

type confirmOrderRequest struct {
	Cart []orderItemRequest `json:"cart" binding:"required,min=1,dive"`
}

func toCart(items []orderItemRequest) domain.Cart {
	cart := make(domain.Cart, 0, len(items))
	for _, item := range items {
		cart = append(cart, domain.CartItem{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
			Quantity:    item.Quantity,
		})
	}
	return cart
}

// createOrder is the full reconciliation path: persist the order and
// decrement stock for every purchased unit.
func createOrder(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrderRequest
		if !bindJSON(c, &req) {
			return
		}
		order, err := svc.Create(c.Request.Context(), ordersvc.CreateInput{
			BuyerID:       buyerID(c),
			Cart:          toCart(req.Cart),
			PaymentMethod: req.PaymentMethod,
			PaymentID:     req.PaymentID,
			Amount:        req.Amount,
			AdjustStock:   true,
		})
		if err != nil {
			respondOrderError(c, err, "Error in creating order")
			return
		}
		respond(c, http.StatusOK, true, gin.H{"order": order}, "Order created successfully")
	}
}

// confirmOrder is the plain confirmation path used by the on-page payment
// form: it records the order without adjusting stock.
func confirmOrder(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req confirmOrderRequest
		if !bindJSON(c, &req) {
			return
		}
		order, err := svc.Create(c.Request.Context(), ordersvc.CreateInput{
			BuyerID:       buyerID(c),
			Cart:          toCart(req.Cart),
			PaymentMethod: "manual",
		})
		if err != nil {
			respondOrderError(c, err, "Error in processing payment")
			return
		}
		respond(c, http.StatusOK, true, gin.H{"order": order}, "Payment completed and order created successfully")
	}
}

// getOrder returns one of the buyer's own orders. Another buyer's order is
// indistinguishable from a missing one.
func getOrder(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				respond(c, http.StatusNotFound, false, nil, "Order not found")
				return
			}
			respond(c, http.StatusInternalServerError, false, nil, "Error while getting order")
			return
		}
		if order.BuyerID != buyerID(c) {
			respond(c, http.StatusNotFound, false, nil, "Order not found")
			return
		}
		respond(c, http.StatusOK, true, gin.H{"order": order}, "")
	}
}

func listOrders(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.ListByBuyer(c.Request.Context(), buyerID(c))
		if err != nil {
			respond(c, http.StatusInternalServerError, false, nil, "Error while getting orders")
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		respond(c, http.StatusOK, true, gin.H{"orders": orders}, "")
	}
}

func respondOrderError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		respond(c, http.StatusBadRequest, false, nil, "Cart is empty")
	case errors.Is(err, domain.ErrUnauthorized):
		respond(c, http.StatusUnauthorized, false, nil, "login required")
	default:
		respond(c, http.StatusInternalServerError, false, nil, fallback)
	}
}
