package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
	ordersvc "storefront/internal/service/order"
)

type stubOrderService struct {
	order  *domain.Order
	orders []domain.Order
	err    error

	lastInput ordersvc.CreateInput
}

func (s *stubOrderService) Create(_ context.Context, in ordersvc.CreateInput) (*domain.Order, error) {
	s.lastInput = in
	return s.order, s.err
}

func (s *stubOrderService) Get(_ context.Context, _ string) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) ListByBuyer(_ context.Context, _ string) ([]domain.Order, error) {
	return s.orders, s.err
}

func orderRouter(svc orderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	registerValidations()
	tokens := &stubTokens{token: &tokenrepo.Token{
		Token:     "tok-1",
		UserID:    "user-1",
		Address:   "12 Main St",
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	router := gin.New()
	group := router.Group("/api/v1/product", requireSignIn(tokens))
	group.POST("/confirm-order", confirmOrder(svc))
	group.POST("/create-order", createOrder(svc))
	group.GET("/orders", listOrders(svc))
	group.GET("/order/:id", getOrder(svc))
	return router
}

func postOrder(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer tok-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrder_Success(t *testing.T) {
	svc := &stubOrderService{order: &domain.Order{ID: "order-1"}}
	router := orderRouter(svc)

	body := `{"cart":[{"id":"p1","name":"Mug","price":"100","quantity":4},{"id":"p2","name":"Cap","price":"250.50","quantity":2}],"paymentId":"cs_test_123","amount":"350.50"}`
	rec := postOrder(router, "/api/v1/product/create-order", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastInput.BuyerID != "user-1" {
		t.Fatalf("expected buyer user-1, got %q", svc.lastInput.BuyerID)
	}
	if !svc.lastInput.AdjustStock {
		t.Fatalf("create-order must adjust stock")
	}
	if len(svc.lastInput.Cart) != 2 || svc.lastInput.Cart[0].ID != "p1" {
		t.Fatalf("cart not forwarded: %+v", svc.lastInput.Cart)
	}
	if !svc.lastInput.Amount.Equal(decimal.RequireFromString("350.50")) {
		t.Fatalf("expected amount 350.50, got %s", svc.lastInput.Amount)
	}
	if !strings.Contains(rec.Body.String(), "Order created successfully") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCreateOrder_RejectsEmptyCart(t *testing.T) {
	svc := &stubOrderService{}
	router := orderRouter(svc)

	rec := postOrder(router, "/api/v1/product/create-order", `{"cart":[]}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestCreateOrder_RequiresItemID(t *testing.T) {
	svc := &stubOrderService{}
	router := orderRouter(svc)

	rec := postOrder(router, "/api/v1/product/create-order", `{"cart":[{"name":"Mug","price":"100"}]}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestCreateOrder_ServiceEmptyCart(t *testing.T) {
	svc := &stubOrderService{err: domain.ErrEmptyCart}
	router := orderRouter(svc)

	rec := postOrder(router, "/api/v1/product/create-order", `{"cart":[{"id":"p1","price":"100"}]}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Cart is empty") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCreateOrder_ServiceError(t *testing.T) {
	svc := &stubOrderService{err: errors.New("db down")}
	router := orderRouter(svc)

	rec := postOrder(router, "/api/v1/product/create-order", `{"cart":[{"id":"p1","price":"100"}]}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Error in creating order") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestConfirmOrder_SkipsStockAdjustment(t *testing.T) {
	svc := &stubOrderService{order: &domain.Order{ID: "order-1"}}
	router := orderRouter(svc)

	rec := postOrder(router, "/api/v1/product/confirm-order", `{"cart":[{"id":"p1","name":"Mug","price":"100"}]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastInput.AdjustStock {
		t.Fatalf("confirm-order must not adjust stock")
	}
	if svc.lastInput.PaymentMethod != "manual" {
		t.Fatalf("expected manual payment method, got %q", svc.lastInput.PaymentMethod)
	}
	if !strings.Contains(rec.Body.String(), "Payment completed and order created successfully") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestListOrders(t *testing.T) {
	svc := &stubOrderService{orders: []domain.Order{{ID: "order-1", BuyerID: "user-1"}}}
	router := orderRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/product/orders", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "order-1") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestGetOrder(t *testing.T) {
	svc := &stubOrderService{order: &domain.Order{ID: "order-1", BuyerID: "user-1"}}
	router := orderRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/product/order/order-1", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "order-1") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestGetOrder_OtherBuyerLooksMissing(t *testing.T) {
	svc := &stubOrderService{order: &domain.Order{ID: "order-2", BuyerID: "someone-else"}}
	router := orderRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/product/order/order-2", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := &stubOrderService{err: domain.ErrNotFound}
	router := orderRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/product/order/missing", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestOrdersRequireSignIn(t *testing.T) {
	svc := &stubOrderService{}
	router := orderRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/product/create-order", strings.NewReader(`{"cart":[{"id":"p1"}]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}
