package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/gateway/bkash"
)

type stubBkash struct {
	createResp *bkash.CreatePaymentResponse
	createErr  error
	execResp   *bkash.ExecutePaymentResponse
	execErr    error

	lastAmount decimal.Decimal
	executed   bool
}

func (s *stubBkash) CreatePayment(_ context.Context, amount decimal.Decimal) (*bkash.CreatePaymentResponse, error) {
	s.lastAmount = amount
	return s.createResp, s.createErr
}

func (s *stubBkash) ExecutePayment(_ context.Context, _ string) (*bkash.ExecutePaymentResponse, error) {
	s.executed = true
	return s.execResp, s.execErr
}

func bkashRouter(gw bkashGateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	registerValidations()
	router := gin.New()
	router.POST("/api/bkash/create", createBkashPayment(gw))
	router.GET("/api/bkash/callback", bkashCallback(gw, "http://shop/success", "http://shop/failure"))
	return router
}

func TestCreateBkashPayment_Success(t *testing.T) {
	gw := &stubBkash{createResp: &bkash.CreatePaymentResponse{
		PaymentID: "TR001",
		BkashURL:  "https://sandbox.bka.sh/redirect",
	}}
	router := bkashRouter(gw)

	req := httptest.NewRequest(http.MethodPost, "/api/bkash/create", strings.NewReader(`{"amount":"350.50"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !gw.lastAmount.Equal(decimal.RequireFromString("350.50")) {
		t.Fatalf("expected amount 350.50, got %s", gw.lastAmount)
	}
	if !strings.Contains(rec.Body.String(), "https://sandbox.bka.sh/redirect") {
		t.Fatalf("expected bkashURL in response, got %s", rec.Body.String())
	}
}

func TestCreateBkashPayment_ZeroAmountDefaultsToOne(t *testing.T) {
	gw := &stubBkash{createResp: &bkash.CreatePaymentResponse{PaymentID: "TR001"}}
	router := bkashRouter(gw)

	req := httptest.NewRequest(http.MethodPost, "/api/bkash/create", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	if !gw.lastAmount.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected default amount 1, got %s", gw.lastAmount)
	}
}

func TestCreateBkashPayment_TokenGrantFailure(t *testing.T) {
	gw := &stubBkash{createErr: bkash.ErrTokenGrant}
	router := bkashRouter(gw)

	req := httptest.NewRequest(http.MethodPost, "/api/bkash/create", strings.NewReader(`{"amount":"10"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "You are not allowed") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCreateBkashPayment_GatewayError(t *testing.T) {
	gw := &stubBkash{createErr: errors.New("provider down")}
	router := bkashRouter(gw)

	req := httptest.NewRequest(http.MethodPost, "/api/bkash/create", strings.NewReader(`{"amount":"10"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

func TestBkashCallback_Success(t *testing.T) {
	gw := &stubBkash{execResp: &bkash.ExecutePaymentResponse{
		StatusCode:    "0000",
		StatusMessage: "Successful",
	}}
	router := bkashRouter(gw)

	req := httptest.NewRequest(http.MethodGet, "/api/bkash/callback?paymentID=TR001&status=success", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if loc != "http://shop/success?msg=Successful" {
		t.Fatalf("unexpected redirect target %q", loc)
	}
}

func TestBkashCallback_CancelledSkipsExecute(t *testing.T) {
	gw := &stubBkash{}
	router := bkashRouter(gw)

	req := httptest.NewRequest(http.MethodGet, "/api/bkash/callback?paymentID=TR001&status=cancel", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	if rec.Header().Get("Location") != "http://shop/failure" {
		t.Fatalf("unexpected redirect target %q", rec.Header().Get("Location"))
	}
	if gw.executed {
		t.Fatalf("execute must not run for a cancelled payment")
	}
}

func TestBkashCallback_ExecuteRejected(t *testing.T) {
	gw := &stubBkash{execResp: &bkash.ExecutePaymentResponse{
		StatusCode:    "2062",
		StatusMessage: "The payment has already been completed",
	}}
	router := bkashRouter(gw)

	req := httptest.NewRequest(http.MethodGet, "/api/bkash/callback?paymentID=TR001&status=success", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Header().Get("Location") != "http://shop/failure" {
		t.Fatalf("unexpected redirect target %q", rec.Header().Get("Location"))
	}
}

func TestBkashCallback_ExecuteError(t *testing.T) {
	gw := &stubBkash{execErr: errors.New("timeout")}
	router := bkashRouter(gw)

	req := httptest.NewRequest(http.MethodGet, "/api/bkash/callback?paymentID=TR001&status=success", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Header().Get("Location") != "http://shop/failure" {
		t.Fatalf("unexpected redirect target %q", rec.Header().Get("Location"))
	}
}
