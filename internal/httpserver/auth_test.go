package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
)

type stubTokens struct {
	token *tokenrepo.Token
	err   error
}

func (s *stubTokens) Get(_ context.Context, _ string) (*tokenrepo.Token, error) {
	return s.token, s.err
}

func signedInRouter(tokens tokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/private", requireSignIn(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": buyerID(c), "address": buyerAddress(c)})
	})
	return router
}

func TestRequireSignIn_Success(t *testing.T) {
	tokens := &stubTokens{token: &tokenrepo.Token{
		Token:     "tok-1",
		UserID:    "user-1",
		Address:   "12 Main St",
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	router := signedInRouter(tokens)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRequireSignIn_MissingHeader(t *testing.T) {
	router := signedInRouter(&stubTokens{})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireSignIn_UnknownToken(t *testing.T) {
	router := signedInRouter(&stubTokens{err: domain.ErrNotFound})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireSignIn_ExpiredToken(t *testing.T) {
	tokens := &stubTokens{token: &tokenrepo.Token{
		Token:     "tok-1",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}}
	router := signedInRouter(tokens)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireSignIn_LookupError(t *testing.T) {
	router := signedInRouter(&stubTokens{err: errors.New("boom")})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}
