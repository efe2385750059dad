package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
)

type tokenVerifier interface {
	Get(ctx context.Context, token string) (*tokenrepo.Token, error)
}

const (
	ctxUserIDKey  = "auth.userID"
	ctxAddressKey = "auth.address"
)

// requireSignIn resolves the bearer token to a buyer and rejects requests
// without a valid, unexpired credential.
func requireSignIn(tokens tokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if raw == "" || raw == header {
			respond(c, http.StatusUnauthorized, false, nil, "login required")
			c.Abort()
			return
		}
		tok, err := tokens.Get(c.Request.Context(), raw)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				respond(c, http.StatusUnauthorized, false, nil, "invalid token")
			} else {
				respond(c, http.StatusInternalServerError, false, nil, "auth lookup failed")
			}
			c.Abort()
			return
		}
		if time.Now().After(tok.ExpiresAt) {
			respond(c, http.StatusUnauthorized, false, nil, "token expired")
			c.Abort()
			return
		}
		c.Set(ctxUserIDKey, tok.UserID)
		c.Set(ctxAddressKey, tok.Address)
		c.Next()
	}
}

func buyerID(c *gin.Context) string {
	return c.GetString(ctxUserIDKey)
}

func buyerAddress(c *gin.Context) string {
	return c.GetString(ctxAddressKey)
}
