package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/gateway/bkash"
)

type bkashGateway interface {
	CreatePayment(ctx context.Context, amount decimal.Decimal) (*bkash.CreatePaymentResponse, error)
	ExecutePayment(ctx context.Context, paymentID string) (*bkash.ExecutePaymentResponse, error)
}

type bkashCreateRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func createBkashPayment(gw bkashGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bkashCreateRequest
		if !bindJSON(c, &req) {
			return
		}
		amount := req.Amount
		if amount.IsZero() {
			amount = decimal.NewFromInt(1)
		}

		resp, err := gw.CreatePayment(c.Request.Context(), amount)
		if err != nil {
			if errors.Is(err, bkash.ErrTokenGrant) {
				respond(c, http.StatusUnauthorized, false, nil, "You are not allowed")
				return
			}
			respond(c, http.StatusInternalServerError, false, nil, "bKash payment failed")
			return
		}
		respond(c, http.StatusCreated, true, resp, "")
	}
}

// bkashCallback is the provider's redirect target. The buyer lands here after
// the hosted payment page; there is no signature or origin verification on
// this hop, only the execute call against the provider decides the outcome.
func bkashCallback(gw bkashGateway, successURL, failureURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("status") != "success" {
			c.Redirect(http.StatusFound, failureURL)
			return
		}

		result, err := gw.ExecutePayment(c.Request.Context(), c.Query("paymentID"))
		if err != nil || !result.Executed() {
			// Execute failures carry no provider detail to the buyer.
			c.Redirect(http.StatusFound, failureURL)
			return
		}
		c.Redirect(http.StatusFound, successURL+"?msg="+url.QueryEscape(result.StatusMessage))
	}
}
