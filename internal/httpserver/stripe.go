package httpserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	stripego "github.com/stripe/stripe-go/v82"

	"storefront/internal/domain"
	stripegw "storefront/internal/gateway/stripe"
)

type stripeGateway interface {
	Enabled() bool
	CreateSession(amount decimal.Decimal, cart domain.Cart) (*stripegw.Session, error)
	VerifySession(sessionID string) (bool, error)
	ConstructWebhookEvent(payload []byte, sigHeader string) (stripego.Event, error)
	TestConnection() (string, error)
}

type stripeCreateRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Cart   domain.Cart     `json:"cart"`
}

func createStripeSession(gw stripeGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !gw.Enabled() {
			respond(c, http.StatusServiceUnavailable, false, nil, "Stripe payment is not configured. Please set STRIPE_SECRET_KEY.")
			return
		}
		var req stripeCreateRequest
		if !bindJSON(c, &req) {
			return
		}

		sess, err := gw.CreateSession(req.Amount, req.Cart)
		if err != nil {
			switch {
			case errors.Is(err, stripegw.ErrInvalidAmount):
				respond(c, http.StatusBadRequest, false, nil, "Invalid amount. Amount must be a positive number.")
			case errors.Is(err, stripegw.ErrAmountTooSmall):
				respond(c, http.StatusBadRequest, false, nil, "Amount must be at least $0.50")
			default:
				respond(c, http.StatusInternalServerError, false, nil, err.Error())
			}
			return
		}
		respond(c, http.StatusCreated, true, sess, "")
	}
}

func verifyStripeSession(gw stripeGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !gw.Enabled() {
			respond(c, http.StatusServiceUnavailable, false, nil, "Stripe is not configured")
			return
		}
		sessionID := c.Query("sessionId")
		if sessionID == "" {
			respond(c, http.StatusBadRequest, false, nil, "Session ID is required")
			return
		}
		paid, err := gw.VerifySession(sessionID)
		if err != nil {
			respond(c, http.StatusInternalServerError, false, nil, err.Error())
			return
		}
		message := "Payment not completed"
		if paid {
			message = "Payment verified successfully"
		}
		respond(c, http.StatusOK, true, gin.H{"paid": paid}, message)
	}
}

// stripeWebhook receives provider events on the raw body. The signature
// header must validate against the signing secret before the payload is
// trusted; a mismatch discards the event with a client error.
func stripeWebhook(gw stripeGateway, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !gw.Enabled() {
			c.String(http.StatusServiceUnavailable, "Stripe is not configured")
			return
		}
		payload, err := c.GetRawData()
		if err != nil {
			c.String(http.StatusBadRequest, "Webhook Error: %v", err)
			return
		}

		event, err := gw.ConstructWebhookEvent(payload, c.GetHeader("Stripe-Signature"))
		if err != nil {
			logger.Printf("stripe webhook: signature verification failed: %v", err)
			c.String(http.StatusBadRequest, "Webhook Error: %v", err)
			return
		}

		if event.Type == "checkout.session.completed" {
			var sess struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(event.Data.Raw, &sess); err == nil {
				logger.Printf("stripe webhook: payment completed for session %s", sess.ID)
			}
		}

		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func testStripeConnection(gw stripeGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, err := gw.TestConnection()
		if err != nil {
			if errors.Is(err, stripegw.ErrNotConfigured) {
				respond(c, http.StatusServiceUnavailable, false, nil, "Stripe is not configured. Please set STRIPE_SECRET_KEY.")
				return
			}
			respond(c, http.StatusInternalServerError, false, nil, err.Error())
			return
		}
		respond(c, http.StatusOK, true, gin.H{
			"connected": true,
			"accountId": accountID,
		}, "Stripe is properly configured and connected")
	}
}
