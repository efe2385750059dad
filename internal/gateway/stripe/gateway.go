package stripe

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/shopspring/decimal"
	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"storefront/internal/domain"
)

// minSessionCents is the provider's minimum charge in minor units.
const minSessionCents = 50

var (
	// ErrNotConfigured indicates no secret key was supplied; every operation
	// fails fast instead of reaching the provider.
	ErrNotConfigured = errors.New("stripe: not configured")

	// ErrInvalidAmount indicates a missing or non-positive amount.
	ErrInvalidAmount = errors.New("stripe: amount must be a positive number")

	// ErrAmountTooSmall indicates an amount below the provider minimum.
	ErrAmountTooSmall = errors.New("stripe: amount must be at least $0.50")
)

// Gateway creates and verifies hosted checkout sessions.
type Gateway struct {
	api           *client.API
	webhookSecret string
	frontendURL   string
	logger        *log.Logger
}

// Session is the subset of a hosted checkout session the storefront needs.
type Session struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}

func New(secretKey, webhookSecret, frontendURL string, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	g := &Gateway{
		webhookSecret: webhookSecret,
		frontendURL:   frontendURL,
		logger:        logger,
	}
	if secretKey != "" {
		g.api = &client.API{}
		g.api.Init(secretKey, nil)
	} else {
		logger.Printf("stripe: STRIPE_SECRET_KEY not set, card payments disabled")
	}
	return g
}

// Enabled reports whether a secret key was configured.
func (g *Gateway) Enabled() bool {
	return g.api != nil
}

// validateAmount enforces the provider's charge constraints.
func validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if minorUnits(amount) < minSessionCents {
		return ErrAmountTooSmall
	}
	return nil
}

// CreateSession validates the amount, builds line items and metadata from the
// cart, and opens a hosted checkout session.
func (g *Gateway) CreateSession(amount decimal.Decimal, cart domain.Cart) (*Session, error) {
	if !g.Enabled() {
		return nil, ErrNotConfigured
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	params := &stripego.CheckoutSessionParams{
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
		LineItems:          buildLineItems(cart, amount),
		Mode:               stripego.String(string(stripego.CheckoutSessionModePayment)),
		SuccessURL:         stripego.String(g.frontendURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripego.String(g.frontendURL + "/cart"),
	}
	metadata, err := buildMetadata(cart)
	if err != nil {
		return nil, fmt.Errorf("stripe: pack metadata: %w", err)
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create session: %w", err)
	}
	g.logger.Printf("stripe: session created id=%s", sess.ID)
	return &Session{ID: sess.ID, URL: sess.URL}, nil
}

// VerifySession reports whether the session's payment completed.
func (g *Gateway) VerifySession(sessionID string) (bool, error) {
	if !g.Enabled() {
		return false, ErrNotConfigured
	}
	sess, err := g.api.CheckoutSessions.Get(sessionID, nil)
	if err != nil {
		return false, fmt.Errorf("stripe: retrieve session: %w", err)
	}
	return sess.PaymentStatus == stripego.CheckoutSessionPaymentStatusPaid, nil
}

// ConstructWebhookEvent validates the signature header against the configured
// signing secret and parses the event. A signature mismatch is an error; the
// payload must be discarded unprocessed. The signature is the only gate:
// events from endpoints pinned to other API versions are still accepted.
func (g *Gateway) ConstructWebhookEvent(payload []byte, sigHeader string) (stripego.Event, error) {
	return webhook.ConstructEventWithOptions(payload, sigHeader, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

// TestConnection retrieves the account behind the configured key.
func (g *Gateway) TestConnection() (string, error) {
	if !g.Enabled() {
		return "", ErrNotConfigured
	}
	account, err := g.api.Accounts.Get()
	if err != nil {
		return "", fmt.Errorf("stripe: retrieve account: %w", err)
	}
	return account.ID, nil
}
