package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"storefront/internal/cartstore"
	"storefront/internal/domain"
)

// ErrPaymentNotCompleted indicates server-side verification did not confirm
// the payment, so no order may be created.
var ErrPaymentNotCompleted = errors.New("checkout: payment not completed")

// Session is the buyer's authenticated state at checkout time.
type Session struct {
	Identity domain.Identity
	Token    string
	Address  string
}

// Client drives checkout against the storefront API: it resolves the active
// cart, computes the total, requests a payment session, and after the
// provider redirect converts the cart into an order.
type Client struct {
	baseURL    string
	httpClient *http.Client
	carts      *cartstore.Store
	logger     *log.Logger

	// VerifyBeforeOrder requires /api/stripe/verify to report paid before an
	// order is created. When false the client keeps the storefront's
	// historical behavior of treating every post-redirect visit as paid.
	VerifyBeforeOrder bool
}

func New(baseURL string, carts *cartstore.Store, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		carts:      carts,
		logger:     logger,
	}
}

type envelope struct {
	Status  bool            `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// checkPreconditions enforces the shared initiation rules: a non-empty cart,
// an authenticated identity, and a delivery address on file. The cart is
// returned untouched; failures never mutate it.
func (c *Client) checkPreconditions(ctx context.Context, sess Session) (domain.Cart, error) {
	if !sess.Identity.Authenticated() || sess.Token == "" {
		return nil, domain.ErrUnauthorized
	}
	if sess.Address == "" {
		return nil, domain.ErrAddressRequired
	}
	cart, err := c.carts.Get(ctx, sess.Identity)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, domain.ErrEmptyCart
	}
	return cart, nil
}

// StartBkash requests a bKash payment session for the cart total and returns
// the hosted gateway URL the buyer must be redirected to.
func (c *Client) StartBkash(ctx context.Context, sess Session) (string, error) {
	cart, err := c.checkPreconditions(ctx, sess)
	if err != nil {
		return "", err
	}

	body := map[string]interface{}{"amount": Total(cart)}
	var data struct {
		BkashURL string `json:"bkashURL"`
	}
	if err := c.post(ctx, "/api/bkash/create", sess.Token, body, &data); err != nil {
		return "", err
	}
	if data.BkashURL == "" {
		return "", errors.New("checkout: gateway returned no redirect URL")
	}
	return data.BkashURL, nil
}

// StartStripe requests a hosted Stripe checkout session for the full cart and
// returns its redirect URL and session ID.
func (c *Client) StartStripe(ctx context.Context, sess Session) (redirectURL, sessionID string, err error) {
	cart, err := c.checkPreconditions(ctx, sess)
	if err != nil {
		return "", "", err
	}

	body := map[string]interface{}{
		"amount": Total(cart),
		"cart":   cart,
	}
	var data struct {
		SessionID string `json:"sessionId"`
		URL       string `json:"url"`
	}
	if err := c.post(ctx, "/api/stripe/create", sess.Token, body, &data); err != nil {
		return "", "", err
	}
	if data.URL == "" {
		return "", "", errors.New("checkout: gateway returned no redirect URL")
	}
	return data.URL, data.SessionID, nil
}

// CompleteOrder turns the persisted cart into an order after the provider
// redirected back, then clears the cart slot. With VerifyBeforeOrder set the
// payment is verified server-side first; otherwise the redirect itself is
// trusted as proof of payment.
func (c *Client) CompleteOrder(ctx context.Context, sess Session, stripeSessionID string) (*domain.Order, error) {
	if !sess.Identity.Authenticated() || sess.Token == "" {
		return nil, domain.ErrUnauthorized
	}
	cart, err := c.carts.Get(ctx, sess.Identity)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, domain.ErrEmptyCart
	}

	if c.VerifyBeforeOrder {
		paid, err := c.verify(ctx, sess.Token, stripeSessionID)
		if err != nil {
			return nil, err
		}
		if !paid {
			return nil, ErrPaymentNotCompleted
		}
	}

	paymentID := stripeSessionID
	if paymentID == "" {
		paymentID = "success_" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	}

	body := map[string]interface{}{
		"cart":          cart,
		"paymentMethod": "stripe",
		"paymentId":     paymentID,
		"amount":        Total(cart),
	}
	var data struct {
		Order domain.Order `json:"order"`
	}
	if err := c.post(ctx, "/api/v1/product/create-order", sess.Token, body, &data); err != nil {
		return nil, err
	}

	if err := c.carts.Clear(ctx, sess.Identity); err != nil {
		// The order exists; a stale slot is recoverable on next login.
		c.logger.Printf("checkout: clear cart for %s: %v", sess.Identity, err)
	}
	return &data.Order, nil
}

func (c *Client) verify(ctx context.Context, token, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, ErrPaymentNotCompleted
	}
	endpoint := "/api/stripe/verify?sessionId=" + url.QueryEscape(sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var data struct {
		Paid bool `json:"paid"`
	}
	if err := c.do(req, &data); err != nil {
		return false, err
	}
	return data.Paid, nil
}

func (c *Client) post(ctx context.Context, path, token string, body interface{}, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("checkout: decode response from %s: %w", req.URL.Path, err)
	}
	if resp.StatusCode >= 400 || !env.Status {
		msg := env.Message
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("checkout: %s: %s", req.URL.Path, msg)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("checkout: decode data from %s: %w", req.URL.Path, err)
		}
	}
	return nil
}
