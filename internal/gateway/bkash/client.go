package bkash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// executeSuccessCode is the provider status code of a completed payment.
const executeSuccessCode = "0000"

// Config carries the endpoints and credentials of the tokenized checkout API.
type Config struct {
	GrantTokenURL     string
	CreatePaymentURL  string
	ExecutePaymentURL string
	AppKey            string
	AppSecret         string
	Username          string
	Password          string
	CallbackURL       string
}

// Client talks to the bKash tokenized checkout API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	tokens     *tokenSource
	logger     *log.Logger
}

type CreatePaymentResponse struct {
	PaymentID     string `json:"paymentID"`
	BkashURL      string `json:"bkashURL"`
	StatusCode    string `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
}

type ExecutePaymentResponse struct {
	PaymentID     string `json:"paymentID"`
	TrxID         string `json:"trxID"`
	StatusCode    string `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
}

// Executed reports whether the provider confirmed the payment.
func (r *ExecutePaymentResponse) Executed() bool {
	return r != nil && r.StatusCode == executeSuccessCode
}

func New(cfg Config, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	httpClient := &http.Client{Timeout: 30 * time.Second}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		tokens:     newTokenSource(cfg, httpClient),
		logger:     logger,
	}
}

// CreatePayment opens a payment session for the given amount and returns the
// provider response, whose bkashURL is the hosted payment page.
func (c *Client) CreatePayment(ctx context.Context, amount decimal.Decimal) (*CreatePaymentResponse, error) {
	payload := map[string]string{
		"mode":                  "0011",
		"payerReference":        " ",
		"callbackURL":           c.cfg.CallbackURL,
		"amount":                amount.StringFixed(2),
		"currency":              "BDT",
		"intent":                "sale",
		"merchantInvoiceNumber": "Inv" + uuid.NewString(),
	}

	var out CreatePaymentResponse
	if err := c.post(ctx, c.cfg.CreatePaymentURL, payload, &out); err != nil {
		return nil, err
	}
	c.logger.Printf("bkash: payment created id=%s status=%s", out.PaymentID, out.StatusCode)
	return &out, nil
}

// ExecutePayment finalizes a payment the buyer approved on the hosted page.
func (c *Client) ExecutePayment(ctx context.Context, paymentID string) (*ExecutePaymentResponse, error) {
	payload := map[string]string{"paymentID": paymentID}

	var out ExecutePaymentResponse
	if err := c.post(ctx, c.cfg.ExecutePaymentURL, payload, &out); err != nil {
		return nil, err
	}
	c.logger.Printf("bkash: payment executed id=%s status=%s trx=%s", out.PaymentID, out.StatusCode, out.TrxID)
	return &out, nil
}

func (c *Client) post(ctx context.Context, url string, payload map[string]string, out interface{}) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("bkash: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("bkash: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("authorization", token)
	req.Header.Set("x-app-key", c.cfg.AppKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bkash: call %s: %w", url, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("bkash: decode response from %s: %w", url, err)
	}
	return nil
}
