package bkash

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// ErrTokenGrant wraps any failure to obtain a bearer token. Callers treat it
// as an authorization failure: the downstream payment call never runs.
var ErrTokenGrant = errors.New("bkash: token grant failed")

// expirySlack re-fetches shortly before the provider-reported expiry so an
// in-flight payment call is never sent with a token about to lapse.
const expirySlack = 30 * time.Second

// tokenSource holds the current bearer token together with its recorded
// expiry. Access is mutex-guarded and the token is re-fetched on expiry
// instead of being shared as ambient process state.
type tokenSource struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

type grantTokenResponse struct {
	IDToken   string `json:"id_token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

func newTokenSource(cfg Config, httpClient *http.Client) *tokenSource {
	return &tokenSource{cfg: cfg, httpClient: httpClient, now: time.Now}
}

// Token returns a currently valid bearer token, exchanging the app key and
// secret for a fresh one when none is held or the held one has expired.
func (t *tokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && t.now().Before(t.expiresAt) {
		return t.token, nil
	}

	body, err := json.Marshal(map[string]string{
		"app_key":    t.cfg.AppKey,
		"app_secret": t.cfg.AppSecret,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenGrant, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.GrantTokenURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenGrant, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("username", t.cfg.Username)
	req.Header.Set("password", t.cfg.Password)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenGrant, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", ErrTokenGrant, resp.StatusCode)
	}

	var grant grantTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrTokenGrant, err)
	}
	if grant.IDToken == "" {
		return "", fmt.Errorf("%w: empty id_token", ErrTokenGrant)
	}

	ttl := time.Duration(grant.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	t.token = grant.IDToken
	t.expiresAt = t.now().Add(ttl - expirySlack)
	return t.token, nil
}
