package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/djx/internal/platforms"
	"github.com/desertthunder/djx/internal/shared"
	"golang.org/x/time/rate"
)

// exchangeTimeout bounds a single token endpoint request.
const exchangeTimeout = 300 * time.Second

// maxTokenBody caps how much of a token response is read into memory.
const maxTokenBody = 1 << 20

// TokenResponse is the JSON document a token endpoint returns for both code
// exchange and refresh. Platforms that issue non-expiring tokens omit
// expires_in; platforms that do not rotate refresh tokens omit refresh_token.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    *int64 `json:"expires_in,omitempty"`
}

// Exchanger performs the form-encoded POSTs that redeem authorization codes
// and refresh tokens at a platform's token endpoint.
//
// Exactly one request per operation: failures are never retried here, the
// lifecycle manager decides what a failure means. Non-2xx responses carry
// the status code and raw body for diagnosis.
type Exchanger struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewExchanger creates an Exchanger. A nil client gets a default with the
// standard request timeout; a nil logger logs to stderr.
func NewExchanger(client *http.Client, logger *log.Logger) *Exchanger {
	if client == nil {
		client = &http.Client{Timeout: exchangeTimeout}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Exchanger{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(1), 1),
		logger:  logger,
	}
}

// ExchangeCode redeems an authorization code. The verifier must be the one
// whose challenge opened the attempt; it is ignored for platforms that do
// not use PKCE.
func (e *Exchanger) ExchangeCode(ctx context.Context, provider platforms.Provider, code, verifier string) (TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", provider.ClientID)
	form.Set("client_secret", provider.ClientSecret)
	form.Set("redirect_uri", provider.RedirectURI)
	form.Set("code", code)
	if provider.RequiresPKCE {
		form.Set("code_verifier", verifier)
	}

	e.logger.Debug("exchanging authorization code", "platform", provider.Name)
	return e.post(ctx, provider.TokenURL, form, shared.ErrTokenExchange)
}

// Refresh redeems a refresh token for a fresh access token.
func (e *Exchanger) Refresh(ctx context.Context, provider platforms.Provider, refreshToken string) (TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", provider.ClientID)
	form.Set("client_secret", provider.ClientSecret)

	e.logger.Debug("refreshing access token", "platform", provider.Name)
	return e.post(ctx, provider.TokenURL, form, shared.ErrRefreshFailed)
}

// post submits the form and decodes the token document. opErr names the
// operation in the error chain so callers can tell an exchange failure from
// a refresh failure.
func (e *Exchanger) post(ctx context.Context, endpoint string, form url.Values, opErr error) (TokenResponse, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return TokenResponse{}, fmt.Errorf("%w: %v", opErr, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return TokenResponse{}, fmt.Errorf("%w: %v", opErr, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenBody))
	if err != nil {
		return TokenResponse{}, fmt.Errorf("%w: reading response: %v", opErr, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return TokenResponse{}, fmt.Errorf("%w: status %d: %s", opErr, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return TokenResponse{}, fmt.Errorf("%w: %v", shared.ErrTokenParse, err)
	}
	if token.AccessToken == "" {
		return TokenResponse{}, fmt.Errorf("%w: response missing access_token", shared.ErrTokenParse)
	}

	return token, nil
}
