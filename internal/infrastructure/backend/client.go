package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fittrack/fittrack-client/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Client implements ports.IdentityProvider against the FitTrack HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient builds a client for the API rooted at baseURL. The transport
// timeout bounds every call; defaultTimeout applies when it is not positive.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "backend").Logger(),
	}
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type errorDetail struct {
	Detail string `json:"detail"`
}

// ExchangeCredentials trades username/password for a token pair via
// POST /token/. Any 4xx becomes *domain.AuthenticationError carrying the
// backend's detail message.
func (c *Client) ExchangeCredentials(ctx context.Context, username, password string) (domain.TokenPair, error) {
	body, err := json.Marshal(tokenRequest{Username: username, Password: password})
	if err != nil {
		return domain.TokenPair{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token/", bytes.NewReader(body))
	if err != nil {
		return domain.TokenPair{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var detail errorDetail
		_ = json.NewDecoder(resp.Body).Decode(&detail)
		return domain.TokenPair{}, &domain.AuthenticationError{Detail: detail.Detail}
	}
	if resp.StatusCode != http.StatusOK {
		return domain.TokenPair{}, fmt.Errorf("token exchange: unexpected status %d", resp.StatusCode)
	}

	var pair domain.TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return domain.TokenPair{}, fmt.Errorf("token exchange: decode response: %w", err)
	}
	return pair, nil
}

// FetchAccount loads the authenticated account via GET /me/.
func (c *Client) FetchAccount(ctx context.Context, accessToken string) (*domain.Account, error) {
	var account domain.Account
	if err := c.getJSON(ctx, "/me/", accessToken, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// profileEnvelope is the paginated listing shape some deployments return.
type profileEnvelope struct {
	Count    int              `json:"count"`
	Next     *string          `json:"next"`
	Previous *string          `json:"previous"`
	Results  []domain.Profile `json:"results"`
}

// FetchProfiles lists profiles via GET /profiles/, accepting either a bare
// JSON array or a paginated envelope with a results list.
func (c *Client) FetchProfiles(ctx context.Context, accessToken string) ([]domain.Profile, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/profiles/", accessToken, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var profiles []domain.Profile
		if err := json.Unmarshal(raw, &profiles); err != nil {
			return nil, fmt.Errorf("profiles: decode list: %w", err)
		}
		return profiles, nil
	}

	var envelope profileEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("profiles: decode envelope: %w", err)
	}
	return envelope.Results, nil
}

// getJSON performs a bearer-authenticated GET and decodes the body into out.
// A 401 maps to domain.ErrUnauthorized so the session manager can purge
// tokens.
func (c *Client) getJSON(ctx context.Context, path, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return domain.ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("unexpected backend response")
		return fmt.Errorf("get %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
