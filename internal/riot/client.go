package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"riftbook/internal/metrics"
)

const (
	defaultRateLimit = 10.0 // requests per second, development key budget
	defaultBurst     = 5
)

// APIError is a non-2xx response from the Riot API.
type APIError struct {
	Status int
	URL    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("riot api: status %d for %s", e.Status, e.URL)
}

// Transient reports whether the request is worth retrying later.
// Rate limits and server errors pass; auth and not-found do not.
func (e *APIError) Transient() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// IsTransient classifies any fetch error for the retry path. Network-level
// failures without a status are treated as transient.
func IsTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	return true
}

// Client is a rate-limited Riot API client.
type Client struct {
	accountBaseURL string
	matchBaseURL   string
	apiKey         string
	httpClient     *http.Client
	limiter        *rate.Limiter
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURLs overrides both API hosts, mainly for tests.
func WithBaseURLs(accountURL, matchURL string) ClientOption {
	return func(c *Client) {
		c.accountBaseURL = accountURL
		c.matchBaseURL = matchURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRateLimit sets custom rate limiting.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a client routed to the given regional hosts, e.g.
// accountRegion "americas" for account lookups and matchRegion "americas"
// for match data.
func NewClient(apiKey, accountRegion, matchRegion string, opts ...ClientOption) *Client {
	c := &Client{
		accountBaseURL: fmt.Sprintf("https://%s.api.riotgames.com", accountRegion),
		matchBaseURL:   fmt.Sprintf("https://%s.api.riotgames.com", matchRegion),
		apiKey:         apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// AccountByRiotID resolves "Name#Tag" to an account with a puuid.
func (c *Client) AccountByRiotID(ctx context.Context, name, tag string) (*Account, error) {
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.accountBaseURL, url.PathEscape(name), url.PathEscape(tag))
	var acct Account
	if err := c.get(ctx, u, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

// MatchIDs lists recent match-v5 ids for a puuid, most recent first.
func (c *Client) MatchIDs(ctx context.Context, puuid string, count int) ([]string, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?count=%s",
		c.matchBaseURL, url.PathEscape(puuid), strconv.Itoa(count))
	var ids []string
	if err := c.get(ctx, u, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Match fetches one match-v5 record.
func (c *Client) Match(ctx context.Context, matchID string) (*Match, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.matchBaseURL, url.PathEscape(matchID))
	var m Match
	if err := c.get(ctx, u, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// TFTMatchIDs lists recent tft-match-v1 ids for a puuid, most recent first.
func (c *Client) TFTMatchIDs(ctx context.Context, puuid string, count int) ([]string, error) {
	u := fmt.Sprintf("%s/tft/match/v1/matches/by-puuid/%s/ids?count=%s",
		c.matchBaseURL, url.PathEscape(puuid), strconv.Itoa(count))
	var ids []string
	if err := c.get(ctx, u, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// TFTMatch fetches one tft-match-v1 record.
func (c *Client) TFTMatch(ctx context.Context, matchID string) (*TFTMatch, error) {
	u := fmt.Sprintf("%s/tft/match/v1/matches/%s", c.matchBaseURL, url.PathEscape(matchID))
	var m TFTMatch
	if err := c.get(ctx, u, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) get(ctx context.Context, u string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RiotRequests.WithLabelValues("network_error").Inc()
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RiotRequests.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
		return &APIError{Status: resp.StatusCode, URL: u}
	}
	metrics.RiotRequests.WithLabelValues("ok").Inc()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", u, err)
	}
	return nil
}
