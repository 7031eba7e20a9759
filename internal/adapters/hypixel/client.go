// Package hypixel fetches the profile attributes the bot authorizes on.
package hypixel

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"verifybot/internal/domain"
	"verifybot/pkg/log"
)

const DefaultBaseURL = "https://api.hypixel.net"

const maxBodySize = 4 << 20

// Client talks to the Hypixel public API.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	rules      RankRules
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRankRules replaces DefaultRankRules.
func WithRankRules(r RankRules) Option {
	return func(c *Client) { c.rules = r }
}

func NewClient(baseURL, apiKey string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		timeout:    timeout,
		rules:      DefaultRankRules(),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch reads the player profile and, best effort, the player's guild.
// Errors wrap domain.ErrProfileService; a guild lookup failure only leaves
// GroupName nil.
func (c *Client) Fetch(ctx context.Context, account domain.ResolvedAccount) (domain.ProfileAttributes, error) {
	body, err := c.get(ctx, "/player", url.Values{"uuid": {account.ID}})
	if err != nil {
		return domain.ProfileAttributes{}, fmt.Errorf("%w: player: %v", domain.ErrProfileService, err)
	}
	attrs, err := Decode(body, c.rules)
	if err != nil {
		return domain.ProfileAttributes{}, err
	}

	attrs.GroupName = c.guildName(ctx, account.ID)
	return attrs, nil
}

func (c *Client) guildName(ctx context.Context, playerID string) *string {
	body, err := c.get(ctx, "/guild", url.Values{"player": {playerID}})
	if err == nil {
		var name *string
		if name, err = decodeGuildName(body); err == nil {
			return name
		}
	}
	log.WarnCtx(ctx, "hypixel guild lookup failed", "player", playerID, "error", err)
	return nil
}

// get issues one GET with its own deadline and returns the body of a 2xx
// response.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	log.DebugCtx(ctx, "hypixel request", "path", path, "status", resp.StatusCode, "elapsed", time.Since(start).String())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}
