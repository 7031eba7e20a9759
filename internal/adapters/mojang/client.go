// Package mojang resolves Minecraft usernames to account ids.
package mojang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"verifybot/internal/domain"
	"verifybot/pkg/log"
)

const DefaultBaseURL = "https://api.mojang.com"

// maxBodySize caps how much of a response is read.
const maxBodySize = 1 << 20

// Client is the Mojang profile lookup client. It makes exactly one attempt
// per call.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a client. An empty baseURL selects the public API; a nil
// httpClient selects http.DefaultClient.
func NewClient(baseURL string, timeout time.Duration, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: httpClient,
	}
}

type profileResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Error        string `json:"error"`
	ErrorMessage string `json:"errorMessage"`
}

// Resolve looks up username. Errors wrap domain.ErrAccountNotFound when
// Mojang reports no such account and domain.ErrLookupFailed otherwise.
func (c *Client) Resolve(ctx context.Context, username string) (domain.ResolvedAccount, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.baseURL + "/users/profiles/minecraft/" + url.PathEscape(username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.ResolvedAccount{}, fmt.Errorf("%w: build request: %v", domain.ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ResolvedAccount{}, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	log.DebugCtx(ctx, "mojang lookup", "status", resp.StatusCode, "elapsed", time.Since(start).String())

	switch {
	case resp.StatusCode == http.StatusNoContent, resp.StatusCode == http.StatusNotFound:
		return domain.ResolvedAccount{}, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, username)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return domain.ResolvedAccount{}, fmt.Errorf("%w: status %d", domain.ErrLookupFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return domain.ResolvedAccount{}, fmt.Errorf("%w: read body: %v", domain.ErrLookupFailed, err)
	}
	return decodeProfile(body, username)
}

func decodeProfile(body []byte, username string) (domain.ResolvedAccount, error) {
	var p profileResponse
	if err := json.Unmarshal(body, &p); err != nil {
		return domain.ResolvedAccount{}, fmt.Errorf("%w: decode: %v", domain.ErrLookupFailed, err)
	}
	if p.Error != "" || p.ErrorMessage != "" {
		return domain.ResolvedAccount{}, fmt.Errorf("%w: %s: %s", domain.ErrAccountNotFound, username, p.Error+p.ErrorMessage)
	}
	if p.ID == "" {
		return domain.ResolvedAccount{}, fmt.Errorf("%w: response has no id", domain.ErrLookupFailed)
	}
	return domain.ResolvedAccount{ID: p.ID, Name: p.Name}, nil
}
