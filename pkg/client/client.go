// Package client is the typed HTTP client for the orderdesk API, including
// the reconciliation protocol that routes a submitted record to create or
// update. Wire failures rehydrate into the pkg/types sentinels so callers
// branch with errors.Is exactly as they would against the services.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

// Client talks to one orderdesk server. It is safe for concurrent use.
type Client struct {
	baseURL string
	hc      *http.Client

	capMu   sync.Mutex
	caps    map[string]bool // entity name -> upsert support
	capsSet bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithTimeout bounds every call issued by the client. After the timeout a
// call fails with ErrUnavailable.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.hc.Timeout = d }
}

// New creates a client for the server at baseURL (e.g.
// "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorBody mirrors the server's JSON error payload.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do issues one request and decodes the response into out when it is
// non-nil. Non-2xx responses rehydrate the typed sentinel from the error
// body; transport failures and timeouts surface as ErrUnavailable.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		// A network failure or deadline miss is transient from the
		// caller's point of view: the outcome of the request is unknown.
		return 0, fmt.Errorf("%w: %v", types.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return resp.StatusCode, decodeError(resp)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func decodeError(resp *http.Response) error {
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if resp.StatusCode == http.StatusServiceUnavailable {
			return types.ErrUnavailable
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	if sentinel := types.SentinelForCode(body.Error); sentinel != nil {
		return fmt.Errorf("%w: %s", sentinel, body.Message)
	}
	return errors.New(body.Message)
}

// capabilities mirrors the server's capability advertisement.
type capabilities struct {
	Entities []struct {
		Name   string `json:"name"`
		Upsert bool   `json:"upsert"`
	} `json:"entities"`
}

// supportsUpsert reports whether the server advertises the atomic upsert
// for the named entity collection. The advertisement is cached after the
// first successful fetch; a fetch failure disables upsert for that call so
// reconciliation falls back to probe-then-act. The fetch itself runs
// outside the lock so concurrent first saves are not serialized behind the
// network call; when two fetches race, the first stored result wins.
func (c *Client) supportsUpsert(ctx context.Context, entity string) bool {
	c.capMu.Lock()
	if c.capsSet {
		ok := c.caps[entity]
		c.capMu.Unlock()
		return ok
	}
	c.capMu.Unlock()

	var caps capabilities
	if _, err := c.do(ctx, http.MethodGet, "/api/capabilities", nil, &caps); err != nil {
		return false
	}
	fetched := make(map[string]bool, len(caps.Entities))
	for _, e := range caps.Entities {
		fetched[e.Name] = e.Upsert
	}

	c.capMu.Lock()
	defer c.capMu.Unlock()
	if !c.capsSet {
		c.caps = fetched
		c.capsSet = true
	}
	return c.caps[entity]
}
