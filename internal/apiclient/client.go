// Package apiclient is the HTTP client for the BikePoint storefront API.
// It layers bearer-token injection, a TTL-bounded response cache (in-memory
// in front of the durable store), and exponential-backoff retries for
// idempotent reads on top of a plain http.Client.
package apiclient

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/bikepoint/sprocket/internal/contract"
	"github.com/bikepoint/sprocket/internal/session"
)

// cacheSchemaVersion is bumped whenever the shape of cached bodies changes,
// invalidating durable entries written by older builds.
const cacheSchemaVersion = 1

// maxResponseBytes bounds response reads so a misbehaving server cannot
// exhaust memory.
const maxResponseBytes = 10 << 20

// Client talks to the storefront API.
type Client struct {
	cfg     *contract.Config
	doer    contract.Doer
	session contract.SessionStore
	durable contract.CacheStore // may be nil when durable caching is disabled
	mem     *memoryCache
	now     contract.Clock
}

// New creates a Client. A nil doer gets a default http.Client bounded by the
// configured request timeout; a nil durable store disables the durable cache
// layer but keeps the in-memory one.
func New(cfg *contract.Config, doer contract.Doer, sessionStore contract.SessionStore, durable contract.CacheStore) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: cfg.RequestTimeout}
	}
	return &Client{
		cfg:     cfg,
		doer:    doer,
		session: sessionStore,
		durable: durable,
		mem:     newMemoryCache(),
		now:     time.Now,
	}
}

// WithClock overrides the client's clock. For tests.
func (c *Client) WithClock(clock contract.Clock) *Client {
	c.now = clock
	return c
}

// cacheKey builds the cache key for a request. The method and URL path stay
// readable at the front so invalidation by URL fragment works; the digest at
// the end disambiguates query params and bodies.
func cacheKey(method, rawURL string, body []byte) string {
	sum := sha256.Sum256([]byte(method + "|" + rawURL + "|" + string(body)))
	display := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		display = u.Path
		if u.RawQuery != "" {
			display += "?" + u.RawQuery
		}
	}
	return method + " " + display + "#" + hex.EncodeToString(sum[:])[:16]
}

// Get performs a cached GET against the API. A response younger than the
// configured TTL is served from cache without a network call; misses go to
// the network with retries and the body is written to both cache layers.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	fullURL := c.cfg.APIBaseURL + path
	key := cacheKey(http.MethodGet, fullURL, nil)
	now := c.now()

	if data, ok := c.mem.get(key, c.cfg.CacheTTL, now); ok {
		return decode(data, out)
	}

	if c.durable != nil {
		data, version, ts, err := c.durable.Get(key)
		if err == nil && version == cacheSchemaVersion && now.Sub(time.Unix(ts, 0)) < c.cfg.CacheTTL {
			// Keep the original write time so promotion never extends the TTL.
			c.mem.set(key, data, time.Unix(ts, 0))
			return decode(data, out)
		}
	}

	data, err := WithRetry(ctx, c.cfg.MaxRetries, defaultRetryBaseDelay, func() ([]byte, error) {
		return c.do(ctx, http.MethodGet, fullURL, nil)
	})
	if err != nil {
		return err
	}

	now = c.now()
	c.mem.set(key, data, now)
	if c.durable != nil {
		if err := c.durable.Set(key, data, cacheSchemaVersion, now.Unix()); err != nil {
			contract.LogWarn("failed to persist cached response", err)
		}
	}
	return decode(data, out)
}

// GetFresh performs a GET that bypasses both cache layers in both
// directions. Cart reads use it so the basket never renders stale items.
// Retries still apply since GETs are idempotent.
func (c *Client) GetFresh(ctx context.Context, path string, out any) error {
	fullURL := c.cfg.APIBaseURL + path
	data, err := WithRetry(ctx, c.cfg.MaxRetries, defaultRetryBaseDelay, func() ([]byte, error) {
		return c.do(ctx, http.MethodGet, fullURL, nil)
	})
	if err != nil {
		return err
	}
	return decode(data, out)
}

// Post performs a live POST. Mutations are never cached and never retried
// client-side; the Idempotency-Key header lets the server dedupe instead.
func (c *Client) Post(ctx context.Context, path string, payload, out any) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	data, err := c.do(ctx, http.MethodPost, c.cfg.APIBaseURL+path, body)
	if err != nil {
		return err
	}
	return decode(data, out)
}

// Patch performs a live PATCH for partial updates.
func (c *Client) Patch(ctx context.Context, path string, payload, out any) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	data, err := c.do(ctx, http.MethodPatch, c.cfg.APIBaseURL+path, body)
	if err != nil {
		return err
	}
	return decode(data, out)
}

// Delete performs a live DELETE against the API.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, c.cfg.APIBaseURL+path, nil)
	return err
}

// ClearCache removes all cached responses whose key contains the given URL
// fragment, from both cache layers.
func (c *Client) ClearCache(urlSubstring string) {
	c.mem.deleteContains(urlSubstring)
	if c.durable != nil {
		if err := c.durable.Delete(urlSubstring); err != nil {
			contract.LogWarn("failed to invalidate durable cache", err)
		}
	}
}

// ClearAllCache empties both cache layers.
func (c *Client) ClearAllCache() {
	c.mem.clear()
	if c.durable != nil {
		if err := c.durable.Delete(""); err != nil {
			contract.LogWarn("failed to clear durable cache", err)
		}
	}
}

// do issues a single request and returns the response body. It attaches the
// bearer token when a usable one is stored, stamps mutations with an
// idempotency key, and maps error statuses onto the error taxonomy.
func (c *Client) do(ctx context.Context, method, fullURL string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request for %s: %w", method, fullURL, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && method != http.MethodHead {
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	if c.session != nil {
		if token := string(c.session.Get(session.KeyAuthToken)); token != "" {
			if tokenUsable(token, c.now()) {
				req.Header.Set("Authorization", "Bearer "+token)
			} else {
				// An expired token would only earn a 401 round trip.
				c.session.Delete(session.KeyAuthToken)
			}
		}
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, fullURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", fullURL, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if c.session != nil {
			c.session.Delete(session.KeyAuthToken)
		}
		return nil, ErrUnauthorized
	case resp.StatusCode >= 400:
		return nil, &APIError{StatusCode: resp.StatusCode, Message: extractMessage(data)}
	}

	return data, nil
}

// decode unmarshals a response body into out, tolerating callers that do
// not care about the body.
func decode(data []byte, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
