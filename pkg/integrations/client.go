package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/devpulse/pkg/cache"
	pkgerrors "github.com/matzehuels/devpulse/pkg/errors"
	"github.com/matzehuels/devpulse/pkg/observability"
)

// defaultAttempts is how often transient failures (network errors, 5xx) are tried.
const defaultAttempts = 3

// Client provides shared HTTP functionality for upstream API clients.
// It handles response caching, retry of transient failures, status mapping
// and common request headers.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	namespace string
	ttl       time.Duration
	headers   map[string]string
	attempts  int
	backoff   time.Duration
}

// NewClient creates a Client that caches decoded responses in c under
// namespace with the given TTL. Headers are applied to every request;
// pass nil if none are needed. A nil cache disables caching.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:      NewHTTPClient(),
		cache:     c,
		namespace: namespace,
		ttl:       ttl,
		headers:   headers,
		attempts:  defaultAttempts,
		backoff:   time.Second,
	}
}

// SetHTTPClient replaces the underlying HTTP client, e.g. with an
// oauth2-authenticated one. A nil client is ignored.
func (c *Client) SetHTTPClient(h *http.Client) {
	if h != nil {
		c.http = h
	}
}

// SetRetry configures how many attempts transient failures get and the
// initial backoff between them.
func (c *Client) SetRetry(attempts int, backoff time.Duration) {
	c.attempts = max(attempts, 1)
	c.backoff = backoff
}

// Cached retrieves v from the cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored as JSON.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	return c.CachedFor(ctx, key, refresh, c.ttl, v, fetch)
}

// CachedFor is [Client.Cached] with an explicit lifetime for the entry.
// A ttl of zero or less skips the cache entirely.
func (c *Client) CachedFor(ctx context.Context, key string, refresh bool, ttl time.Duration, v any, fetch func() error) error {
	if ttl <= 0 {
		return cache.Retry(ctx, c.attempts, c.backoff, fetch)
	}
	fullKey := cache.HTTPKey(c.namespace, key)
	hooks := observability.Cache()

	if !refresh {
		if data, hit, err := c.cache.Get(ctx, fullKey); err == nil && hit {
			if json.Unmarshal(data, v) == nil {
				hooks.OnCacheHit(ctx, c.namespace)
				return nil
			}
		}
		hooks.OnCacheMiss(ctx, c.namespace)
	}

	if err := cache.Retry(ctx, c.attempts, c.backoff, fetch); err != nil {
		return err
	}

	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, fullKey, data, ttl) == nil {
			hooks.OnCacheSet(ctx, c.namespace, len(data))
		}
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrNetwork, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, pkgerrors.Wrap(pkgerrors.ErrCodeTimeout, err, "request to %s timed out", host)
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// checkStatus maps a response status to an error. Rate-limit rejections
// (429, or 403 with an exhausted quota) are never retried.
func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests,
		code == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
		return &pkgerrors.RateLimitedError{RetryAfter: retryAfter(resp.Header, time.Now())}
	case code == http.StatusUnauthorized:
		return pkgerrors.New(pkgerrors.ErrCodeUnauthorized, "bad credentials (status %d)", code)
	case code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// retryAfter reads Retry-After (seconds) or falls back to X-RateLimit-Reset
// (unix seconds). Returns 0 when neither header is usable.
func retryAfter(h http.Header, now time.Time) int {
	if s, err := strconv.Atoi(h.Get("Retry-After")); err == nil && s > 0 {
		return s
	}
	if reset, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		if d := reset - now.Unix(); d > 0 {
			return int(d)
		}
	}
	return 0
}
