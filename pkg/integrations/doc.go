// Package integrations provides the shared HTTP layer for upstream API clients.
//
// # Overview
//
// [Client] wraps net/http with the behaviour every upstream client needs:
//
//   - Response caching through a [cache.Cache], namespaced per upstream
//   - Retry with exponential backoff for transient failures (network, 5xx)
//   - Status mapping: 404 → [ErrNotFound], rate limits → *errors.RateLimitedError
//   - Default headers (Accept, User-Agent, Authorization)
//   - Observability hooks for requests, responses and cache events
//
// The [github] subpackage builds on it.
//
// # Client Pattern
//
//	c := integrations.NewClient(fileCache, "github", time.Hour, headers)
//	var out searchResponse
//	err := c.Cached(ctx, "search:go", false, &out, func() error {
//	    return c.Get(ctx, url, &out)
//	})
//
// [github]: github.com/matzehuels/devpulse/pkg/integrations/github
// [cache.Cache]: github.com/matzehuels/devpulse/pkg/cache.Cache
package integrations
