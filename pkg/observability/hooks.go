// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the registered hooks; the application
// registers concrete implementations at startup. The defaults are no-ops, so
// nothing here depends on a particular observability backend.
//
// Register hooks at application startup:
//
//	observability.SetAggregationHooks(&myHooks{})
//
// Libraries call hooks to emit events:
//
//	observability.Aggregation().OnAggregateStart(ctx, languages)
//	// ... fetch counts ...
//	observability.Aggregation().OnAggregateComplete(ctx, len(languages), total, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Aggregation Hooks
// =============================================================================

// AggregationHooks receives events from the language popularity aggregator.
type AggregationHooks interface {
	OnAggregateStart(ctx context.Context, languages []string)
	OnLanguageFetched(ctx context.Context, language string, count int, duration time.Duration, err error)
	OnAggregateComplete(ctx context.Context, languageCount, total int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, namespace string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, namespace string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, namespace string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopAggregationHooks is a no-op implementation of AggregationHooks.
type NoopAggregationHooks struct{}

func (NoopAggregationHooks) OnAggregateStart(context.Context, []string) {}
func (NoopAggregationHooks) OnLanguageFetched(context.Context, string, int, time.Duration, error) {
}
func (NoopAggregationHooks) OnAggregateComplete(context.Context, int, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	aggregationHooks AggregationHooks = NoopAggregationHooks{}
	cacheHooks       CacheHooks       = NoopCacheHooks{}
	httpHooks        HTTPHooks        = NoopHTTPHooks{}
	hooksMu          sync.RWMutex
)

// SetAggregationHooks registers custom aggregation hooks. Nil is ignored.
func SetAggregationHooks(h AggregationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		aggregationHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Aggregation returns the registered aggregation hooks.
func Aggregation() AggregationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return aggregationHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	aggregationHooks = NoopAggregationHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
