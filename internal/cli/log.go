package cli

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/devpulse/pkg/observability"
)

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Ranked 10 languages (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Observability hooks backed by the CLI logger
// =============================================================================

// logHooks reports observability events at debug level. With a
// spinner attached it also shows per-language progress.
type logHooks struct {
	logger  *log.Logger
	spinner *Spinner

	mu      sync.Mutex
	total   int
	fetched int
}

// installHooks registers hooks for the duration of one command and returns
// a function restoring the no-op defaults.
func installHooks(l *log.Logger, s *Spinner) func() {
	h := &logHooks{logger: l, spinner: s}
	observability.SetAggregationHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
	return observability.Reset
}

func (h *logHooks) OnAggregateStart(_ context.Context, languages []string) {
	h.mu.Lock()
	h.total, h.fetched = len(languages), 0
	h.mu.Unlock()
	h.logger.Debug("aggregation started", "languages", len(languages))
}

func (h *logHooks) OnLanguageFetched(_ context.Context, language string, count int, d time.Duration, err error) {
	h.mu.Lock()
	h.fetched++
	fetched, total := h.fetched, h.total
	h.mu.Unlock()

	if err != nil {
		h.logger.Debug("language failed", "language", language, "error", err)
		return
	}
	if h.spinner != nil {
		h.spinner.SetMessage("Counting repositories (%d/%d, last: %s)", fetched, total, language)
	}
}

func (h *logHooks) OnAggregateComplete(_ context.Context, n, total int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("aggregation failed", "duration", d.Round(time.Millisecond), "error", err)
	}
}

func (h *logHooks) OnCacheHit(_ context.Context, namespace string) {
	h.logger.Debug("cache hit", "namespace", namespace)
}

func (h *logHooks) OnCacheMiss(_ context.Context, namespace string) {
	h.logger.Debug("cache miss", "namespace", namespace)
}

func (h *logHooks) OnCacheSet(_ context.Context, namespace string, size int) {
	h.logger.Debug("cache set", "namespace", namespace, "bytes", size)
}

func (h *logHooks) OnRequest(context.Context, string, string, string) {}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http", "method", method, "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}
