package popularity

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	pkgerrors "github.com/matzehuels/devpulse/pkg/errors"
	"github.com/matzehuels/devpulse/pkg/observability"
)

// Config holds the inputs of one aggregation run.
type Config struct {
	// Languages to rank, in input order. Ties in the result keep this order.
	Languages []string

	// MinimumStars is the exclusive star threshold; 0 uses DefaultMinimumStars.
	MinimumStars int

	// Concurrency bounds parallel count queries. 0 or 1 fetches sequentially.
	Concurrency int

	// RequestTimeout bounds each count query. Zero means no per-query limit.
	RequestTimeout time.Duration
}

// DefaultConfig returns the reference configuration: ten languages,
// more than 100 stars, sequential fetches.
func DefaultConfig() Config {
	return Config{
		Languages:    slices.Clone(DefaultLanguages),
		MinimumStars: DefaultMinimumStars,
		Concurrency:  1,
	}
}

// WithDefaults returns c with zero values replaced by their defaults.
// Callers that record the threshold a run used should read it from here.
func (c Config) WithDefaults() Config {
	if c.MinimumStars == 0 {
		c.MinimumStars = DefaultMinimumStars
	}
	return c
}

// Validate checks the language list and numeric options.
func (c Config) Validate() error {
	if err := pkgerrors.ValidateLanguages(c.Languages); err != nil {
		return err
	}
	if c.MinimumStars < 0 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "minimum stars must not be negative")
	}
	if c.Concurrency < 0 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "concurrency must not be negative")
	}
	if c.RequestTimeout < 0 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "request timeout must not be negative")
	}
	return nil
}

// Aggregator ranks languages by repository count.
//
// It keeps no state between runs; each call to Aggregate owns its own
// accumulator, so one Aggregator can serve concurrent callers.
type Aggregator struct {
	Logger *log.Logger
}

// NewAggregator creates an aggregator. A nil logger uses log.Default().
func NewAggregator(logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = log.Default()
	}
	return &Aggregator{Logger: logger}
}

// Aggregate queries counter once per language and returns the ranked
// distribution.
//
// The run is all-or-nothing: if any query fails, or ctx is cancelled between
// queries, Aggregate returns a FETCH_FAILED error and no results. Queries are
// not retried here.
func (a *Aggregator) Aggregate(ctx context.Context, counter Counter, cfg Config) ([]LanguagePopularity, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()

	hooks := observability.Aggregation()
	hooks.OnAggregateStart(ctx, cfg.Languages)
	start := time.Now()

	var (
		counts []int
		err    error
	)
	if cfg.Concurrency <= 1 {
		counts, err = a.fetchSequential(ctx, counter, cfg)
	} else {
		counts, err = a.fetchConcurrent(ctx, counter, cfg)
	}
	if err != nil {
		hooks.OnAggregateComplete(ctx, len(cfg.Languages), 0, time.Since(start), err)
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeFetchFailed, err, "failed to fetch language statistics")
	}

	results := Rank(cfg.Languages, counts)
	total := Total(results)
	elapsed := time.Since(start)
	hooks.OnAggregateComplete(ctx, len(results), total, elapsed, nil)

	a.Logger.Info("aggregated language popularity",
		"languages", len(results),
		"total", total,
		"duration", elapsed)
	return results, nil
}

func (a *Aggregator) fetchSequential(ctx context.Context, counter Counter, cfg Config) ([]int, error) {
	counts := make([]int, len(cfg.Languages))
	for i, lang := range cfg.Languages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := a.count(ctx, counter, lang, cfg)
		if err != nil {
			return nil, err
		}
		counts[i] = n
	}
	return counts, nil
}

// fetchConcurrent writes each count into its input slot, so completion
// order has no effect on the ranking.
func (a *Aggregator) fetchConcurrent(ctx context.Context, counter Counter, cfg Config) ([]int, error) {
	counts := make([]int, len(cfg.Languages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)

	for i, lang := range cfg.Languages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			n, err := a.count(gctx, counter, lang, cfg)
			if err != nil {
				return err
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// A cancelled parent may not surface through any goroutine.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (a *Aggregator) count(ctx context.Context, counter Counter, lang string, cfg Config) (int, error) {
	if cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RequestTimeout)
		defer cancel()
	}

	start := time.Now()
	n, err := counter.CountRepositories(ctx, Query{
		Language:       lang,
		MinimumStars:   cfg.MinimumStars,
		ResultsPerPage: 1,
	})
	if err == nil && n < 0 {
		err = fmt.Errorf("negative repository count %d", n)
	}
	observability.Aggregation().OnLanguageFetched(ctx, lang, n, time.Since(start), err)
	if err != nil {
		a.Logger.Debug("count failed", "language", lang, "error", err)
		return 0, fmt.Errorf("%s: %w", lang, err)
	}

	a.Logger.Debug("counted repositories", "language", lang, "count", n, "duration", time.Since(start))
	return n, nil
}
