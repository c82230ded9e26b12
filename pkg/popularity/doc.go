// Package popularity ranks programming languages by the number of
// repositories written in them.
//
// # Overview
//
// An [Aggregator] asks a [Counter] (normally the GitHub search client) for
// the number of repositories per language that exceed a star threshold,
// then turns those counts into a ranked list of [LanguagePopularity]
// records:
//
//	agg := popularity.NewAggregator(logger)
//	results, err := agg.Aggregate(ctx, githubClient, popularity.Config{
//	    Languages:    []string{"Go", "Rust"},
//	    MinimumStars: 100,
//	})
//
// # Ranking
//
// Each share is round(100 * count / total), rounded independently, so the
// shares of a run may sum to 99 or 101. When every count is zero, every
// share is zero. Results are sorted by count, descending; ties keep the
// order of Config.Languages.
//
// # Failure
//
// A run either produces a result for every language or fails as a whole
// with a FETCH_FAILED error. Cancelling the context between queries, a
// query timing out (see Config.RequestTimeout) or any single query failing
// all abort the run and discard the counts collected so far. The aggregator
// does not retry; retries of transient transport errors belong to the
// [Counter].
//
// # Concurrency
//
// Queries run sequentially by default. Config.Concurrency > 1 fans them out
// with a bounded errgroup; the ranking is identical either way.
package popularity
