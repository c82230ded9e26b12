// Package pkg provides the libraries behind DevPulse, a GitHub activity
// browser and language popularity ranking.
//
// # Overview
//
// The pkg directory is organized by concern:
//
//  1. [popularity] - Language ranking: counts, shares and the aggregator
//  2. [integrations] - External API clients (GitHub search and users)
//  3. [cache] - Response caches (file, Redis, no-op)
//  4. [store] - Ranking snapshot history (memory, MongoDB)
//  5. [session] - Persisted GitHub logins
//  6. [config] - TOML configuration and token resolution
//  7. [errors] - Coded errors and input validation
//  8. [observability] - Hooks for logging and progress reporting
//
// # Architecture
//
// The data flow for a language ranking:
//
//	config.Config
//	     ↓
//	popularity.Aggregator ── one count per language ──→ github.Client
//	     ↓                                                 ↓
//	[]popularity.LanguagePopularity                   cache.Cache
//	     ↓
//	CLI table / JSON / YAML, or the HTTP API (+ store.Snapshot)
//
// # Quick Start
//
// Rank a few languages against the public API:
//
//	client, err := github.NewClient(github.Options{Token: os.Getenv("GITHUB_TOKEN")})
//	if err != nil {
//	    return err
//	}
//	cfg := popularity.DefaultConfig()
//	cfg.Languages = []string{"Go", "Rust", "Zig"}
//	results, err := popularity.NewAggregator(logger).Aggregate(ctx, client, cfg)
//
// Results are sorted by repository count, ties keep the configured order.
//
// [popularity]: https://pkg.go.dev/github.com/matzehuels/devpulse/pkg/popularity
// [integrations]: https://pkg.go.dev/github.com/matzehuels/devpulse/pkg/integrations
// [cache]: https://pkg.go.dev/github.com/matzehuels/devpulse/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/devpulse/pkg/store
// [session]: https://pkg.go.dev/github.com/matzehuels/devpulse/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/devpulse/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/devpulse/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/devpulse/pkg/observability
package pkg
