// Package github provides an HTTP client for the GitHub REST API.
//
// # Overview
//
// The client covers the three reads DevPulse needs:
//
//   - [Client.CountRepositories]: total_count of a repository search, used
//     by the popularity aggregator (the client is a popularity.Counter)
//   - [Client.SearchTrending]: most-starred repositories, optionally for one language
//   - [Client.FetchUser]: a developer's public profile
//
// plus [Client.FetchAuthenticatedUser] and [Client.RateLimit] for token and
// quota checks.
//
// # Usage
//
//	client, err := github.NewClient(github.Options{
//	    Token:    os.Getenv("GITHUB_TOKEN"),
//	    Cache:    fileCache,
//	    CacheTTL: time.Hour,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	n, err := client.CountRepositories(ctx, popularity.Query{
//	    Language:       "Go",
//	    MinimumStars:   100,
//	    ResultsPerPage: 1,
//	})
//
// # Authentication
//
// A personal access token is optional. Unauthenticated search is limited to
// 10 requests per minute, which a ten-language popularity run exhausts.
// With a token the limit is 30 per minute.
//
// # Errors
//
// Exhausted quotas surface as *errors.RateLimitedError and are not retried.
// An unknown login yields USER_NOT_FOUND. Server errors and network failures
// are retried by the shared transport before they are reported.
package github
