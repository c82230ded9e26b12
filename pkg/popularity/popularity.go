package popularity

import (
	"context"
	"fmt"
	"slices"
)

// DefaultMinimumStars is the star threshold a repository must exceed to count.
const DefaultMinimumStars = 100

// DefaultLanguages is the reference language set, in display order.
var DefaultLanguages = []string{
	"JavaScript", "Python", "TypeScript", "Java", "Go",
	"Rust", "C++", "C#", "PHP", "Ruby",
}

// LanguagePopularity is one entry of a ranked popularity distribution.
type LanguagePopularity struct {
	Language        string `json:"language" yaml:"language" bson:"language"`
	RepositoryCount int    `json:"repository_count" yaml:"repository_count" bson:"repository_count"`
	PercentageShare int    `json:"percentage_share" yaml:"percentage_share" bson:"percentage_share"`
}

// Query asks a [Counter] for the number of repositories written in Language
// with more than MinimumStars stars. ResultsPerPage is passed through to the
// search backend; only the total is read.
type Query struct {
	Language       string
	MinimumStars   int
	ResultsPerPage int
}

// Counter returns the total number of repositories matching a query.
type Counter interface {
	CountRepositories(ctx context.Context, q Query) (int, error)
}

// CounterFunc adapts a function to the [Counter] interface.
type CounterFunc func(ctx context.Context, q Query) (int, error)

// CountRepositories calls f(ctx, q).
func (f CounterFunc) CountRepositories(ctx context.Context, q Query) (int, error) {
	return f(ctx, q)
}

// Rank turns per-language counts into a ranked distribution. counts[i]
// belongs to languages[i]; Rank panics if the lengths differ. Shares are rounded independently and therefore
// need not sum to 100; a zero total yields 0 for every entry. The result is
// sorted by count, descending, with ties kept in input order.
func Rank(languages []string, counts []int) []LanguagePopularity {
	if len(languages) != len(counts) {
		panic(fmt.Sprintf("popularity: Rank got %d languages and %d counts", len(languages), len(counts)))
	}
	total := 0
	for _, n := range counts {
		total += n
	}

	out := make([]LanguagePopularity, len(languages))
	for i, lang := range languages {
		out[i] = LanguagePopularity{
			Language:        lang,
			RepositoryCount: counts[i],
			PercentageShare: Share(counts[i], total),
		}
	}
	slices.SortStableFunc(out, func(a, b LanguagePopularity) int {
		return b.RepositoryCount - a.RepositoryCount
	})
	return out
}

// Share returns round(100*count/total) with halves rounded up, or 0 when
// total is zero.
func Share(count, total int) int {
	if total <= 0 || count <= 0 {
		return 0
	}
	return (200*count + total) / (2 * total)
}

// Total sums the repository counts of a distribution.
func Total(results []LanguagePopularity) int {
	total := 0
	for _, r := range results {
		total += r.RepositoryCount
	}
	return total
}
