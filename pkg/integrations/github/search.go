package github

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	pkgerrors "github.com/matzehuels/devpulse/pkg/errors"
	"github.com/matzehuels/devpulse/pkg/integrations"
	"github.com/matzehuels/devpulse/pkg/popularity"
)

var _ popularity.Counter = (*Client)(nil)

// maxPerPage is GitHub's page size ceiling for search.
const maxPerPage = 100

// CountRepositories returns the total number of repositories matching
// q.Language with more than q.MinimumStars stars. Only the total_count of
// the first page is read; results are never paged through. Counts are
// fetched fresh unless Options.CountTTL is set.
//
// CountRepositories makes Client a [popularity.Counter].
func (c *Client) CountRepositories(ctx context.Context, q popularity.Query) (int, error) {
	if err := pkgerrors.ValidateLanguage(q.Language); err != nil {
		return 0, err
	}
	perPage := q.ResultsPerPage
	if perPage <= 0 {
		perPage = 1
	}
	qualifier := languageQualifier(q.Language) + " " + starsQualifier(q.MinimumStars)
	url := c.searchURL(qualifier, perPage, false)

	var data apiSearchResponse
	key := fmt.Sprintf("search:count:%s:%d", strings.ToLower(qualifier), perPage)
	err := c.CachedFor(ctx, key, c.refresh, c.countTTL, &data, func() error {
		return c.Get(ctx, url, &data)
	})
	if err != nil {
		return 0, fmt.Errorf("count %s repositories: %w", q.Language, err)
	}
	if data.TotalCount < 0 {
		return 0, fmt.Errorf("count %s repositories: %w: negative total_count %d", q.Language, integrations.ErrNetwork, data.TotalCount)
	}
	return data.TotalCount, nil
}

// SearchTrending returns the most-starred repositories with more than
// q.MinStars stars, optionally restricted to one language.
func (c *Client) SearchTrending(ctx context.Context, q TrendingQuery) ([]Repository, error) {
	qualifier := starsQualifier(q.MinStars)
	if lang := strings.TrimSpace(q.Language); lang != "" && !strings.EqualFold(lang, "all") {
		if err := pkgerrors.ValidateLanguage(lang); err != nil {
			return nil, err
		}
		qualifier += " " + languageQualifier(lang)
	}
	perPage := min(max(q.PerPage, 1), maxPerPage)
	url := c.searchURL(qualifier, perPage, true)

	var data apiSearchResponse
	key := fmt.Sprintf("search:trending:%s:%d", strings.ToLower(qualifier), perPage)
	err := c.Cached(ctx, key, c.refresh, &data, func() error {
		return c.Get(ctx, url, &data)
	})
	if err != nil {
		return nil, fmt.Errorf("search trending repositories: %w", err)
	}

	repos := make([]Repository, 0, len(data.Items))
	for _, item := range data.Items {
		repos = append(repos, toRepository(item))
	}
	return repos, nil
}

func (c *Client) searchURL(qualifier string, perPage int, byStars bool) string {
	u := fmt.Sprintf("%s/search/repositories?q=%s&per_page=%d",
		c.baseURL, integrations.URLEncode(qualifier), perPage)
	if byStars {
		u += "&sort=stars&order=desc"
	}
	return u
}

// languageQualifier quotes names containing spaces, e.g. language:"Jupyter Notebook".
func languageQualifier(lang string) string {
	if strings.ContainsAny(lang, " \t") {
		return `language:"` + lang + `"`
	}
	return "language:" + lang
}

func starsQualifier(minStars int) string {
	return "stars:>" + strconv.Itoa(max(minStars, 0))
}

func toRepository(r apiRepository) Repository {
	repo := Repository{
		ID:          r.ID,
		Name:        r.Name,
		FullName:    r.FullName,
		Description: r.Description,
		URL:         r.HTMLURL,
		Stars:       r.Stars,
		Forks:       r.Forks,
		Watchers:    r.Watchers,
		Language:    r.Language,
		UpdatedAt:   r.UpdatedAt,
	}
	if repo.Description == "" {
		repo.Description = "No description"
	}
	if repo.Language == "" {
		repo.Language = "Unknown"
	}
	return repo
}
