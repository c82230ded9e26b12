package github

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/matzehuels/devpulse/pkg/cache"
	pkgerrors "github.com/matzehuels/devpulse/pkg/errors"
	"github.com/matzehuels/devpulse/pkg/integrations"
)

// DefaultBaseURL is the public GitHub REST endpoint.
const DefaultBaseURL = "https://api.github.com"

// cacheNamespace scopes GitHub responses inside a shared cache.
const cacheNamespace = "github"

// Options configures a [Client].
type Options struct {
	Token     string        // personal access token; empty for unauthenticated requests
	BaseURL   string        // defaults to DefaultBaseURL
	Cache     cache.Cache   // response cache; nil disables caching
	CacheTTL  time.Duration // lifetime of cached responses
	CountTTL  time.Duration // lifetime of cached repository counts; zero fetches fresh counts
	Refresh   bool          // bypass cached responses (still writes fresh ones)
	UserAgent string        // defaults to "devpulse"
}

// Client provides access to the GitHub REST API: repository search,
// trending repositories and user profiles. Requests go through the shared
// [integrations.Client] for caching and retries.
type Client struct {
	*integrations.Client
	baseURL  string
	refresh  bool
	countTTL time.Duration
}

// NewClient creates a GitHub API client.
// With a token, requests are authenticated through an oauth2 static token
// source, which raises the search quota from 10 to 30 requests per minute.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if err := pkgerrors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "devpulse"
	}

	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
		"User-Agent":           ua,
	}
	ic := integrations.NewClient(opts.Cache, cacheNamespace, opts.CacheTTL, headers)
	if opts.Token != "" {
		ic.SetHTTPClient(newTokenHTTPClient(opts.Token))
	}

	return &Client{
		Client:   ic,
		baseURL:  baseURL,
		refresh:  opts.Refresh,
		countTTL: opts.CountTTL,
	}, nil
}

// BaseURL returns the API endpoint the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

func newTokenHTTPClient(token string) *http.Client {
	base := integrations.NewHTTPClient()
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	hc.Timeout = base.Timeout
	return hc
}
