package github

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/matzehuels/devpulse/pkg/errors"
	"github.com/matzehuels/devpulse/pkg/integrations"
)

// FetchUser retrieves the public profile for login. Missing optional fields
// are filled with display defaults: name falls back to the login, bio to
// "No bio" and location to "Not specified".
func (c *Client) FetchUser(ctx context.Context, login string) (*Developer, error) {
	if err := pkgerrors.ValidateUsername(login); err != nil {
		return nil, err
	}

	var data apiUser
	url := fmt.Sprintf("%s/users/%s", c.baseURL, login)
	err := c.Cached(ctx, "user:"+login, c.refresh, &data, func() error {
		return c.Get(ctx, url, &data)
	})
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.ErrCodeUserNotFound, err, "Developer %q not found", login)
		}
		return nil, fmt.Errorf("fetch user %s: %w", login, err)
	}
	return toDeveloper(data), nil
}

// FetchAuthenticatedUser returns the user owning the client's token.
// It is never cached, so it doubles as a token check.
func (c *Client) FetchAuthenticatedUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.Get(ctx, c.baseURL+"/user", &u); err != nil {
		return nil, fmt.Errorf("fetch authenticated user: %w", err)
	}
	return &u, nil
}

// RateLimit reports the remaining core and search quotas. Querying it does
// not count against either.
func (c *Client) RateLimit(ctx context.Context) (*RateLimits, error) {
	var data apiRateLimit
	if err := c.Get(ctx, c.baseURL+"/rate_limit", &data); err != nil {
		return nil, fmt.Errorf("fetch rate limit: %w", err)
	}
	return &RateLimits{
		Core:   toQuota(data.Resources.Core),
		Search: toQuota(data.Resources.Search),
	}, nil
}

func toQuota(q apiQuota) Quota {
	return Quota{Limit: q.Limit, Remaining: q.Remaining, Reset: time.Unix(q.Reset, 0)}
}

func toDeveloper(u apiUser) *Developer {
	d := &Developer{
		Login:       u.Login,
		Name:        u.Name,
		AvatarURL:   u.AvatarURL,
		Bio:         u.Bio,
		Location:    u.Location,
		Blog:        u.Blog,
		PublicRepos: u.PublicRepos,
		Followers:   u.Followers,
		Following:   u.Following,
		CreatedAt:   u.CreatedAt,
		ProfileURL:  u.HTMLURL,
	}
	if d.Name == "" {
		d.Name = d.Login
	}
	if d.Bio == "" {
		d.Bio = "No bio"
	}
	if d.Location == "" {
		d.Location = "Not specified"
	}
	return d
}
