// Package session stores the GitHub credential the CLI authenticates with.
//
// `devpulse auth login` verifies a personal access token against
// GET /user and saves it, together with the user it belongs to, in a
// [FileStore]. Later commands pick the token up when neither --token nor
// GITHUB_TOKEN is set.
//
//	store, err := session.NewFileStore("") // ~/.config/devpulse/session.json
//	sess := session.New(token, user, session.DefaultTTL)
//	if err := store.Save(ctx, sess); err != nil {
//	    return err
//	}
//
// Sessions expire; an expired session is removed on read and reported as
// absent.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/devpulse/pkg/integrations/github"
)

// ErrNotFound is returned by Load when no valid session is stored.
var ErrNotFound = errors.New("no stored session")

// DefaultTTL is how long a stored token is trusted before re-login.
const DefaultTTL = 90 * 24 * time.Hour

// Session is a stored credential.
type Session struct {
	ID          string       `json:"id"`
	AccessToken string       `json:"access_token"`
	User        *github.User `json:"user,omitempty"`
	ExpiresAt   time.Time    `json:"expires_at"`
	CreatedAt   time.Time    `json:"created_at"`
}

// New creates a session for token, valid for ttl.
func New(token string, user *github.User, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:          uuid.NewString(),
		AccessToken: token,
		User:        user,
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Login returns the GitHub login of the session's user, or "" if unknown.
func (s *Session) Login() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Login
}

// Store persists a single session.
type Store interface {
	// Load returns the stored session, or ErrNotFound if there is none or
	// it has expired.
	Load(ctx context.Context) (*Session, error)

	// Save replaces the stored session.
	Save(ctx context.Context, sess *Session) error

	// Delete removes the stored session. Deleting a missing session is not an error.
	Delete(ctx context.Context) error
}
