package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/matzehuels/devpulse/pkg/errors"
	"github.com/matzehuels/devpulse/pkg/integrations"
	"github.com/matzehuels/devpulse/pkg/integrations/github"
	"github.com/matzehuels/devpulse/pkg/popularity"
	"github.com/matzehuels/devpulse/pkg/store"
)

type fakeSource struct {
	mu         sync.Mutex
	thresholds []int
	counts     map[string]int
	countErr   map[string]error
	repos      []github.Repository
	trendErr   error
	lastTrend  github.TrendingQuery
	users      map[string]*github.Developer
}

func (f *fakeSource) CountRepositories(_ context.Context, q popularity.Query) (int, error) {
	f.mu.Lock()
	f.thresholds = append(f.thresholds, q.MinimumStars)
	f.mu.Unlock()
	if err := f.countErr[q.Language]; err != nil {
		return 0, err
	}
	return f.counts[q.Language], nil
}

func (f *fakeSource) SearchTrending(_ context.Context, q github.TrendingQuery) ([]github.Repository, error) {
	f.lastTrend = q
	return f.repos, f.trendErr
}

func (f *fakeSource) FetchUser(_ context.Context, login string) (*github.Developer, error) {
	if d, ok := f.users[login]; ok {
		return d, nil
	}
	return nil, pkgerrors.Wrap(pkgerrors.ErrCodeUserNotFound, integrations.ErrNotFound, "Developer %q not found", login)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T, src *fakeSource) (*Server, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore(10)
	s, err := NewServer(Options{Source: src, Store: mem, Logger: log.New(io.Discard)})
	require.NoError(t, err)
	return s, mem
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, &fakeSource{})
	rec, _ := get(t, s.Handler(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestLanguages(t *testing.T) {
	src := &fakeSource{counts: map[string]int{"Go": 500, "Rust": 1500}}
	s, mem := newTestServer(t, src)

	rec, env := get(t, s.Handler(), "/api/languages?lang=Go&lang=Rust")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var results []popularity.LanguagePopularity
	require.NoError(t, json.Unmarshal(env.Data, &results))
	assert.Equal(t, []popularity.LanguagePopularity{
		{Language: "Rust", RepositoryCount: 1500, PercentageShare: 75},
		{Language: "Go", RepositoryCount: 500, PercentageShare: 25},
	}, results)

	assert.Equal(t, 1, mem.Len(), "successful run should be recorded")
	latest, err := mem.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust"}, latest.Languages)
	assert.Equal(t, 100, latest.MinStars)
}

func TestLanguagesCommaSeparated(t *testing.T) {
	src := &fakeSource{counts: map[string]int{"Go": 1, "Zig": 1}}
	s, _ := newTestServer(t, src)

	rec, env := get(t, s.Handler(), "/api/languages?lang=Go,%20Zig&min_stars=10")
	require.Equal(t, http.StatusOK, rec.Code)

	var results []popularity.LanguagePopularity
	require.NoError(t, json.Unmarshal(env.Data, &results))
	assert.Equal(t, "Go", results[0].Language)
	assert.Equal(t, "Zig", results[1].Language)
}

func TestLanguagesFailure(t *testing.T) {
	src := &fakeSource{
		counts:   map[string]int{"Go": 500},
		countErr: map[string]error{"Rust": errors.New("connection reset")},
	}
	s, mem := newTestServer(t, src)

	rec, env := get(t, s.Handler(), "/api/languages?lang=Go&lang=Rust")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "FETCH_FAILED", env.Code)
	assert.Equal(t, "failed to fetch language statistics", env.Message)
	assert.Empty(t, env.Data)
	assert.Zero(t, mem.Len(), "failed run must not be recorded")
}

func TestLanguagesRateLimited(t *testing.T) {
	src := &fakeSource{countErr: map[string]error{"Go": &pkgerrors.RateLimitedError{RetryAfter: 42}}}
	s, _ := newTestServer(t, src)

	rec, env := get(t, s.Handler(), "/api/languages?lang=Go")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "FETCH_FAILED", env.Code)
	assert.Equal(t, "42", rec.Header().Get("Retry-After"))
}

func TestLanguagesZeroMinStarsRecordsDefault(t *testing.T) {
	src := &fakeSource{counts: map[string]int{"Go": 3, "Rust": 1}}
	s, mem := newTestServer(t, src)

	rec, _ := get(t, s.Handler(), "/api/languages?lang=Go&lang=Rust&min_stars=0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{popularity.DefaultMinimumStars, popularity.DefaultMinimumStars}, src.thresholds)

	latest, err := mem.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, popularity.DefaultMinimumStars, latest.MinStars)
}

func TestLanguagesBadInput(t *testing.T) {
	s, _ := newTestServer(t, &fakeSource{})

	tests := []struct {
		target string
		code   string
	}{
		{"/api/languages?lang=Go&lang=go", "INVALID_LANGUAGE"},
		{"/api/languages?lang=Go&min_stars=abc", "INVALID_INPUT"},
		{"/api/languages?lang=Go&min_stars=-5", "INVALID_INPUT"},
		{"/api/languages?lang=a,b,c,d,e,f,g,h,i,j,k,l,m,n,o,p,q,r,s,t,u", "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec, env := get(t, s.Handler(), tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, env.Code)
		})
	}
}

func TestHistoryAndLatest(t *testing.T) {
	src := &fakeSource{counts: map[string]int{"Go": 3, "Rust": 1}}
	s, _ := newTestServer(t, src)
	h := s.Handler()

	rec, env := get(t, h, "/api/languages/latest")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Code)

	rec, env = get(t, h, "/api/languages/history")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", string(env.Data))

	get(t, h, "/api/languages?lang=Go")
	get(t, h, "/api/languages?lang=Go&lang=Rust")

	rec, env = get(t, h, "/api/languages/history?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	var snaps []store.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snaps))
	require.Len(t, snaps, 2)
	assert.Equal(t, []string{"Go", "Rust"}, snaps[0].Languages, "newest first")

	rec, env = get(t, h, "/api/languages/latest")
	require.Equal(t, http.StatusOK, rec.Code)
	var latest store.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &latest))
	assert.Equal(t, snaps[0].ID, latest.ID)

	rec, _ = get(t, h, "/api/languages/history?limit=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrending(t *testing.T) {
	src := &fakeSource{repos: []github.Repository{{FullName: "golang/go", Stars: 120000}}}
	s, _ := newTestServer(t, src)

	rec, env := get(t, s.Handler(), "/api/trending?language=go&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	var repos []github.Repository
	require.NoError(t, json.Unmarshal(env.Data, &repos))
	assert.Equal(t, "golang/go", repos[0].FullName)
	assert.Equal(t, github.TrendingQuery{Language: "go", MinStars: 1000, PerPage: 5}, src.lastTrend)

	rec, _ = get(t, s.Handler(), "/api/trending?limit=500")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrendingErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"rate limited", &pkgerrors.RateLimitedError{RetryAfter: 7}, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"network", integrations.ErrNetwork, http.StatusBadGateway, "NETWORK_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, &fakeSource{trendErr: tt.err})
			rec, env := get(t, s.Handler(), "/api/trending")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, env.Code)
			assert.NotContains(t, env.Message, "boom", "internal details must not leak")
		})
	}
}

func TestDeveloper(t *testing.T) {
	src := &fakeSource{users: map[string]*github.Developer{
		"octocat": {Login: "octocat", Name: "The Octocat"},
	}}
	s, _ := newTestServer(t, src)
	h := s.Handler()

	rec, env := get(t, h, "/api/developers/octocat")
	require.Equal(t, http.StatusOK, rec.Code)
	var dev github.Developer
	require.NoError(t, json.Unmarshal(env.Data, &dev))
	assert.Equal(t, "The Octocat", dev.Name)

	rec, env = get(t, h, "/api/developers/nobody-here")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "USER_NOT_FOUND", env.Code)
	assert.Equal(t, `Developer "nobody-here" not found`, env.Message)

	rec, env = get(t, h, "/api/developers/-bad-")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_USERNAME", env.Code)
}

func TestUnknownRoute(t *testing.T) {
	s, _ := newTestServer(t, &fakeSource{})
	rec, env := get(t, s.Handler(), "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestNewServerRequiresSource(t *testing.T) {
	_, err := NewServer(Options{})
	assert.Error(t, err)
}
