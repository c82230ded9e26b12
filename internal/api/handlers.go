package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/matzehuels/devpulse/pkg/errors"
	"github.com/matzehuels/devpulse/pkg/integrations/github"
	"github.com/matzehuels/devpulse/pkg/store"
)

const (
	// maxLanguages caps one ranking request; each language costs a search call.
	maxLanguages = 20

	defaultHistoryLimit = 10
)

// handleLanguages runs the aggregator. Languages come from repeated or
// comma-separated ?lang= parameters, falling back to the configured list.
func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	cfg := s.cfg.PopularityConfig()

	if langs := queryList(r, "lang"); len(langs) > 0 {
		if len(langs) > maxLanguages {
			sendError(w, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "at most %d languages per request", maxLanguages))
			return
		}
		cfg.Languages = langs
	}
	if v := r.URL.Query().Get("min_stars"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			sendError(w, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "min_stars must be a non-negative integer"))
			return
		}
		cfg.MinimumStars = n
	}
	cfg = cfg.WithDefaults()

	results, err := s.agg.Aggregate(r.Context(), s.src, cfg)
	if err != nil {
		s.logger.Warn("aggregation failed", "error", err)
		sendError(w, err)
		return
	}

	snap := store.NewSnapshot(cfg.Languages, cfg.MinimumStars, results)
	if err := s.store.Save(r.Context(), snap); err != nil {
		s.logger.Warn("record snapshot", "error", err)
	}
	sendSuccess(w, results)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > s.cfg.Server.HistoryLimit {
			sendError(w, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "limit must be between 1 and %d", s.cfg.Server.HistoryLimit))
			return
		}
		limit = n
	}

	snaps, err := s.store.List(r.Context(), limit)
	if err != nil {
		sendError(w, err)
		return
	}
	if snaps == nil {
		snaps = []*store.Snapshot{}
	}
	sendSuccess(w, snaps)
}

// handleLatest returns the most recent recorded ranking without querying GitHub.
func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Latest(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		sendError(w, pkgerrors.Wrap(pkgerrors.ErrCodeNotFound, err, "no language ranking recorded yet"))
		return
	}
	if err != nil {
		sendError(w, err)
		return
	}
	sendSuccess(w, snap)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	q := github.TrendingQuery{
		Language: r.URL.Query().Get("language"),
		MinStars: s.cfg.Trending.MinStars,
		PerPage:  s.cfg.Trending.PerPage,
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			sendError(w, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "limit must be between 1 and 100"))
			return
		}
		q.PerPage = n
	}

	repos, err := s.src.SearchTrending(r.Context(), q)
	if err != nil {
		sendError(w, err)
		return
	}
	if repos == nil {
		repos = []github.Repository{}
	}
	sendSuccess(w, repos)
}

func (s *Server) handleDeveloper(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")
	if err := pkgerrors.ValidateUsername(login); err != nil {
		sendError(w, err)
		return
	}

	dev, err := s.src.FetchUser(r.Context(), login)
	if err != nil {
		if !pkgerrors.Is(err, pkgerrors.ErrCodeUserNotFound) {
			s.logger.Warn("fetch developer", "login", login, "error", err)
		}
		sendError(w, err)
		return
	}
	sendSuccess(w, dev)
}

// queryList collects ?key=a&key=b,c into [a b c], dropping blanks.
func queryList(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.URL.Query()[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
