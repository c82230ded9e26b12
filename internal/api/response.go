package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	pkgerrors "github.com/matzehuels/devpulse/pkg/errors"
	"github.com/matzehuels/devpulse/pkg/integrations"
)

// Response is the JSON envelope of every /api response.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func sendSuccess(w http.ResponseWriter, data any) {
	sendJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func sendMessage(w http.ResponseWriter, status int, code, message string) {
	sendJSON(w, status, Response{Success: false, Message: message, Code: code})
}

// sendError maps err to a status code and a user-facing message. Internal
// details stay in the log.
func sendError(w http.ResponseWriter, err error) {
	code := pkgerrors.GetCode(err)
	if code == "" {
		switch {
		case errors.Is(err, integrations.ErrNotFound):
			err = pkgerrors.Wrap(pkgerrors.ErrCodeNotFound, err, "not found")
		case errors.Is(err, integrations.ErrNetwork):
			err = pkgerrors.Wrap(pkgerrors.ErrCodeNetwork, err, "upstream request failed")
		default:
			err = pkgerrors.Wrap(pkgerrors.ErrCodeInternal, err, "internal server error")
		}
		code = pkgerrors.GetCode(err)
	}

	// A rate limit under FETCH_FAILED keeps its code but answers 429.
	status := pkgerrors.HTTPStatus(err)
	var rl *pkgerrors.RateLimitedError
	if errors.As(err, &rl) {
		status = http.StatusTooManyRequests
		if rl.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter))
		}
	}
	sendMessage(w, status, string(code), pkgerrors.UserMessage(err))
}
