package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/staplero/staplero/internal/course"
	"github.com/staplero/staplero/internal/quiz"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Missing int    `json:"missing,omitempty"`
}

// writeError maps domain errors onto the API's status codes: validation
// failures surface the field verbatim for the admin UI, incomplete quiz
// submissions report how many answers are missing.
func writeError(w http.ResponseWriter, err error) {
	var vErr course.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: vErr.Msg, Field: vErr.Field})
		return
	}

	var incomplete quiz.IncompleteError
	if errors.As(err, &incomplete) {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error:   incomplete.Error(),
			Missing: incomplete.Missing,
		})
		return
	}

	if errors.Is(err, course.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}

	slog.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return false
	}
	return true
}
