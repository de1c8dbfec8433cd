package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/stock-ledger-backend/internal/api/middleware"
	"github.com/ndewijer/stock-ledger-backend/internal/api/response"
	"github.com/ndewijer/stock-ledger-backend/internal/validation"
)

// maxBodyBytes caps request bodies read by parseJSON.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into a T.
// Unknown fields are ignored so older clients keep working.
func parseJSON[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var req T
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("invalid request body: %w", err)
	}
	return req, nil
}

// respondValidation writes a 400 with per-field details when err is a
// *validation.Error and reports whether it did.
func respondValidation(w http.ResponseWriter, err error) bool {
	var verr *validation.Error
	if !errors.As(err, &verr) {
		return false
	}
	response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
	return true
}

// respondInternal logs err and writes a 500 carrying only message.
func respondInternal(w http.ResponseWriter, r *http.Request, message string, err error) {
	log.Error().
		Err(err).
		Str("user_id", middleware.UserIDFromContext(r.Context())).
		Str("path", r.URL.Path).
		Msg(message)
	response.RespondError(w, http.StatusInternalServerError, message, "")
}
