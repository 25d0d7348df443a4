package handler

// Every response from this API shares one envelope: successes carry
// {"ok":true, ...} and errors carry {"ok":false, "message":"..."}.
// The helpers below keep that shape consistent across handlers and map
// domain errors to HTTP status codes in exactly one place.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sevillaa/Travel-bros/internal/apperror"
)

type errorResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code.
// Headers must be set before the first body write, hence the order here.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent at this point; logging is all we can do.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status code and sends the
// error envelope. The service layer returns apperror sentinels and stays
// HTTP-agnostic; the translation happens only here.
//
// LimitExceeded and DuplicateEmail both map to 400 rather than 409: the
// API contract treats them as bad requests the client can correct.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation),
			errors.Is(err, apperror.ErrLimitExceeded),
			errors.Is(err, apperror.ErrDuplicateEmail):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Message: appErr.Message})
		return
	}

	// Unknown error: never leak internals to the client.
	writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "an internal error occurred"})
}
