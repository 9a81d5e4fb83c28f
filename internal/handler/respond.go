// Package handler provides the HTTP endpoints of the token facade.
package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"tokend/pkg/errors"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeBody parses a JSON request body into dst, capping its size and
// refusing unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return errors.Wrap(errors.ErrMissingField, "request body is required")
		}
		return errors.Wrap(errors.ErrMissingField, "invalid request body")
	}
	return nil
}

// statusFromError maps the facade's error taxonomy onto HTTP status codes:
// 400 validation, 404 account problems, 504 ledger timeout, 500 everything
// else. Auth refusals never reach here; the session gate writes its own
// 401s.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, errors.ErrMissingField),
		errors.Is(err, errors.ErrInvalidAmount),
		errors.Is(err, errors.ErrInvalidTrustValue),
		errors.Is(err, errors.ErrInvalidAction),
		errors.Is(err, errors.ErrInvalidAddress),
		errors.Is(err, errors.ErrInsufficientBalance):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrAccountNotFound),
		errors.Is(err, errors.ErrAccountMalformed):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrLedgerTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
