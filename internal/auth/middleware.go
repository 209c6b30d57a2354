// ABOUTME: HTTP middleware adapter for the API key gate
// ABOUTME: Maps gate errors to 401/503 JSON responses; valid requests pass through once

package auth

import (
	"errors"
	"net/http"
)

// Middleware wraps next with API key enforcement. The continuation runs
// exactly once, only for validated requests, and its response is passed
// through untouched.
func Middleware(gate *Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := gate.Check(r.Context(), r.Header); err != nil {
				msg, status := authErrorResponse(err)
				http.Error(w, `{"error":"`+msg+`"}`, status)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// authErrorResponse maps a gate error to a caller-visible message and HTTP
// status. Storage faults stay generic: operator detail is already logged,
// and response bodies carry no paths or driver text.
func authErrorResponse(err error) (string, int) {
	switch {
	case errors.Is(err, ErrStorageUnavailable):
		return "service unavailable", http.StatusServiceUnavailable
	case errors.Is(err, ErrMissingKey), errors.Is(err, ErrMalformedRequest):
		return "missing API key", http.StatusUnauthorized
	default:
		return "invalid API key", http.StatusUnauthorized
	}
}
