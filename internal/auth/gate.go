// ABOUTME: API key gate: header extraction and store-backed validation
// ABOUTME: Transport-free core; the HTTP adapter lives in middleware.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/2389/keygate/internal/store"
)

// APIKeyHeader is the request header carrying the credential.
const APIKeyHeader = "X-API-Key"

// ExtractAPIKey pulls the API key out of an explicitly passed header map.
// The header name is case-insensitive: the canonical http.Header lookup
// covers requests read off the wire, and a fold-insensitive scan covers
// maps built by hand with non-canonical keys. A nil map is a malformed
// request; an absent or empty header is a missing key.
func ExtractAPIKey(h http.Header) (string, error) {
	if h == nil {
		return "", ErrMalformedRequest
	}

	if key := h.Get(APIKeyHeader); key != "" {
		return key, nil
	}

	for name, values := range h {
		if strings.EqualFold(name, APIKeyHeader) && len(values) > 0 && values[0] != "" {
			return values[0], nil
		}
	}

	return "", ErrMissingKey
}

// Gate validates request credentials against the key store.
type Gate struct {
	keys   store.Validator
	logger *slog.Logger
}

// NewGate creates a Gate backed by the given validator.
// A nil logger falls back to slog.Default.
func NewGate(keys store.Validator, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		keys:   keys,
		logger: logger.With("component", "auth"),
	}
}

// Check validates the credential carried in h. It returns nil exactly when
// the request may proceed. The store is consulted only when a candidate is
// present, and the candidate value itself is never logged on any path.
func (g *Gate) Check(ctx context.Context, h http.Header) error {
	key, err := ExtractAPIKey(h)
	if err != nil {
		reason := "missing_key"
		if errors.Is(err, ErrMalformedRequest) {
			reason = "malformed_headers"
		}
		g.logger.Warn("auth failure", "reason", reason)
		return err
	}

	ok, err := g.keys.IsValid(ctx, key)
	if err != nil {
		// Operator detail stays in the log; callers get a generic error.
		g.logger.Error("auth failure", "reason", "store_error", "error", err)
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if !ok {
		g.logger.Warn("auth failure", "reason", "invalid_key")
		return ErrInvalidKey
	}

	return nil
}
