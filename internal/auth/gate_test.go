// ABOUTME: Tests for API key extraction and gate validation
// ABOUTME: Covers header case-insensitivity, store consultation rules, and error classes

package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"
)

// fakeValidator implements store.Validator for gate tests.
type fakeValidator struct {
	valid map[string]bool
	err   error
	calls int
}

func (f *fakeValidator) IsValid(_ context.Context, candidate string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.valid[candidate], nil
}

func TestExtractAPIKey_NilHeaders(t *testing.T) {
	_, err := ExtractAPIKey(nil)
	if !errors.Is(err, ErrMalformedRequest) {
		t.Errorf("expected ErrMalformedRequest, got %v", err)
	}
}

func TestExtractAPIKey_MissingHeader(t *testing.T) {
	_, err := ExtractAPIKey(http.Header{})
	if !errors.Is(err, ErrMissingKey) {
		t.Errorf("expected ErrMissingKey, got %v", err)
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Error("missing key should be an ErrUnauthorized")
	}
}

func TestExtractAPIKey_EmptyValue(t *testing.T) {
	h := http.Header{}
	h.Set(APIKeyHeader, "")

	_, err := ExtractAPIKey(h)
	if !errors.Is(err, ErrMissingKey) {
		t.Errorf("expected ErrMissingKey, got %v", err)
	}
}

func TestExtractAPIKey_CaseInsensitive(t *testing.T) {
	for _, name := range []string{"X-API-Key", "x-api-key", "X-API-KEY", "x-Api-kEy"} {
		h := http.Header{}
		h.Set(name, "credential-1")

		got, err := ExtractAPIKey(h)
		if err != nil {
			t.Errorf("header %q: unexpected error: %v", name, err)
			continue
		}
		if got != "credential-1" {
			t.Errorf("header %q: got %q, want %q", name, got, "credential-1")
		}
	}
}

func TestExtractAPIKey_NonCanonicalMapKey(t *testing.T) {
	// A hand-built map can bypass http.Header.Set canonicalization.
	h := http.Header{"x-api-key": []string{"credential-2"}}

	got, err := ExtractAPIKey(h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "credential-2" {
		t.Errorf("got %q, want %q", got, "credential-2")
	}
}

func TestGateCheck_ValidKey(t *testing.T) {
	keys := &fakeValidator{valid: map[string]bool{"good-key": true}}
	gate := NewGate(keys, slog.New(&httpTestLogHandler{}))

	h := http.Header{}
	h.Set(APIKeyHeader, "good-key")

	if err := gate.Check(context.Background(), h); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if keys.calls != 1 {
		t.Errorf("expected exactly 1 store lookup, got %d", keys.calls)
	}
}

func TestGateCheck_MissingKeySkipsStore(t *testing.T) {
	keys := &fakeValidator{}
	gate := NewGate(keys, slog.New(&httpTestLogHandler{}))

	err := gate.Check(context.Background(), http.Header{})
	if !errors.Is(err, ErrMissingKey) {
		t.Errorf("expected ErrMissingKey, got %v", err)
	}
	if keys.calls != 0 {
		t.Errorf("store should not be consulted for a missing key, got %d calls", keys.calls)
	}
}

func TestGateCheck_InvalidKey(t *testing.T) {
	keys := &fakeValidator{valid: map[string]bool{}}
	gate := NewGate(keys, slog.New(&httpTestLogHandler{}))

	h := http.Header{}
	h.Set(APIKeyHeader, "wrong")

	err := gate.Check(context.Background(), h)
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Error("invalid key should be an ErrUnauthorized")
	}
}

func TestGateCheck_StoreError(t *testing.T) {
	keys := &fakeValidator{err: errors.New("disk I/O error")}
	gate := NewGate(keys, slog.New(&httpTestLogHandler{}))

	h := http.Header{}
	h.Set(APIKeyHeader, "any")

	err := gate.Check(context.Background(), h)
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable, got %v", err)
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("a store fault must not read as a credential rejection")
	}
}

func TestGateCheck_NeverLogsCredential(t *testing.T) {
	const secret = "super-secret-credential-value"

	keys := &fakeValidator{err: errors.New("lookup exploded")}
	capture := &httpTestLogHandler{}
	gate := NewGate(keys, slog.New(capture))

	h := http.Header{}
	h.Set(APIKeyHeader, secret)

	// Store-error path
	_ = gate.Check(context.Background(), h)

	// Invalid-key path
	keys.err = nil
	keys.valid = map[string]bool{}
	_ = gate.Check(context.Background(), h)

	if capture.anyRecordContains(secret) {
		t.Error("credential value leaked into a log record")
	}
	if !capture.hasRecordWithReason("store_error") {
		t.Error("expected a record with reason store_error")
	}
	if !capture.hasRecordWithReason("invalid_key") {
		t.Error("expected a record with reason invalid_key")
	}
}
