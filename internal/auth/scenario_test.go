// ABOUTME: End-to-end scenario tests for auth using real SQLite
// ABOUTME: Validates the full gate flow without any mocking

package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/2389/keygate/internal/store"
)

func newScenarioStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "scenario.db")
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestScenario_BootstrapValidateRevoke(t *testing.T) {
	s := newScenarioStore(t)
	ctx := context.Background()

	key, err := s.EnsureDefaultKey(ctx)
	if err != nil {
		t.Fatalf("EnsureDefaultKey failed: %v", err)
	}
	if key == "" {
		t.Fatal("expected a bootstrap key")
	}

	gate := NewGate(s, slog.New(&httpTestLogHandler{}))
	handler := Middleware(gate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	do := func(apiKey string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
		if apiKey != "" {
			req.Header.Set(APIKeyHeader, apiKey)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	// Bootstrap key opens the gate
	if rec := do(key); rec.Code != http.StatusOK {
		t.Errorf("bootstrap key: expected 200, got %d", rec.Code)
	}

	// Wrong key is rejected
	if rec := do("wrong-key"); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong key: expected 401, got %d", rec.Code)
	}

	// No key is rejected
	if rec := do(""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no key: expected 401, got %d", rec.Code)
	}

	// Revocation is effective on the very next request
	keys, err := s.ListKeys(ctx)
	if err != nil {
		t.Fatalf("ListKeys failed: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("expected 1 key, got %d", len(keys))
	}
	if err := s.RevokeKey(ctx, keys[0].ID); err != nil {
		t.Fatalf("RevokeKey failed: %v", err)
	}

	if rec := do(key); rec.Code != http.StatusUnauthorized {
		t.Errorf("revoked key: expected 401, got %d", rec.Code)
	}
}

func TestScenario_ExternallyAddedKeyAdmits(t *testing.T) {
	// Keys inserted out of band (the admin CLI path) are honored without
	// any restart: the gate reads committed state on every request.
	s := newScenarioStore(t)
	ctx := context.Background()

	gate := NewGate(s, slog.New(&httpTestLogHandler{}))
	handler := Middleware(gate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set(APIKeyHeader, "operator-key")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("before insert: expected 401, got %d", rec.Code)
	}

	if _, err := s.AddKey(ctx, "operator-key"); err != nil {
		t.Fatalf("AddKey failed: %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set(APIKeyHeader, "operator-key")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("after insert: expected 200, got %d", rec.Code)
	}
}
