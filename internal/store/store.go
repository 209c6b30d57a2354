// ABOUTME: Store interface and data types for keygate persistence
// ABOUTME: Defines APIKey, the KeyStore interface, and the Validator lookup surface

package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateKey is returned when trying to insert an API key value that already exists
var ErrDuplicateKey = errors.New("api key already exists")

// APIKey represents a stored API key. The credential value is stored in
// plain text: this service is a demo-scale shared-secret gate and the store
// is the trust boundary. The hardening path is a salted hash column plus a
// constant-time compare in IsValid; nothing in the interfaces below assumes
// plaintext storage.
type APIKey struct {
	ID  int64
	Key string
}

// Validator is the lookup surface the auth gate depends on.
// Implemented by SQLiteStore and by test fakes.
type Validator interface {
	// IsValid reports whether candidate exactly matches a stored key.
	// The empty string is never valid. A non-nil error means the store
	// could not be consulted, not that the key is invalid.
	IsValid(ctx context.Context, candidate string) (bool, error)
}

// KeyStore defines the full persistence surface for API key management
type KeyStore interface {
	Validator

	// Bootstrap: generate and store a default key on first start
	EnsureDefaultKey(ctx context.Context) (string, error)

	// Key management
	AddKey(ctx context.Context, value string) (*APIKey, error)
	GenerateKey(ctx context.Context) (*APIKey, string, error)
	ListKeys(ctx context.Context) ([]*APIKey, error)
	RevokeKey(ctx context.Context, id int64) error

	// Audit trail
	AppendKeyEvent(ctx context.Context, e *KeyEvent) error
	ListKeyEvents(ctx context.Context, limit int) ([]*KeyEvent, error)

	// Close releases the underlying database connection
	Close() error
}
