// ABOUTME: API key operations: bootstrap, membership lookup, insertion, revocation
// ABOUTME: Credential values never appear in logs or key_events, only row ids

package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"fmt"
)

// keyEntropyBytes is the entropy of a generated credential (256 bits).
const keyEntropyBytes = 32

// bootstrapKeyID is the fixed row id of the default key. Bootstrap races
// across processes serialize on this primary key: every contender inserts
// id 1, exactly one insert commits.
const bootstrapKeyID = 1

// NewKeyValue returns a fresh random credential: 256 bits from crypto/rand,
// base64url without padding. It does not touch any store; callers decide
// whether the value gets persisted.
func NewKeyValue() (string, error) {
	buf := make([]byte, keyEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// EnsureDefaultKey generates and stores a default API key if the store holds
// no keys at all. The plaintext credential is returned exactly once, by the
// call that created it; every other call returns "". The caller is
// responsible for surfacing the value; it is never logged here.
func (s *SQLiteStore) EnsureDefaultKey(ctx context.Context) (string, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM api_keys`).Scan(&count); err != nil {
		return "", fmt.Errorf("counting api keys: %w", err)
	}
	if count > 0 {
		return "", nil
	}

	value, err := NewKeyValue()
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO api_keys (id, key) VALUES (?, ?)`,
		bootstrapKeyID, value,
	)
	if err != nil {
		if isConstraintViolation(err) {
			// Lost a concurrent bootstrap: another process inserted the
			// default key between our count and insert. Defer to it.
			var n int
			if checkErr := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM api_keys`).Scan(&n); checkErr != nil {
				return "", fmt.Errorf("re-checking api keys: %w", checkErr)
			}
			if n > 0 {
				return "", nil
			}
		}
		return "", fmt.Errorf("inserting default key: %w", err)
	}

	s.logger.Info("generated default API key", "key_id", bootstrapKeyID)

	keyID := int64(bootstrapKeyID)
	event := &KeyEvent{
		Action: KeyEventBootstrap,
		KeyID:  &keyID,
		Actor:  ActorServer,
	}
	if err := s.AppendKeyEvent(ctx, event); err != nil {
		// The key row is committed and the value is about to be surfaced
		// for the only time. A lost audit row must not burn it.
		s.logger.Warn("recording bootstrap event failed", "error", err)
	}

	return value, nil
}

// IsValid reports whether candidate exactly matches a stored API key.
// The empty string is never valid and is rejected without touching the
// database. Every other lookup reads committed state fresh: a revoked key
// fails the very next call, there is no cache window.
func (s *SQLiteStore) IsValid(ctx context.Context, candidate string) (bool, error) {
	if candidate == "" {
		return false, nil
	}

	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM api_keys WHERE key = ?`, candidate).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying api key: %w", err)
	}
	return true, nil
}

// AddKey inserts an operator-supplied key value.
// Returns ErrDuplicateKey if the value is already stored.
func (s *SQLiteStore) AddKey(ctx context.Context, value string) (*APIKey, error) {
	if value == "" {
		return nil, fmt.Errorf("api key value must not be empty")
	}

	result, err := s.db.ExecContext(ctx, `INSERT INTO api_keys (key) VALUES (?)`, value)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("inserting api key: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading inserted key id: %w", err)
	}

	s.logger.Info("added API key", "key_id", id)
	return &APIKey{ID: id, Key: value}, nil
}

// GenerateKey creates a random credential and stores it, returning the
// record and the plaintext value for one-time display.
func (s *SQLiteStore) GenerateKey(ctx context.Context) (*APIKey, string, error) {
	value, err := NewKeyValue()
	if err != nil {
		return nil, "", err
	}

	key, err := s.AddKey(ctx, value)
	if err != nil {
		return nil, "", err
	}
	return key, value, nil
}

// ListKeys returns all stored keys in insertion order (ascending id).
func (s *SQLiteStore) ListKeys(ctx context.Context) ([]*APIKey, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, key FROM api_keys ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying api keys: %w", err)
	}
	defer rows.Close()

	var keys []*APIKey
	for rows.Next() {
		var k APIKey
		if err := rows.Scan(&k.ID, &k.Key); err != nil {
			return nil, fmt.Errorf("scanning api key row: %w", err)
		}
		keys = append(keys, &k)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating api key rows: %w", err)
	}
	return keys, nil
}

// RevokeKey deletes the key with the given id. The delete is visible to the
// next IsValid call immediately.
// Returns ErrNotFound if no key has that id.
func (s *SQLiteStore) RevokeKey(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting api key: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Info("revoked API key", "key_id", id)
	return nil
}

// RedactKey shortens a credential for display in listings.
// Full values never appear in logs or tables.
func RedactKey(value string) string {
	const visible = 8
	if len(value) > visible {
		return value[:visible] + "..."
	}
	return value + "..."
}
