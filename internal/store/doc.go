// Package store provides persistent storage for keygate using SQLite.
//
// # Architecture
//
// Two interfaces split the surface by consumer:
//
//   - Validator: the single lookup the auth gate needs (IsValid)
//   - KeyStore: full key management for the server and the admin CLI
//
// SQLiteStore implements both. The gate depends only on Validator, so tests
// substitute a fake without touching a database.
//
// # Data Models
//
//   - APIKey: a stored credential (row id + plaintext value)
//   - KeyEvent: audit trail entry for bootstrap/add/revoke actions
//
// Key values are stored in plain text; see the APIKey doc comment for the
// hardening path. Key events record row ids only, never the value.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// Database file locations:
//
//   - Default: keygate.db (relative to the working directory)
//   - Override: KEYGATE_DB_PATH env var or database.path config key
//   - Testing: a file under t.TempDir()
//
// # Bootstrap
//
// EnsureDefaultKey seeds an empty store with one generated credential and
// returns the plaintext exactly once. Concurrent first starts race on the
// default key's fixed row id; the losing insert re-checks and yields. No
// in-process lock is involved, so the property holds across processes.
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: Requested entity does not exist
//   - ErrDuplicateKey: API key value already stored
//
// All queries are parameterized; candidate key material is never
// interpolated into SQL text.
package store
