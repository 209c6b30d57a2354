// ABOUTME: Key event entity and store methods for the administrative audit trail
// ABOUTME: Records bootstrap/add/revoke actions by key id, never by key value

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// KeyEventAction represents an auditable key management action.
type KeyEventAction string

const (
	KeyEventBootstrap KeyEventAction = "bootstrap_key"
	KeyEventAdd       KeyEventAction = "add_key"
	KeyEventRevoke    KeyEventAction = "revoke_key"
)

// Actor values for key events.
const (
	ActorServer   = "server"
	ActorAdminCLI = "admin-cli"
)

// KeyEvent represents a single key management audit entry.
type KeyEvent struct {
	ID        string         // UUID v4
	Action    KeyEventAction // what was done
	KeyID     *int64         // api_keys.id, never the key value
	Actor     string         // "server" or "admin-cli"
	Timestamp time.Time      // when it happened
	Detail    map[string]any // additional context
}

// AppendKeyEvent appends a new entry to the key event log.
// Generates ID and Timestamp if not set.
func (s *SQLiteStore) AppendKeyEvent(ctx context.Context, e *KeyEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	var detailJSON *string
	if e.Detail != nil {
		data, err := json.Marshal(e.Detail)
		if err != nil {
			return fmt.Errorf("marshaling event detail: %w", err)
		}
		str := string(data)
		detailJSON = &str
	}

	query := `
		INSERT INTO key_events (event_id, action, key_id, actor, ts, detail_json)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.Action,
		e.KeyID,
		e.Actor,
		e.Timestamp.UTC().Format(time.RFC3339),
		detailJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting key event: %w", err)
	}

	s.logger.Debug("appended key event", "id", e.ID, "action", e.Action, "actor", e.Actor)
	return nil
}

// normalizeEventLimit applies default (100) and cap (1000) to the list limit.
func normalizeEventLimit(limit int) int {
	switch {
	case limit <= 0:
		return 100
	case limit > 1000:
		return 1000
	default:
		return limit
	}
}

// ListKeyEvents returns the most recent key events, newest first.
func (s *SQLiteStore) ListKeyEvents(ctx context.Context, limit int) ([]*KeyEvent, error) {
	query := `
		SELECT event_id, action, key_id, actor, ts, detail_json
		FROM key_events
		ORDER BY ts DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, normalizeEventLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying key events: %w", err)
	}
	defer rows.Close()

	var events []*KeyEvent
	for rows.Next() {
		var e KeyEvent
		var actionStr, tsStr string
		var keyID sql.NullInt64
		var detailJSON *string

		if err := rows.Scan(&e.ID, &actionStr, &keyID, &e.Actor, &tsStr, &detailJSON); err != nil {
			return nil, fmt.Errorf("scanning key event row: %w", err)
		}

		e.Action = KeyEventAction(actionStr)
		e.Timestamp, err = time.Parse(time.RFC3339, tsStr)
		if err != nil {
			return nil, fmt.Errorf("parsing event timestamp: %w", err)
		}
		if keyID.Valid {
			e.KeyID = &keyID.Int64
		}
		if detailJSON != nil {
			if err := json.Unmarshal([]byte(*detailJSON), &e.Detail); err != nil {
				return nil, fmt.Errorf("unmarshaling event detail: %w", err)
			}
		}

		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating key event rows: %w", err)
	}
	return events, nil
}
