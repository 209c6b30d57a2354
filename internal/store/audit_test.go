// ABOUTME: Tests for key event audit trail operations
// ABOUTME: Covers Append and List ordering/limits for the key_events table

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyEvents_Append(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	keyID := int64(7)
	event := &KeyEvent{
		Action: KeyEventAdd,
		KeyID:  &keyID,
		Actor:  ActorAdminCLI,
	}

	err := store.AppendKeyEvent(ctx, event)
	require.NoError(t, err)

	// Should have generated ID and timestamp
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.Timestamp.IsZero())
}

func TestKeyEvents_List_NewestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	actions := []KeyEventAction{KeyEventBootstrap, KeyEventAdd, KeyEventRevoke}
	for i, action := range actions {
		event := &KeyEvent{
			Action:    action,
			Actor:     ActorAdminCLI,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.AppendKeyEvent(ctx, event))
	}

	events, err := store.ListKeyEvents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, KeyEventRevoke, events[0].Action)
	assert.Equal(t, KeyEventBootstrap, events[2].Action)
}

func TestKeyEvents_List_Limit(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		event := &KeyEvent{
			Action:    KeyEventAdd,
			Actor:     ActorAdminCLI,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, store.AppendKeyEvent(ctx, event))
	}

	events, err := store.ListKeyEvents(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestKeyEvents_Detail(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	keyID := int64(3)
	event := &KeyEvent{
		Action: KeyEventRevoke,
		KeyID:  &keyID,
		Actor:  ActorAdminCLI,
		Detail: map[string]any{"reason": "leaked in CI logs"},
	}
	require.NoError(t, store.AppendKeyEvent(ctx, event))

	events, err := store.ListKeyEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	got := events[0]
	require.NotNil(t, got.KeyID)
	assert.Equal(t, int64(3), *got.KeyID)
	assert.Equal(t, "leaked in CI logs", got.Detail["reason"])
}

func TestKeyEvents_NoKeyID(t *testing.T) {
	// Events may outlive their key rows; key_id is nullable.
	store := setupTestStore(t)
	ctx := context.Background()

	event := &KeyEvent{
		Action: KeyEventRevoke,
		Actor:  ActorAdminCLI,
	}
	require.NoError(t, store.AppendKeyEvent(ctx, event))

	events, err := store.ListKeyEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].KeyID)
}
