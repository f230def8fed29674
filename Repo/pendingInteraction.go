package Repo

import (
	"context"
	"fmt"

	"chat-summariser/Models"
)

const (
	roomIDKey   = "roomId"
	threadIDKey = "threadId"
)

// PendingStore is the per user key/value storage behind the modal flow.
type PendingStore interface {
	EnsureSchema(ctx context.Context) error
	Clear(ctx context.Context, userID, key string) error
	Store(ctx context.Context, userID, key, value string) error
	Get(ctx context.Context, userID, key string) (string, bool, error)
	Close() error
}

// SavePendingInteraction replaces whatever the user had pending. The thread
// key is only written when the action came from a thread.
func SavePendingInteraction(ctx context.Context, store PendingStore, userID string, pending Models.PendingInteraction) error {
	if clearError := ClearPendingInteraction(ctx, store, userID); clearError != nil {
		return clearError
	}

	if storeError := store.Store(ctx, userID, roomIDKey, pending.RoomID); storeError != nil {
		return fmt.Errorf("store %s for %s: %w", roomIDKey, userID, storeError)
	}
	if pending.ThreadID != "" {
		if storeError := store.Store(ctx, userID, threadIDKey, pending.ThreadID); storeError != nil {
			return fmt.Errorf("store %s for %s: %w", threadIDKey, userID, storeError)
		}
	}
	return nil
}

// LoadPendingInteraction reads the user's pending interaction. It is absent
// when no room was stored.
func LoadPendingInteraction(ctx context.Context, store PendingStore, userID string) (Models.PendingInteraction, bool, error) {
	roomID, found, getError := store.Get(ctx, userID, roomIDKey)
	if getError != nil {
		return Models.PendingInteraction{}, false, fmt.Errorf("get %s for %s: %w", roomIDKey, userID, getError)
	}
	if !found {
		return Models.PendingInteraction{}, false, nil
	}

	threadID, _, getError := store.Get(ctx, userID, threadIDKey)
	if getError != nil {
		return Models.PendingInteraction{}, false, fmt.Errorf("get %s for %s: %w", threadIDKey, userID, getError)
	}
	return Models.PendingInteraction{RoomID: roomID, ThreadID: threadID}, true, nil
}

func ClearPendingInteraction(ctx context.Context, store PendingStore, userID string) error {
	for _, key := range []string{roomIDKey, threadIDKey} {
		if clearError := store.Clear(ctx, userID, key); clearError != nil {
			return fmt.Errorf("clear %s for %s: %w", key, userID, clearError)
		}
	}
	return nil
}
