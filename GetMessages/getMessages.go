package GetMessages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"chat-summariser/Models"
)

var ErrThreadNotFound = errors.New("thread not found")

// MessageReader is the read side of the host platform.
type MessageReader interface {
	// RoomMessages returns at most limit of the latest messages of a room,
	// sorted by increasing creation time.
	RoomMessages(ctx context.Context, roomID string, limit int) ([]Models.Message, error)
	// ThreadMessages returns the thread anchor followed by every message of
	// the thread, root first. An unknown thread yields an empty slice.
	ThreadMessages(ctx context.Context, roomID, threadID string) ([]Models.Message, error)
}

type Fetcher struct {
	reader MessageReader
}

func NewFetcher(reader MessageReader) *Fetcher {
	return &Fetcher{reader: reader}
}

// FetchRoomMessages applies the unread bound at fetch time: a zero cap means
// the default page of MaxMessages.
func (f *Fetcher) FetchRoomMessages(ctx context.Context, room Models.Room, unreadCap int) ([]Models.Message, error) {
	limit := Models.MaxMessages
	if capped := Models.CapUnread(unreadCap); capped > 0 {
		limit = capped
	}

	messages, roomMessagesError := f.reader.RoomMessages(ctx, room.ID, limit)
	if roomMessagesError != nil {
		slog.Error("GetMessages:FetchRoomMessages#Error while fetching the room messages", "roomId", room.ID, "error", roomMessagesError)
		return nil, fmt.Errorf("fetch room messages: %w", roomMessagesError)
	}

	// the host should honour the limit, but we never hand more than that downstream
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

// FetchThreadMessages returns the raw thread listing, anchor included.
func (f *Fetcher) FetchThreadMessages(ctx context.Context, room Models.Room, threadID string) ([]Models.Message, error) {
	messages, threadMessagesError := f.reader.ThreadMessages(ctx, room.ID, threadID)
	if threadMessagesError != nil {
		slog.Error("GetMessages:FetchThreadMessages#Error while fetching the thread messages", "roomId", room.ID, "threadId", threadID, "error", threadMessagesError)
		return nil, fmt.Errorf("fetch thread messages: %w", threadMessagesError)
	}

	if len(messages) == 0 {
		return nil, fmt.Errorf("thread %s: %w", threadID, ErrThreadNotFound)
	}
	return messages, nil
}
