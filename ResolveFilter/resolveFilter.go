package ResolveFilter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chat-summariser/Models"
)

// UnreadCounter reports how many messages of a room the user has not read.
type UnreadCounter interface {
	UnreadCount(ctx context.Context, roomID, userID string) (int, error)
}

type Resolver struct {
	unread UnreadCounter
	now    func() time.Time
}

func NewResolver(unread UnreadCounter) *Resolver {
	return &Resolver{unread: unread, now: time.Now}
}

// FromCommand resolves the arguments of the slash command. The first token is
// matched case-insensitively against the known keywords; anything else is read
// as a list of usernames, so a misspelled keyword becomes a username filter.
func (r *Resolver) FromCommand(ctx context.Context, room Models.Room, user Models.User, args []string) (Models.Filter, error) {
	if len(args) == 0 {
		return Models.AllFilter(), nil
	}

	keyword := strings.ToLower(args[0])
	switch keyword {
	case "today", "week", "unread":
		return r.keywordFilter(ctx, room, user, keyword)
	case "help":
		return Models.HelpFilter(strings.Join(args[1:], " ")), nil
	}

	usernames := make([]string, 0, len(args))
	for _, arg := range args {
		usernames = append(usernames, strings.TrimPrefix(arg, "@"))
	}
	return Models.UsersFilter(usernames...), nil
}

// FromSelection resolves the value picked in the modal dropdown. An empty
// user selection summarizes everything.
func (r *Resolver) FromSelection(ctx context.Context, room Models.Room, user Models.User, value string, usernames []string) (Models.Filter, error) {
	switch value {
	case "today", "week", "unread":
		return r.keywordFilter(ctx, room, user, value)
	case "users":
		if len(usernames) == 0 {
			return Models.AllFilter(), nil
		}
		return Models.UsersFilter(usernames...), nil
	}
	return Models.AllFilter(), nil
}

func (r *Resolver) keywordFilter(ctx context.Context, room Models.Room, user Models.User, keyword string) (Models.Filter, error) {
	now := r.now()
	switch keyword {
	case "today":
		return Models.SinceFilter(StartOfDay(now)), nil
	case "week":
		return Models.SinceFilter(now.Add(-7 * 24 * time.Hour)), nil
	}

	count, unreadCountError := r.unread.UnreadCount(ctx, room.ID, user.ID)
	if unreadCountError != nil {
		return Models.Filter{}, fmt.Errorf("get unread count: %w", unreadCountError)
	}
	return Models.UnreadFilter(count), nil
}

// StartOfDay returns local midnight of the day t falls on.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
