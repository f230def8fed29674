package Models

import (
	"sort"
	"time"
)

// MaxMessages is the page size cap for fetching and for the unread filter.
const MaxMessages = 100

type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterSince
	FilterUnreadCount
	FilterUsers
	FilterHelp
)

func (k FilterKind) String() string {
	switch k {
	case FilterAll:
		return "all"
	case FilterSince:
		return "since"
	case FilterUnreadCount:
		return "unreadCount"
	case FilterUsers:
		return "users"
	case FilterHelp:
		return "help"
	}
	return "unknown"
}

// Filter is the single selection criterion active for one invocation.
// Only the field belonging to Kind is meaningful.
type Filter struct {
	Kind      FilterKind
	StartDate time.Time
	Unread    int
	Usernames map[string]struct{}
	Question  string
}

func AllFilter() Filter {
	return Filter{Kind: FilterAll}
}

func SinceFilter(start time.Time) Filter {
	return Filter{Kind: FilterSince, StartDate: start}
}

func UnreadFilter(n int) Filter {
	return Filter{Kind: FilterUnreadCount, Unread: CapUnread(n)}
}

func UsersFilter(usernames ...string) Filter {
	set := make(map[string]struct{}, len(usernames))
	for _, name := range usernames {
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return Filter{Kind: FilterUsers, Usernames: set}
}

func HelpFilter(question string) Filter {
	return Filter{Kind: FilterHelp, Question: question}
}

// HasUsername reports whether username is part of a users filter.
func (f Filter) HasUsername(username string) bool {
	_, ok := f.Usernames[username]
	return ok
}

// SortedUsernames returns the users filter set in a stable order, mostly for logs.
func (f Filter) SortedUsernames() []string {
	names := make([]string, 0, len(f.Usernames))
	for name := range f.Usernames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CapUnread clamps an unread count to MaxMessages. Zero and negative values
// mean "no unread bound" and are returned as zero.
func CapUnread(n int) int {
	if n <= 0 {
		return 0
	}
	if n > MaxMessages {
		return MaxMessages
	}
	return n
}
