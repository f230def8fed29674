package Models

import "time"

// Room is a channel or direct message conversation on the host.
type Room struct {
	ID   string
	Name string
}

// User is the person who invoked the summary.
type User struct {
	ID          string
	Username    string
	DisplayName string
}

type Sender struct {
	ID          string
	Username    string
	DisplayName string
}

// Name returns what a transcript line shows for the sender.
func (s Sender) Name() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Username
}

type FileRef struct {
	ID          string
	ContentType string
	DownloadURL string
}

// Message is read only and owned by the host. Text and File are both optional.
type Message struct {
	ID        string
	Sender    Sender
	CreatedAt time.Time
	Text      string
	File      *FileRef
}

// Member is a room member as listed in the user picker of the modal.
type Member struct {
	ID       string
	Name     string
	Username string
}

// PendingInteraction correlates a modal submission with the room (and
// optional thread) the modal was opened from.
type PendingInteraction struct {
	RoomID   string
	ThreadID string
}

// Settings are the plugin settings read on every invocation.
type Settings struct {
	AddOns    AddOnSet
	AuthToken string
	UserID    string
}

// HasFileCredentials reports whether both file download credentials are set.
func (s Settings) HasFileCredentials() bool {
	return s.AuthToken != "" && s.UserID != ""
}

// CompletionRequest is one prompt sent to the completion backend, together
// with the room/user/thread it is made on behalf of.
type CompletionRequest struct {
	Task     string
	Prompt   string
	Room     Room
	User     User
	ThreadID string
}
