package BuildTranscript

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chat-summariser/Models"
	"chat-summariser/Prompts"
)

// Path tells whether the messages come from a room listing or a thread listing.
// The two differ in de-duplication, unread handling and line format.
type Path int

const (
	RoomPath Path = iota
	ThreadPath
)

func (p Path) String() string {
	if p == ThreadPath {
		return "thread"
	}
	return "room"
}

type OutcomeKind int

const (
	Matched OutcomeKind = iota
	NoMatch
	Empty
)

func (k OutcomeKind) String() string {
	switch k {
	case Matched:
		return "matched"
	case NoMatch:
		return "no-match"
	case Empty:
		return "empty"
	}
	return "unknown"
}

// FilterOutcome is what survives the filters.
type FilterOutcome struct {
	Kind     OutcomeKind
	Messages []Models.Message
}

// Outcome is the result of assembling a transcript. Help is set for NoMatch,
// Transcript for Matched.
type Outcome struct {
	Kind       OutcomeKind
	Transcript string
	Help       string
}

type Completer interface {
	Complete(ctx context.Context, request Models.CompletionRequest) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, room Models.Room, user Models.User, text, threadID string) error
}

// FileDownloader fetches the text content of an attached file with the
// configured credentials.
type FileDownloader interface {
	DownloadText(ctx context.Context, file Models.FileRef, authToken, userID string) (string, error)
}

type Input struct {
	Path     Path
	Messages []Models.Message
	Filter   Models.Filter
	Settings Models.Settings
	Room     Models.Room
	User     Models.User
	ThreadID string
	Now      time.Time
}

type Assembler struct {
	completer Completer
	notifier  Notifier
	files     FileDownloader
}

func NewAssembler(completer Completer, notifier Notifier, files FileDownloader) *Assembler {
	return &Assembler{completer: completer, notifier: notifier, files: files}
}

// FilterMessages narrows the fetched messages. Every step works on what the
// previous step kept.
func FilterMessages(path Path, messages []Models.Message, filter Models.Filter, now time.Time) FilterOutcome {
	filtered := messages

	// the thread listing repeats the root as its anchor
	if path == ThreadPath && len(filtered) > 0 {
		filtered = filtered[1:]
	}

	if filter.Kind == Models.FilterUsers {
		filtered = keep(filtered, func(message Models.Message) bool {
			return filter.HasUsername(message.Sender.Username)
		})
		if len(filtered) == 0 {
			return FilterOutcome{Kind: NoMatch}
		}
	}

	if filter.Kind == Models.FilterSince {
		filtered = keep(filtered, func(message Models.Message) bool {
			return !message.CreatedAt.Before(filter.StartDate) && !message.CreatedAt.After(now)
		})
	}

	// rooms are bounded when fetched, threads are sliced here
	if path == ThreadPath && filter.Kind == Models.FilterUnreadCount {
		if n := Models.CapUnread(filter.Unread); n > 0 && len(filtered) > n {
			filtered = filtered[len(filtered)-n:]
		}
	}

	if len(filtered) == 0 {
		return FilterOutcome{Kind: Empty}
	}
	return FilterOutcome{Kind: Matched, Messages: filtered}
}

// Assemble filters the messages and renders the transcript, inlining file
// summaries when the file-summary add-on is on.
func (a *Assembler) Assemble(ctx context.Context, input Input) (Outcome, error) {
	filterOutcome := FilterMessages(input.Path, input.Messages, input.Filter, input.Now)
	switch filterOutcome.Kind {
	case NoMatch:
		slog.Debug("BuildTranscript:Assemble#no message matched the usernames", "roomId", input.Room.ID, "usernames", input.Filter.SortedUsernames())
		return Outcome{Kind: NoMatch, Help: UsageHelp(input.Path)}, nil
	case Empty:
		return Outcome{Kind: Empty}, nil
	}

	var lines []string
	for _, message := range filterOutcome.Messages {
		if message.Text != "" {
			lines = append(lines, RenderLine(input.Path, message))
		}

		if message.File == nil || !input.Settings.AddOns.Has(Models.AddOnFileSummary) {
			continue
		}

		if !input.Settings.HasFileCredentials() {
			// room level on purpose, the setting is not about this thread
			if notifyError := a.notifier.Notify(ctx, input.Room, input.User, Prompts.MissingFileCredentials, ""); notifyError != nil {
				slog.Error("BuildTranscript:Assemble#Error while notifying about missing credentials", "roomId", input.Room.ID, "error", notifyError)
			}
			continue
		}

		fileSummary, fileSummaryError := a.summarizeFile(ctx, input, *message.File)
		if fileSummaryError != nil {
			return Outcome{}, fileSummaryError
		}
		lines = append(lines, Prompts.FileSummaryPrefix+fileSummary)
	}

	transcript := strings.Join(lines, "\n")
	if strings.TrimSpace(transcript) == "" {
		return Outcome{Kind: Empty}, nil
	}
	return Outcome{Kind: Matched, Transcript: transcript}, nil
}

func (a *Assembler) summarizeFile(ctx context.Context, input Input, file Models.FileRef) (string, error) {
	if !isPlainText(file.ContentType) {
		return Prompts.FileTypeNotSupported, nil
	}

	content, downloadError := a.files.DownloadText(ctx, file, input.Settings.AuthToken, input.Settings.UserID)
	if downloadError != nil {
		return "", fmt.Errorf("download file %s: %w", file.ID, downloadError)
	}

	threadID := ""
	if input.Path == ThreadPath {
		threadID = input.ThreadID
	}
	summary, completionError := a.completer.Complete(ctx, Models.CompletionRequest{
		Task:     Models.AddOnFileSummary.String(),
		Prompt:   Prompts.CreateFileSummaryPrompt(content),
		Room:     input.Room,
		User:     input.User,
		ThreadID: threadID,
	})
	if completionError != nil {
		return "", fmt.Errorf("summarize file %s: %w", file.ID, completionError)
	}
	return summary, nil
}

// RenderLine renders one message. Room lines carry the creation time, thread
// lines do not.
func RenderLine(path Path, message Models.Message) string {
	if path == ThreadPath {
		return fmt.Sprintf("%s: %s", message.Sender.Name(), message.Text)
	}
	return fmt.Sprintf("Message at %s\n%s: %s\n", message.CreatedAt.Format(time.RFC3339), message.Sender.Name(), message.Text)
}

func UsageHelp(path Path) string {
	if path == ThreadPath {
		return Prompts.ThreadUsageHelp
	}
	return Prompts.RoomUsageHelp
}

func isPlainText(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.EqualFold(strings.TrimSpace(mediaType), "text/plain")
}

func keep(messages []Models.Message, match func(Models.Message) bool) []Models.Message {
	kept := make([]Models.Message, 0, len(messages))
	for _, message := range messages {
		if match(message) {
			kept = append(kept, message)
		}
	}
	return kept
}
