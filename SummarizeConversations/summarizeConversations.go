package SummarizeConversations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"chat-summariser/BuildTranscript"
	"chat-summariser/GetMessages"
	"chat-summariser/Metrics"
	"chat-summariser/Models"
	"chat-summariser/Prompts"
)

// SettingsSource hands out the plugin settings. It is asked once per invocation.
type SettingsSource interface {
	Settings() Models.Settings
}

// Request is one "summarize this room or thread" invocation.
type Request struct {
	Room     Models.Room
	User     Models.User
	ThreadID string
	Filter   Models.Filter
}

type addOnStep struct {
	addOn  Models.AddOn
	prompt func(dialogue string) string
}

// add-ons always run in this order, whatever order the settings list them in
var addOnSteps = []addOnStep{
	{addOn: Models.AddOnAssignedTasks, prompt: Prompts.CreateAssignedTasksPrompt},
	{addOn: Models.AddOnFollowUpQuestions, prompt: Prompts.CreateFollowUpQuestionsPrompt},
	{addOn: Models.AddOnParticipantsSummary, prompt: Prompts.CreateParticipantsSummaryPrompt},
}

type Summarizer struct {
	fetcher   *GetMessages.Fetcher
	assembler *BuildTranscript.Assembler
	completer BuildTranscript.Completer
	notifier  BuildTranscript.Notifier
	settings  SettingsSource
	metrics   *Metrics.Provider
	now       func() time.Time
}

func NewSummarizer(
	fetcher *GetMessages.Fetcher,
	assembler *BuildTranscript.Assembler,
	completer BuildTranscript.Completer,
	notifier BuildTranscript.Notifier,
	settings SettingsSource,
	metrics *Metrics.Provider,
) *Summarizer {
	return &Summarizer{
		fetcher:   fetcher,
		assembler: assembler,
		completer: completer,
		notifier:  notifier,
		settings:  settings,
		metrics:   metrics,
		now:       time.Now,
	}
}

// GenerateSummary runs the whole pipeline for one invocation: fetch, filter,
// render, summarize and then every enabled add-on, one after the other. The
// first completion failure stops the invocation.
func (s *Summarizer) GenerateSummary(ctx context.Context, request Request) error {
	if request.Filter.Kind == Models.FilterHelp {
		return s.answerHelp(ctx, request)
	}

	settings := s.settings.Settings()
	path := BuildTranscript.RoomPath
	if request.ThreadID != "" {
		path = BuildTranscript.ThreadPath
	}

	messages, fetchError := s.fetch(ctx, path, request)
	if fetchError != nil {
		if errors.Is(fetchError, GetMessages.ErrThreadNotFound) {
			s.notify(ctx, request.Room, request.User, Prompts.ThreadNotFound, "")
			s.metrics.IncrementSummary(path.String(), "thread-not-found")
		}
		return fetchError
	}

	outcome, assembleError := s.assembler.Assemble(ctx, BuildTranscript.Input{
		Path:     path,
		Messages: messages,
		Filter:   request.Filter,
		Settings: settings,
		Room:     request.Room,
		User:     request.User,
		ThreadID: request.ThreadID,
		Now:      s.now(),
	})
	if assembleError != nil {
		return fmt.Errorf("assemble transcript: %w", assembleError)
	}
	s.metrics.IncrementSummary(path.String(), outcome.Kind.String())

	switch outcome.Kind {
	case BuildTranscript.NoMatch:
		s.notify(ctx, request.Room, request.User, outcome.Help, request.ThreadID)
		return nil
	case BuildTranscript.Empty:
		s.notify(ctx, request.Room, request.User, Prompts.NoMessagesToSummarize, request.ThreadID)
		return nil
	}

	s.notify(ctx, request.Room, request.User, outcome.Transcript, request.ThreadID)

	// a thread reads as one conversation, a room is bucketed by topic
	summaryPrompt := Prompts.CreateSummaryPromptByTopics(outcome.Transcript)
	if path == BuildTranscript.ThreadPath {
		summaryPrompt = Prompts.CreateSummaryPrompt(outcome.Transcript)
	}
	summary, summaryError := s.complete(ctx, request, "summary", summaryPrompt)
	if summaryError != nil {
		return summaryError
	}
	s.notify(ctx, request.Room, request.User, summary, request.ThreadID)

	for _, step := range addOnSteps {
		if !settings.AddOns.Has(step.addOn) {
			continue
		}
		result, addOnError := s.complete(ctx, request, step.addOn.String(), step.prompt(outcome.Transcript))
		if addOnError != nil {
			return addOnError
		}
		s.notify(ctx, request.Room, request.User, result, request.ThreadID)
	}
	return nil
}

func (s *Summarizer) fetch(ctx context.Context, path BuildTranscript.Path, request Request) ([]Models.Message, error) {
	if path == BuildTranscript.ThreadPath {
		return s.fetcher.FetchThreadMessages(ctx, request.Room, request.ThreadID)
	}

	unreadCap := 0
	if request.Filter.Kind == Models.FilterUnreadCount {
		unreadCap = request.Filter.Unread
	}
	return s.fetcher.FetchRoomMessages(ctx, request.Room, unreadCap)
}

func (s *Summarizer) answerHelp(ctx context.Context, request Request) error {
	if request.Filter.Question == "" {
		s.notify(ctx, request.Room, request.User, Prompts.WelcomeMessage, request.ThreadID)
		s.notify(ctx, request.Room, request.User, Prompts.FrequentlyAskedQuestions, request.ThreadID)
		return nil
	}

	prompt := Prompts.CreateUserHelpPrompt(Prompts.FrequentlyAskedQuestions, request.Filter.Question)
	answer, helpError := s.complete(ctx, request, "help", prompt)
	if helpError != nil {
		return helpError
	}
	s.notify(ctx, request.Room, request.User, answer, request.ThreadID)
	return nil
}

func (s *Summarizer) complete(ctx context.Context, request Request, task, prompt string) (string, error) {
	return s.completer.Complete(ctx, Models.CompletionRequest{
		Task:     task,
		Prompt:   prompt,
		Room:     request.Room,
		User:     request.User,
		ThreadID: request.ThreadID,
	})
}

// notify is fire and forget, a failed post is only logged
func (s *Summarizer) notify(ctx context.Context, room Models.Room, user Models.User, text, threadID string) {
	if notifyError := s.notifier.Notify(ctx, room, user, text, threadID); notifyError != nil {
		slog.Error("SummarizeConversations:notify#Error posting message", "roomId", room.ID, "userId", user.ID, "threadId", threadID, "error", notifyError)
	}
}
