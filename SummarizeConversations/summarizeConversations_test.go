package SummarizeConversations

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"chat-summariser/BuildTranscript"
	"chat-summariser/GetMessages"
	"chat-summariser/Models"
	"chat-summariser/Prompts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

type fakeReader struct {
	room   []Models.Message
	thread []Models.Message
	limit  int
}

func (f *fakeReader) RoomMessages(ctx context.Context, roomID string, limit int) ([]Models.Message, error) {
	f.limit = limit
	return f.room, nil
}

func (f *fakeReader) ThreadMessages(ctx context.Context, roomID, threadID string) ([]Models.Message, error) {
	return f.thread, nil
}

type fakeCompleter struct {
	requests []Models.CompletionRequest
	failTask string
}

func (f *fakeCompleter) Complete(ctx context.Context, request Models.CompletionRequest) (string, error) {
	f.requests = append(f.requests, request)
	if request.Task == f.failTask {
		return "", errors.New("backend unavailable")
	}
	return "result of " + request.Task, nil
}

func (f *fakeCompleter) tasks() []string {
	tasks := make([]string, 0, len(f.requests))
	for _, request := range f.requests {
		tasks = append(tasks, request.Task)
	}
	return tasks
}

type sent struct {
	text     string
	threadID string
}

type fakeNotifier struct {
	sent []sent
}

func (f *fakeNotifier) Notify(ctx context.Context, room Models.Room, user Models.User, text, threadID string) error {
	f.sent = append(f.sent, sent{text: text, threadID: threadID})
	return nil
}

func (f *fakeNotifier) texts() []string {
	texts := make([]string, 0, len(f.sent))
	for _, s := range f.sent {
		texts = append(texts, s.text)
	}
	return texts
}

type fakeFiles struct{}

func (fakeFiles) DownloadText(ctx context.Context, file Models.FileRef, authToken, userID string) (string, error) {
	return "file body", nil
}

type staticSettings Models.Settings

func (s staticSettings) Settings() Models.Settings {
	return Models.Settings(s)
}

type fixture struct {
	reader    *fakeReader
	completer *fakeCompleter
	notifier  *fakeNotifier
	settings  Models.Settings
}

func newFixture() *fixture {
	return &fixture{
		reader:    &fakeReader{},
		completer: &fakeCompleter{},
		notifier:  &fakeNotifier{},
	}
}

func (f *fixture) summarizer() *Summarizer {
	summarizer := NewSummarizer(
		GetMessages.NewFetcher(f.reader),
		BuildTranscript.NewAssembler(f.completer, f.notifier, fakeFiles{}),
		f.completer,
		f.notifier,
		staticSettings(f.settings),
		nil,
	)
	summarizer.now = func() time.Time { return base.Add(time.Hour) }
	return summarizer
}

func message(id, username, text string, offset time.Duration) Models.Message {
	return Models.Message{
		ID:        id,
		Sender:    Models.Sender{Username: username, DisplayName: username},
		CreatedAt: base.Add(offset),
		Text:      text,
	}
}

func roomRequest(filter Models.Filter) Request {
	return Request{Room: Models.Room{ID: "C1"}, User: Models.User{ID: "U1"}, Filter: filter}
}

func TestGenerateSummary_RoomAllNoAddOns(t *testing.T) {
	f := newFixture()
	f.reader.room = []Models.Message{
		message("1", "alice", "first", 0),
		message("2", "bob", "second", time.Minute),
		message("3", "alice", "third", 2*time.Minute),
	}

	require.NoError(t, f.summarizer().GenerateSummary(context.Background(), roomRequest(Models.AllFilter())))

	assert.Equal(t, 100, f.reader.limit)
	assert.Equal(t, []string{"summary"}, f.completer.tasks())
	assert.Contains(t, f.completer.requests[0].Prompt, "Group the messages below by topic")

	require.Len(t, f.notifier.sent, 2)
	transcript := f.notifier.sent[0].text
	first := strings.Index(transcript, "alice: first")
	second := strings.Index(transcript, "bob: second")
	third := strings.Index(transcript, "alice: third")
	assert.True(t, first >= 0 && first < second && second < third)
	assert.Equal(t, "result of summary", f.notifier.sent[1].text)
}

func TestGenerateSummary_ThreadDropsRoot(t *testing.T) {
	f := newFixture()
	f.reader.thread = []Models.Message{
		message("root", "alice", "root", 0),
		message("a", "alice", "A", time.Minute),
		message("b", "bob", "B", 2*time.Minute),
	}
	request := roomRequest(Models.AllFilter())
	request.ThreadID = "1714824000.000100"

	require.NoError(t, f.summarizer().GenerateSummary(context.Background(), request))

	require.NotEmpty(t, f.notifier.sent)
	assert.Equal(t, "alice: A\nbob: B", f.notifier.sent[0].text)
	assert.Equal(t, request.ThreadID, f.notifier.sent[0].threadID)
	require.Len(t, f.completer.requests, 1)
	assert.Equal(t, request.ThreadID, f.completer.requests[0].ThreadID)
	assert.Contains(t, f.completer.requests[0].Prompt, "summarizes a conversation from a chat thread")
}

func TestGenerateSummary_UsersFilter(t *testing.T) {
	messages := []Models.Message{
		message("1", "alice", "from alice", 0),
		message("2", "bob", "from bob", time.Minute),
	}

	t.Run("match", func(t *testing.T) {
		f := newFixture()
		f.reader.room = messages

		require.NoError(t, f.summarizer().GenerateSummary(context.Background(), roomRequest(Models.UsersFilter("alice"))))
		assert.Contains(t, f.notifier.sent[0].text, "from alice")
		assert.NotContains(t, f.notifier.sent[0].text, "from bob")
	})

	t.Run("no match", func(t *testing.T) {
		f := newFixture()
		f.reader.room = messages

		require.NoError(t, f.summarizer().GenerateSummary(context.Background(), roomRequest(Models.UsersFilter("carol"))))
		assert.Equal(t, []string{Prompts.RoomUsageHelp}, f.notifier.texts())
		assert.Empty(t, f.completer.requests)
	})
}

func TestGenerateSummary_FileWithoutCredentials(t *testing.T) {
	f := newFixture()
	f.settings = Models.Settings{AddOns: Models.NewAddOnSet(Models.AddOnFileSummary)}
	withFile := message("2", "bob", "", time.Minute)
	withFile.File = &Models.FileRef{ID: "F1", ContentType: "application/pdf"}
	f.reader.room = []Models.Message{message("1", "alice", "see the file", 0), withFile}

	require.NoError(t, f.summarizer().GenerateSummary(context.Background(), roomRequest(Models.AllFilter())))

	texts := f.notifier.texts()
	require.Len(t, texts, 3)
	assert.Equal(t, Prompts.MissingFileCredentials, texts[0])
	assert.NotContains(t, texts[1], Prompts.FileSummaryPrefix)
	assert.NotContains(t, texts[1], Prompts.FileTypeNotSupported)
	assert.Equal(t, []string{"summary"}, f.completer.tasks())
}

func TestGenerateSummary_EmptyTranscript(t *testing.T) {
	f := newFixture()
	f.reader.room = []Models.Message{message("1", "alice", "old", 0)}

	request := roomRequest(Models.SinceFilter(base.Add(30 * time.Minute)))
	require.NoError(t, f.summarizer().GenerateSummary(context.Background(), request))

	assert.Equal(t, []string{Prompts.NoMessagesToSummarize}, f.notifier.texts())
	assert.Empty(t, f.completer.requests)
}

func TestGenerateSummary_UnreadCapsRoomFetch(t *testing.T) {
	f := newFixture()
	f.reader.room = []Models.Message{message("1", "alice", "hi", 0)}

	require.NoError(t, f.summarizer().GenerateSummary(context.Background(), roomRequest(Models.Filter{Kind: Models.FilterUnreadCount, Unread: 150})))
	assert.Equal(t, 100, f.reader.limit)

	require.NoError(t, f.summarizer().GenerateSummary(context.Background(), roomRequest(Models.UnreadFilter(12))))
	assert.Equal(t, 12, f.reader.limit)
}

func TestGenerateSummary_AddOnsRunInFixedOrder(t *testing.T) {
	f := newFixture()
	f.settings = Models.Settings{AddOns: Models.NewAddOnSet(
		Models.AddOnParticipantsSummary,
		Models.AddOnAssignedTasks,
		Models.AddOnFollowUpQuestions,
	)}
	f.reader.room = []Models.Message{message("1", "alice", "please review the PR, bob", 0)}

	require.NoError(t, f.summarizer().GenerateSummary(context.Background(), roomRequest(Models.AllFilter())))

	assert.Equal(t, []string{"summary", "assigned-tasks", "follow-up-questions", "participants-summary"}, f.completer.tasks())
	assert.Len(t, f.notifier.sent, 5)
	assert.Equal(t, "result of participants-summary", f.notifier.sent[4].text)
}

func TestGenerateSummary_CompletionFailureStopsAddOns(t *testing.T) {
	f := newFixture()
	f.settings = Models.Settings{AddOns: Models.NewAddOnSet(Models.AddOnAssignedTasks, Models.AddOnFollowUpQuestions)}
	f.completer.failTask = "assigned-tasks"
	f.reader.room = []Models.Message{message("1", "alice", "hello", 0)}

	err := f.summarizer().GenerateSummary(context.Background(), roomRequest(Models.AllFilter()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unavailable")
	assert.Equal(t, []string{"summary", "assigned-tasks"}, f.completer.tasks())
	assert.Len(t, f.notifier.sent, 2)
}

func TestGenerateSummary_ThreadNotFound(t *testing.T) {
	f := newFixture()
	request := roomRequest(Models.AllFilter())
	request.ThreadID = "missing"

	err := f.summarizer().GenerateSummary(context.Background(), request)
	require.Error(t, err)
	assert.True(t, errors.Is(err, GetMessages.ErrThreadNotFound))
	assert.Equal(t, []string{Prompts.ThreadNotFound}, f.notifier.texts())
	assert.Empty(t, f.completer.requests)
}

func TestGenerateSummary_Help(t *testing.T) {
	t.Run("faq", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.summarizer().GenerateSummary(context.Background(), roomRequest(Models.HelpFilter(""))))
		assert.Equal(t, []string{Prompts.WelcomeMessage, Prompts.FrequentlyAskedQuestions}, f.notifier.texts())
		assert.Empty(t, f.completer.requests)
	})

	t.Run("question", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.summarizer().GenerateSummary(context.Background(), roomRequest(Models.HelpFilter("can I summarize a thread?"))))
		require.Len(t, f.completer.requests, 1)
		assert.Equal(t, "help", f.completer.requests[0].Task)
		assert.Contains(t, f.completer.requests[0].Prompt, "Question: can I summarize a thread?")
		assert.Equal(t, []string{"result of help"}, f.notifier.texts())
	})
}
