package SlackReader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"chat-summariser/Models"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/slack-go/slack"
)

const (
	// conversations.replies page size, same as the summariser always used
	repliesPageSize  = 200
	membersPageSize  = 200
	profileCacheSize = 512
	// plain text attachments above this are cut
	maxFileBytes = 256 << 10
)

// BotApi is the part of the bot token client the reader needs.
type BotApi interface {
	GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error)
	GetConversationRepliesContext(ctx context.Context, params *slack.GetConversationRepliesParameters) ([]slack.Message, bool, string, error)
	GetUsersInConversationContext(ctx context.Context, params *slack.GetUsersInConversationParameters) ([]string, string, error)
	GetUserInfoContext(ctx context.Context, user string) (*slack.User, error)
}

// UserApi is the user token client. Unread counts are per user, the bot
// token does not see them.
type UserApi interface {
	GetConversationInfoContext(ctx context.Context, input *slack.GetConversationInfoInput) (*slack.Channel, error)
}

type Reader struct {
	botApi     BotApi
	userApi    UserApi
	httpClient *http.Client
	profiles   *lru.Cache[string, slack.User]
}

// NewReader builds the Slack side of the host. userApi may be nil, the unread
// keyword then fails with an error instead of guessing.
func NewReader(botApi BotApi, userApi UserApi, httpClient *http.Client) (*Reader, error) {
	profiles, cacheError := lru.New[string, slack.User](profileCacheSize)
	if cacheError != nil {
		return nil, fmt.Errorf("create profile cache: %w", cacheError)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Reader{botApi: botApi, userApi: userApi, httpClient: httpClient, profiles: profiles}, nil
}

// RoomMessages returns the latest limit messages of the room, oldest first.
func (r *Reader) RoomMessages(ctx context.Context, roomID string, limit int) ([]Models.Message, error) {
	history, getConversationHistoryError := r.botApi.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: roomID,
		Limit:     limit,
	})
	if getConversationHistoryError != nil {
		return nil, fmt.Errorf("conversations.history %s: %w", roomID, getConversationHistoryError)
	}

	// slack lists history newest first
	messages := make([]Models.Message, 0, len(history.Messages))
	for i := len(history.Messages) - 1; i >= 0; i-- {
		messages = append(messages, r.toMessage(ctx, history.Messages[i]))
	}
	return messages, nil
}

// ThreadMessages returns the thread root as the anchor followed by the whole
// conversation, root included. An unknown thread gives an empty listing.
func (r *Reader) ThreadMessages(ctx context.Context, roomID, threadID string) ([]Models.Message, error) {
	var replies []slack.Message
	cursor := ""
	for {
		page, hasMore, nextCursor, getConversationRepliesError := r.botApi.GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
			ChannelID: roomID,
			// when querying for thread replies the parent timestamp goes in Timestamp
			Timestamp: threadID,
			Limit:     repliesPageSize,
			Cursor:    cursor,
		})
		if getConversationRepliesError != nil {
			var slackError slack.SlackErrorResponse
			if errors.As(getConversationRepliesError, &slackError) && slackError.Err == "thread_not_found" {
				return nil, nil
			}
			return nil, fmt.Errorf("conversations.replies %s/%s: %w", roomID, threadID, getConversationRepliesError)
		}

		replies = append(replies, page...)
		if !hasMore || nextCursor == "" {
			break
		}
		cursor = nextCursor
	}

	if len(replies) == 0 {
		return nil, nil
	}

	messages := make([]Models.Message, 0, len(replies)+1)
	messages = append(messages, r.toMessage(ctx, replies[0]))
	for _, reply := range replies {
		messages = append(messages, r.toMessage(ctx, reply))
	}
	return messages, nil
}

// UnreadCount reports how many messages of the room the user has not read.
func (r *Reader) UnreadCount(ctx context.Context, roomID, userID string) (int, error) {
	if r.userApi == nil {
		return 0, errors.New("unread counts need a user token")
	}

	channel, getConversationInfoError := r.userApi.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{ChannelID: roomID})
	if getConversationInfoError != nil {
		return 0, fmt.Errorf("conversations.info %s: %w", roomID, getConversationInfoError)
	}
	return channel.UnreadCountDisplay, nil
}

// Members lists the human members of a room. Members whose profile cannot be
// read are skipped.
func (r *Reader) Members(ctx context.Context, roomID string) ([]Models.Member, error) {
	var memberIDs []string
	cursor := ""
	for {
		page, nextCursor, getUsersInConversationError := r.botApi.GetUsersInConversationContext(ctx, &slack.GetUsersInConversationParameters{
			ChannelID: roomID,
			Cursor:    cursor,
			Limit:     membersPageSize,
		})
		if getUsersInConversationError != nil {
			return nil, fmt.Errorf("conversations.members %s: %w", roomID, getUsersInConversationError)
		}
		memberIDs = append(memberIDs, page...)
		if nextCursor == "" {
			break
		}
		cursor = nextCursor
	}

	members := make([]Models.Member, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		profile, profileError := r.profile(ctx, memberID)
		if profileError != nil {
			slog.Warn("SlackReader:Members#Error while reading the member profile", "roomId", roomID, "memberId", memberID, "error", profileError)
			continue
		}
		if profile.IsBot || profile.Deleted {
			continue
		}
		members = append(members, Models.Member{
			ID:       profile.ID,
			Name:     displayName(profile),
			Username: profile.Name,
		})
	}
	return members, nil
}

// DownloadText fetches a text attachment with the credentials configured for
// the file-summary add-on.
func (r *Reader) DownloadText(ctx context.Context, file Models.FileRef, authToken, userID string) (string, error) {
	request, requestError := http.NewRequestWithContext(ctx, http.MethodGet, file.DownloadURL, nil)
	if requestError != nil {
		return "", requestError
	}
	request.Header.Set("X-Auth-Token", authToken)
	request.Header.Set("X-User-Id", userID)
	request.Header.Set("Authorization", "Bearer "+authToken)

	response, downloadError := r.httpClient.Do(request)
	if downloadError != nil {
		return "", downloadError
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: unexpected status %d", file.ID, response.StatusCode)
	}

	content, readError := io.ReadAll(io.LimitReader(response.Body, maxFileBytes))
	if readError != nil {
		return "", readError
	}
	return string(content), nil
}

func (r *Reader) toMessage(ctx context.Context, message slack.Message) Models.Message {
	converted := Models.Message{
		ID:        message.Timestamp,
		CreatedAt: ParseTimestamp(message.Timestamp),
		Text:      message.Text,
		Sender:    r.sender(ctx, message),
	}
	if len(message.Files) > 0 {
		// one attachment per message is summarised, the first one
		file := message.Files[0]
		downloadURL := file.URLPrivateDownload
		if downloadURL == "" {
			downloadURL = file.URLPrivate
		}
		converted.File = &Models.FileRef{ID: file.ID, ContentType: file.Mimetype, DownloadURL: downloadURL}
	}
	return converted
}

func (r *Reader) sender(ctx context.Context, message slack.Message) Models.Sender {
	if message.User == "" {
		// bots and integrations carry their name on the message
		return Models.Sender{ID: message.BotID, Username: message.Username}
	}

	profile, profileError := r.profile(ctx, message.User)
	if profileError != nil {
		slog.Warn("SlackReader:sender#Error while reading the sender profile", "userId", message.User, "error", profileError)
		return Models.Sender{ID: message.User, Username: message.User}
	}
	return Models.Sender{ID: profile.ID, Username: profile.Name, DisplayName: displayName(profile)}
}

func (r *Reader) profile(ctx context.Context, userID string) (slack.User, error) {
	if cached, ok := r.profiles.Get(userID); ok {
		return cached, nil
	}

	user, getUserInfoError := r.botApi.GetUserInfoContext(ctx, userID)
	if getUserInfoError != nil {
		return slack.User{}, getUserInfoError
	}
	r.profiles.Add(userID, *user)
	return *user, nil
}

func displayName(user slack.User) string {
	if user.Profile.DisplayName != "" {
		return user.Profile.DisplayName
	}
	if user.RealName != "" {
		return user.RealName
	}
	return user.Profile.RealName
}

// ParseTimestamp turns a Slack "seconds.micros" timestamp into a time.
func ParseTimestamp(ts string) time.Time {
	secondsPart, microsPart, _ := strings.Cut(ts, ".")
	seconds, secondsError := strconv.ParseInt(secondsPart, 10, 64)
	if secondsError != nil {
		return time.Time{}
	}
	micros, _ := strconv.ParseInt(microsPart, 10, 64)
	return time.Unix(seconds, micros*int64(time.Microsecond)).UTC()
}
