package PublishToSlack

import (
	"context"
	"fmt"

	"chat-summariser/Models"

	"github.com/slack-go/slack"
)

// EphemeralPoster is the slice of the slack client used to post messages
// only the invoking user can see.
type EphemeralPoster interface {
	PostEphemeralContext(ctx context.Context, channelID, userID string, options ...slack.MsgOption) (string, error)
}

// Notifier posts every bot output as an ephemeral message to the user who
// asked for the summary.
type Notifier struct {
	slackClient EphemeralPoster
}

func NewNotifier(slackClient EphemeralPoster) *Notifier {
	return &Notifier{slackClient: slackClient}
}

// Notify posts text into the room, or under threadID when it is set.
func (n *Notifier) Notify(ctx context.Context, room Models.Room, user Models.User, text, threadID string) error {
	options := []slack.MsgOption{
		slack.MsgOptionText(text, false),
		// no link previews, the transcript is full of links
		slack.MsgOptionPostMessageParameters(slack.PostMessageParameters{
			UnfurlLinks: false,
			UnfurlMedia: false,
		}),
	}
	if threadID != "" {
		options = append(options, slack.MsgOptionTS(threadID))
	}

	_, postEphemeralError := n.slackClient.PostEphemeralContext(ctx, room.ID, user.ID, options...)
	if postEphemeralError != nil {
		return fmt.Errorf("post ephemeral to %s: %w", room.ID, postEphemeralError)
	}
	return nil
}
