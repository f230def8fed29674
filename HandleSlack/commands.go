package HandleSlack

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"chat-summariser/Models"

	"github.com/slack-go/slack"
)

// handleCommand serves /chat-summary. Slack wants an answer within three
// seconds so the summary itself runs after the response.
func (h *Handler) handleCommand(w http.ResponseWriter, r *http.Request) {
	slashCommand, slashCommandParseError := slack.SlashCommandParse(r)
	if slashCommandParseError != nil {
		http.Error(w, "invalid command payload", http.StatusBadRequest)
		return
	}

	room := Models.Room{ID: slashCommand.ChannelID, Name: slashCommand.ChannelName}
	user := Models.User{ID: slashCommand.UserID, Username: slashCommand.UserName}
	args := strings.Fields(slashCommand.Text)

	slog.Info("HandleSlack:handleCommand#Received summary command", "roomId", room.ID, "userId", user.ID, "args", args)

	h.run(slashCommand.Command, func(ctx context.Context) error {
		filter, resolveError := h.resolver.FromCommand(ctx, room, user, args)
		if resolveError != nil {
			return resolveError
		}
		// commands are typed in the room, a thread is summarized from the message shortcut
		return h.summarize(ctx, room, user, "", filter)
	})

	w.WriteHeader(http.StatusOK)
}
