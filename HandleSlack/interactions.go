package HandleSlack

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"chat-summariser/Models"
	"chat-summariser/Repo"

	"github.com/slack-go/slack"
)

func (h *Handler) handleInteraction(w http.ResponseWriter, r *http.Request) {
	if parseError := r.ParseForm(); parseError != nil {
		http.Error(w, "invalid interaction payload", http.StatusBadRequest)
		return
	}

	var callback slack.InteractionCallback
	if unmarshalError := json.Unmarshal([]byte(r.PostFormValue("payload")), &callback); unmarshalError != nil {
		http.Error(w, "invalid interaction payload", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	switch callback.Type {
	case slack.InteractionTypeMessageAction:
		h.handleMessageAction(ctx, callback)
	case slack.InteractionTypeBlockActions:
		h.handleBlockActions(ctx, callback)
	case slack.InteractionTypeViewSubmission:
		h.handleViewSubmission(ctx, callback)
	case slack.InteractionTypeViewClosed:
		// nothing to clean up, the next action overwrites the pending interaction
	default:
		slog.Debug("HandleSlack:handleInteraction#Ignoring interaction", "type", callback.Type)
	}

	// an empty 200 acknowledges, and closes the modal on submission
	w.WriteHeader(http.StatusOK)
}

// handleMessageAction remembers where the shortcut was used and opens the modal.
func (h *Handler) handleMessageAction(ctx context.Context, callback slack.InteractionCallback) {
	if callback.CallbackID != SummarizeActionCallbackID {
		return
	}

	pending := Models.PendingInteraction{
		RoomID:   callback.Channel.ID,
		ThreadID: callback.Message.ThreadTimestamp,
	}
	if saveError := Repo.SavePendingInteraction(ctx, h.store, callback.User.ID, pending); saveError != nil {
		slog.Error("HandleSlack:handleMessageAction#Error while saving the pending interaction", "userId", callback.User.ID, "error", saveError)
		return
	}

	modal := summarizeModal(ctx, h.members, pending.RoomID, "")
	if _, openViewError := h.views.OpenViewContext(ctx, callback.TriggerID, modal); openViewError != nil {
		slog.Error("HandleSlack:handleMessageAction#Error while opening the modal", "userId", callback.User.ID, "error", openViewError)
	}
}

// handleBlockActions redraws the modal when the filter dropdown changes.
func (h *Handler) handleBlockActions(ctx context.Context, callback slack.InteractionCallback) {
	for _, action := range callback.ActionCallback.BlockActions {
		if action.ActionID != FilterSummariesActionID {
			continue
		}

		pending, _, loadError := Repo.LoadPendingInteraction(ctx, h.store, callback.User.ID)
		if loadError != nil {
			slog.Error("HandleSlack:handleBlockActions#Error while loading the pending interaction", "userId", callback.User.ID, "error", loadError)
			return
		}

		modal := summarizeModal(ctx, h.members, pending.RoomID, action.SelectedOption.Value)
		if _, updateViewError := h.views.UpdateViewContext(ctx, modal, "", callback.View.Hash, callback.View.ID); updateViewError != nil {
			slog.Error("HandleSlack:handleBlockActions#Error while updating the modal", "viewId", callback.View.ID, "error", updateViewError)
		}
		return
	}
}

// handleViewSubmission runs the summary for the room or thread the modal was
// opened from.
func (h *Handler) handleViewSubmission(ctx context.Context, callback slack.InteractionCallback) {
	if callback.View.CallbackID != SummarizeModalCallbackID {
		return
	}

	pending, found, loadError := Repo.LoadPendingInteraction(ctx, h.store, callback.User.ID)
	if loadError != nil {
		slog.Error("HandleSlack:handleViewSubmission#Error while loading the pending interaction", "userId", callback.User.ID, "error", loadError)
		return
	}
	if !found {
		return
	}

	room := Models.Room{ID: pending.RoomID}
	user := Models.User{ID: callback.User.ID, Username: callback.User.Name}
	value, usernames := selectedFilter(callback.View.State)

	slog.Info("HandleSlack:handleViewSubmission#Received summary request", "roomId", room.ID, "threadId", pending.ThreadID, "userId", user.ID, "filter", value)

	h.run(SummarizeModalCallbackID, func(ctx context.Context) error {
		filter, resolveError := h.resolver.FromSelection(ctx, room, user, value, usernames)
		if resolveError != nil {
			return resolveError
		}
		return h.summarize(ctx, room, user, pending.ThreadID, filter)
	})
}
