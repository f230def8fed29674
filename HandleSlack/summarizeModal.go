package HandleSlack

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"chat-summariser/Models"

	"github.com/slack-go/slack"
)

const (
	SummarizeModalCallbackID  = "summarize-modal"
	SummarizeActionCallbackID = "summarize-messages"

	FilterSummariesBlockID  = "filter-summaries-block"
	FilterSummariesActionID = "filter-summaries-action"
	UserListsBlockID        = "user-lists-block"
	UserListsActionID       = "user-lists-action"

	// slack refuses static selects with more options than this
	maxSelectOptions = 100
)

// MemberLister lists the people who can be picked in the users filter.
type MemberLister interface {
	Members(ctx context.Context, roomID string) ([]Models.Member, error)
}

type filterChoice struct {
	value string
	text  string
}

var filterChoices = []filterChoice{
	{value: "all", text: "All messages"},
	{value: "today", text: "Messages from today"},
	{value: "week", text: "Messages from the past week"},
	{value: "unread", text: "Recent Unread Messages"},
	{value: "users", text: "Messages from a specific user or multiple users"},
}

func plainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, false, false)
}

// summarizeModal builds the filter picker. Choosing "users" adds a multi
// select with the members of the room.
func summarizeModal(ctx context.Context, members MemberLister, roomID, filterValue string) slack.ModalViewRequest {
	var filterOptions []*slack.OptionBlockObject
	var initialOption *slack.OptionBlockObject
	for _, choice := range filterChoices {
		option := slack.NewOptionBlockObject(choice.value, plainText(choice.text), nil)
		filterOptions = append(filterOptions, option)
		if choice.value == filterValue {
			initialOption = option
		}
	}
	if initialOption == nil {
		initialOption = filterOptions[0]
	}

	filterSelect := slack.NewOptionsSelectBlockElement(slack.OptTypeStatic, plainText("Choose summarize preference"), FilterSummariesActionID, filterOptions...)
	filterSelect.InitialOption = initialOption

	filterInput := slack.NewInputBlock(FilterSummariesBlockID, plainText("Summarize"), nil, filterSelect)
	filterInput.DispatchAction = true

	blocks := []slack.Block{filterInput}

	if filterValue == "users" {
		userSelect := slack.NewOptionsMultiSelectBlockElement(slack.MultiOptTypeStatic, plainText("Choose summarize preference"), UserListsActionID, memberOptions(ctx, members, roomID)...)
		userInput := slack.NewInputBlock(UserListsBlockID, plainText("Select Users"), nil, userSelect)
		blocks = append(blocks, slack.NewDividerBlock(), userInput)
	}

	return slack.ModalViewRequest{
		Type:       slack.VTModal,
		CallbackID: SummarizeModalCallbackID,
		Title:      plainText("Summarize messages"),
		Submit:     plainText("Summarize"),
		Close:      plainText("Close"),
		Blocks:     slack.Blocks{BlockSet: blocks},
	}
}

func memberOptions(ctx context.Context, members MemberLister, roomID string) []*slack.OptionBlockObject {
	if roomID == "" {
		return nil
	}

	roomMembers, membersError := members.Members(ctx, roomID)
	if membersError != nil {
		slog.Error("HandleSlack:memberOptions#Error while listing the room members", "roomId", roomID, "error", membersError)
		return nil
	}

	type labelled struct {
		label    string
		username string
	}
	labels := make([]labelled, 0, len(roomMembers))
	for _, member := range roomMembers {
		if member.ID == "" {
			continue
		}
		labels = append(labels, labelled{
			label:    fmt.Sprintf("%s - @%s", member.Name, member.Username),
			username: member.Username,
		})
	}
	sort.SliceStable(labels, func(i, j int) bool {
		return strings.ToUpper(labels[i].label) < strings.ToUpper(labels[j].label)
	})
	if len(labels) > maxSelectOptions {
		labels = labels[:maxSelectOptions]
	}

	options := make([]*slack.OptionBlockObject, 0, len(labels))
	for _, l := range labels {
		options = append(options, slack.NewOptionBlockObject(l.username, plainText(l.label), nil))
	}
	return options
}

// selectedFilter reads the modal state: the dropdown value and, for the users
// filter, the picked usernames.
func selectedFilter(state *slack.ViewState) (string, []string) {
	if state == nil {
		return "all", nil
	}

	value := state.Values[FilterSummariesBlockID][FilterSummariesActionID].SelectedOption.Value
	if value == "" {
		value = "all"
	}

	var usernames []string
	for _, option := range state.Values[UserListsBlockID][UserListsActionID].SelectedOptions {
		usernames = append(usernames, option.Value)
	}
	return value, usernames
}
