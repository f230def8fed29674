package Prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageHelpLiterals(t *testing.T) {
	assert.True(t, strings.HasPrefix(RoomUsageHelp, "Please enter a valid command!\nYou can try:\n 1. /chat-summary\n"))
	assert.True(t, strings.HasSuffix(RoomUsageHelp, " 7. /chat-summary help <question>"))

	assert.True(t, strings.HasPrefix(RoomUsageHelp, ThreadUsageHelp))
	assert.NotContains(t, ThreadUsageHelp, "help")
	assert.Len(t, strings.Split(ThreadUsageHelp, "\n"), 7)
	assert.Len(t, strings.Split(RoomUsageHelp, "\n"), 9)
}

func TestPromptsEmbedInput(t *testing.T) {
	builders := map[string]func(string) string{
		"summary":      CreateSummaryPrompt,
		"topics":       CreateSummaryPromptByTopics,
		"tasks":        CreateAssignedTasksPrompt,
		"followups":    CreateFollowUpQuestionsPrompt,
		"participants": CreateParticipantsSummaryPrompt,
		"file":         CreateFileSummaryPrompt,
	}
	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			prompt := build("alice: ship it")
			assert.Contains(t, prompt, "\"\"\"\nalice: ship it\n\"\"\"")
			assert.True(t, strings.HasSuffix(prompt, "Assistant:"))
		})
	}
}

func TestCreateUserHelpPrompt(t *testing.T) {
	prompt := CreateUserHelpPrompt(FrequentlyAskedQuestions, "how do I summarize a thread?")
	assert.Contains(t, prompt, FrequentlyAskedQuestions)
	assert.Contains(t, prompt, "Question: how do I summarize a thread?")
}
