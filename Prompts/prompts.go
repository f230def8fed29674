package Prompts

import "fmt"

const WelcomeMessage = `Hi! I am the chat summary assistant.
I read the conversation you are in and post a short summary that only you can see.
Type /chat-summary help <question> to ask me anything about how I work.`

const FrequentlyAskedQuestions = `Frequently asked questions:
1. How do I summarize the current channel?
   Run /chat-summary or press the "Summarize messages" shortcut.
2. How do I summarize only recent messages?
   Use /chat-summary today for messages since midnight, or /chat-summary week for the last 7 days.
3. How do I catch up on what I have not read?
   Use /chat-summary unread. At most the last 100 unread messages are summarized.
4. How do I summarize what specific people said?
   Use /chat-summary @<username> or /chat-summary @<username1> @<username2>.
5. Can I summarize a thread?
   Yes, use the "Summarize messages" shortcut on a message in the thread.
6. What are add-ons?
   Add-ons are extra analyses configured by your administrator: assigned tasks, follow-up questions, participants summary and file summary.
7. Why does file summary not work?
   A Personal Access Token and User ID must be filled in settings, and only plain text files can be summarized.`

const RoomUsageHelp = `Please enter a valid command!
You can try:
 1. /chat-summary
 2. /chat-summary today
 3. /chat-summary week
 4. /chat-summary unread
 5. /chat-summary @<username> or /chat-summary @<username1> @<username2>
 6. /chat-summary help
 7. /chat-summary help <question>`

const ThreadUsageHelp = `Please enter a valid command!
You can try:
 1. /chat-summary
 2. /chat-summary today
 3. /chat-summary week
 4. /chat-summary unread
 5. /chat-summary @<username> or /chat-summary @<username1> @<username2>`

const (
	NoMessagesToSummarize  = "There are no messages to summarize in this channel."
	MissingFileCredentials = "Personal Access Token and User ID must be filled in settings to enable file summary add-on"
	FileTypeNotSupported   = "File type is not supported"
	ThreadNotFound         = "Thread not found"
	FileSummaryPrefix      = "File Summary: "
)

func CreateSummaryPrompt(dialogue string) string {
	return fmt.Sprintf(`Human: You are a bot that summarizes a conversation from a chat thread.
Summarize the dialogue below in a few short sentences. Keep names of the people who said important things.
Do not add information that is not in the dialogue. Answer in plain text.

Dialogue:
"""
%s
"""

Assistant:`, dialogue)
}

func CreateSummaryPromptByTopics(dialogue string) string {
	return fmt.Sprintf(`Human: You are a bot that summarizes the messages of a chat channel.
Group the messages below by topic. For every topic write a short title followed by a bullet list summarizing what was said, naming the people involved.
Each message starts with the time it was sent; use it only to understand the order of the conversation.
Do not add information that is not in the messages. Answer in plain text.

Messages:
"""
%s
"""

Assistant:`, dialogue)
}

func CreateAssignedTasksPrompt(dialogue string) string {
	return fmt.Sprintf(`Human: Read the dialogue below and list every task that was assigned to someone.
Write one line per task in the form "<person>: <task>". If no task was assigned, answer "No tasks were assigned."

Dialogue:
"""
%s
"""

Assistant:`, dialogue)
}

func CreateFollowUpQuestionsPrompt(dialogue string) string {
	return fmt.Sprintf(`Human: Read the dialogue below and suggest up to three follow-up questions the participants should answer next.
Write them as a numbered list. If nothing needs a follow-up, answer "No follow-up questions."

Dialogue:
"""
%s
"""

Assistant:`, dialogue)
}

func CreateParticipantsSummaryPrompt(dialogue string) string {
	return fmt.Sprintf(`Human: Read the dialogue below and summarize the contribution of each participant in one or two sentences.
Write one paragraph per participant starting with their name.

Dialogue:
"""
%s
"""

Assistant:`, dialogue)
}

func CreateFileSummaryPrompt(fileContent string) string {
	return fmt.Sprintf(`Human: Summarize the content of the file below in a few sentences. Answer in plain text.

File content:
"""
%s
"""

Assistant:`, fileContent)
}

func CreateUserHelpPrompt(faq, question string) string {
	return fmt.Sprintf(`Human: You are the help assistant of a chat summary plugin.
Answer the user's question using only the frequently asked questions below. If the answer is not there, say you do not know and suggest running /chat-summary help.

%s

Question: %s

Assistant:`, faq, question)
}
