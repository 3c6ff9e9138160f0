package usecase

// Prompts holds the instructions given to the completion capability.
// Empty fields fall back to the defaults below.
type Prompts struct {
	// General is the system instruction prefix for queries without a vendor keyword
	General string
	// Task is the extraction instruction for task-tracking queries
	Task string
	// Chat is the extraction instruction for chat queries
	Chat string
}

const (
	defaultGeneralPrompt = "You are a project management assistant. Answer the user's question concisely."

	defaultTaskPrompt = `Extract the ClickUp task operation from the user's request.
Return a JSON object with these keys:
- "action": one of "add", "update", "delete", "get", "get_all"
- "task_name": the task name, or "" if not given
- "task_id": the ClickUp task id, or "" if not given
- "description": the task description, or "" if not given
- "due_date": the due date as YYYY-MM-DD, or "" if not given
Do not invent values that are not in the request.`

	defaultChatPrompt = `Extract the Slack operation from the user's request.
Return a JSON object with these keys:
- "action": one of "send", "get", "list_channels"
- "channel_name": the channel name exactly as written, or "" if not given
- "message": the message body to send, or "" if not given
Do not invent values that are not in the request.`

	generalQueryContext = "General Query"
)

func (p Prompts) withDefaults() Prompts {
	if p.General == "" {
		p.General = defaultGeneralPrompt
	}
	if p.Task == "" {
		p.Task = defaultTaskPrompt
	}
	if p.Chat == "" {
		p.Chat = defaultChatPrompt
	}
	return p
}
