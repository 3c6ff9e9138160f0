package model

import "github.com/secmon-lab/projectpilot/pkg/domain/types"

// TaskAction is an operation extracted from a query for the task vendor.
// Empty strings mean the field was not given.
type TaskAction struct {
	Kind        types.TaskActionKind `json:"action"`
	TaskName    string               `json:"task_name"`
	TaskID      string               `json:"task_id"`
	Description string               `json:"description"`
	DueDate     string               `json:"due_date"`
}

// ChatAction is an operation extracted from a query for the chat vendor.
type ChatAction struct {
	Kind        types.ChatActionKind `json:"action"`
	ChannelName string               `json:"channel_name"`
	Message     string               `json:"message"`
}
