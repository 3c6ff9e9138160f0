package types

// TaskActionKind is an operation against the task-tracking vendor
type TaskActionKind string

const (
	TaskActionAdd    TaskActionKind = "add"
	TaskActionUpdate TaskActionKind = "update"
	TaskActionDelete TaskActionKind = "delete"
	TaskActionGet    TaskActionKind = "get"
	TaskActionGetAll TaskActionKind = "get_all"
)

// AllTaskActionKinds returns all valid task action kinds
func AllTaskActionKinds() []TaskActionKind {
	return []TaskActionKind{
		TaskActionAdd,
		TaskActionUpdate,
		TaskActionDelete,
		TaskActionGet,
		TaskActionGetAll,
	}
}

// IsValid checks if the task action kind is valid
func (k TaskActionKind) IsValid() bool {
	switch k {
	case TaskActionAdd,
		TaskActionUpdate,
		TaskActionDelete,
		TaskActionGet,
		TaskActionGetAll:
		return true
	default:
		return false
	}
}

func (k TaskActionKind) String() string {
	return string(k)
}


// ChatActionKind is an operation against the chat vendor
type ChatActionKind string

const (
	ChatActionListChannels ChatActionKind = "list_channels"
	ChatActionSend         ChatActionKind = "send"
	ChatActionGet          ChatActionKind = "get"
)

// AllChatActionKinds returns all valid chat action kinds
func AllChatActionKinds() []ChatActionKind {
	return []ChatActionKind{
		ChatActionListChannels,
		ChatActionSend,
		ChatActionGet,
	}
}

// IsValid checks if the chat action kind is valid
func (k ChatActionKind) IsValid() bool {
	switch k {
	case ChatActionListChannels, ChatActionSend, ChatActionGet:
		return true
	default:
		return false
	}
}

func (k ChatActionKind) String() string {
	return string(k)
}
