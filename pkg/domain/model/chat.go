package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatRecordID is a UUID-based identifier for ChatRecord
type ChatRecordID string

// NewChatRecordID generates a new UUID v4 ChatRecordID
func NewChatRecordID() ChatRecordID {
	return ChatRecordID(uuid.New().String())
}

func (id ChatRecordID) String() string {
	return string(id)
}

// ChatRecord is one query/response exchange. Records are append-only.
type ChatRecord struct {
	ID        ChatRecordID
	UserID    UserID
	ProjectID *int64
	Query     string
	Response  string
	CreatedAt time.Time
}
