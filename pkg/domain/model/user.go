package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserID is a UUID-based identifier for a local account
type UserID string

// NewUserID generates a new UUID v4 UserID
func NewUserID() UserID {
	return UserID(uuid.New().String())
}

func (id UserID) String() string {
	return string(id)
}

// User is a local account that owns projects and chat history
type User struct {
	ID           UserID
	Name         string
	PasswordHash SecretString
	CreatedAt    time.Time
}

type ctxUserKey struct{}

// ContextWithUserID returns a child context carrying the authenticated caller
func ContextWithUserID(ctx context.Context, id UserID) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, id)
}

// UserIDFromContext returns the authenticated caller, if any
func UserIDFromContext(ctx context.Context) (UserID, bool) {
	id, ok := ctx.Value(ctxUserKey{}).(UserID)
	return id, ok && id != ""
}
