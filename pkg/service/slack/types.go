package slack

import (
	"context"
	"fmt"

	"github.com/secmon-lab/projectpilot/pkg/domain/model"
)

// Service provides the subset of the Slack Web API used by the chat integration.
// The bot token is passed per call because installations are bound to projects.
type Service interface {
	// ListChannels returns every public, non-archived channel visible to the token
	ListChannels(ctx context.Context, token string) ([]Channel, error)

	// PostMessage posts plain text to a channel and returns the message timestamp
	PostMessage(ctx context.Context, token, channelID, text string) (string, error)

	// GetConversationHistory returns up to limit messages, newest first
	GetConversationHistory(ctx context.Context, token, channelID string, limit int) ([]Message, error)

	// GetUserInfo retrieves user information for the given user ID
	GetUserInfo(ctx context.Context, token, userID string) (*User, error)

	// ExchangeOAuthCode completes the OAuth v2 flow and returns the bot installation
	ExchangeOAuthCode(ctx context.Context, clientID, clientSecret, code, redirectURI string) (*Installation, error)
}

// Channel represents a Slack channel
type Channel struct {
	ID   string
	Name string
}

// Message represents a channel message
type Message struct {
	UserID    string
	Text      string
	Timestamp string
}

// User represents a Slack user
type User struct {
	ID       string
	Name     string
	RealName string
}

// DisplayName prefers the real name, then the handle, then the raw ID
func (u *User) DisplayName() string {
	switch {
	case u.RealName != "":
		return u.RealName
	case u.Name != "":
		return u.Name
	default:
		return u.ID
	}
}

// Installation is the result of an OAuth v2 exchange
type Installation struct {
	AccessToken model.SecretString
	TeamID      string
	TeamName    string
	BotUserID   string
}

// APIError is returned when Slack answers with ok=false
type APIError struct {
	Method string
	Code   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("slack %s returned error: %s", e.Method, e.Code)
}

func (e *APIError) Unwrap() error {
	return model.ErrUpstream
}

// TransportError is returned when the call did not get a Slack response
type TransportError struct {
	Method string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("slack %s failed: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{model.ErrUpstream, e.Err}
}
