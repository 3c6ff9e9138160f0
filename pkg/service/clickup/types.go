package clickup

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/secmon-lab/projectpilot/pkg/domain/model"
)

// Service provides the subset of the ClickUp v2 API used for task operations.
// The API token is passed per call because credentials are bound to projects.
type Service interface {
	// CreateTask creates a task in the list
	CreateTask(ctx context.Context, token, listID string, input *TaskInput) (*Task, error)

	// UpdateTask updates the fields set in input; empty fields are left untouched
	UpdateTask(ctx context.Context, token, taskID string, input *TaskInput) (*Task, error)

	DeleteTask(ctx context.Context, token, taskID string) error

	GetTask(ctx context.Context, token, taskID string) (*Task, error)

	// ListTasks returns every open task in the list
	ListTasks(ctx context.Context, token, listID string) ([]*Task, error)

	// GetAuthorizedUser returns the user that owns the token
	GetAuthorizedUser(ctx context.Context, token string) (*User, error)
}

// TaskInput is the create/update payload. Zero fields are omitted from the request.
type TaskInput struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	DueDate     *int64 `json:"due_date,omitempty"`
}

// Task is a ClickUp task as returned by the API
type Task struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	DueDate     json.Number `json:"due_date"`
	Creator     User        `json:"creator"`
}

// User is a ClickUp account
type User struct {
	ID       json.Number `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
}

// StatusError is returned when ClickUp answers with a non-2xx status
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ClickUp API %s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return model.ErrUpstream
}

// TransportError is returned when the request did not reach ClickUp or the response could not be read
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ClickUp API %s %s failed: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{model.ErrUpstream, e.Err}
}
