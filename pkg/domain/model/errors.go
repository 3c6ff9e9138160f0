package model

import "github.com/m-mizutani/goerr/v2"

// Error taxonomy shared by services, use cases and the HTTP boundary.
// Compare with errors.Is.
var (
	ErrNotFound             = goerr.New("not found")
	ErrPermissionDenied     = goerr.New("permission denied")
	ErrValidation           = goerr.New("validation failure")
	ErrUpstream             = goerr.New("upstream failure")
	ErrConfigurationMissing = goerr.New("configuration missing")
	ErrUnauthenticated      = goerr.New("unauthenticated")
	ErrAlreadyExists        = goerr.New("already exists")
)

// Context keys for error values
const (
	UserIDKey    = "user_id"
	ProjectIDKey = "project_id"
	VendorKey    = "vendor"
	TaskIDKey    = "task_id"
	TaskNameKey  = "task_name"
	ChannelKey   = "channel"
)
