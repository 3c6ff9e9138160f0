package usecase

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
)

// Sentinel errors for use case layer
var (
	// ErrUnparsableAction is returned when a completion is not a usable action descriptor
	ErrUnparsableAction = goerr.Wrap(model.ErrValidation, "completion is not a valid action descriptor")

	// ErrLLMNotConfigured is returned when no completion provider is wired in
	ErrLLMNotConfigured = goerr.Wrap(model.ErrConfigurationMissing, "completion provider is not configured")

	// ErrInvalidOAuthState is returned when the OAuth callback state is forged or expired
	ErrInvalidOAuthState = goerr.Wrap(model.ErrValidation, "invalid OAuth state")
)

// Context keys for error values
const (
	QueryKey      = "query"
	CompletionKey = "completion"
)
