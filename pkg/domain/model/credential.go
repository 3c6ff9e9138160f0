package model

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/types"
)

// SecretString holds a credential. It is redacted by the log filter.
type SecretString string

// LogValue hides the secret when logged through slog without the masq filter.
func (s SecretString) LogValue() slog.Value {
	if s == "" {
		return slog.StringValue("")
	}
	return slog.StringValue("[REDACTED]")
}

// Credential is the per (project, vendor) integration configuration.
// Exactly one of ClickUp or Slack is set, matching Vendor.
type Credential struct {
	ProjectID int64
	Vendor    types.Vendor
	ClickUp   *ClickUpConfig
	Slack     *SlackConfig
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClickUpConfig holds ClickUp specific configuration
type ClickUpConfig struct {
	APIToken SecretString
	ListID   string
	// UserID is the ClickUp user that owns APIToken, used for the task ownership check
	UserID string
}

// SlackConfig holds Slack OAuth configuration and the installed bot token
type SlackConfig struct {
	ClientID     string
	ClientSecret SecretString
	RedirectURI  string
	AccessToken  SecretString
	TeamID       string
}

// Validate checks that the vendor specific configuration matches Vendor
func (c *Credential) Validate() error {
	if c.ProjectID <= 0 {
		return goerr.Wrap(ErrValidation, "credential project is required")
	}
	if !c.Vendor.IsValid() {
		return goerr.Wrap(ErrValidation, "unknown vendor", goerr.V(VendorKey, c.Vendor))
	}
	switch c.Vendor {
	case types.VendorClickUp:
		if c.ClickUp == nil || c.Slack != nil {
			return goerr.Wrap(ErrValidation, "clickup credential requires clickup config only", goerr.V(ProjectIDKey, c.ProjectID))
		}
	case types.VendorSlack:
		if c.Slack == nil || c.ClickUp != nil {
			return goerr.Wrap(ErrValidation, "slack credential requires slack config only", goerr.V(ProjectIDKey, c.ProjectID))
		}
	}
	return nil
}
