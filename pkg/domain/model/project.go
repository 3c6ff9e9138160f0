package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Project is an owner-scoped container that integrations and chat records hang off
type Project struct {
	ID          int64
	OwnerID     UserID
	Name        string
	Department  string
	Client      string
	Deadline    string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks required fields
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return goerr.Wrap(ErrValidation, "project name is required")
	}
	if p.OwnerID == "" {
		return goerr.Wrap(ErrValidation, "project owner is required")
	}
	if p.Deadline != "" {
		if _, err := time.Parse(time.DateOnly, p.Deadline); err != nil {
			return goerr.Wrap(ErrValidation, "project deadline must be YYYY-MM-DD", goerr.V("deadline", p.Deadline))
		}
	}
	return nil
}

// ContextPrompt renders the project as the context line given to the completion capability
func (p *Project) ContextPrompt() string {
	return fmt.Sprintf("Context: Project Name: %s, Department: %s, Client: %s, Deadline: %s, Description: %s",
		p.Name, p.Department, p.Client, p.Deadline, p.Description)
}
