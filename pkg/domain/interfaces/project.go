package interfaces

import (
	"context"

	"github.com/secmon-lab/projectpilot/pkg/domain/model"
)

// ProjectRepository defines the interface for Project data persistence.
// Every read and write is scoped by owner; a project owned by someone else is reported as not found.
type ProjectRepository interface {
	// Create assigns a new sequential ID and stores the project
	Create(ctx context.Context, project *model.Project) (*model.Project, error)

	Get(ctx context.Context, ownerID model.UserID, id int64) (*model.Project, error)

	// List returns the owner's projects ordered by ID
	List(ctx context.Context, ownerID model.UserID) ([]*model.Project, error)

	Update(ctx context.Context, project *model.Project) (*model.Project, error)

	Delete(ctx context.Context, ownerID model.UserID, id int64) error
}
