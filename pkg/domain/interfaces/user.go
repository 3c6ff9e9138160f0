package interfaces

import (
	"context"

	"github.com/secmon-lab/projectpilot/pkg/domain/model"
)

// UserRepository defines the interface for local account persistence
type UserRepository interface {
	// Create stores a new user. A duplicated name returns an error wrapping model.ErrAlreadyExists.
	Create(ctx context.Context, user *model.User) error

	Get(ctx context.Context, id model.UserID) (*model.User, error)

	GetByName(ctx context.Context, name string) (*model.User, error)
}
