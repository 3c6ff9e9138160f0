package interfaces

import (
	"context"

	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/domain/types"
)

// CredentialRepository stores one integration credential per (project, vendor)
type CredentialRepository interface {
	Get(ctx context.Context, projectID int64, vendor types.Vendor) (*model.Credential, error)

	// Put creates or replaces the credential for (ProjectID, Vendor)
	Put(ctx context.Context, credential *model.Credential) error

	// DeleteByProject removes every credential of the project. Missing records are not an error.
	DeleteByProject(ctx context.Context, projectID int64) error
}
