package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/domain/types"
)

type credentialKey struct {
	projectID int64
	vendor    types.Vendor
}

type credentialRepository struct {
	mu          sync.RWMutex
	credentials map[credentialKey]*model.Credential
}

func newCredentialRepository() *credentialRepository {
	return &credentialRepository{
		credentials: make(map[credentialKey]*model.Credential),
	}
}

// copyCredential creates a deep copy of a credential
func copyCredential(c *model.Credential) *model.Credential {
	copied := *c
	if c.ClickUp != nil {
		cfg := *c.ClickUp
		copied.ClickUp = &cfg
	}
	if c.Slack != nil {
		cfg := *c.Slack
		copied.Slack = &cfg
	}
	return &copied
}

func (r *credentialRepository) Get(ctx context.Context, projectID int64, vendor types.Vendor) (*model.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.credentials[credentialKey{projectID, vendor}]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "credential not found",
			goerr.V(model.ProjectIDKey, projectID), goerr.V(model.VendorKey, vendor))
	}
	return copyCredential(c), nil
}

func (r *credentialRepository) Put(ctx context.Context, credential *model.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := credentialKey{credential.ProjectID, credential.Vendor}
	now := time.Now().UTC()
	stored := copyCredential(credential)
	stored.CreatedAt = now
	if existing, ok := r.credentials[key]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	stored.UpdatedAt = now
	r.credentials[key] = stored
	return nil
}

func (r *credentialRepository) DeleteByProject(ctx context.Context, projectID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.credentials {
		if key.projectID == projectID {
			delete(r.credentials, key)
		}
	}
	return nil
}
