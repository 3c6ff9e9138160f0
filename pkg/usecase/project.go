package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/interfaces"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
)

// ProjectUseCase manages projects owned by the caller
type ProjectUseCase struct {
	repo interfaces.Repository
}

func NewProjectUseCase(repo interfaces.Repository) *ProjectUseCase {
	return &ProjectUseCase{repo: repo}
}

func (uc *ProjectUseCase) Create(ctx context.Context, ownerID model.UserID, input *model.Project) (*model.Project, error) {
	project := *input
	project.OwnerID = ownerID
	if err := project.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.repo.Project().Create(ctx, &project)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create project")
	}
	return created, nil
}

func (uc *ProjectUseCase) Get(ctx context.Context, ownerID model.UserID, id int64) (*model.Project, error) {
	project, err := uc.repo.Project().Get(ctx, ownerID, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get project", goerr.V(model.ProjectIDKey, id))
	}
	return project, nil
}

func (uc *ProjectUseCase) List(ctx context.Context, ownerID model.UserID) ([]*model.Project, error) {
	projects, err := uc.repo.Project().List(ctx, ownerID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list projects")
	}
	return projects, nil
}

// Update replaces the editable fields of the project and bumps its update time
func (uc *ProjectUseCase) Update(ctx context.Context, ownerID model.UserID, id int64, input *model.Project) (*model.Project, error) {
	project := *input
	project.ID = id
	project.OwnerID = ownerID
	if err := project.Validate(); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Project().Update(ctx, &project)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update project", goerr.V(model.ProjectIDKey, id))
	}
	return updated, nil
}

// Delete removes the project and its integration credentials
func (uc *ProjectUseCase) Delete(ctx context.Context, ownerID model.UserID, id int64) error {
	if err := uc.repo.Project().Delete(ctx, ownerID, id); err != nil {
		return goerr.Wrap(err, "failed to delete project", goerr.V(model.ProjectIDKey, id))
	}
	if err := uc.repo.Credential().DeleteByProject(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete project credentials", goerr.V(model.ProjectIDKey, id))
	}
	return nil
}
