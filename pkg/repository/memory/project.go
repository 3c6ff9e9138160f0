package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
)

type projectRepository struct {
	mu       sync.RWMutex
	projects map[int64]*model.Project
	nextID   int64
}

func newProjectRepository() *projectRepository {
	return &projectRepository{
		projects: make(map[int64]*model.Project),
		nextID:   1,
	}
}

func copyProject(p *model.Project) *model.Project {
	copied := *p
	return &copied
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyProject(project)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.projects[created.ID] = created
	return copyProject(created), nil
}

func (r *projectRepository) Get(ctx context.Context, ownerID model.UserID, id int64) (*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	project, ok := r.projects[id]
	if !ok || project.OwnerID != ownerID {
		return nil, goerr.Wrap(model.ErrNotFound, "project not found", goerr.V(model.ProjectIDKey, id))
	}
	return copyProject(project), nil
}

func (r *projectRepository) List(ctx context.Context, ownerID model.UserID) ([]*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]*model.Project, 0)
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			projects = append(projects, copyProject(p))
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, project *model.Project) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.projects[project.ID]
	if !ok || existing.OwnerID != project.OwnerID {
		return nil, goerr.Wrap(model.ErrNotFound, "project not found", goerr.V(model.ProjectIDKey, project.ID))
	}

	updated := copyProject(project)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.projects[updated.ID] = updated
	return copyProject(updated), nil
}

func (r *projectRepository) Delete(ctx context.Context, ownerID model.UserID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.projects[id]
	if !ok || existing.OwnerID != ownerID {
		return goerr.Wrap(model.ErrNotFound, "project not found", goerr.V(model.ProjectIDKey, id))
	}
	delete(r.projects, id)
	return nil
}
