package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
)

type projectRepository struct {
	db *sql.DB
}

const projectColumns = `id, owner_id, name, department, client, deadline, description, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*model.Project, error) {
	var (
		p                    model.Project
		owner                string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&p.ID, &owner, &p.Name, &p.Department, &p.Client, &p.Deadline, &p.Description, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.OwnerID = model.UserID(owner)
	p.CreatedAt = fromUnixNano(createdAt)
	p.UpdatedAt = fromUnixNano(updatedAt)
	return &p, nil
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) (*model.Project, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (owner_id, name, department, client, deadline, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(project.OwnerID), project.Name, project.Department, project.Client,
		project.Deadline, project.Description, toUnixNano(now), toUnixNano(now))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create project")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get project ID")
	}

	created := *project
	created.ID = id
	created.CreatedAt = fromUnixNano(toUnixNano(now))
	created.UpdatedAt = created.CreatedAt
	return &created, nil
}

func (r *projectRepository) Get(ctx context.Context, ownerID model.UserID, id int64) (*model.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ? AND owner_id = ?`, id, string(ownerID))
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, goerr.Wrap(model.ErrNotFound, "project not found", goerr.V(model.ProjectIDKey, id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get project", goerr.V(model.ProjectIDKey, id))
	}
	return p, nil
}

func (r *projectRepository) List(ctx context.Context, ownerID model.UserID) ([]*model.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE owner_id = ? ORDER BY id`, string(ownerID))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list projects", goerr.V(model.UserIDKey, ownerID))
	}
	defer func() { _ = rows.Close() }()

	projects := make([]*model.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan project")
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate projects")
	}
	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, project *model.Project) (*model.Project, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, department = ?, client = ?, deadline = ?, description = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		project.Name, project.Department, project.Client, project.Deadline, project.Description,
		toUnixNano(now), project.ID, string(project.OwnerID))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update project", goerr.V(model.ProjectIDKey, project.ID))
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, goerr.Wrap(err, "failed to get affected rows")
	} else if n == 0 {
		return nil, goerr.Wrap(model.ErrNotFound, "project not found", goerr.V(model.ProjectIDKey, project.ID))
	}
	return r.Get(ctx, project.OwnerID, project.ID)
}

func (r *projectRepository) Delete(ctx context.Context, ownerID model.UserID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ? AND owner_id = ?`, id, string(ownerID))
	if err != nil {
		return goerr.Wrap(err, "failed to delete project", goerr.V(model.ProjectIDKey, id))
	}
	if n, err := res.RowsAffected(); err != nil {
		return goerr.Wrap(err, "failed to get affected rows")
	} else if n == 0 {
		return goerr.Wrap(model.ErrNotFound, "project not found", goerr.V(model.ProjectIDKey, id))
	}
	return nil
}
