package sqlite

import (
	"context"
	"database/sql"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
)

type userRepository struct {
	db *sql.DB
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		string(user.ID), user.Name, string(user.PasswordHash), toUnixNano(user.CreatedAt))
	if isUniqueViolation(err) {
		return goerr.Wrap(model.ErrAlreadyExists, "user name already registered", goerr.V("name", user.Name))
	}
	if err != nil {
		return goerr.Wrap(err, "failed to create user", goerr.V(model.UserIDKey, user.ID))
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id model.UserID) (*model.User, error) {
	return r.getBy(ctx, "id", string(id))
}

func (r *userRepository) GetByName(ctx context.Context, name string) (*model.User, error) {
	return r.getBy(ctx, "name", name)
}

// getBy looks a user up by an indexed column; column is never user input
func (r *userRepository) getBy(ctx context.Context, column, value string) (*model.User, error) {
	var (
		u         model.User
		id, hash  string
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, password_hash, created_at FROM users WHERE `+column+` = ?`, value).
		Scan(&id, &u.Name, &hash, &createdAt)
	if err == sql.ErrNoRows {
		return nil, goerr.Wrap(model.ErrNotFound, "user not found", goerr.V(column, value))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(column, value))
	}
	u.ID = model.UserID(id)
	u.PasswordHash = model.SecretString(hash)
	u.CreatedAt = fromUnixNano(createdAt)
	return &u, nil
}
