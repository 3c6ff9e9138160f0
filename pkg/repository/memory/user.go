package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
)

type userRepository struct {
	mu     sync.RWMutex
	users  map[model.UserID]*model.User
	byName map[string]model.UserID
}

func newUserRepository() *userRepository {
	return &userRepository{
		users:  make(map[model.UserID]*model.User),
		byName: make(map[string]model.UserID),
	}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[user.Name]; exists {
		return goerr.Wrap(model.ErrAlreadyExists, "user name already registered", goerr.V("name", user.Name))
	}
	copied := *user
	r.users[user.ID] = &copied
	r.byName[user.Name] = user.ID
	return nil
}

func (r *userRepository) Get(ctx context.Context, id model.UserID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "user not found", goerr.V(model.UserIDKey, id))
	}
	copied := *user
	return &copied, nil
}

func (r *userRepository) GetByName(ctx context.Context, name string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[name]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "user not found", goerr.V("name", name))
	}
	copied := *r.users[id]
	return &copied, nil
}
