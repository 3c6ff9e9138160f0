package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/projectpilot/pkg/domain/interfaces"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
)

func TestUserRepository(t *testing.T) {
	runRepositoryTest(t, func(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
		t.Run("Create and look up by id and name", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			user := &model.User{
				ID:           model.NewUserID(),
				Name:         fmt.Sprintf("alice-%d", time.Now().UnixNano()),
				PasswordHash: "$2a$10$hash",
				CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
			}
			gt.NoError(t, repo.User().Create(ctx, user)).Required()

			byID, err := repo.User().Get(ctx, user.ID)
			gt.NoError(t, err).Required()
			gt.Value(t, byID.Name).Equal(user.Name)
			gt.Value(t, byID.PasswordHash).Equal(user.PasswordHash)

			byName, err := repo.User().GetByName(ctx, user.Name)
			gt.NoError(t, err).Required()
			gt.Value(t, byName.ID).Equal(user.ID)
		})

		t.Run("Create rejects duplicated names", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()
			name := fmt.Sprintf("bob-%d", time.Now().UnixNano())

			gt.NoError(t, repo.User().Create(ctx, &model.User{ID: model.NewUserID(), Name: name, CreatedAt: time.Now()})).Required()
			err := repo.User().Create(ctx, &model.User{ID: model.NewUserID(), Name: name, CreatedAt: time.Now()})
			gt.Error(t, err).Is(model.ErrAlreadyExists)
		})

		t.Run("Get returns NotFound for unknown user", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			_, err := repo.User().Get(ctx, model.NewUserID())
			gt.Error(t, err).Is(model.ErrNotFound)
			_, err = repo.User().GetByName(ctx, "nobody")
			gt.Error(t, err).Is(model.ErrNotFound)
		})
	})
}
