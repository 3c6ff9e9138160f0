package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/domain/types"
	"github.com/secmon-lab/projectpilot/pkg/repository/memory"
	"github.com/secmon-lab/projectpilot/pkg/usecase"
)

func TestProjectUseCase(t *testing.T) {
	t.Run("create sets owner and validates", func(t *testing.T) {
		ctx := context.Background()
		uc := usecase.NewProjectUseCase(memory.New())

		p, err := uc.Create(ctx, testOwner, &model.Project{Name: "Apollo", OwnerID: "spoofed", Deadline: "2025-06-30"})
		gt.NoError(t, err).Required()
		gt.Value(t, p.OwnerID).Equal(testOwner)
		gt.Number(t, p.ID).Greater(0)

		_, err = uc.Create(ctx, testOwner, &model.Project{Name: ""})
		gt.Error(t, err).Is(model.ErrValidation)

		_, err = uc.Create(ctx, testOwner, &model.Project{Name: "x", Deadline: "June"})
		gt.Error(t, err).Is(model.ErrValidation)
	})

	t.Run("other owners cannot see or modify", func(t *testing.T) {
		ctx := context.Background()
		uc := usecase.NewProjectUseCase(memory.New())
		p, err := uc.Create(ctx, testOwner, &model.Project{Name: "Apollo"})
		gt.NoError(t, err).Required()

		_, err = uc.Get(ctx, "intruder", p.ID)
		gt.Error(t, err).Is(model.ErrNotFound)
		_, err = uc.Update(ctx, "intruder", p.ID, &model.Project{Name: "Mine now"})
		gt.Error(t, err).Is(model.ErrNotFound)
		gt.Error(t, uc.Delete(ctx, "intruder", p.ID)).Is(model.ErrNotFound)

		list, err := uc.List(ctx, "intruder")
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(0)
	})

	t.Run("update replaces fields", func(t *testing.T) {
		ctx := context.Background()
		uc := usecase.NewProjectUseCase(memory.New())
		p, err := uc.Create(ctx, testOwner, &model.Project{Name: "Apollo", Client: "Acme"})
		gt.NoError(t, err).Required()

		updated, err := uc.Update(ctx, testOwner, p.ID, &model.Project{Name: "Artemis"})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Name).Equal("Artemis")
		gt.Value(t, updated.Client).Equal("")
		gt.Value(t, updated.CreatedAt).Equal(p.CreatedAt)
		gt.Bool(t, updated.UpdatedAt.Before(p.UpdatedAt)).False()
	})

	t.Run("delete removes credentials", func(t *testing.T) {
		ctx := context.Background()
		repo := memory.New()
		uc := usecase.NewProjectUseCase(repo)
		p, err := uc.Create(ctx, testOwner, &model.Project{Name: "Apollo"})
		gt.NoError(t, err).Required()
		putClickUp(t, repo, p.ID, &model.ClickUpConfig{APIToken: "pk_1"})

		gt.NoError(t, uc.Delete(ctx, testOwner, p.ID)).Required()

		_, err = repo.Credential().Get(ctx, p.ID, types.VendorClickUp)
		gt.Error(t, err).Is(model.ErrNotFound)
		_, err = uc.Get(ctx, testOwner, p.ID)
		gt.Error(t, err).Is(model.ErrNotFound)
	})
}
