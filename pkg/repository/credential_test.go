package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/projectpilot/pkg/domain/interfaces"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/domain/types"
)

func TestCredentialRepository(t *testing.T) {
	runRepositoryTest(t, func(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
		t.Run("Get returns NotFound before Put", func(t *testing.T) {
			repo := newRepo(t)
			_, err := repo.Credential().Get(context.Background(), 1, types.VendorClickUp)
			gt.Error(t, err).Is(model.ErrNotFound)
		})

		t.Run("Put upserts per project and vendor", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			gt.NoError(t, repo.Credential().Put(ctx, &model.Credential{
				ProjectID: 7,
				Vendor:    types.VendorClickUp,
				ClickUp:   &model.ClickUpConfig{APIToken: "pk_first", UserID: "42"},
			})).Required()

			first, err := repo.Credential().Get(ctx, 7, types.VendorClickUp)
			gt.NoError(t, err).Required()
			gt.Value(t, first.ClickUp.APIToken).Equal(model.SecretString("pk_first"))
			gt.Value(t, first.ClickUp.ListID).Equal("")

			gt.NoError(t, repo.Credential().Put(ctx, &model.Credential{
				ProjectID: 7,
				Vendor:    types.VendorClickUp,
				ClickUp:   &model.ClickUpConfig{APIToken: "pk_second", ListID: "901", UserID: "42"},
			})).Required()

			second, err := repo.Credential().Get(ctx, 7, types.VendorClickUp)
			gt.NoError(t, err).Required()
			gt.Value(t, second.ClickUp.APIToken).Equal(model.SecretString("pk_second"))
			gt.Value(t, second.ClickUp.ListID).Equal("901")
			gt.Value(t, second.ClickUp.UserID).Equal("42")
			gt.Value(t, second.Slack).Nil()
			gt.Bool(t, second.CreatedAt.Equal(first.CreatedAt)).True()

			_, err = repo.Credential().Get(ctx, 7, types.VendorSlack)
			gt.Error(t, err).Is(model.ErrNotFound)
		})

		t.Run("Slack credential round trip", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			gt.NoError(t, repo.Credential().Put(ctx, &model.Credential{
				ProjectID: 3,
				Vendor:    types.VendorSlack,
				Slack: &model.SlackConfig{
					ClientID:     "cid",
					ClientSecret: "secret",
					RedirectURI:  "https://example.com/cb",
					AccessToken:  "xoxb-1",
					TeamID:       "T1",
				},
			})).Required()

			got, err := repo.Credential().Get(ctx, 3, types.VendorSlack)
			gt.NoError(t, err).Required()
			gt.Value(t, got.Slack.ClientID).Equal("cid")
			gt.Value(t, got.Slack.ClientSecret).Equal(model.SecretString("secret"))
			gt.Value(t, got.Slack.AccessToken).Equal(model.SecretString("xoxb-1"))
			gt.Value(t, got.Slack.TeamID).Equal("T1")
			gt.Value(t, got.ClickUp).Nil()
		})

		t.Run("DeleteByProject removes all vendors of the project only", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			for _, c := range []*model.Credential{
				{ProjectID: 5, Vendor: types.VendorClickUp, ClickUp: &model.ClickUpConfig{APIToken: "a"}},
				{ProjectID: 5, Vendor: types.VendorSlack, Slack: &model.SlackConfig{ClientID: "b"}},
				{ProjectID: 6, Vendor: types.VendorSlack, Slack: &model.SlackConfig{ClientID: "c"}},
			} {
				gt.NoError(t, repo.Credential().Put(ctx, c)).Required()
			}

			gt.NoError(t, repo.Credential().DeleteByProject(ctx, 5)).Required()

			_, err := repo.Credential().Get(ctx, 5, types.VendorClickUp)
			gt.Error(t, err).Is(model.ErrNotFound)
			_, err = repo.Credential().Get(ctx, 5, types.VendorSlack)
			gt.Error(t, err).Is(model.ErrNotFound)
			_, err = repo.Credential().Get(ctx, 6, types.VendorSlack)
			gt.NoError(t, err)

			gt.NoError(t, repo.Credential().DeleteByProject(ctx, 999))
		})
	})
}
