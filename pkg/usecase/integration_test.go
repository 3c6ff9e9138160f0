package usecase_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/domain/types"
	"github.com/secmon-lab/projectpilot/pkg/repository/memory"
	"github.com/secmon-lab/projectpilot/pkg/service/clickup"
	"github.com/secmon-lab/projectpilot/pkg/service/slack"
	"github.com/secmon-lab/projectpilot/pkg/usecase"
)

var testSecret = []byte("test-secret")

func TestIntegrationUseCase_ClickUp(t *testing.T) {
	t.Run("token stores the resolved ClickUp user and keeps the list", func(t *testing.T) {
		ctx := context.Background()
		repo := memory.New()
		projectID := createProject(t, repo, testOwner, "Apollo")
		cu := &mockClickUp{
			getAuthorizedUserFn: func(ctx context.Context, token string) (*clickup.User, error) {
				gt.Value(t, token).Equal("pk_new")
				return &clickup.User{ID: "4242", Username: "owner"}, nil
			},
		}
		uc := usecase.NewIntegrationUseCase(repo, cu, &mockSlack{}, testSecret)

		_, err := uc.SetClickUpList(ctx, testOwner, projectID, "L9")
		gt.NoError(t, err).Required()
		cred, err := uc.SetClickUpToken(ctx, testOwner, projectID, " pk_new ")
		gt.NoError(t, err).Required()

		gt.Value(t, cred.ClickUp.APIToken).Equal(model.SecretString("pk_new"))
		gt.Value(t, cred.ClickUp.UserID).Equal("4242")
		gt.Value(t, cred.ClickUp.ListID).Equal("L9")

		stored, err := repo.Credential().Get(ctx, projectID, types.VendorClickUp)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.ClickUp.ListID).Equal("L9")
	})

	t.Run("rejected token is not stored", func(t *testing.T) {
		ctx := context.Background()
		repo := memory.New()
		projectID := createProject(t, repo, testOwner, "Apollo")
		cu := &mockClickUp{
			getAuthorizedUserFn: func(ctx context.Context, token string) (*clickup.User, error) {
				return nil, &clickup.StatusError{Method: "GET", Path: "/user", StatusCode: 401}
			},
		}
		uc := usecase.NewIntegrationUseCase(repo, cu, &mockSlack{}, testSecret)

		_, err := uc.SetClickUpToken(ctx, testOwner, projectID, "pk_bad")
		gt.Error(t, err).Is(model.ErrUpstream)
		_, err = repo.Credential().Get(ctx, projectID, types.VendorClickUp)
		gt.Error(t, err).Is(model.ErrNotFound)
	})

	t.Run("project of another owner", func(t *testing.T) {
		repo := memory.New()
		projectID := createProject(t, repo, "someone-else", "Hidden")
		uc := usecase.NewIntegrationUseCase(repo, &mockClickUp{}, &mockSlack{}, testSecret)

		_, err := uc.SetClickUpList(context.Background(), testOwner, projectID, "L1")
		gt.Error(t, err).Is(model.ErrNotFound)
	})

	t.Run("blank values", func(t *testing.T) {
		repo := memory.New()
		projectID := createProject(t, repo, testOwner, "Apollo")
		uc := usecase.NewIntegrationUseCase(repo, &mockClickUp{}, &mockSlack{}, testSecret)

		_, err := uc.SetClickUpToken(context.Background(), testOwner, projectID, " ")
		gt.Error(t, err).Is(model.ErrValidation)
		_, err = uc.SetClickUpList(context.Background(), testOwner, projectID, "")
		gt.Error(t, err).Is(model.ErrValidation)
	})
}

func TestIntegrationUseCase_SlackOAuth(t *testing.T) {
	app := usecase.SlackApp{ClientID: "cid", ClientSecret: "csecret", RedirectURI: "https://pilot.example.com/api/slack/callback"}

	t.Run("authorize and complete", func(t *testing.T) {
		ctx := context.Background()
		repo := memory.New()
		projectID := createProject(t, repo, testOwner, "Apollo")
		sl := &mockSlack{
			exchangeOAuthCodeFn: func(ctx context.Context, clientID, clientSecret, code, redirectURI string) (*slack.Installation, error) {
				gt.Value(t, clientID).Equal("cid")
				gt.Value(t, clientSecret).Equal("csecret")
				gt.Value(t, code).Equal("code-1")
				gt.Value(t, redirectURI).Equal(app.RedirectURI)
				return &slack.Installation{AccessToken: "xoxb-installed", TeamID: "T1"}, nil
			},
		}
		uc := usecase.NewIntegrationUseCase(repo, &mockClickUp{}, sl, testSecret)

		_, err := uc.ConfigureSlack(ctx, testOwner, projectID, app)
		gt.NoError(t, err).Required()

		raw, err := uc.SlackAuthorizeURL(ctx, testOwner, projectID)
		gt.NoError(t, err).Required()
		gt.Bool(t, strings.HasPrefix(raw, slack.OAuthAuthorizeURL+"?")).True()

		u, err := url.Parse(raw)
		gt.NoError(t, err).Required()
		q := u.Query()
		gt.Value(t, q.Get("client_id")).Equal("cid")
		gt.Value(t, q.Get("scope")).Equal("channels:read,chat:write,users:read")
		gt.Value(t, q.Get("redirect_uri")).Equal(app.RedirectURI)

		cred, err := uc.CompleteSlackOAuth(ctx, "code-1", q.Get("state"))
		gt.NoError(t, err).Required()
		gt.Value(t, cred.Slack.AccessToken).Equal(model.SecretString("xoxb-installed"))
		gt.Value(t, cred.Slack.TeamID).Equal("T1")

		// Reconfiguring the app keeps the installation
		cred, err = uc.ConfigureSlack(ctx, testOwner, projectID, app)
		gt.NoError(t, err).Required()
		gt.Value(t, cred.Slack.AccessToken).Equal(model.SecretString("xoxb-installed"))
	})

	t.Run("authorize without app configuration", func(t *testing.T) {
		repo := memory.New()
		projectID := createProject(t, repo, testOwner, "Apollo")
		uc := usecase.NewIntegrationUseCase(repo, &mockClickUp{}, &mockSlack{}, testSecret)

		_, err := uc.SlackAuthorizeURL(context.Background(), testOwner, projectID)
		gt.Error(t, err).Is(model.ErrConfigurationMissing)
	})

	t.Run("forged state", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.NewIntegrationUseCase(repo, &mockClickUp{}, &mockSlack{}, testSecret)

		_, err := uc.CompleteSlackOAuth(context.Background(), "code-1", "1")
		gt.Error(t, err).Is(usecase.ErrInvalidOAuthState)
	})

	t.Run("state signed with another secret", func(t *testing.T) {
		ctx := context.Background()
		repo := memory.New()
		projectID := createProject(t, repo, testOwner, "Apollo")
		issuer := usecase.NewIntegrationUseCase(repo, &mockClickUp{}, &mockSlack{}, []byte("other-secret"))
		_, err := issuer.ConfigureSlack(ctx, testOwner, projectID, app)
		gt.NoError(t, err).Required()
		raw, err := issuer.SlackAuthorizeURL(ctx, testOwner, projectID)
		gt.NoError(t, err).Required()
		u, err := url.Parse(raw)
		gt.NoError(t, err).Required()

		uc := usecase.NewIntegrationUseCase(repo, &mockClickUp{}, &mockSlack{}, testSecret)
		_, err = uc.CompleteSlackOAuth(ctx, "code-1", u.Query().Get("state"))
		gt.Error(t, err).Is(usecase.ErrInvalidOAuthState)
	})

	t.Run("expired state", func(t *testing.T) {
		ctx := context.Background()
		repo := memory.New()
		projectID := createProject(t, repo, testOwner, "Apollo")
		uc := usecase.NewIntegrationUseCase(repo, &mockClickUp{}, &mockSlack{}, testSecret)
		_, err := uc.ConfigureSlack(ctx, testOwner, projectID, app)
		gt.NoError(t, err).Required()

		issuedAt := time.Now()
		usecase.SetIntegrationClock(uc, func() time.Time { return issuedAt })
		raw, err := uc.SlackAuthorizeURL(ctx, testOwner, projectID)
		gt.NoError(t, err).Required()
		u, err := url.Parse(raw)
		gt.NoError(t, err).Required()

		usecase.SetIntegrationClock(uc, func() time.Time { return issuedAt.Add(time.Hour) })
		_, err = uc.CompleteSlackOAuth(ctx, "code-1", u.Query().Get("state"))
		gt.Error(t, err).Is(usecase.ErrInvalidOAuthState)
	})

	t.Run("missing app fields", func(t *testing.T) {
		repo := memory.New()
		projectID := createProject(t, repo, testOwner, "Apollo")
		uc := usecase.NewIntegrationUseCase(repo, &mockClickUp{}, &mockSlack{}, testSecret)

		_, err := uc.ConfigureSlack(context.Background(), testOwner, projectID, usecase.SlackApp{ClientID: "cid"})
		gt.Error(t, err).Is(model.ErrValidation)
	})
}
