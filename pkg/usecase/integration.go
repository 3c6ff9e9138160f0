package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/interfaces"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/domain/types"
	"github.com/secmon-lab/projectpilot/pkg/service/clickup"
	"github.com/secmon-lab/projectpilot/pkg/service/slack"
)

const (
	oauthStateAudience = "slack-oauth"
	oauthStateTTL      = 10 * time.Minute
)

// IntegrationUseCase stores per project vendor credentials
type IntegrationUseCase struct {
	repo    interfaces.Repository
	clickup clickup.Service
	slack   slack.Service
	secret  []byte
	now     func() time.Time
}

func NewIntegrationUseCase(repo interfaces.Repository, cu clickup.Service, sl slack.Service, secret []byte) *IntegrationUseCase {
	return &IntegrationUseCase{repo: repo, clickup: cu, slack: sl, secret: secret, now: time.Now}
}

// getCredential returns the stored credential or an empty one for the vendor
func (uc *IntegrationUseCase) getCredential(ctx context.Context, ownerID model.UserID, projectID int64, vendor types.Vendor) (*model.Credential, error) {
	if _, err := uc.repo.Project().Get(ctx, ownerID, projectID); err != nil {
		return nil, goerr.Wrap(err, "failed to get project", goerr.V(model.ProjectIDKey, projectID))
	}

	cred, err := uc.repo.Credential().Get(ctx, projectID, vendor)
	if errors.Is(err, model.ErrNotFound) {
		cred = &model.Credential{ProjectID: projectID, Vendor: vendor}
	} else if err != nil {
		return nil, goerr.Wrap(err, "failed to get credential", goerr.V(model.ProjectIDKey, projectID))
	}

	switch vendor {
	case types.VendorClickUp:
		if cred.ClickUp == nil {
			cred.ClickUp = &model.ClickUpConfig{}
		}
	case types.VendorSlack:
		if cred.Slack == nil {
			cred.Slack = &model.SlackConfig{}
		}
	}
	return cred, nil
}

func (uc *IntegrationUseCase) put(ctx context.Context, cred *model.Credential) (*model.Credential, error) {
	if err := cred.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Credential().Put(ctx, cred); err != nil {
		return nil, goerr.Wrap(err, "failed to save credential",
			goerr.V(model.ProjectIDKey, cred.ProjectID), goerr.V(model.VendorKey, cred.Vendor))
	}
	return cred, nil
}

// SetClickUpToken saves the API token and the ClickUp user that owns it
func (uc *IntegrationUseCase) SetClickUpToken(ctx context.Context, ownerID model.UserID, projectID int64, token string) (*model.Credential, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, goerr.Wrap(model.ErrValidation, "ClickUp API token is required")
	}

	cred, err := uc.getCredential(ctx, ownerID, projectID, types.VendorClickUp)
	if err != nil {
		return nil, err
	}

	user, err := uc.clickup.GetAuthorizedUser(ctx, token)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to verify ClickUp API token", goerr.V(model.ProjectIDKey, projectID))
	}

	cred.ClickUp.APIToken = model.SecretString(token)
	cred.ClickUp.UserID = user.ID.String()
	return uc.put(ctx, cred)
}

// SetClickUpList associates a ClickUp list with the project
func (uc *IntegrationUseCase) SetClickUpList(ctx context.Context, ownerID model.UserID, projectID int64, listID string) (*model.Credential, error) {
	listID = strings.TrimSpace(listID)
	if listID == "" {
		return nil, goerr.Wrap(model.ErrValidation, "ClickUp list id is required")
	}

	cred, err := uc.getCredential(ctx, ownerID, projectID, types.VendorClickUp)
	if err != nil {
		return nil, err
	}
	cred.ClickUp.ListID = listID
	return uc.put(ctx, cred)
}

// SlackApp is the OAuth client registration of a Slack app
type SlackApp struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// ConfigureSlack saves the Slack app registration. An installed access token is kept.
func (uc *IntegrationUseCase) ConfigureSlack(ctx context.Context, ownerID model.UserID, projectID int64, app SlackApp) (*model.Credential, error) {
	if app.ClientID == "" || app.ClientSecret == "" || app.RedirectURI == "" {
		return nil, goerr.Wrap(model.ErrValidation, "Slack client id, client secret and redirect URI are required")
	}

	cred, err := uc.getCredential(ctx, ownerID, projectID, types.VendorSlack)
	if err != nil {
		return nil, err
	}
	cred.Slack.ClientID = app.ClientID
	cred.Slack.ClientSecret = model.SecretString(app.ClientSecret)
	cred.Slack.RedirectURI = app.RedirectURI
	return uc.put(ctx, cred)
}

type oauthStateClaims struct {
	ProjectID int64 `json:"pid"`
	jwt.RegisteredClaims
}

// SlackAuthorizeURL returns the URL that starts the Slack installation for the project
func (uc *IntegrationUseCase) SlackAuthorizeURL(ctx context.Context, ownerID model.UserID, projectID int64) (string, error) {
	cred, err := uc.getCredential(ctx, ownerID, projectID, types.VendorSlack)
	if err != nil {
		return "", err
	}
	if cred.Slack.ClientID == "" || cred.Slack.RedirectURI == "" {
		return "", goerr.Wrap(model.ErrConfigurationMissing, "Slack app is not configured for the project",
			goerr.V(model.ProjectIDKey, projectID))
	}

	now := uc.now()
	state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, oauthStateClaims{
		ProjectID: projectID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerID.String(),
			Audience:  jwt.ClaimStrings{oauthStateAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(oauthStateTTL)),
		},
	}).SignedString(uc.secret)
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign OAuth state")
	}

	q := url.Values{}
	q.Set("client_id", cred.Slack.ClientID)
	q.Set("scope", slack.OAuthScopes)
	q.Set("redirect_uri", cred.Slack.RedirectURI)
	q.Set("state", state)
	return slack.OAuthAuthorizeURL + "?" + q.Encode(), nil
}

// CompleteSlackOAuth exchanges the callback code and stores the bot token on the project in state
func (uc *IntegrationUseCase) CompleteSlackOAuth(ctx context.Context, code, state string) (*model.Credential, error) {
	if code == "" {
		return nil, goerr.Wrap(model.ErrValidation, "OAuth code is required")
	}

	claims := &oauthStateClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(oauthStateAudience),
		jwt.WithTimeFunc(uc.now),
	)
	if _, err := parser.ParseWithClaims(state, claims, func(t *jwt.Token) (any, error) {
		return uc.secret, nil
	}); err != nil {
		return nil, goerr.Wrap(ErrInvalidOAuthState, "failed to verify OAuth state", goerr.V("error", err.Error()))
	}

	ownerID := model.UserID(claims.Subject)
	cred, err := uc.getCredential(ctx, ownerID, claims.ProjectID, types.VendorSlack)
	if err != nil {
		return nil, err
	}
	if cred.Slack.ClientID == "" {
		return nil, goerr.Wrap(model.ErrConfigurationMissing, "Slack app is not configured for the project",
			goerr.V(model.ProjectIDKey, claims.ProjectID))
	}

	inst, err := uc.slack.ExchangeOAuthCode(ctx, cred.Slack.ClientID, string(cred.Slack.ClientSecret), code, cred.Slack.RedirectURI)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to install Slack app", goerr.V(model.ProjectIDKey, claims.ProjectID))
	}

	cred.Slack.AccessToken = inst.AccessToken
	cred.Slack.TeamID = inst.TeamID
	return uc.put(ctx, cred)
}
