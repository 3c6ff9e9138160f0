package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/domain/types"
)

type credentialRepository struct {
	db *sql.DB
}

func (r *credentialRepository) Get(ctx context.Context, projectID int64, vendor types.Vendor) (*model.Credential, error) {
	c := model.Credential{ProjectID: projectID, Vendor: vendor}
	var (
		cuToken, cuList      sql.NullString
		cuUser               sql.NullString
		slID, slSecret       sql.NullString
		slRedirect, slToken  sql.NullString
		slTeam               sql.NullString
		createdAt, updatedAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT clickup_api_token, clickup_list_id, clickup_user_id,
		        slack_client_id, slack_client_secret, slack_redirect_uri, slack_access_token, slack_team_id,
		        created_at, updated_at
		 FROM credentials WHERE project_id = ? AND vendor = ?`, projectID, vendor.String()).
		Scan(&cuToken, &cuList, &cuUser, &slID, &slSecret, &slRedirect, &slToken, &slTeam, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, goerr.Wrap(model.ErrNotFound, "credential not found",
			goerr.V(model.ProjectIDKey, projectID), goerr.V(model.VendorKey, vendor))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get credential",
			goerr.V(model.ProjectIDKey, projectID), goerr.V(model.VendorKey, vendor))
	}

	switch vendor {
	case types.VendorClickUp:
		c.ClickUp = &model.ClickUpConfig{
			APIToken: model.SecretString(cuToken.String),
			ListID:   cuList.String,
			UserID:   cuUser.String,
		}
	case types.VendorSlack:
		c.Slack = &model.SlackConfig{
			ClientID:     slID.String,
			ClientSecret: model.SecretString(slSecret.String),
			RedirectURI:  slRedirect.String,
			AccessToken:  model.SecretString(slToken.String),
			TeamID:       slTeam.String,
		}
	}
	c.CreatedAt = fromUnixNano(createdAt)
	c.UpdatedAt = fromUnixNano(updatedAt)
	return &c, nil
}

func (r *credentialRepository) Put(ctx context.Context, credential *model.Credential) error {
	var cu model.ClickUpConfig
	var sl model.SlackConfig
	if credential.ClickUp != nil {
		cu = *credential.ClickUp
	}
	if credential.Slack != nil {
		sl = *credential.Slack
	}
	now := toUnixNano(time.Now())

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO credentials (project_id, vendor,
		    clickup_api_token, clickup_list_id, clickup_user_id,
		    slack_client_id, slack_client_secret, slack_redirect_uri, slack_access_token, slack_team_id,
		    created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (project_id, vendor) DO UPDATE SET
		    clickup_api_token = excluded.clickup_api_token,
		    clickup_list_id = excluded.clickup_list_id,
		    clickup_user_id = excluded.clickup_user_id,
		    slack_client_id = excluded.slack_client_id,
		    slack_client_secret = excluded.slack_client_secret,
		    slack_redirect_uri = excluded.slack_redirect_uri,
		    slack_access_token = excluded.slack_access_token,
		    slack_team_id = excluded.slack_team_id,
		    updated_at = excluded.updated_at`,
		credential.ProjectID, credential.Vendor.String(),
		nullString(string(cu.APIToken)), nullString(cu.ListID), nullString(cu.UserID),
		nullString(sl.ClientID), nullString(string(sl.ClientSecret)), nullString(sl.RedirectURI),
		nullString(string(sl.AccessToken)), nullString(sl.TeamID),
		now, now)
	if err != nil {
		return goerr.Wrap(err, "failed to put credential",
			goerr.V(model.ProjectIDKey, credential.ProjectID), goerr.V(model.VendorKey, credential.Vendor))
	}
	return nil
}

func (r *credentialRepository) DeleteByProject(ctx context.Context, projectID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE project_id = ?`, projectID); err != nil {
		return goerr.Wrap(err, "failed to delete credentials", goerr.V(model.ProjectIDKey, projectID))
	}
	return nil
}
