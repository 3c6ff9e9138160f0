package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type credentialRepository struct {
	client *firestore.Client
	prefix string
}

type credentialDoc struct {
	ProjectID int64             `firestore:"project_id"`
	Vendor    string            `firestore:"vendor"`
	ClickUp   *clickUpConfigDoc `firestore:"clickup,omitempty"`
	Slack     *slackConfigDoc   `firestore:"slack,omitempty"`
	CreatedAt time.Time         `firestore:"created_at"`
	UpdatedAt time.Time         `firestore:"updated_at"`
}

type clickUpConfigDoc struct {
	APIToken string `firestore:"api_token"`
	ListID   string `firestore:"list_id"`
	UserID   string `firestore:"user_id"`
}

type slackConfigDoc struct {
	ClientID     string `firestore:"client_id"`
	ClientSecret string `firestore:"client_secret"`
	RedirectURI  string `firestore:"redirect_uri"`
	AccessToken  string `firestore:"access_token"`
	TeamID       string `firestore:"team_id"`
}

func toCredentialDoc(c *model.Credential) *credentialDoc {
	doc := &credentialDoc{
		ProjectID: c.ProjectID,
		Vendor:    c.Vendor.String(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.ClickUp != nil {
		doc.ClickUp = &clickUpConfigDoc{
			APIToken: string(c.ClickUp.APIToken),
			ListID:   c.ClickUp.ListID,
			UserID:   c.ClickUp.UserID,
		}
	}
	if c.Slack != nil {
		doc.Slack = &slackConfigDoc{
			ClientID:     c.Slack.ClientID,
			ClientSecret: string(c.Slack.ClientSecret),
			RedirectURI:  c.Slack.RedirectURI,
			AccessToken:  string(c.Slack.AccessToken),
			TeamID:       c.Slack.TeamID,
		}
	}
	return doc
}

func (d *credentialDoc) toModel() *model.Credential {
	c := &model.Credential{
		ProjectID: d.ProjectID,
		Vendor:    types.Vendor(d.Vendor),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.ClickUp != nil {
		c.ClickUp = &model.ClickUpConfig{
			APIToken: model.SecretString(d.ClickUp.APIToken),
			ListID:   d.ClickUp.ListID,
			UserID:   d.ClickUp.UserID,
		}
	}
	if d.Slack != nil {
		c.Slack = &model.SlackConfig{
			ClientID:     d.Slack.ClientID,
			ClientSecret: model.SecretString(d.Slack.ClientSecret),
			RedirectURI:  d.Slack.RedirectURI,
			AccessToken:  model.SecretString(d.Slack.AccessToken),
			TeamID:       d.Slack.TeamID,
		}
	}
	return c
}

func (r *credentialRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.prefix, CollectionCredentials))
}

func (r *credentialRepository) doc(projectID int64, vendor types.Vendor) *firestore.DocumentRef {
	return r.collection().Doc(fmt.Sprintf("%d_%s", projectID, vendor))
}

func (r *credentialRepository) Get(ctx context.Context, projectID int64, vendor types.Vendor) (*model.Credential, error) {
	snap, err := r.doc(projectID, vendor).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "credential not found",
				goerr.V(model.ProjectIDKey, projectID), goerr.V(model.VendorKey, vendor))
		}
		return nil, goerr.Wrap(err, "failed to get credential",
			goerr.V(model.ProjectIDKey, projectID), goerr.V(model.VendorKey, vendor))
	}

	var doc credentialDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode credential", goerr.V("doc_id", snap.Ref.ID))
	}
	return doc.toModel(), nil
}

func (r *credentialRepository) Put(ctx context.Context, credential *model.Credential) error {
	ref := r.doc(credential.ProjectID, credential.Vendor)
	now := time.Now().UTC()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		stored := *credential
		stored.CreatedAt = now
		stored.UpdatedAt = now

		snap, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to get credential")
		}
		if err == nil {
			var existing credentialDoc
			if err := snap.DataTo(&existing); err != nil {
				return goerr.Wrap(err, "failed to decode credential")
			}
			stored.CreatedAt = existing.CreatedAt
		}
		return tx.Set(ref, toCredentialDoc(&stored))
	})
	if err != nil {
		return goerr.Wrap(err, "failed to put credential",
			goerr.V(model.ProjectIDKey, credential.ProjectID), goerr.V(model.VendorKey, credential.Vendor))
	}
	return nil
}

func (r *credentialRepository) DeleteByProject(ctx context.Context, projectID int64) error {
	iter := r.collection().Where("project_id", "==", projectID).Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate credentials", goerr.V(model.ProjectIDKey, projectID))
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return goerr.Wrap(err, "failed to delete credential", goerr.V("doc_id", snap.Ref.ID))
		}
	}
	return nil
}
