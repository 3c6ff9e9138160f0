package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type userRepository struct {
	client *firestore.Client
	prefix string
}

type userDoc struct {
	ID           string    `firestore:"id"`
	Name         string    `firestore:"name"`
	PasswordHash string    `firestore:"password_hash"`
	CreatedAt    time.Time `firestore:"created_at"`
}

// userNameDoc reserves a name so that registration stays unique
type userNameDoc struct {
	UserID string `firestore:"user_id"`
}

func (d *userDoc) toModel() *model.User {
	return &model.User{
		ID:           model.UserID(d.ID),
		Name:         d.Name,
		PasswordHash: model.SecretString(d.PasswordHash),
		CreatedAt:    d.CreatedAt,
	}
}

func (r *userRepository) users() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.prefix, CollectionUsers))
}

func (r *userRepository) names() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.prefix, CollectionUserNames))
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	userRef := r.users().Doc(string(user.ID))
	nameRef := r.names().Doc(user.Name)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(nameRef); err == nil {
			return goerr.Wrap(model.ErrAlreadyExists, "user name already registered", goerr.V("name", user.Name))
		} else if status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to check user name")
		}

		if err := tx.Create(nameRef, &userNameDoc{UserID: string(user.ID)}); err != nil {
			return goerr.Wrap(err, "failed to reserve user name")
		}
		return tx.Create(userRef, &userDoc{
			ID:           string(user.ID),
			Name:         user.Name,
			PasswordHash: string(user.PasswordHash),
			CreatedAt:    user.CreatedAt,
		})
	})
	if err != nil {
		return goerr.Wrap(err, "failed to create user", goerr.V(model.UserIDKey, user.ID))
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id model.UserID) (*model.User, error) {
	snap, err := r.users().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "user not found", goerr.V(model.UserIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(model.UserIDKey, id))
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user", goerr.V(model.UserIDKey, id))
	}
	return doc.toModel(), nil
}

func (r *userRepository) GetByName(ctx context.Context, name string) (*model.User, error) {
	snap, err := r.names().Doc(name).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "user not found", goerr.V("name", name))
		}
		return nil, goerr.Wrap(err, "failed to get user name", goerr.V("name", name))
	}

	var doc userNameDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user name", goerr.V("name", name))
	}
	return r.Get(ctx, model.UserID(doc.UserID))
}
