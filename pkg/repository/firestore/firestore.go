package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/interfaces"
)

// Collection names. A prefix set by WithCollectionPrefix is prepended with "_".
const (
	CollectionProjects    = "projects"
	CollectionCounters    = "counters"
	CollectionCredentials = "credentials"
	CollectionChatHistory = "chat_history"
	CollectionUsers       = "users"
	CollectionUserNames   = "user_names"
)

type Firestore struct {
	client     *firestore.Client
	project    *projectRepository
	credential *credentialRepository
	chat       *chatRepository
	user       *userRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix isolates collections, e.g. per test run
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.project.prefix = prefix
		f.credential.prefix = prefix
		f.chat.prefix = prefix
		f.user.prefix = prefix
	}
}

// New connects to Firestore. An empty databaseID selects the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project_id", projectID), goerr.V("database_id", databaseID))
	}

	f := &Firestore{
		client:     client,
		project:    &projectRepository{client: client},
		credential: &credentialRepository{client: client},
		chat:       &chatRepository{client: client},
		user:       &userRepository{client: client},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *Firestore) Project() interfaces.ProjectRepository {
	return f.project
}

func (f *Firestore) Credential() interfaces.CredentialRepository {
	return f.credential
}

func (f *Firestore) Chat() interfaces.ChatRepository {
	return f.chat
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.user
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func collectionName(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}
