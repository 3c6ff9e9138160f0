package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"google.golang.org/api/iterator"
)

type chatRepository struct {
	client *firestore.Client
	prefix string
}

type chatRecordDoc struct {
	ID        string    `firestore:"id"`
	UserID    string    `firestore:"user_id"`
	ProjectID *int64    `firestore:"project_id"`
	Query     string    `firestore:"query"`
	Response  string    `firestore:"response"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (r *chatRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.prefix, CollectionChatHistory))
}

func (r *chatRepository) Create(ctx context.Context, record *model.ChatRecord) error {
	doc := &chatRecordDoc{
		ID:        string(record.ID),
		UserID:    string(record.UserID),
		ProjectID: record.ProjectID,
		Query:     record.Query,
		Response:  record.Response,
		CreatedAt: record.CreatedAt,
	}
	if _, err := r.collection().Doc(doc.ID).Create(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to create chat record", goerr.V("id", doc.ID))
	}
	return nil
}

func (r *chatRepository) ListByUser(ctx context.Context, userID model.UserID) ([]*model.ChatRecord, error) {
	iter := r.collection().
		Where("user_id", "==", string(userID)).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	records := make([]*model.ChatRecord, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate chat records", goerr.V(model.UserIDKey, userID))
		}

		var doc chatRecordDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode chat record", goerr.V("doc_id", snap.Ref.ID))
		}
		records = append(records, &model.ChatRecord{
			ID:        model.ChatRecordID(doc.ID),
			UserID:    model.UserID(doc.UserID),
			ProjectID: doc.ProjectID,
			Query:     doc.Query,
			Response:  doc.Response,
			CreatedAt: doc.CreatedAt,
		})
	}
	return records, nil
}
