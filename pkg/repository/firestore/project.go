package firestore

import (
	"context"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const projectCounterDoc = "project_counter"

type projectRepository struct {
	client *firestore.Client
	prefix string
}

type projectDoc struct {
	ID          int64     `firestore:"id"`
	OwnerID     string    `firestore:"owner_id"`
	Name        string    `firestore:"name"`
	Department  string    `firestore:"department"`
	Client      string    `firestore:"client"`
	Deadline    string    `firestore:"deadline"`
	Description string    `firestore:"description"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

func toProjectDoc(p *model.Project) *projectDoc {
	return &projectDoc{
		ID:          p.ID,
		OwnerID:     string(p.OwnerID),
		Name:        p.Name,
		Department:  p.Department,
		Client:      p.Client,
		Deadline:    p.Deadline,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d *projectDoc) toModel() *model.Project {
	return &model.Project{
		ID:          d.ID,
		OwnerID:     model.UserID(d.OwnerID),
		Name:        d.Name,
		Department:  d.Department,
		Client:      d.Client,
		Deadline:    d.Deadline,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (r *projectRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.prefix, CollectionProjects))
}

func (r *projectRepository) doc(id int64) *firestore.DocumentRef {
	return r.collection().Doc(strconv.FormatInt(id, 10))
}

func (r *projectRepository) nextID(ctx context.Context) (int64, error) {
	counterRef := r.client.Collection(collectionName(r.prefix, CollectionCounters)).Doc(projectCounterDoc)

	var nextID int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				nextID = 1
				return tx.Set(counterRef, map[string]any{"value": nextID})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		current, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}
		val, ok := current.(int64)
		if !ok {
			return goerr.New("counter value is not of type int64", goerr.V("value", current))
		}
		nextID = val + 1
		return tx.Update(counterRef, []firestore.Update{{Path: "value", Value: nextID}})
	})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to allocate project ID")
	}
	return nextID, nil
}

// getOwned loads the project and hides projects of other owners as not found
func (r *projectRepository) getOwned(ctx context.Context, ownerID model.UserID, id int64) (*projectDoc, error) {
	snap, err := r.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "project not found", goerr.V(model.ProjectIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get project", goerr.V(model.ProjectIDKey, id))
	}

	var doc projectDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode project", goerr.V(model.ProjectIDKey, id))
	}
	if doc.OwnerID != string(ownerID) {
		return nil, goerr.Wrap(model.ErrNotFound, "project not found", goerr.V(model.ProjectIDKey, id))
	}
	return &doc, nil
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) (*model.Project, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := *project
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.doc(id).Set(ctx, toProjectDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create project", goerr.V(model.ProjectIDKey, id))
	}
	return &created, nil
}

func (r *projectRepository) Get(ctx context.Context, ownerID model.UserID, id int64) (*model.Project, error) {
	doc, err := r.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *projectRepository) List(ctx context.Context, ownerID model.UserID) ([]*model.Project, error) {
	iter := r.collection().
		Where("owner_id", "==", string(ownerID)).
		OrderBy("id", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	projects := make([]*model.Project, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate projects", goerr.V(model.UserIDKey, ownerID))
		}

		var doc projectDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode project", goerr.V("doc_id", snap.Ref.ID))
		}
		projects = append(projects, doc.toModel())
	}
	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, project *model.Project) (*model.Project, error) {
	existing, err := r.getOwned(ctx, project.OwnerID, project.ID)
	if err != nil {
		return nil, err
	}

	updated := *project
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if _, err := r.doc(project.ID).Set(ctx, toProjectDoc(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update project", goerr.V(model.ProjectIDKey, project.ID))
	}
	return &updated, nil
}

func (r *projectRepository) Delete(ctx context.Context, ownerID model.UserID, id int64) error {
	if _, err := r.getOwned(ctx, ownerID, id); err != nil {
		return err
	}
	if _, err := r.doc(id).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete project", goerr.V(model.ProjectIDKey, id))
	}
	return nil
}
