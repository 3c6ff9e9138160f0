package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/secmon-lab/projectpilot/pkg/domain/model"
)

type chatRepository struct {
	mu      sync.RWMutex
	records []*model.ChatRecord
}

func newChatRepository() *chatRepository {
	return &chatRepository{}
}

func copyChatRecord(r *model.ChatRecord) *model.ChatRecord {
	copied := *r
	if r.ProjectID != nil {
		id := *r.ProjectID
		copied.ProjectID = &id
	}
	return &copied
}

func (r *chatRepository) Create(ctx context.Context, record *model.ChatRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, copyChatRecord(record))
	return nil
}

func (r *chatRepository) ListByUser(ctx context.Context, userID model.UserID) ([]*model.ChatRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*model.ChatRecord, 0)
	for _, rec := range r.records {
		if rec.UserID == userID {
			records = append(records, copyChatRecord(rec))
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}
