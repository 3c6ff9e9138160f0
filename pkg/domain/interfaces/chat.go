package interfaces

import (
	"context"

	"github.com/secmon-lab/projectpilot/pkg/domain/model"
)

// ChatRepository is an append-only store of query/response exchanges
type ChatRepository interface {
	Create(ctx context.Context, record *model.ChatRecord) error

	// ListByUser returns the user's records ordered by CreatedAt ascending
	ListByUser(ctx context.Context, userID model.UserID) ([]*model.ChatRecord, error)
}
