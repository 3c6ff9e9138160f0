package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/interfaces"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
)

// HistoryUseCase records and lists query/response exchanges
type HistoryUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

func NewHistoryUseCase(repo interfaces.Repository) *HistoryUseCase {
	return &HistoryUseCase{repo: repo, now: time.Now}
}

// Record appends one exchange. projectID may be nil.
func (uc *HistoryUseCase) Record(ctx context.Context, userID model.UserID, query, response string, projectID *int64) (*model.ChatRecord, error) {
	if userID == "" {
		return nil, goerr.Wrap(model.ErrValidation, "user is required to record chat history")
	}

	record := &model.ChatRecord{
		ID:        model.NewChatRecordID(),
		UserID:    userID,
		ProjectID: projectID,
		Query:     query,
		Response:  response,
		CreatedAt: uc.now().UTC(),
	}
	if err := uc.repo.Chat().Create(ctx, record); err != nil {
		return nil, goerr.Wrap(err, "failed to record chat history", goerr.V(model.UserIDKey, userID))
	}
	return record, nil
}

// List returns the user's exchanges, oldest first
func (uc *HistoryUseCase) List(ctx context.Context, userID model.UserID) ([]*model.ChatRecord, error) {
	records, err := uc.repo.Chat().ListByUser(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list chat history", goerr.V(model.UserIDKey, userID))
	}
	return records, nil
}
