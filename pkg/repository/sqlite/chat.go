package sqlite

import (
	"context"
	"database/sql"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
)

type chatRepository struct {
	db *sql.DB
}

func (r *chatRepository) Create(ctx context.Context, record *model.ChatRecord) error {
	var projectID sql.NullInt64
	if record.ProjectID != nil {
		projectID = sql.NullInt64{Int64: *record.ProjectID, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_history (id, user_id, project_id, query, response, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		string(record.ID), string(record.UserID), projectID, record.Query, record.Response, toUnixNano(record.CreatedAt))
	if err != nil {
		return goerr.Wrap(err, "failed to create chat record", goerr.V("id", record.ID))
	}
	return nil
}

func (r *chatRepository) ListByUser(ctx context.Context, userID model.UserID) ([]*model.ChatRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, project_id, query, response, created_at
		 FROM chat_history WHERE user_id = ? ORDER BY created_at, rowid`, string(userID))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list chat records", goerr.V(model.UserIDKey, userID))
	}
	defer func() { _ = rows.Close() }()

	records := make([]*model.ChatRecord, 0)
	for rows.Next() {
		var (
			rec       model.ChatRecord
			id, user  string
			projectID sql.NullInt64
			createdAt int64
		)
		if err := rows.Scan(&id, &user, &projectID, &rec.Query, &rec.Response, &createdAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan chat record")
		}
		rec.ID = model.ChatRecordID(id)
		rec.UserID = model.UserID(user)
		if projectID.Valid {
			pid := projectID.Int64
			rec.ProjectID = &pid
		}
		rec.CreatedAt = fromUnixNano(createdAt)
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate chat records")
	}
	return records, nil
}
