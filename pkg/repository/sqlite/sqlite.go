package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/interfaces"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLite is a single file Repository backend
type SQLite struct {
	db         *sql.DB
	project    *projectRepository
	credential *credentialRepository
	chat       *chatRepository
	user       *userRepository
}

var _ interfaces.Repository = &SQLite{}

// DSN returns the connection string for the database file at path
func DSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
}

// New opens the database at path with foreign keys enabled and applies pending migrations
func New(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}
	// A single writer avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to migrate sqlite database", goerr.V("path", path))
	}

	return &SQLite{
		db:         db,
		project:    &projectRepository{db: db},
		credential: &credentialRepository{db: db},
		chat:       &chatRepository{db: db},
		user:       &userRepository{db: db},
	}, nil
}

func (s *SQLite) Project() interfaces.ProjectRepository {
	return s.project
}

func (s *SQLite) Credential() interfaces.CredentialRepository {
	return s.credential
}

func (s *SQLite) Chat() interfaces.ChatRepository {
	return s.chat
}

func (s *SQLite) User() interfaces.UserRepository {
	return s.user
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

func toUnixNano(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}
