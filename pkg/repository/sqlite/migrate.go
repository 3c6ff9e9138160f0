package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/m-mizutani/goerr/v2"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

type migration struct {
	version int
	name    string
	upSQL   string
}

func loadMigrations() ([]migration, error) {
	files, err := fs.ReadDir(migrationsFS, "sql")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read embedded migrations")
	}

	var migrations []migration
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := migrationsFS.ReadFile("sql/" + f.Name())
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read migration", goerr.V("name", f.Name()))
		}
		var v int
		if _, err := fmt.Sscanf(f.Name(), "%d_", &v); err != nil {
			return nil, goerr.Wrap(err, "invalid migration filename", goerr.V("name", f.Name()))
		}
		migrations = append(migrations, migration{version: v, name: f.Name(), upSQL: string(data)})
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].version < migrations[j].version })
	return migrations, nil
}

// Migrate applies pending embedded migrations in one transaction and returns the resulting schema version
func Migrate(ctx context.Context, db *sql.DB) (int, error) {
	migrations, err := loadMigrations()
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to begin migration")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version(version INTEGER NOT NULL)`); err != nil {
		return 0, goerr.Wrap(err, "failed to create schema_version")
	}

	var current int
	err = tx.QueryRowContext(ctx, `SELECT version FROM schema_version LIMIT 1`).Scan(&current)
	switch {
	case err == sql.ErrNoRows:
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version(version) VALUES (0)`); err != nil {
			return 0, goerr.Wrap(err, "failed to init schema_version")
		}
	case err != nil:
		return 0, goerr.Wrap(err, "failed to read schema_version")
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := tx.ExecContext(ctx, m.upSQL); err != nil {
			return 0, goerr.Wrap(err, "failed to apply migration", goerr.V("name", m.name))
		}
		if _, err := tx.ExecContext(ctx, `UPDATE schema_version SET version=?`, m.version); err != nil {
			return 0, goerr.Wrap(err, "failed to update schema_version")
		}
		current = m.version
	}

	if err := tx.Commit(); err != nil {
		return 0, goerr.Wrap(err, "failed to commit migration")
	}
	return current, nil
}
