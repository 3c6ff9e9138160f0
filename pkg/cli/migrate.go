package cli

import (
	"context"
	"database/sql"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/cli/config"
	"github.com/secmon-lab/projectpilot/pkg/repository/firestore"
	"github.com/secmon-lab/projectpilot/pkg/repository/sqlite"
	"github.com/secmon-lab/projectpilot/pkg/utils/logging"
	"github.com/secmon-lab/projectpilot/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var repoCfg config.Repository
	var dryRun bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Preview changes without applying (firestore only)",
			Destination: &dryRun,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Create Firestore indexes or apply SQLite schema migrations",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("Migrate configuration", "repository", repoCfg, "dryRun", dryRun)

			switch repoCfg.Backend() {
			case config.BackendFirestore:
				if repoCfg.ProjectID() == "" {
					return goerr.Wrap(config.ErrMissingRequired, "firestore-project-id is required when using firestore backend")
				}
				return migrateFirestore(ctx, repoCfg.ProjectID(), repoCfg.DatabaseID(), dryRun)
			case config.BackendSQLite:
				return migrateSQLite(ctx, repoCfg.SQLitePath())
			default:
				return goerr.Wrap(config.ErrInvalidConfig, "migrate supports firestore and sqlite backends",
					goerr.V(config.ValueKey, repoCfg.Backend()))
			}
		},
	}
}

func migrateSQLite(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", sqlite.DSN(path))
	if err != nil {
		return goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}
	defer safe.Close(ctx, db)

	version, err := sqlite.Migrate(ctx, db)
	if err != nil {
		return goerr.Wrap(err, "failed to apply sqlite migrations", goerr.V("path", path))
	}
	logging.Default().Info("SQLite schema is up to date", "path", path, "version", version)
	return nil
}

func migrateFirestore(ctx context.Context, projectID, databaseID string, dryRun bool) error {
	logger := logging.Default()
	indexConfig := getIndexConfig()

	client, err := fireconf.NewClient(ctx, projectID, databaseID)
	if err != nil {
		return goerr.Wrap(err, "failed to create fireconf client")
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close fireconf client", "error", err.Error())
		}
	}()

	if dryRun {
		logger.Info("Dry run mode - previewing changes")
		plan, err := client.GetMigrationPlan(ctx, indexConfig)
		if err != nil {
			return goerr.Wrap(err, "failed to create migration plan")
		}

		if len(plan.Steps) == 0 {
			logger.Info("No changes required")
			return nil
		}

		for _, step := range plan.Steps {
			logger.Info("Migration step",
				"collection", step.Collection,
				"operation", step.Operation,
				"description", step.Description,
				"destructive", step.Destructive)
		}
		return nil
	}

	logger.Info("Applying migrations")
	if err := client.Migrate(ctx, indexConfig); err != nil {
		return goerr.Wrap(err, "failed to apply migrations")
	}
	logger.Info("Migrations applied successfully")
	return nil
}

// getIndexConfig returns the composite indexes the Firestore repository queries need
func getIndexConfig() *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: firestore.CollectionProjects,
				Indexes: []fireconf.Index{
					// ProjectRepository.List: owner_id ASC, id ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "owner_id", Order: fireconf.OrderAscending},
							{Path: "id", Order: fireconf.OrderAscending},
						},
					},
				},
			},
			{
				Name: firestore.CollectionChatHistory,
				Indexes: []fireconf.Index{
					// ChatRepository.ListByUser: user_id ASC, created_at ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "user_id", Order: fireconf.OrderAscending},
							{Path: "created_at", Order: fireconf.OrderAscending},
						},
					},
				},
			},
		},
	}
}
