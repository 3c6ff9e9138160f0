package cli

import (
	"context"

	"github.com/secmon-lab/projectpilot/pkg/cli/config"
	"github.com/secmon-lab/projectpilot/pkg/utils/errutil"
	"github.com/secmon-lab/projectpilot/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Run parses args and dispatches to the serve, query or migrate command.
// Logger flags are global so every subcommand shares one log setup.
func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var flush func()

	app := &cli.Command{
		Name:    "projectpilot",
		Usage:   "Route natural language requests to ClickUp, Slack or a completion model",
		Version: version,
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, _ *cli.Command) (context.Context, error) {
			done, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			flush = done

			logger := logging.Default().With("version", version)
			logger.Debug("logger configured", "logger", loggerCfg)
			return logging.With(ctx, logger), nil
		},
		After: func(context.Context, *cli.Command) error {
			if flush != nil {
				flush()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdQuery(),
			cmdMigrate(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		errutil.Handle(ctx, err, "projectpilot exited with error")
		return err
	}
	return nil
}
