package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdQuery() *cli.Command {
	var userName string
	var projectID int64
	var cfg appConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "Name of the account the query runs as",
			Required:    true,
			Sources:     cli.EnvVars("PROJECTPILOT_USER"),
			Destination: &userName,
		},
		&cli.Int64Flag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Project ID giving the query its context",
			Destination: &projectID,
		},
	}
	flags = append(flags, cfg.Flags()...)

	return &cli.Command{
		Name:      "query",
		Aliases:   []string{"q"},
		Usage:     "Route a natural language query and print the response",
		ArgsUsage: "<text>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if text == "" {
				return goerr.Wrap(model.ErrValidation, "query text is required")
			}

			repo, uc, err := cfg.build(ctx, false)
			if err != nil {
				return err
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			user, err := repo.User().GetByName(ctx, userName)
			if err != nil {
				return goerr.Wrap(err, "failed to resolve user", goerr.V("name", userName))
			}

			var pid *int64
			if c.IsSet("project") {
				pid = &projectID
			}

			resp, err := uc.Query.Route(ctx, user.ID, text, pid)
			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stdout, resp)
			return nil
		},
	}
}
