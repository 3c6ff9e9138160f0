package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/cli/config"
	httpctrl "github.com/secmon-lab/projectpilot/pkg/controller/http"
	"github.com/secmon-lab/projectpilot/pkg/domain/interfaces"
	"github.com/secmon-lab/projectpilot/pkg/usecase"
	"github.com/secmon-lab/projectpilot/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// appConfig is the flag set shared by commands that run use cases
type appConfig struct {
	repo    config.Repository
	llm     config.LLM
	auth    config.Auth
	vendors config.Vendors
}

func (x *appConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.repo.Flags()...)
	flags = append(flags, x.llm.Flags()...)
	flags = append(flags, x.auth.Flags()...)
	flags = append(flags, x.vendors.Flags()...)
	return flags
}

// build opens the repository and assembles the use cases. The caller closes the repository.
func (x *appConfig) build(ctx context.Context, requireAuth bool) (interfaces.Repository, *usecase.UseCases, error) {
	logging.Default().Info("Configuration",
		"repository", x.repo,
		"llm", x.llm,
		"auth", x.auth,
		"vendors", x.vendors,
	)

	llmClient, prompts, err := x.llm.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to configure LLM")
	}
	if llmClient == nil {
		logging.Default().Warn("LLM provider is not configured, general queries and intent extraction are disabled")
	}

	opts := []usecase.Option{
		usecase.WithLLMClient(llmClient),
		usecase.WithPrompts(prompts),
	}
	opts = append(opts, x.vendors.Options()...)

	authOpts, err := x.auth.Options()
	if err != nil {
		if requireAuth {
			return nil, nil, goerr.Wrap(err, "failed to configure authentication")
		}
	} else {
		opts = append(opts, authOpts...)
	}

	repo, err := x.repo.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to initialize repository")
	}

	return repo, usecase.New(repo, opts...), nil
}

func cmdServe() *cli.Command {
	var addr string
	var slackInstalledURL string
	var cfg appConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("PROJECTPILOT_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "slack-installed-url",
			Usage:       "Redirect target after a Slack installation completes (e.g., https://your-domain.com/)",
			Sources:     cli.EnvVars("PROJECTPILOT_SLACK_INSTALLED_URL"),
			Destination: &slackInstalledURL,
		},
	}
	flags = append(flags, cfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, uc, err := cfg.build(ctx, true)
			if err != nil {
				return err
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			var httpOpts []httpctrl.Options
			if slackInstalledURL != "" {
				httpOpts = append(httpOpts, httpctrl.WithSlackInstalledURL(slackInstalledURL))
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
