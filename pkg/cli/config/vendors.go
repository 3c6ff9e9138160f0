package config

import (
	"log/slog"

	"github.com/secmon-lab/projectpilot/pkg/service/clickup"
	"github.com/secmon-lab/projectpilot/pkg/service/slack"
	"github.com/secmon-lab/projectpilot/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Vendors holds endpoint overrides for the ClickUp and Slack APIs
type Vendors struct {
	clickUpBaseURL string
	slackAPIURL    string
}

func (x *Vendors) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "clickup-base-url",
			Usage:       "ClickUp API base URL",
			Value:       clickup.DefaultBaseURL,
			Category:    "Integrations",
			Sources:     cli.EnvVars("PROJECTPILOT_CLICKUP_BASE_URL"),
			Destination: &x.clickUpBaseURL,
		},
		&cli.StringFlag{
			Name:        "slack-api-url",
			Usage:       "Slack Web API base URL, also used for the OAuth code exchange",
			Value:       slack.DefaultAPIURL,
			Category:    "Integrations",
			Sources:     cli.EnvVars("PROJECTPILOT_SLACK_API_URL"),
			Destination: &x.slackAPIURL,
		},
	}
}

func (x Vendors) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("clickup_base_url", x.clickUpBaseURL),
		slog.String("slack_api_url", x.slackAPIURL),
	)
}

// Options returns use case options wiring the vendor clients
func (x *Vendors) Options() []usecase.Option {
	var cuOpts []clickup.Option
	if x.clickUpBaseURL != "" {
		cuOpts = append(cuOpts, clickup.WithBaseURL(x.clickUpBaseURL))
	}
	var slOpts []slack.Option
	if x.slackAPIURL != "" {
		slOpts = append(slOpts, slack.WithAPIURL(x.slackAPIURL))
	}

	return []usecase.Option{
		usecase.WithClickUp(clickup.New(cuOpts...)),
		usecase.WithSlack(slack.New(slOpts...)),
	}
}
