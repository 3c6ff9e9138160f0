package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Auth holds the signing key for bearer tokens and Slack OAuth state
type Auth struct {
	jwtSecret string
	tokenTTL  time.Duration
}

func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jwt-secret",
			Usage:       "HS256 secret for bearer tokens and OAuth state (at least 32 bytes)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("PROJECTPILOT_JWT_SECRET"),
			Destination: &x.jwtSecret,
		},
		&cli.DurationFlag{
			Name:        "token-ttl",
			Usage:       "Lifetime of issued bearer tokens",
			Value:       usecase.DefaultTokenTTL,
			Category:    "Authentication",
			Sources:     cli.EnvVars("PROJECTPILOT_TOKEN_TTL"),
			Destination: &x.tokenTTL,
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("jwt_secret.len", len(x.jwtSecret)),
		slog.Duration("token_ttl", x.tokenTTL),
	)
}

const minSecretLength = 32

// Options returns use case options for authentication
func (x *Auth) Options() ([]usecase.Option, error) {
	if x.jwtSecret == "" {
		return nil, goerr.Wrap(ErrMissingRequired, "jwt-secret is required")
	}
	if len(x.jwtSecret) < minSecretLength {
		return nil, goerr.Wrap(ErrInvalidConfig, "jwt-secret is too short", goerr.V("min_length", minSecretLength))
	}
	if x.tokenTTL <= 0 {
		return nil, goerr.Wrap(ErrInvalidConfig, "token-ttl must be positive", goerr.V(ValueKey, x.tokenTTL))
	}

	return []usecase.Option{
		usecase.WithAuthSecret([]byte(x.jwtSecret)),
		usecase.WithTokenTTL(x.tokenTTL),
	}, nil
}
