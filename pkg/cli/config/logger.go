package config

import (
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Logger holds CLI flags for the process logger
type Logger struct {
	level  string
	format string
	output string
}

func (x *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Aliases:     []string{"l"},
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Category:    "Logging",
			Sources:     cli.EnvVars("PROJECTPILOT_LOG_LEVEL"),
			Destination: &x.level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, json)",
			Value:       "console",
			Category:    "Logging",
			Sources:     cli.EnvVars("PROJECTPILOT_LOG_FORMAT"),
			Destination: &x.format,
		},
		&cli.StringFlag{
			Name:        "log-output",
			Usage:       "Log output (stdout, stderr, or a file path)",
			Value:       "stderr",
			Category:    "Logging",
			Sources:     cli.EnvVars("PROJECTPILOT_LOG_OUTPUT"),
			Destination: &x.output,
		},
	}
}

func (x Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", x.level),
		slog.String("format", x.format),
		slog.String("output", x.output),
	)
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// secretFilter redacts credentials from log attributes
func secretFilter() func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(
		masq.WithType[model.SecretString](),
		masq.WithFieldName("token"),
		masq.WithFieldName("api_token"),
		masq.WithFieldName("access_token"),
		masq.WithFieldName("client_secret"),
		masq.WithFieldName("jwt_secret"),
		masq.WithContain("password"),
	)
}

// Configure installs the default logger and returns a function that releases its output
func (x *Logger) Configure() (func(), error) {
	level, ok := logLevels[x.level]
	if !ok {
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid log level", goerr.V(FlagKey, "log-level"), goerr.V(ValueKey, x.level))
	}

	closer := func() {}
	var w io.Writer
	switch x.output {
	case "stdout", "-":
		w = os.Stdout
	case "stderr", "":
		w = os.Stderr
	default:
		// #nosec G304 - path is provided by CLI argument
		f, err := os.OpenFile(x.output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open log file", goerr.V("path", x.output))
		}
		w = f
		closer = func() {
			if err := f.Close(); err != nil {
				logging.Default().Warn("failed to close log file", "error", err)
			}
		}
	}

	var handler slog.Handler
	switch x.format {
	case "console":
		handler = clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithReplaceAttr(secretFilter()),
			clog.WithColor(w == os.Stdout || w == os.Stderr),
			clog.WithSource(level == slog.LevelDebug),
		)
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: secretFilter(),
			AddSource:   level == slog.LevelDebug,
		})
	default:
		closer()
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid log format", goerr.V(FlagKey, "log-format"), goerr.V(ValueKey, x.format))
	}

	logging.SetDefault(slog.New(handler))
	return closer, nil
}
