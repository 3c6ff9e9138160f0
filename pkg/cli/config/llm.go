package config

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/projectpilot/pkg/usecase"
	"github.com/urfave/cli/v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
)

// LLM holds configuration for the completion provider and its prompts
type LLM struct {
	provider       string
	model          string
	geminiProject  string
	geminiLocation string
	openaiAPIKey   string
	claudeAPIKey   string
	configPath     string
}

// FileConfig is the optional TOML defaults file
type FileConfig struct {
	LLM struct {
		Provider string `toml:"provider"`
		Model    string `toml:"model"`
	} `toml:"llm"`
	Prompt struct {
		General string `toml:"general"`
		Task    string `toml:"task"`
		Chat    string `toml:"chat"`
	} `toml:"prompt"`
}

func (x *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "Completion provider (gemini, openai, claude). Empty disables completions",
			Category:    "LLM",
			Sources:     cli.EnvVars("PROJECTPILOT_LLM_PROVIDER"),
			Destination: &x.provider,
		},
		&cli.StringFlag{
			Name:        "llm-model",
			Usage:       "Model name; the provider default is used when empty",
			Category:    "LLM",
			Sources:     cli.EnvVars("PROJECTPILOT_LLM_MODEL"),
			Destination: &x.model,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Category:    "LLM",
			Sources:     cli.EnvVars("PROJECTPILOT_GEMINI_PROJECT"),
			Destination: &x.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Category:    "LLM",
			Sources:     cli.EnvVars("PROJECTPILOT_GEMINI_LOCATION"),
			Destination: &x.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("PROJECTPILOT_OPENAI_API_KEY"),
			Destination: &x.openaiAPIKey,
		},
		&cli.StringFlag{
			Name:        "claude-api-key",
			Usage:       "Anthropic API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("PROJECTPILOT_CLAUDE_API_KEY"),
			Destination: &x.claudeAPIKey,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "TOML file with [llm] and [prompt] defaults",
			Category:    "LLM",
			Sources:     cli.EnvVars("PROJECTPILOT_CONFIG"),
			Destination: &x.configPath,
		},
	}
}

func (x LLM) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("provider", x.provider),
		slog.String("model", x.model),
		slog.String("gemini_project", x.geminiProject),
		slog.String("gemini_location", x.geminiLocation),
		slog.Int("openai_api_key.len", len(x.openaiAPIKey)),
		slog.Int("claude_api_key.len", len(x.claudeAPIKey)),
		slog.String("config", x.configPath),
	)
}

// LoadFileConfig reads the TOML defaults file. An empty path yields an empty config.
func LoadFileConfig(path string) (*FileConfig, error) {
	var cfg FileConfig
	if path == "" {
		return &cfg, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config",
			goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}
	return &cfg, nil
}

// Configure creates the completion client and the prompts. The client is nil when no
// provider is configured; the general path and intent extraction then report it.
func (x *LLM) Configure(ctx context.Context) (gollem.LLMClient, usecase.Prompts, error) {
	file, err := LoadFileConfig(x.configPath)
	if err != nil {
		return nil, usecase.Prompts{}, err
	}

	prompts := usecase.Prompts{
		General: file.Prompt.General,
		Task:    file.Prompt.Task,
		Chat:    file.Prompt.Chat,
	}

	provider := x.provider
	if provider == "" {
		provider = file.LLM.Provider
	}
	model := x.model
	if model == "" {
		model = file.LLM.Model
	}

	client, err := x.newClient(ctx, provider, model)
	if err != nil {
		return nil, usecase.Prompts{}, err
	}
	return client, prompts, nil
}

func (x *LLM) newClient(ctx context.Context, provider, model string) (gollem.LLMClient, error) {
	switch provider {
	case "":
		return nil, nil

	case ProviderGemini:
		if x.geminiProject == "" {
			return nil, goerr.Wrap(ErrMissingRequired, "gemini-project is required for gemini provider")
		}
		var opts []gemini.Option
		if model != "" {
			opts = append(opts, gemini.WithModel(model))
		}
		client, err := gemini.New(ctx, x.geminiProject, x.geminiLocation, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini client")
		}
		return client, nil

	case ProviderOpenAI:
		if x.openaiAPIKey == "" {
			return nil, goerr.Wrap(ErrMissingRequired, "openai-api-key is required for openai provider")
		}
		var opts []openai.Option
		if model != "" {
			opts = append(opts, openai.WithModel(model))
		}
		client, err := openai.New(ctx, x.openaiAPIKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI client")
		}
		return client, nil

	case ProviderClaude:
		if x.claudeAPIKey == "" {
			return nil, goerr.Wrap(ErrMissingRequired, "claude-api-key is required for claude provider")
		}
		var opts []claude.Option
		if model != "" {
			opts = append(opts, claude.WithModel(model))
		}
		client, err := claude.New(ctx, x.claudeAPIKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Claude client")
		}
		return client, nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "unknown LLM provider", goerr.V(ValueKey, provider))
	}
}
