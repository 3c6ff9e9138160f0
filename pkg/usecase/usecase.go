package usecase

import (
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/projectpilot/pkg/domain/interfaces"
	"github.com/secmon-lab/projectpilot/pkg/service/clickup"
	"github.com/secmon-lab/projectpilot/pkg/service/slack"
)

type UseCases struct {
	repo       interfaces.Repository
	llm        gollem.LLMClient
	prompts    Prompts
	clickup    clickup.Service
	slack      slack.Service
	authSecret []byte
	tokenTTL   time.Duration

	Query       *QueryUseCase
	Task        *TaskUseCase
	Chat        *ChatUseCase
	History     *HistoryUseCase
	Project     *ProjectUseCase
	Integration *IntegrationUseCase
	Auth        *AuthUseCase
}

type Option func(*UseCases)

// WithLLMClient sets the completion provider. Without it the general path and
// intent extraction fail with ErrLLMNotConfigured.
func WithLLMClient(llm gollem.LLMClient) Option {
	return func(uc *UseCases) {
		uc.llm = llm
	}
}

func WithPrompts(prompts Prompts) Option {
	return func(uc *UseCases) {
		uc.prompts = prompts
	}
}

func WithClickUp(svc clickup.Service) Option {
	return func(uc *UseCases) {
		uc.clickup = svc
	}
}

func WithSlack(svc slack.Service) Option {
	return func(uc *UseCases) {
		uc.slack = svc
	}
}

// WithAuthSecret sets the HS256 key for bearer tokens and OAuth state
func WithAuthSecret(secret []byte) Option {
	return func(uc *UseCases) {
		uc.authSecret = secret
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(uc *UseCases) {
		uc.tokenTTL = ttl
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		clickup:  clickup.New(),
		slack:    slack.New(),
		tokenTTL: DefaultTokenTTL,
	}

	for _, opt := range opts {
		opt(uc)
	}

	extractor := NewIntentExtractor(uc.llm, uc.prompts)
	uc.History = NewHistoryUseCase(repo)
	uc.Task = NewTaskUseCase(repo, uc.clickup, extractor)
	uc.Chat = NewChatUseCase(repo, uc.slack, extractor)
	uc.Query = NewQueryUseCase(repo, uc.llm, uc.prompts, uc.Task, uc.Chat, uc.History)
	uc.Project = NewProjectUseCase(repo)
	uc.Integration = NewIntegrationUseCase(repo, uc.clickup, uc.slack, uc.authSecret)
	uc.Auth = NewAuthUseCase(repo, uc.authSecret, uc.tokenTTL)

	return uc
}
