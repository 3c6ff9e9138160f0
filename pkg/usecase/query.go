package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/projectpilot/pkg/domain/interfaces"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/domain/types"
	"github.com/secmon-lab/projectpilot/pkg/utils/logging"
)

// QueryUseCase routes a natural language query to the task, chat or general path
// and records every produced response.
type QueryUseCase struct {
	repo    interfaces.Repository
	llm     gollem.LLMClient
	prompts Prompts
	task    *TaskUseCase
	chat    *ChatUseCase
	history *HistoryUseCase
}

func NewQueryUseCase(repo interfaces.Repository, llm gollem.LLMClient, prompts Prompts, task *TaskUseCase, chat *ChatUseCase, history *HistoryUseCase) *QueryUseCase {
	return &QueryUseCase{
		repo:    repo,
		llm:     llm,
		prompts: prompts.withDefaults(),
		task:    task,
		chat:    chat,
		history: history,
	}
}

// Route answers query for callerID. Vendor failures are returned as response text;
// an error is returned only for general path failures (such as an unknown project) or
// when the exchange cannot be recorded.
func (uc *QueryUseCase) Route(ctx context.Context, callerID model.UserID, query string, projectID *int64) (string, error) {
	intent := types.ClassifyIntent(query)
	logger := logging.From(ctx).With("intent", intent, model.UserIDKey, callerID)
	logger.Debug("routing query", "query", query, model.ProjectIDKey, projectID)

	var resp string
	switch intent {
	case types.IntentTask, types.IntentChat:
		vendor, _ := intent.Vendor()
		switch {
		case projectID == nil:
			resp = "Please specify a project to associate this " + vendor.DisplayName() + " operation."
		case intent == types.IntentTask:
			resp = uc.task.Handle(ctx, callerID, *projectID, query)
		default:
			resp = uc.chat.Handle(ctx, callerID, *projectID, query)
		}

	default:
		answer, err := uc.answer(ctx, callerID, query, projectID)
		if err != nil {
			return "", err
		}
		resp = answer
	}

	if _, err := uc.history.Record(ctx, callerID, query, resp, projectID); err != nil {
		return "", err
	}
	return resp, nil
}

// answer handles the general path with an optional project context
func (uc *QueryUseCase) answer(ctx context.Context, callerID model.UserID, query string, projectID *int64) (string, error) {
	var project *model.Project
	if projectID != nil {
		p, err := uc.repo.Project().Get(ctx, callerID, *projectID)
		if err != nil {
			return "", goerr.Wrap(err, "failed to get project context", goerr.V(model.ProjectIDKey, *projectID))
		}
		project = p
	}

	if uc.llm == nil {
		return "", ErrLLMNotConfigured
	}

	session, err := uc.llm.NewSession(ctx, gollem.WithSessionSystemPrompt(uc.systemPrompt(project)))
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}
	resp, err := session.Generate(ctx, []gollem.Input{gollem.Text(query)})
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate answer", goerr.V(QueryKey, query))
	}
	if resp == nil {
		return "", nil
	}
	return strings.Join(resp.Texts, ""), nil
}

// systemPrompt is the general prompt followed by the project context line, or "General Query"
func (uc *QueryUseCase) systemPrompt(project *model.Project) string {
	line := generalQueryContext
	if project != nil {
		line = project.ContextPrompt()
	}
	return uc.prompts.General + "\n\n" + line
}
