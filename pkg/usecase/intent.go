package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/domain/types"
	"github.com/secmon-lab/projectpilot/pkg/utils/logging"
)

// IntentExtractor turns a natural language query into a typed action descriptor
type IntentExtractor struct {
	llm     gollem.LLMClient
	prompts Prompts
}

func NewIntentExtractor(llm gollem.LLMClient, prompts Prompts) *IntentExtractor {
	return &IntentExtractor{llm: llm, prompts: prompts.withDefaults()}
}

// ExtractTaskAction extracts a task operation. The action kind is not validated here;
// an unknown kind is reported by the executor.
func (x *IntentExtractor) ExtractTaskAction(ctx context.Context, query string) (*model.TaskAction, error) {
	var action model.TaskAction
	if err := x.extract(ctx, query, x.prompts.Task, taskActionSchema(), &action); err != nil {
		return nil, err
	}
	return &action, nil
}

// ExtractChatAction extracts a chat operation
func (x *IntentExtractor) ExtractChatAction(ctx context.Context, query string) (*model.ChatAction, error) {
	var action model.ChatAction
	if err := x.extract(ctx, query, x.prompts.Chat, chatActionSchema(), &action); err != nil {
		return nil, err
	}
	return &action, nil
}

func (x *IntentExtractor) extract(ctx context.Context, query, instruction string, schema *gollem.Parameter, dst any) error {
	if x.llm == nil {
		return ErrLLMNotConfigured
	}

	session, err := x.llm.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(schema),
		gollem.WithSessionSystemPrompt(instruction),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.Generate(ctx, []gollem.Input{gollem.Text(query)})
	if err != nil {
		return goerr.Wrap(err, "failed to generate action descriptor")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return goerr.Wrap(ErrUnparsableAction, "empty completion", goerr.V(QueryKey, query))
	}

	text := trimCodeFence(strings.Join(resp.Texts, ""))
	if err := json.Unmarshal([]byte(text), dst); err != nil {
		logging.From(ctx).Debug("completion is not valid JSON", "completion", text, "error", err)
		return goerr.Wrap(ErrUnparsableAction, "failed to decode completion",
			goerr.V(CompletionKey, text), goerr.V("error", err.Error()))
	}
	return nil
}

// trimCodeFence removes a surrounding ```json fence some models add despite JSON mode
func trimCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func taskActionSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "TaskAction",
		Description: "A ClickUp task operation",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"action": {
				Type:        gollem.TypeString,
				Description: "Operation: add, update, delete, get or get_all",
				Enum:        taskActionEnum(),
			},
			"task_name": {
				Type:        gollem.TypeString,
				Description: "Task name, empty if not given",
			},
			"task_id": {
				Type:        gollem.TypeString,
				Description: "ClickUp task id, empty if not given",
			},
			"description": {
				Type:        gollem.TypeString,
				Description: "Task description, empty if not given",
			},
			"due_date": {
				Type:        gollem.TypeString,
				Description: "Due date as YYYY-MM-DD, empty if not given",
			},
		},
	}
}

func chatActionSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "ChatAction",
		Description: "A Slack operation",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"action": {
				Type:        gollem.TypeString,
				Description: "Operation: send, get or list_channels",
				Enum:        chatActionEnum(),
			},
			"channel_name": {
				Type:        gollem.TypeString,
				Description: "Channel name exactly as written, empty if not given",
			},
			"message": {
				Type:        gollem.TypeString,
				Description: "Message body, empty if not given",
			},
		},
	}
}

func taskActionEnum() []string {
	kinds := types.AllTaskActionKinds()
	enum := make([]string, len(kinds))
	for i, k := range kinds {
		enum[i] = k.String()
	}
	return enum
}

func chatActionEnum() []string {
	kinds := types.AllChatActionKinds()
	enum := make([]string, len(kinds))
	for i, k := range kinds {
		enum[i] = k.String()
	}
	return enum
}
