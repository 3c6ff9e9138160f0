package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/domain/types"
	"github.com/secmon-lab/projectpilot/pkg/repository/memory"
	"github.com/secmon-lab/projectpilot/pkg/service/clickup"
	"github.com/secmon-lab/projectpilot/pkg/service/slack"
)

var (
	_ gollem.Session   = &mockLLMSession{}
	_ gollem.LLMClient = &mockLLMClient{}
)

// mockLLMSession is a mock gollem Session for testing
type mockLLMSession struct {
	generateFn func(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error)
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	if s.generateFn != nil {
		return s.generateFn(ctx, input, opts...)
	}
	return &gollem.Response{Texts: []string{"ok"}}, nil
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return nil, nil
}

// GenerateContent and GenerateStream are deprecated in gollem; the use cases must call Generate
func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	return nil, errors.New("GenerateContent is deprecated, call Generate")
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, errors.New("GenerateStream is deprecated, call Stream")
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient that records the queries it receives
type mockLLMClient struct {
	mu      sync.Mutex
	queries []string
	reply   func(query string) (string, error)
}

// replyWith returns a client that answers every query with text
func replyWith(text string) *mockLLMClient {
	return &mockLLMClient{reply: func(string) (string, error) { return text, nil }}
}

// replyJSON returns a client that answers every query with v encoded as JSON
func replyJSON(t *testing.T, v any) *mockLLMClient {
	t.Helper()
	raw, err := json.Marshal(v)
	gt.NoError(t, err).Required()
	return replyWith(string(raw))
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return &mockLLMSession{
		generateFn: func(ctx context.Context, input []gollem.Input, _ ...gollem.GenerateOption) (*gollem.Response, error) {
			var query string
			for _, in := range input {
				if text, ok := in.(gollem.Text); ok {
					query += string(text)
				}
			}
			c.mu.Lock()
			c.queries = append(c.queries, query)
			c.mu.Unlock()

			text, err := c.reply(query)
			if err != nil {
				return nil, err
			}
			return &gollem.Response{Texts: []string{text}}, nil
		},
	}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

func (c *mockLLMClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queries)
}

// mockClickUp is a mock clickup.Service
type mockClickUp struct {
	createTaskFn        func(ctx context.Context, token, listID string, input *clickup.TaskInput) (*clickup.Task, error)
	updateTaskFn        func(ctx context.Context, token, taskID string, input *clickup.TaskInput) (*clickup.Task, error)
	deleteTaskFn        func(ctx context.Context, token, taskID string) error
	getTaskFn           func(ctx context.Context, token, taskID string) (*clickup.Task, error)
	listTasksFn         func(ctx context.Context, token, listID string) ([]*clickup.Task, error)
	getAuthorizedUserFn func(ctx context.Context, token string) (*clickup.User, error)

	calls []string
}

func (m *mockClickUp) CreateTask(ctx context.Context, token, listID string, input *clickup.TaskInput) (*clickup.Task, error) {
	m.calls = append(m.calls, "CreateTask")
	if m.createTaskFn != nil {
		return m.createTaskFn(ctx, token, listID, input)
	}
	return &clickup.Task{ID: "new", Name: input.Name}, nil
}

func (m *mockClickUp) UpdateTask(ctx context.Context, token, taskID string, input *clickup.TaskInput) (*clickup.Task, error) {
	m.calls = append(m.calls, "UpdateTask")
	if m.updateTaskFn != nil {
		return m.updateTaskFn(ctx, token, taskID, input)
	}
	return &clickup.Task{ID: taskID, Name: input.Name}, nil
}

func (m *mockClickUp) DeleteTask(ctx context.Context, token, taskID string) error {
	m.calls = append(m.calls, "DeleteTask")
	if m.deleteTaskFn != nil {
		return m.deleteTaskFn(ctx, token, taskID)
	}
	return nil
}

func (m *mockClickUp) GetTask(ctx context.Context, token, taskID string) (*clickup.Task, error) {
	m.calls = append(m.calls, "GetTask")
	if m.getTaskFn != nil {
		return m.getTaskFn(ctx, token, taskID)
	}
	return &clickup.Task{ID: taskID}, nil
}

func (m *mockClickUp) ListTasks(ctx context.Context, token, listID string) ([]*clickup.Task, error) {
	m.calls = append(m.calls, "ListTasks")
	if m.listTasksFn != nil {
		return m.listTasksFn(ctx, token, listID)
	}
	return nil, nil
}

func (m *mockClickUp) GetAuthorizedUser(ctx context.Context, token string) (*clickup.User, error) {
	m.calls = append(m.calls, "GetAuthorizedUser")
	if m.getAuthorizedUserFn != nil {
		return m.getAuthorizedUserFn(ctx, token)
	}
	return &clickup.User{ID: "100", Username: "owner"}, nil
}

// mockSlack is a mock slack.Service
type mockSlack struct {
	listChannelsFn           func(ctx context.Context, token string) ([]slack.Channel, error)
	postMessageFn            func(ctx context.Context, token, channelID, text string) (string, error)
	getConversationHistoryFn func(ctx context.Context, token, channelID string, limit int) ([]slack.Message, error)
	getUserInfoFn            func(ctx context.Context, token, userID string) (*slack.User, error)
	exchangeOAuthCodeFn      func(ctx context.Context, clientID, clientSecret, code, redirectURI string) (*slack.Installation, error)

	posted   []string
	lookedUp []string
}

func (m *mockSlack) ListChannels(ctx context.Context, token string) ([]slack.Channel, error) {
	if m.listChannelsFn != nil {
		return m.listChannelsFn(ctx, token)
	}
	return nil, nil
}

func (m *mockSlack) PostMessage(ctx context.Context, token, channelID, text string) (string, error) {
	m.posted = append(m.posted, channelID+":"+text)
	if m.postMessageFn != nil {
		return m.postMessageFn(ctx, token, channelID, text)
	}
	return "1700000000.000100", nil
}

func (m *mockSlack) GetConversationHistory(ctx context.Context, token, channelID string, limit int) ([]slack.Message, error) {
	if m.getConversationHistoryFn != nil {
		return m.getConversationHistoryFn(ctx, token, channelID, limit)
	}
	return nil, nil
}

func (m *mockSlack) GetUserInfo(ctx context.Context, token, userID string) (*slack.User, error) {
	m.lookedUp = append(m.lookedUp, userID)
	if m.getUserInfoFn != nil {
		return m.getUserInfoFn(ctx, token, userID)
	}
	return &slack.User{ID: userID}, nil
}

func (m *mockSlack) ExchangeOAuthCode(ctx context.Context, clientID, clientSecret, code, redirectURI string) (*slack.Installation, error) {
	if m.exchangeOAuthCodeFn != nil {
		return m.exchangeOAuthCodeFn(ctx, clientID, clientSecret, code, redirectURI)
	}
	return &slack.Installation{AccessToken: "xoxb-test", TeamID: "T001"}, nil
}

const testOwner = model.UserID("owner-1")

// createProject stores a project owned by ownerID and returns its id
func createProject(t *testing.T, repo *memory.Memory, ownerID model.UserID, name string) int64 {
	t.Helper()
	p, err := repo.Project().Create(context.Background(), &model.Project{
		OwnerID:     ownerID,
		Name:        name,
		Department:  "Security",
		Client:      "Acme",
		Deadline:    "2025-06-30",
		Description: "Audit",
	})
	gt.NoError(t, err).Required()
	return p.ID
}

func putClickUp(t *testing.T, repo *memory.Memory, projectID int64, cfg *model.ClickUpConfig) {
	t.Helper()
	gt.NoError(t, repo.Credential().Put(context.Background(), &model.Credential{
		ProjectID: projectID,
		Vendor:    types.VendorClickUp,
		ClickUp:   cfg,
	})).Required()
}

func putSlack(t *testing.T, repo *memory.Memory, projectID int64, cfg *model.SlackConfig) {
	t.Helper()
	gt.NoError(t, repo.Credential().Put(context.Background(), &model.Credential{
		ProjectID: projectID,
		Vendor:    types.VendorSlack,
		Slack:     cfg,
	})).Required()
}

func ptr[T any](v T) *T {
	return &v
}
