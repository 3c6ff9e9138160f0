package clickup

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/utils/safe"
)

const (
	// DefaultBaseURL is the ClickUp v2 API endpoint
	DefaultBaseURL = "https://api.clickup.com/api/v2"
	// DefaultTimeout bounds a single API call
	DefaultTimeout = 30 * time.Second

	maxErrorBody = 4096

	// pageSize is the fixed number of tasks ClickUp returns per list page
	pageSize = 100
	// maxListPages caps ListTasks at 10,000 tasks
	maxListPages = 100
)

// client implements Service interface
type client struct {
	baseURL    string
	httpClient *http.Client
}

// Option is a functional option for client configuration
type Option func(*client)

// WithBaseURL overrides the API endpoint
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a new ClickUp service
func New(opts ...Option) Service {
	c := &client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) CreateTask(ctx context.Context, token, listID string, input *TaskInput) (*Task, error) {
	var task Task
	if err := c.do(ctx, token, http.MethodPost, "/list/"+url.PathEscape(listID)+"/task", input, &task); err != nil {
		return nil, goerr.Wrap(err, "failed to create task", goerr.V("list_id", listID))
	}
	return &task, nil
}

func (c *client) UpdateTask(ctx context.Context, token, taskID string, input *TaskInput) (*Task, error) {
	var task Task
	if err := c.do(ctx, token, http.MethodPut, "/task/"+url.PathEscape(taskID), input, &task); err != nil {
		return nil, goerr.Wrap(err, "failed to update task", goerr.V(model.TaskIDKey, taskID))
	}
	return &task, nil
}

func (c *client) DeleteTask(ctx context.Context, token, taskID string) error {
	if err := c.do(ctx, token, http.MethodDelete, "/task/"+url.PathEscape(taskID), nil, nil); err != nil {
		return goerr.Wrap(err, "failed to delete task", goerr.V(model.TaskIDKey, taskID))
	}
	return nil
}

func (c *client) GetTask(ctx context.Context, token, taskID string) (*Task, error) {
	var task Task
	if err := c.do(ctx, token, http.MethodGet, "/task/"+url.PathEscape(taskID), nil, &task); err != nil {
		return nil, goerr.Wrap(err, "failed to get task", goerr.V(model.TaskIDKey, taskID))
	}
	return &task, nil
}

func (c *client) ListTasks(ctx context.Context, token, listID string) ([]*Task, error) {
	var tasks []*Task
	// A short page or last_page marks the end.
	for page := 0; page < maxListPages; page++ {
		var resp struct {
			Tasks    []*Task `json:"tasks"`
			LastPage bool    `json:"last_page"`
		}
		path := "/list/" + url.PathEscape(listID) + "/task?page=" + strconv.Itoa(page)
		if err := c.do(ctx, token, http.MethodGet, path, nil, &resp); err != nil {
			return nil, goerr.Wrap(err, "failed to list tasks", goerr.V("list_id", listID), goerr.V("page", page))
		}
		tasks = append(tasks, resp.Tasks...)
		if resp.LastPage || len(resp.Tasks) < pageSize {
			return tasks, nil
		}
	}
	return nil, goerr.Wrap(model.ErrUpstream, "task list exceeds page limit",
		goerr.V("list_id", listID), goerr.V("max_pages", maxListPages))
}

func (c *client) GetAuthorizedUser(ctx context.Context, token string) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, token, http.MethodGet, "/user", nil, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to get authorized user")
	}
	return &resp.User, nil
}

// do sends one request. ClickUp personal tokens go in the Authorization header as is, without a scheme.
func (c *client) do(ctx context.Context, token, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return goerr.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return goerr.Wrap(err, "failed to build request", goerr.V("path", path))
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer safe.Drain(ctx, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(b)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &TransportError{Method: method, Path: path, Err: err}
		}
	}
	return nil
}
