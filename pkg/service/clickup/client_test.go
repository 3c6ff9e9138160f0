package clickup_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/service/clickup"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]any
}

type fakeClickUp struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  func(w http.ResponseWriter, r *http.Request)
}

func newFakeClickUp(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*fakeClickUp, clickup.Service) {
	t.Helper()
	f := &fakeClickUp{handler: handler}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
		}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.Body)
		}
		f.mu.Lock()
		f.requests = append(f.requests, rec)
		f.mu.Unlock()
		f.handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return f, clickup.New(clickup.WithBaseURL(srv.URL))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestCreateTask(t *testing.T) {
	fake, svc := newFakeClickUp(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id":       "abc",
			"name":     "Write report",
			"due_date": "1740787200000",
			"creator":  map[string]any{"id": 42, "username": "alice"},
		})
	})

	due, err := clickup.DateToEpochMillis("2025-03-01")
	gt.NoError(t, err).Required()

	task, err := svc.CreateTask(context.Background(), "pk_token", "901", &clickup.TaskInput{
		Name:    "Write report",
		DueDate: &due,
	})
	gt.NoError(t, err).Required()
	gt.Value(t, task.ID).Equal("abc")
	gt.Value(t, task.DueDateString()).Equal("2025-03-01")
	gt.Value(t, task.Creator.ID.String()).Equal("42")

	gt.Array(t, fake.requests).Length(1).Required()
	req := fake.requests[0]
	gt.Value(t, req.Method).Equal(http.MethodPost)
	gt.Value(t, req.Path).Equal("/list/901/task")
	gt.Value(t, req.Auth).Equal("pk_token")
	gt.Value(t, req.Body["name"]).Equal("Write report")
	gt.Value(t, req.Body["due_date"]).Equal(float64(1740787200000))
	_, hasDescription := req.Body["description"]
	gt.Bool(t, hasDescription).False()
}

func TestUpdateTaskOmitsAbsentFields(t *testing.T) {
	fake, svc := newFakeClickUp(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": "abc", "name": "Write report"})
	})

	_, err := svc.UpdateTask(context.Background(), "pk_token", "abc", &clickup.TaskInput{Description: "new text"})
	gt.NoError(t, err).Required()

	req := fake.requests[0]
	gt.Value(t, req.Method).Equal(http.MethodPut)
	gt.Value(t, req.Path).Equal("/task/abc")
	gt.Map(t, req.Body).HasKey("description")
	_, hasName := req.Body["name"]
	gt.Bool(t, hasName).False()
	_, hasDue := req.Body["due_date"]
	gt.Bool(t, hasDue).False()
}

func TestListTasks(t *testing.T) {
	fake, svc := newFakeClickUp(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "0":
			writeJSON(w, http.StatusOK, map[string]any{
				"tasks": []map[string]any{
					{"id": "1", "name": "first", "due_date": nil},
					{"id": "2", "name": "second", "due_date": "1740787200000"},
				},
				"last_page": false,
			})
		default:
			writeJSON(w, http.StatusOK, map[string]any{"tasks": []any{}, "last_page": true})
		}
	})

	tasks, err := svc.ListTasks(context.Background(), "pk_token", "901")
	gt.NoError(t, err).Required()
	gt.Array(t, tasks).Length(2).Required()
	gt.Value(t, tasks[0].DueDateString()).Equal("")
	gt.Value(t, tasks[1].DueDateString()).Equal("2025-03-01")
	gt.Array(t, fake.requests).Length(1)
}

func fullPage(offset int) []map[string]any {
	page := make([]map[string]any, 100)
	for i := range page {
		page[i] = map[string]any{"id": strconv.Itoa(offset + i), "name": "task"}
	}
	return page
}

func TestListTasksFollowsFullPages(t *testing.T) {
	fake, svc := newFakeClickUp(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "0":
			writeJSON(w, http.StatusOK, map[string]any{"tasks": fullPage(0)})
		default:
			writeJSON(w, http.StatusOK, map[string]any{"tasks": []map[string]any{{"id": "last", "name": "tail"}}})
		}
	})

	tasks, err := svc.ListTasks(context.Background(), "pk_token", "901")
	gt.NoError(t, err).Required()
	gt.Array(t, tasks).Length(101)
	gt.Array(t, fake.requests).Length(2)
}

func TestListTasksStopsAtPageLimit(t *testing.T) {
	fake, svc := newFakeClickUp(t, func(w http.ResponseWriter, r *http.Request) {
		// never reports last_page and always returns a full page
		writeJSON(w, http.StatusOK, map[string]any{"tasks": fullPage(0)})
	})

	tasks, err := svc.ListTasks(context.Background(), "pk_token", "901")
	gt.Error(t, err).Is(model.ErrUpstream)
	gt.Array(t, tasks).Length(0)
	gt.Array(t, fake.requests).Length(100)
}

func TestGetAuthorizedUser(t *testing.T) {
	_, svc := newFakeClickUp(t, func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.URL.Path).Equal("/user")
		writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{"id": 183, "username": "alice"}})
	})

	user, err := svc.GetAuthorizedUser(context.Background(), "pk_token")
	gt.NoError(t, err).Required()
	gt.Value(t, user.ID.String()).Equal("183")
	gt.Value(t, user.Username).Equal("alice")
}

func TestErrorsAreUpstreamFailures(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		_, svc := newFakeClickUp(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"err": "Token invalid", "ECODE": "OAUTH_025"})
		})

		err := svc.DeleteTask(context.Background(), "bad", "abc")
		gt.Error(t, err).Is(model.ErrUpstream)

		var statusErr *clickup.StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected StatusError, got %T", err)
		}
		gt.Value(t, statusErr.StatusCode).Equal(http.StatusUnauthorized)
		gt.String(t, statusErr.Body).Contains("Token invalid")
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		svc := clickup.New(clickup.WithBaseURL(srv.URL))

		_, err := svc.GetTask(context.Background(), "pk_token", "abc")
		gt.Error(t, err).Is(model.ErrUpstream)

		var transportErr *clickup.TransportError
		gt.Bool(t, errors.As(err, &transportErr)).True()
	})
}
