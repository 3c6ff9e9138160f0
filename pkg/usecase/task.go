package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/interfaces"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"github.com/secmon-lab/projectpilot/pkg/domain/types"
	"github.com/secmon-lab/projectpilot/pkg/service/clickup"
	"github.com/secmon-lab/projectpilot/pkg/utils/logging"
)

const (
	msgTaskParseFailure    = "Failed to parse task details. Please provide a clearer query."
	msgClickUpTokenMissing = "You have not provided your ClickUp API token. Please add it first."
	msgClickUpListMissing  = "No ClickUp list is associated with this project. Please set one up."
	msgInvalidTaskAction   = "Invalid action. Please specify 'add', 'update', 'delete', 'get', or 'get_all'."
	msgTaskErrorPrefix     = "Error handling ClickUp task: "
)

// TaskUseCase executes task operations against the project's ClickUp list
type TaskUseCase struct {
	repo      interfaces.Repository
	clickup   clickup.Service
	extractor *IntentExtractor
}

func NewTaskUseCase(repo interfaces.Repository, svc clickup.Service, extractor *IntentExtractor) *TaskUseCase {
	return &TaskUseCase{repo: repo, clickup: svc, extractor: extractor}
}

// taskTarget is the project and ClickUp configuration a task operation runs against
type taskTarget struct {
	project *model.Project
	config  *model.ClickUpConfig
}

// Handle extracts a task operation from query and runs it. Every outcome, including
// failures, is rendered as a user-facing string.
func (uc *TaskUseCase) Handle(ctx context.Context, callerID model.UserID, projectID int64, query string) string {
	target, guidance, err := uc.resolveTarget(ctx, callerID, projectID)
	if err != nil {
		return renderTaskError(ctx, err)
	}
	if guidance != "" {
		return guidance
	}

	action, err := uc.extractor.ExtractTaskAction(ctx, query)
	if err != nil {
		if errors.Is(err, ErrUnparsableAction) {
			logging.From(ctx).Info("task action could not be parsed", "error", err)
			return msgTaskParseFailure
		}
		return renderTaskError(ctx, err)
	}

	resp, err := uc.execute(ctx, target, action)
	if err != nil {
		return renderTaskError(ctx, err)
	}
	return resp
}

// resolveTarget returns guidance instead of a target when the project is not ready for ClickUp
func (uc *TaskUseCase) resolveTarget(ctx context.Context, callerID model.UserID, projectID int64) (*taskTarget, string, error) {
	project, err := uc.repo.Project().Get(ctx, callerID, projectID)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to get project", goerr.V(model.ProjectIDKey, projectID))
	}

	cred, err := uc.repo.Credential().Get(ctx, projectID, types.VendorClickUp)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, msgClickUpTokenMissing, nil
		}
		return nil, "", goerr.Wrap(err, "failed to get ClickUp credential", goerr.V(model.ProjectIDKey, projectID))
	}
	if cred.ClickUp == nil || cred.ClickUp.APIToken == "" {
		return nil, msgClickUpTokenMissing, nil
	}
	if cred.ClickUp.ListID == "" {
		return nil, msgClickUpListMissing, nil
	}

	return &taskTarget{project: project, config: cred.ClickUp}, "", nil
}

func (uc *TaskUseCase) execute(ctx context.Context, target *taskTarget, action *model.TaskAction) (string, error) {
	switch action.Kind {
	case types.TaskActionAdd:
		return uc.add(ctx, target, action)
	case types.TaskActionUpdate:
		return uc.update(ctx, target, action)
	case types.TaskActionDelete:
		return uc.delete(ctx, target, action)
	case types.TaskActionGet:
		return uc.get(ctx, target, action)
	case types.TaskActionGetAll:
		return uc.getAll(ctx, target)
	default:
		return msgInvalidTaskAction, nil
	}
}

func (uc *TaskUseCase) add(ctx context.Context, target *taskTarget, action *model.TaskAction) (string, error) {
	if strings.TrimSpace(action.TaskName) == "" {
		return "", goerr.Wrap(model.ErrValidation, "task name is required to add a task")
	}

	input, err := buildTaskInput(action.TaskName, action)
	if err != nil {
		return "", err
	}

	token := string(target.config.APIToken)
	if _, err := uc.clickup.CreateTask(ctx, token, target.config.ListID, input); err != nil {
		return "", err
	}

	return fmt.Sprintf("Task '%s' with description '%s' and deadline '%s' has been added to the ClickUp list associated with project %s.",
		action.TaskName, orNone(action.Description), orNone(action.DueDate), target.project.Name), nil
}

func (uc *TaskUseCase) update(ctx context.Context, target *taskTarget, action *model.TaskAction) (string, error) {
	task, err := uc.resolveTask(ctx, target, action)
	if err != nil {
		return "", err
	}

	// A name given together with an explicit id is a rename; otherwise the name only identified the task.
	var rename string
	if action.TaskID != "" {
		rename = action.TaskName
	}
	input, err := buildTaskInput(rename, action)
	if err != nil {
		return "", err
	}

	updated, err := uc.clickup.UpdateTask(ctx, string(target.config.APIToken), task.ID, input)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Task '%s' has been updated successfully.", taskLabel(action.TaskName, updated, task)), nil
}

func (uc *TaskUseCase) delete(ctx context.Context, target *taskTarget, action *model.TaskAction) (string, error) {
	task, err := uc.resolveTask(ctx, target, action)
	if err != nil {
		return "", err
	}

	if err := uc.clickup.DeleteTask(ctx, string(target.config.APIToken), task.ID); err != nil {
		return "", err
	}

	return fmt.Sprintf("Task '%s' has been deleted successfully.", taskLabel(action.TaskName, task)), nil
}

func (uc *TaskUseCase) get(ctx context.Context, target *taskTarget, action *model.TaskAction) (string, error) {
	task, err := uc.resolveTask(ctx, target, action)
	if err != nil {
		return "", err
	}

	detail, err := uc.clickup.GetTask(ctx, string(target.config.APIToken), task.ID)
	if err != nil {
		return "", err
	}
	return renderTask(detail), nil
}

func (uc *TaskUseCase) getAll(ctx context.Context, target *taskTarget) (string, error) {
	tasks, err := uc.clickup.ListTasks(ctx, string(target.config.APIToken), target.config.ListID)
	if err != nil {
		return "", err
	}

	if len(tasks) == 0 {
		return fmt.Sprintf("No tasks found in the ClickUp list associated with project '%s'.", target.project.Name), nil
	}

	blocks := make([]string, 0, len(tasks))
	for _, task := range tasks {
		blocks = append(blocks, renderTask(task))
	}
	return fmt.Sprintf("All Tasks in Project '%s':\n\n%s", target.project.Name, strings.Join(blocks, "\n\n")), nil
}

// resolveTask returns the task addressed by id, or finds it by name in the project's list.
// A task found by name must have been created by the token's ClickUp user.
func (uc *TaskUseCase) resolveTask(ctx context.Context, target *taskTarget, action *model.TaskAction) (*clickup.Task, error) {
	if action.TaskID != "" {
		return &clickup.Task{ID: action.TaskID}, nil
	}

	name := strings.TrimSpace(action.TaskName)
	if name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "task name or task id is required")
	}

	token := string(target.config.APIToken)
	tasks, err := uc.clickup.ListTasks(ctx, token, target.config.ListID)
	if err != nil {
		return nil, err
	}

	var found *clickup.Task
	for _, task := range tasks {
		if strings.EqualFold(strings.TrimSpace(task.Name), name) {
			found = task
			break
		}
	}
	if found == nil {
		return nil, goerr.Wrap(model.ErrNotFound, "task not found in the project's ClickUp list",
			goerr.V(model.TaskNameKey, name))
	}

	ownerID := target.config.UserID
	if ownerID == "" {
		user, err := uc.clickup.GetAuthorizedUser(ctx, token)
		if err != nil {
			return nil, err
		}
		ownerID = user.ID.String()
	}
	if found.Creator.ID.String() != ownerID {
		return nil, goerr.Wrap(model.ErrPermissionDenied, "task was created by another ClickUp user",
			goerr.V(model.TaskNameKey, name), goerr.V(model.TaskIDKey, found.ID))
	}
	return found, nil
}

// buildTaskInput maps present action fields to a ClickUp payload. name may be empty.
func buildTaskInput(name string, action *model.TaskAction) (*clickup.TaskInput, error) {
	input := &clickup.TaskInput{
		Name:        name,
		Description: action.Description,
	}
	if action.DueDate != "" {
		ms, err := clickup.DateToEpochMillis(action.DueDate)
		if err != nil {
			return nil, err
		}
		input.DueDate = &ms
	}
	return input, nil
}

func renderTask(task *clickup.Task) string {
	name := task.Name
	if name == "" {
		name = "No Name"
	}
	description := task.Description
	if description == "" {
		description = "No Description"
	}
	due := task.DueDateString()
	if due == "" {
		due = "No Due Date"
	}
	return fmt.Sprintf("Task Name: %s,\nTask Description: %s,\nTask Due Date: %s.", name, description, due)
}

func renderTaskError(ctx context.Context, err error) string {
	logging.From(ctx).Warn("ClickUp task operation failed", "error", err)
	return msgTaskErrorPrefix + err.Error()
}

// taskLabel picks the first usable name to show, falling back to the task id
func taskLabel(name string, tasks ...*clickup.Task) string {
	if name != "" {
		return name
	}
	for _, t := range tasks {
		if t != nil && t.Name != "" {
			return t.Name
		}
	}
	for _, t := range tasks {
		if t != nil && t.ID != "" {
			return t.ID
		}
	}
	return ""
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
