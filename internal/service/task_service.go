package service

import (
	"TaskTracker/internal/errs"
	"TaskTracker/internal/model"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 500
)

var (
	errNoTasks           = errs.NotFound("no tasks found, please create a new task")
	errEmptyPartial      = errs.Validation("at least one of 'title', 'description', or 'status' must be provided for an update")
	errIncompleteFull    = errs.Validation("all fields (title, description, status) are required for a full update")
	errTitleRequired     = errs.Validation("title is a required field")
	errDescriptionNeeded = errs.Validation("description is a required field")
	errInvalidStatus     = errs.Validation("status must be either 'pending', 'in-progress', or 'completed'")
)

type TaskService struct {
	Guard *OwnershipGuard
}

func NewTaskService(guard *OwnershipGuard) *TaskService {
	return &TaskService{Guard: guard}
}

func (service *TaskService) List(ctx context.Context, identity model.Identity) ([]model.Task, error) {
	owned, err := service.Guard.For(identity)
	if err != nil {
		return nil, err
	}

	tasks, err := owned.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, errNoTasks
	}

	return tasks, nil
}

// Create создает задачу; статус по умолчанию pending.
func (service *TaskService) Create(ctx context.Context, identity model.Identity, input model.TaskPatch) (*model.Task, error) {
	owned, err := service.Guard.For(identity)
	if err != nil {
		return nil, err
	}

	input = trimPatch(input)
	if input.Title == nil {
		return nil, errTitleRequired
	}
	if input.Description == nil {
		return nil, errDescriptionNeeded
	}
	if input.Status == nil {
		status := model.TaskStatusPending
		input.Status = &status
	}
	if err := validatePatch(input); err != nil {
		return nil, err
	}

	return owned.Create(ctx, &model.Task{
		Title:       *input.Title,
		Description: *input.Description,
		Status:      *input.Status,
	})
}

func (service *TaskService) Get(ctx context.Context, identity model.Identity, taskID string) (*model.Task, error) {
	owned, err := service.Guard.For(identity)
	if err != nil {
		return nil, err
	}
	return owned.Get(ctx, taskID)
}

// UpdatePartial требует хотя бы одно поле. Проверка полей идет после проверки владельца.
func (service *TaskService) UpdatePartial(ctx context.Context, identity model.Identity, taskID string, patch model.TaskPatch) (*model.Task, error) {
	return service.update(ctx, identity, taskID, trimPatch(patch), func(patch model.TaskPatch) error {
		if patch.Empty() {
			return errEmptyPartial
		}
		return nil
	})
}

// UpdateFull требует все изменяемые поля.
func (service *TaskService) UpdateFull(ctx context.Context, identity model.Identity, taskID string, patch model.TaskPatch) (*model.Task, error) {
	return service.update(ctx, identity, taskID, trimPatch(patch), func(patch model.TaskPatch) error {
		if !patch.Complete() {
			return errIncompleteFull
		}
		return nil
	})
}

func (service *TaskService) Delete(ctx context.Context, identity model.Identity, taskID string) (*model.Task, error) {
	owned, err := service.Guard.For(identity)
	if err != nil {
		return nil, err
	}
	return owned.Delete(ctx, taskID)
}

func (service *TaskService) update(ctx context.Context, identity model.Identity, taskID string, patch model.TaskPatch, shape func(model.TaskPatch) error) (*model.Task, error) {
	owned, err := service.Guard.For(identity)
	if err != nil {
		return nil, err
	}

	if _, err := owned.Get(ctx, taskID); err != nil {
		return nil, err
	}

	if err := shape(patch); err != nil {
		return nil, err
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	return owned.Update(ctx, taskID, patch)
}

// trimPatch обрезает пробелы; пустые строки считаются непереданными полями.
func trimPatch(patch model.TaskPatch) model.TaskPatch {
	trim := func(value *string) *string {
		if value == nil {
			return nil
		}
		trimmed := strings.TrimSpace(*value)
		if trimmed == "" {
			return nil
		}
		return &trimmed
	}

	patch.Title = trim(patch.Title)
	patch.Description = trim(patch.Description)
	if patch.Status != nil && strings.TrimSpace(string(*patch.Status)) == "" {
		patch.Status = nil
	}
	return patch
}

func validatePatch(patch model.TaskPatch) error {
	var details []string

	if patch.Title != nil && utf8.RuneCountInString(*patch.Title) > maxTitleLength {
		details = append(details, fmt.Sprintf("title cannot exceed %d characters", maxTitleLength))
	}
	if patch.Description != nil && utf8.RuneCountInString(*patch.Description) > maxDescriptionLength {
		details = append(details, fmt.Sprintf("description cannot exceed %d characters", maxDescriptionLength))
	}
	if patch.Status != nil && !patch.Status.Valid() {
		details = append(details, errInvalidStatus.Message)
	}

	if len(details) > 0 {
		return errs.Validation("task validation failed", details...)
	}
	return nil
}
