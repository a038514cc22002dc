package service

import (
	"TaskTracker/internal/errs"
	"TaskTracker/internal/model"
	"TaskTracker/internal/ports"
	"context"

	"github.com/google/uuid"
)

var (
	errTaskNotFound = errs.NotFound("task not found")
	errNoIdentity   = errs.Unauthorized("unauthorized request")
)

// OwnershipGuard дает единственную точку доступа к задачам. Любая операция идет через
// OwnedTasks, которые всегда передают владельца в хранилище.
type OwnershipGuard struct {
	tasks ports.TaskRepositoryInterface
}

func NewOwnershipGuard(tasks ports.TaskRepositoryInterface) *OwnershipGuard {
	return &OwnershipGuard{tasks: tasks}
}

// For возвращает задачи, видимые личности. Без личности доступ запрещен.
func (guard *OwnershipGuard) For(identity model.Identity) (OwnedTasks, error) {
	if identity.UserID == "" {
		return OwnedTasks{}, errNoIdentity
	}
	return OwnedTasks{ownerID: identity.UserID, tasks: guard.tasks}, nil
}

// OwnedTasks это задачи одного владельца. Чужая или несуществующая задача
// одинаково дают NotFound, чтобы не подтверждать существование чужих записей.
type OwnedTasks struct {
	ownerID string
	tasks   ports.TaskRepositoryInterface
}

func (owned OwnedTasks) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	task.OwnerID = owned.ownerID
	return owned.tasks.Create(ctx, task)
}

func (owned OwnedTasks) List(ctx context.Context) ([]model.Task, error) {
	return owned.tasks.FindAllByOwner(ctx, owned.ownerID)
}

func (owned OwnedTasks) Get(ctx context.Context, taskID string) (*model.Task, error) {
	if !validTaskID(taskID) {
		return nil, errTaskNotFound
	}
	return owned.tasks.FindOneByOwner(ctx, owned.ownerID, taskID)
}

func (owned OwnedTasks) Update(ctx context.Context, taskID string, patch model.TaskPatch) (*model.Task, error) {
	if !validTaskID(taskID) {
		return nil, errTaskNotFound
	}
	return owned.tasks.UpdateByOwner(ctx, owned.ownerID, taskID, patch)
}

func (owned OwnedTasks) Delete(ctx context.Context, taskID string) (*model.Task, error) {
	if !validTaskID(taskID) {
		return nil, errTaskNotFound
	}
	return owned.tasks.DeleteByOwner(ctx, owned.ownerID, taskID)
}

// validTaskID отсекает заведомо несуществующие идентификаторы до запроса в БД.
func validTaskID(taskID string) bool {
	_, err := uuid.Parse(taskID)
	return err == nil
}
