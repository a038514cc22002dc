package repository

import (
	"TaskTracker/internal"
	"TaskTracker/internal/errs"
	"TaskTracker/internal/model"
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

const taskColumns = `id, owner_id, title, description, status, created_at, updated_at`

// ownedTask добавляется к каждому запросу по задаче.
// $1 всегда владелец, $2 всегда идентификатор задачи.
const ownedTask = `owner_id = $1 AND id = $2`

var errTaskNotFound = errs.NotFound("task not found")

type TaskRepository struct {
	*internal.Database
}

func NewTaskRepository(database *internal.Database) *TaskRepository {
	return &TaskRepository{database}
}

func (repository *TaskRepository) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	query := `INSERT INTO tasks (id, owner_id, title, description, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING created_at, updated_at`

	err := repository.DB.QueryRowxContext(ctx, query, task.ID, task.OwnerID, task.Title, task.Description, string(task.Status)).
		Scan(&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, errs.Internal("ошибка вставки задачи", err)
	}

	return task, nil
}

func (repository *TaskRepository) FindAllByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	tasks := make([]model.Task, 0)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1 ORDER BY created_at`
	if err := repository.DB.SelectContext(ctx, &tasks, query, ownerID); err != nil {
		return nil, errs.Internal("ошибка выборки задач", err)
	}

	return tasks, nil
}

func (repository *TaskRepository) FindOneByOwner(ctx context.Context, ownerID string, taskID string) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + ownedTask
	return repository.getOne(ctx, query, ownerID, taskID)
}

// UpdateByOwner применяет переданные поля; nil-поля сохраняют текущее значение.
func (repository *TaskRepository) UpdateByOwner(ctx context.Context, ownerID string, taskID string, patch model.TaskPatch) (*model.Task, error) {
	var status *string
	if patch.Status != nil {
		value := string(*patch.Status)
		status = &value
	}

	query := `UPDATE tasks SET
				title = COALESCE($3, title),
				description = COALESCE($4, description),
				status = COALESCE($5, status),
				updated_at = now()
			  WHERE ` + ownedTask + `
			  RETURNING ` + taskColumns

	return repository.getOne(ctx, query, ownerID, taskID, nullString(patch.Title), nullString(patch.Description), nullString(status))
}

func (repository *TaskRepository) DeleteByOwner(ctx context.Context, ownerID string, taskID string) (*model.Task, error) {
	query := `DELETE FROM tasks WHERE ` + ownedTask + ` RETURNING ` + taskColumns
	return repository.getOne(ctx, query, ownerID, taskID)
}

func (repository *TaskRepository) getOne(ctx context.Context, query string, args ...any) (*model.Task, error) {
	var task model.Task

	err := repository.DB.GetContext(ctx, &task, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errTaskNotFound
		}
		return nil, errs.Internal("ошибка выполнения запроса", err)
	}

	return &task, nil
}
