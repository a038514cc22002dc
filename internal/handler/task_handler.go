package handler

import (
	"TaskTracker/internal/errs"
	"TaskTracker/internal/model"
	"TaskTracker/internal/response"
	"TaskTracker/internal/security"
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const taskIDParam = "taskId"

type TaskService interface {
	List(ctx context.Context, identity model.Identity) ([]model.Task, error)
	Create(ctx context.Context, identity model.Identity, input model.TaskPatch) (*model.Task, error)
	Get(ctx context.Context, identity model.Identity, taskID string) (*model.Task, error)
	UpdatePartial(ctx context.Context, identity model.Identity, taskID string, patch model.TaskPatch) (*model.Task, error)
	UpdateFull(ctx context.Context, identity model.Identity, taskID string, patch model.TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, identity model.Identity, taskID string) (*model.Task, error)
}

// TaskHandler обслуживает задачи текущего пользователя. Все маршруты за SessionVerifier.Middleware.
type TaskHandler struct {
	service TaskService
	logger  *zap.Logger
}

func NewTaskHandler(taskService TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{service: taskService, logger: logger}
}

// ListTasks godoc
// @Summary Список задач
// @Tags Tasks
// @Produce json
// @Success 200 {object} response.APIResponse "задачи пользователя"
// @Failure 404 {object} response.APIError "задач нет"
// @Security ApiKeyAuth
// @Router /tasks [get]
func (handler *TaskHandler) ListTasks(writer http.ResponseWriter, request *http.Request) {
	handler.withIdentity(writer, request, func(ctx context.Context, identity model.Identity) {
		tasks, err := handler.service.List(ctx, identity)
		if err != nil {
			response.Error(writer, handler.logger, err)
			return
		}
		response.JSON(writer, http.StatusOK, tasks, "Tasks fetched successfully")
	})
}

// CreateTask godoc
// @Summary Создание задачи
// @Tags Tasks
// @Accept json
// @Produce json
// @Param request body model.TaskPatch true "title и description обязательны, status по умолчанию pending"
// @Success 201 {object} response.APIResponse "задача создана"
// @Failure 400 {object} response.APIError "ошибка валидации"
// @Security ApiKeyAuth
// @Router /task [post]
func (handler *TaskHandler) CreateTask(writer http.ResponseWriter, request *http.Request) {
	handler.withIdentity(writer, request, func(ctx context.Context, identity model.Identity) {
		var input model.TaskPatch
		if err := decodeJSON(request, &input); err != nil {
			response.Error(writer, handler.logger, err)
			return
		}

		task, err := handler.service.Create(ctx, identity, input)
		if err != nil {
			response.Error(writer, handler.logger, err)
			return
		}
		response.JSON(writer, http.StatusCreated, task, "Task created successfully")
	})
}

// GetTask godoc
// @Summary Задача по идентификатору
// @Tags Tasks
// @Produce json
// @Param taskId path string true "UUID задачи"
// @Success 200 {object} response.APIResponse "задача"
// @Failure 404 {object} response.APIError "задача не найдена"
// @Security ApiKeyAuth
// @Router /task/{taskId} [get]
func (handler *TaskHandler) GetTask(writer http.ResponseWriter, request *http.Request) {
	handler.withIdentity(writer, request, func(ctx context.Context, identity model.Identity) {
		taskID := chi.URLParam(request, taskIDParam)
		task, err := handler.service.Get(ctx, identity, taskID)
		if err != nil {
			response.Error(writer, handler.logger, err)
			return
		}
		response.JSON(writer, http.StatusOK, task, fmt.Sprintf("Task with ID %s fetched successfully", taskID))
	})
}

// UpdateTask godoc
// @Summary Частичное обновление задачи
// @Tags Tasks
// @Accept json
// @Produce json
// @Param taskId path string true "UUID задачи"
// @Param request body model.TaskPatch true "хотя бы одно поле"
// @Success 200 {object} response.APIResponse "задача обновлена"
// @Failure 400 {object} response.APIError "ошибка валидации"
// @Failure 404 {object} response.APIError "задача не найдена"
// @Security ApiKeyAuth
// @Router /task/{taskId} [patch]
func (handler *TaskHandler) UpdateTask(writer http.ResponseWriter, request *http.Request) {
	handler.update(writer, request, TaskService.UpdatePartial)
}

// ReplaceTask godoc
// @Summary Полное обновление задачи
// @Tags Tasks
// @Accept json
// @Produce json
// @Param taskId path string true "UUID задачи"
// @Param request body model.TaskPatch true "все поля обязательны"
// @Success 200 {object} response.APIResponse "задача обновлена"
// @Failure 400 {object} response.APIError "ошибка валидации"
// @Failure 404 {object} response.APIError "задача не найдена"
// @Security ApiKeyAuth
// @Router /task/{taskId} [put]
func (handler *TaskHandler) ReplaceTask(writer http.ResponseWriter, request *http.Request) {
	handler.update(writer, request, TaskService.UpdateFull)
}

// DeleteTask godoc
// @Summary Удаление задачи
// @Tags Tasks
// @Produce json
// @Param taskId path string true "UUID задачи"
// @Success 200 {object} response.APIResponse "задача удалена"
// @Failure 404 {object} response.APIError "задача не найдена"
// @Security ApiKeyAuth
// @Router /task/{taskId} [delete]
func (handler *TaskHandler) DeleteTask(writer http.ResponseWriter, request *http.Request) {
	handler.withIdentity(writer, request, func(ctx context.Context, identity model.Identity) {
		taskID := chi.URLParam(request, taskIDParam)
		task, err := handler.service.Delete(ctx, identity, taskID)
		if err != nil {
			response.Error(writer, handler.logger, err)
			return
		}
		response.JSON(writer, http.StatusOK, task, fmt.Sprintf("Task with ID %s deleted successfully", taskID))
	})
}

type updateFunc func(TaskService, context.Context, model.Identity, string, model.TaskPatch) (*model.Task, error)

func (handler *TaskHandler) update(writer http.ResponseWriter, request *http.Request, apply updateFunc) {
	handler.withIdentity(writer, request, func(ctx context.Context, identity model.Identity) {
		var patch model.TaskPatch
		if err := decodeJSON(request, &patch); err != nil {
			response.Error(writer, handler.logger, err)
			return
		}

		taskID := chi.URLParam(request, taskIDParam)
		task, err := apply(handler.service, ctx, identity, taskID, patch)
		if err != nil {
			response.Error(writer, handler.logger, err)
			return
		}
		response.JSON(writer, http.StatusOK, task, fmt.Sprintf("Task with ID %s updated successfully", taskID))
	})
}

func (handler *TaskHandler) withIdentity(writer http.ResponseWriter, request *http.Request, serve func(context.Context, model.Identity)) {
	ctx, cancel := context.WithTimeout(request.Context(), requestTimeout)
	defer cancel()

	identity, ok := security.IdentityFromContext(ctx)
	if !ok {
		response.Error(writer, handler.logger, errs.Unauthorized("unauthorized request"))
		return
	}
	serve(ctx, identity)
}
