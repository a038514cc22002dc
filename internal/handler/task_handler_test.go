package handler

import (
	"TaskTracker/internal/errs"
	"TaskTracker/internal/model"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const taskID = "7f0c5a8e-3b8e-4c39-9a55-1f1d2d3c4b5a"

func TestTaskRoutesRequireAuthentication(t *testing.T) {
	tasks := new(MockTaskService)
	router := newTestRouter(new(MockAuthenticationService), tasks, nil)

	for _, route := range []struct{ method, target string }{
		{http.MethodGet, "/api/v1/tasks"},
		{http.MethodPost, "/api/v1/task"},
		{http.MethodGet, "/api/v1/task/" + taskID},
		{http.MethodPatch, "/api/v1/task/" + taskID},
		{http.MethodPut, "/api/v1/task/" + taskID},
		{http.MethodDelete, "/api/v1/task/" + taskID},
	} {
		recorder := serve(router, route.method, route.target, "{}")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code, route.method+" "+route.target)
	}
	tasks.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestListTasksHandler(t *testing.T) {
	tasks := new(MockTaskService)
	router := newTestRouter(new(MockAuthenticationService), tasks, nil)

	tasks.On("List", mock.Anything, testUser.Identity()).
		Return([]model.Task{{ID: taskID, OwnerID: testUser.ID, Title: "t"}}, nil).Once()
	recorder := serve(router, http.MethodGet, "/api/v1/tasks", "", authenticated)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Len(t, decodeBody(t, recorder)["data"], 1)

	tasks.On("List", mock.Anything, testUser.Identity()).
		Return(nil, errs.NotFound("no tasks found, please create a new task")).Once()
	recorder = serve(router, http.MethodGet, "/api/v1/tasks", "", authenticated)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "no tasks found, please create a new task", decodeBody(t, recorder)["message"])
}

func TestCreateTaskHandler(t *testing.T) {
	tasks := new(MockTaskService)
	router := newTestRouter(new(MockAuthenticationService), tasks, nil)

	title, description := "Buy milk", "2 liters"
	tasks.On("Create", mock.Anything, testUser.Identity(), model.TaskPatch{Title: &title, Description: &description}).
		Return(&model.Task{ID: taskID, Title: title, Status: model.TaskStatusPending}, nil)

	recorder := serve(router, http.MethodPost, "/api/v1/task", `{"title":"Buy milk","description":"2 liters"}`, authenticated)
	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "pending", decodeBody(t, recorder)["data"].(map[string]any)["status"])
}

func TestGetTaskHandler_ForeignTaskIsNotFound(t *testing.T) {
	tasks := new(MockTaskService)
	router := newTestRouter(new(MockAuthenticationService), tasks, nil)

	tasks.On("Get", mock.Anything, testUser.Identity(), taskID).Return(nil, errs.NotFound("task not found"))

	recorder := serve(router, http.MethodGet, "/api/v1/task/"+taskID, "", authenticated)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "task not found", decodeBody(t, recorder)["message"])
}

func TestUpdateTaskHandlers(t *testing.T) {
	tasks := new(MockTaskService)
	router := newTestRouter(new(MockAuthenticationService), tasks, nil)

	status := model.TaskStatusCompleted
	tasks.On("UpdatePartial", mock.Anything, testUser.Identity(), taskID, model.TaskPatch{Status: &status}).
		Return(&model.Task{ID: taskID, Status: status}, nil)
	recorder := serve(router, http.MethodPatch, "/api/v1/task/"+taskID, `{"status":"completed"}`, authenticated)
	assert.Equal(t, http.StatusOK, recorder.Code)

	tasks.On("UpdateFull", mock.Anything, testUser.Identity(), taskID, mock.Anything).
		Return(nil, errs.Validation("task validation failed", "title cannot exceed 100 characters"))
	recorder = serve(router, http.MethodPut, "/api/v1/task/"+taskID, `{"title":"x","description":"y","status":"pending"}`, authenticated)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, []any{"title cannot exceed 100 characters"}, decodeBody(t, recorder)["errors"])
}

func TestDeleteTaskHandler(t *testing.T) {
	tasks := new(MockTaskService)
	router := newTestRouter(new(MockAuthenticationService), tasks, nil)

	tasks.On("Delete", mock.Anything, testUser.Identity(), taskID).Return(&model.Task{ID: taskID}, nil)

	recorder := serve(router, http.MethodDelete, "/api/v1/task/"+taskID, "", authenticated)
	assert.Equal(t, http.StatusOK, recorder.Code)
	tasks.AssertExpectations(t)
}
