package handler

import (
	"TaskTracker/internal/model"
	"TaskTracker/internal/security"
	"TaskTracker/internal/service"
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockAuthenticationService struct {
	mock.Mock
}

func (m *MockAuthenticationService) Register(ctx context.Context, input service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, input)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockAuthenticationService) Login(ctx context.Context, emailOrUsername string, password string, ipAddress string) (*model.User, *model.TokensPair, error) {
	args := m.Called(ctx, emailOrUsername, password, ipAddress)
	user, _ := args.Get(0).(*model.User)
	pair, _ := args.Get(1).(*model.TokensPair)
	return user, pair, args.Error(2)
}

func (m *MockAuthenticationService) RefreshToken(ctx context.Context, presented string, ipAddress string) (*model.TokensPair, error) {
	args := m.Called(ctx, presented, ipAddress)
	pair, _ := args.Get(0).(*model.TokensPair)
	return pair, args.Error(1)
}

func (m *MockAuthenticationService) Logout(ctx context.Context, identity model.Identity) error {
	return m.Called(ctx, identity).Error(0)
}

func (m *MockAuthenticationService) ChangePassword(ctx context.Context, identity model.Identity, oldPassword string, newPassword string) error {
	return m.Called(ctx, identity, oldPassword, newPassword).Error(0)
}

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) List(ctx context.Context, identity model.Identity) ([]model.Task, error) {
	args := m.Called(ctx, identity)
	tasks, _ := args.Get(0).([]model.Task)
	return tasks, args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, identity model.Identity, input model.TaskPatch) (*model.Task, error) {
	args := m.Called(ctx, identity, input)
	task, _ := args.Get(0).(*model.Task)
	return task, args.Error(1)
}

func (m *MockTaskService) Get(ctx context.Context, identity model.Identity, taskID string) (*model.Task, error) {
	args := m.Called(ctx, identity, taskID)
	task, _ := args.Get(0).(*model.Task)
	return task, args.Error(1)
}

func (m *MockTaskService) UpdatePartial(ctx context.Context, identity model.Identity, taskID string, patch model.TaskPatch) (*model.Task, error) {
	args := m.Called(ctx, identity, taskID, patch)
	task, _ := args.Get(0).(*model.Task)
	return task, args.Error(1)
}

func (m *MockTaskService) UpdateFull(ctx context.Context, identity model.Identity, taskID string, patch model.TaskPatch) (*model.Task, error) {
	args := m.Called(ctx, identity, taskID, patch)
	task, _ := args.Get(0).(*model.Task)
	return task, args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, identity model.Identity, taskID string) (*model.Task, error) {
	args := m.Called(ctx, identity, taskID)
	task, _ := args.Get(0).(*model.Task)
	return task, args.Error(1)
}

type stubPinger struct{ err error }

func (pinger stubPinger) PingContext(context.Context) error { return pinger.err }

var testUser = &model.User{ID: "user-uuid", Username: "alice", Email: "alice@x.com"}

// fakeAuthenticate кладет testUser в контекст, если передан заголовок X-Test-User.
func fakeAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("X-Test-User") == "" {
			writer.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(writer, request.WithContext(security.WithUser(request.Context(), testUser)))
	})
}

func newTestRouter(auth *MockAuthenticationService, tasks *MockTaskService, pingErr error) http.Handler {
	logger := zap.NewNop()
	router := chi.NewRouter()
	Routes{
		BasePath:     "/api/v1",
		Auth:         NewAuthenticationHandler(auth, CookieConfig{Secure: true, AccessTTL: 15 * time.Minute, RefreshTTL: time.Hour}, logger),
		Tasks:        NewTaskHandler(tasks, logger),
		System:       NewSystemHandler(stubPinger{err: pingErr}, logger),
		Authenticate: fakeAuthenticate,
		Logger:       logger,
	}.Mount(router)
	return router
}
