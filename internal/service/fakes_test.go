package service

import (
	"TaskTracker/internal/errs"
	"TaskTracker/internal/model"
	"TaskTracker/internal/security"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	created, _ := args.Get(0).(*model.User)
	return created, args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) FindByUsernameOrEmail(ctx context.Context, value string) (*model.User, error) {
	args := m.Called(ctx, value)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) SetRefreshToken(ctx context.Context, id string, token *string) error {
	return m.Called(ctx, id, token).Error(0)
}

func (m *MockUserRepository) SwapRefreshToken(ctx context.Context, id string, presented string, next string) error {
	return m.Called(ctx, id, presented, next).Error(0)
}

func (m *MockUserRepository) SetPassword(ctx context.Context, id string, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateAccessRefreshTokens(user *model.User) (*model.TokensPair, error) {
	args := m.Called(user)
	pair, _ := args.Get(0).(*model.TokensPair)
	return pair, args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(tokenString string) (*security.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*security.Claims)
	return claims, args.Error(1)
}

type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockLimiter) Failure(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockLimiter) Success(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID string, event string, ipAddress string) {
	m.Called(ctx, userID, event, ipAddress)
}

// memoryUsers это хранилище учетных данных в памяти с теми же гарантиями атомарности,
// что и таблица users: уникальность логина/email и compare-and-set refresh токена.
type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]*model.User)}
}

func (store *memoryUsers) Create(_ context.Context, user *model.User) (*model.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, existing := range store.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return nil, errs.Conflict("user with email or username already exists")
		}
	}

	created := *user
	created.ID = uuid.New().String()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	store.users[created.ID] = &created

	result := created
	return &result, nil
}

func (store *memoryUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	user, ok := store.users[id]
	if !ok {
		return nil, errs.NotFound("user does not exist")
	}
	return copyUser(user), nil
}

func (store *memoryUsers) FindByUsernameOrEmail(_ context.Context, value string) (*model.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, user := range store.users {
		if user.Username == value || user.Email == value {
			return copyUser(user), nil
		}
	}
	return nil, errs.NotFound("user does not exist")
}

func (store *memoryUsers) SetRefreshToken(_ context.Context, id string, token *string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	user, ok := store.users[id]
	if !ok {
		return errs.NotFound("user does not exist")
	}
	user.RefreshToken = copyString(token)
	return nil
}

func (store *memoryUsers) SwapRefreshToken(_ context.Context, id string, presented string, next string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	user, ok := store.users[id]
	if !ok || !user.HasRefreshToken(presented) {
		return errs.NotFound("refresh token not found")
	}
	user.RefreshToken = &next
	return nil
}

func (store *memoryUsers) SetPassword(_ context.Context, id string, passwordHash string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	user, ok := store.users[id]
	if !ok {
		return errs.NotFound("user does not exist")
	}
	user.PasswordHash = passwordHash
	return nil
}

func (store *memoryUsers) storedRefreshToken(id string) *string {
	store.mu.Lock()
	defer store.mu.Unlock()
	return copyString(store.users[id].RefreshToken)
}

// memoryTasks повторяет фильтр owner_id = $1 AND id = $2 таблицы tasks.
type memoryTasks struct {
	mu    sync.Mutex
	tasks map[string]*model.Task
}

func newMemoryTasks() *memoryTasks {
	return &memoryTasks{tasks: make(map[string]*model.Task)}
}

func (store *memoryTasks) Create(_ context.Context, task *model.Task) (*model.Task, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	created := *task
	created.ID = uuid.New().String()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	store.tasks[created.ID] = &created

	result := created
	return &result, nil
}

func (store *memoryTasks) FindAllByOwner(_ context.Context, ownerID string) ([]model.Task, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	tasks := make([]model.Task, 0)
	for _, task := range store.tasks {
		if task.OwnerID == ownerID {
			tasks = append(tasks, *task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.Before(tasks[j].CreatedAt) })
	return tasks, nil
}

func (store *memoryTasks) FindOneByOwner(_ context.Context, ownerID string, taskID string) (*model.Task, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	task, ok := store.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return nil, errs.NotFound("task not found")
	}
	result := *task
	return &result, nil
}

func (store *memoryTasks) UpdateByOwner(_ context.Context, ownerID string, taskID string, patch model.TaskPatch) (*model.Task, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	task, ok := store.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return nil, errs.NotFound("task not found")
	}
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	task.UpdatedAt = time.Now()

	result := *task
	return &result, nil
}

func (store *memoryTasks) DeleteByOwner(_ context.Context, ownerID string, taskID string) (*model.Task, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	task, ok := store.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return nil, errs.NotFound("task not found")
	}
	delete(store.tasks, taskID)
	return task, nil
}

func copyUser(user *model.User) *model.User {
	result := *user
	result.RefreshToken = copyString(user.RefreshToken)
	return &result
}

func copyString(value *string) *string {
	if value == nil {
		return nil
	}
	result := *value
	return &result
}
