package ports

import (
	"TaskTracker/internal/model"
	"TaskTracker/internal/security"
	"context"
)

type UserRepositoryInterface interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsernameOrEmail(ctx context.Context, value string) (*model.User, error)
	SetRefreshToken(ctx context.Context, id string, token *string) error
	SwapRefreshToken(ctx context.Context, id string, presented string, next string) error
	SetPassword(ctx context.Context, id string, passwordHash string) error
}

// Все методы TaskRepositoryInterface, кроме Create, принимают владельца первым аргументом.
type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *model.Task) (*model.Task, error)
	FindAllByOwner(ctx context.Context, ownerID string) ([]model.Task, error)
	FindOneByOwner(ctx context.Context, ownerID string, taskID string) (*model.Task, error)
	UpdateByOwner(ctx context.Context, ownerID string, taskID string, patch model.TaskPatch) (*model.Task, error)
	DeleteByOwner(ctx context.Context, ownerID string, taskID string) (*model.Task, error)
}

type JWTServiceInterface interface {
	GenerateAccessRefreshTokens(user *model.User) (*model.TokensPair, error)
	ValidateRefreshToken(tokenString string) (*security.Claims, error)
}

type LoginLimiterInterface interface {
	Allow(ctx context.Context, key string) error
	Failure(ctx context.Context, key string) error
	Success(ctx context.Context, key string) error
}

type NotifierInterface interface {
	Notify(ctx context.Context, userID string, event string, ipAddress string)
}
