package repository

import (
	"TaskTracker/internal"
	"TaskTracker/internal/errs"
	"TaskTracker/internal/model"
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const userColumns = `id, username, email, full_name, password_hash, refresh_token, created_at, updated_at`

var errUserExists = errs.Conflict("user with email or username already exists")

// UserRepository это хранилище учетных данных поверх таблицы users.
// Методы работы с refresh токеном лежат в refresh_token_repository.go.
type UserRepository struct {
	*internal.Database
}

func NewUserRepository(database *internal.Database) *UserRepository {
	return &UserRepository{database}
}

// Create вставляет пользователя. Предварительная проверка дает понятную ошибку,
// а гонку двух одновременных регистраций закрывают уникальные ограничения таблицы.
func (repository *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	exists, err := repository.ExistsByUsernameOrEmail(ctx, user.Username, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errUserExists
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `INSERT INTO users (id, username, email, full_name, password_hash)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING created_at, updated_at`

	err = repository.DB.QueryRowxContext(ctx, query, user.ID, user.Username, user.Email, user.FullName, user.PasswordHash).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errUserExists
		}
		return nil, errs.Internal("ошибка вставки пользователя", err)
	}

	return user, nil
}

func (repository *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username string, email string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)`
	if err := repository.DB.GetContext(ctx, &exists, query, username, email); err != nil {
		return false, errs.Internal("ошибка проверки существования пользователя", err)
	}

	return exists, nil
}

func (repository *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return repository.findOne(ctx, query, id)
}

// FindByUsernameOrEmail ищет пользователя, у которого value совпадает с username или email.
func (repository *UserRepository) FindByUsernameOrEmail(ctx context.Context, value string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1 LIMIT 1`
	return repository.findOne(ctx, query, value)
}

func (repository *UserRepository) SetPassword(ctx context.Context, id string, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`
	return repository.execOne(ctx, query, id, passwordHash)
}

func (repository *UserRepository) findOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var user model.User

	err := repository.DB.GetContext(ctx, &user, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("user does not exist")
		}
		return nil, errs.Internal("ошибка выполнения запроса", err)
	}

	return &user, nil
}

// execOne выполняет UPDATE и возвращает NotFound, если не затронута ни одна строка.
func (repository *UserRepository) execOne(ctx context.Context, query string, args ...any) error {
	result, err := repository.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return errs.Internal("не удалось обновить пользователя", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errs.Internal("не удалось проверить, обновлен ли пользователь", err)
	}
	if rowsAffected == 0 {
		return errs.NotFound("user does not exist")
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

