package service

import (
	"TaskTracker/internal/errs"
	"TaskTracker/internal/limiter"
	"TaskTracker/internal/model"
	"TaskTracker/internal/notifier"
	"TaskTracker/internal/ports"
	"TaskTracker/internal/security"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	errRefreshTokenMissing = errs.Unauthorized("unauthorized request")
	errRefreshTokenInvalid = errs.Unauthorized("invalid refresh token")
	errRefreshTokenReused  = errs.Unauthorized("refresh token is expired or used")
	errInvalidPassword     = errs.Unauthorized("invalid user password")
	errInvalidOldPassword  = errs.Unauthorized("invalid old password")
	errPasswordTooLong     = errs.Validation(fmt.Sprintf("password cannot exceed %d bytes", security.MaxPasswordLength))
)

type AuthenticationService struct {
	UserRepository ports.UserRepositoryInterface
	JWTService     ports.JWTServiceInterface
	Limiter        ports.LoginLimiterInterface
	Notifier       ports.NotifierInterface
	Logger         *zap.Logger
}

func NewAuthenticationService(
	users ports.UserRepositoryInterface,
	jwtService ports.JWTServiceInterface,
	loginLimiter ports.LoginLimiterInterface,
	securityNotifier ports.NotifierInterface,
	logger *zap.Logger,
) *AuthenticationService {
	return &AuthenticationService{
		UserRepository: users,
		JWTService:     jwtService,
		Limiter:        loginLimiter,
		Notifier:       securityNotifier,
		Logger:         logger,
	}
}

type RegisterInput struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register создает пользователя. Логин, email и имя приводятся к нижнему регистру,
// пароль хэшируется как есть.
func (service *AuthenticationService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	required := []struct{ name, value string }{
		{"fullName", input.FullName},
		{"email", input.Email},
		{"username", input.Username},
		{"password", input.Password},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return nil, errs.Validation(fmt.Sprintf("field '%s' is required and cannot be empty", field.name))
		}
	}
	if !strings.Contains(input.Email, "@") {
		return nil, errs.Validation("field 'email' must be a valid email address")
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return nil, errPasswordTooLong
		}
		return nil, errs.Internal("something went wrong while registering the user", err)
	}

	user, err := service.UserRepository.Create(ctx, &model.User{
		FullName:     normalize(input.FullName),
		Username:     normalize(input.Username),
		Email:        normalize(input.Email),
		PasswordHash: passwordHash,
	})
	if err != nil {
		return nil, err
	}

	service.Logger.Info("пользователь зарегистрирован", zap.String("user_id", user.ID))
	return user, nil
}

// Login проверяет пароль и выпускает новую пару токенов, заменяя прежний refresh токен.
func (service *AuthenticationService) Login(ctx context.Context, emailOrUsername string, password string, ipAddress string) (*model.User, *model.TokensPair, error) {
	if strings.TrimSpace(emailOrUsername) == "" || password == "" {
		return nil, nil, errs.Validation("email or username with password is required")
	}

	attemptKey := limiter.LoginKey(emailOrUsername, ipAddress)
	if err := service.Limiter.Allow(ctx, attemptKey); err != nil {
		return nil, nil, err
	}

	user, err := service.UserRepository.FindByUsernameOrEmail(ctx, normalize(emailOrUsername))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			service.recordFailure(ctx, attemptKey)
		}
		return nil, nil, err
	}

	if !security.CheckPassword(user.PasswordHash, password) {
		service.recordFailure(ctx, attemptKey)
		return nil, nil, errInvalidPassword
	}

	if err := service.Limiter.Success(ctx, attemptKey); err != nil {
		service.Logger.Warn("не удалось сбросить счетчик попыток", zap.Error(err))
	}

	tokensPair, err := service.IssueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	service.Logger.Info("выполнен вход", zap.String("user_id", user.ID))
	return user, tokensPair, nil
}

// IssueTokenPair подписывает пару и сохраняет refresh токен, делая прежний недействительным.
func (service *AuthenticationService) IssueTokenPair(ctx context.Context, user *model.User) (*model.TokensPair, error) {
	return service.issueTokenPair(ctx, user, nil)
}

// RefreshToken обменивает действующий refresh токен на новую пару.
// Проверка двухфазная: подпись и срок, затем побайтное совпадение с сохраненным значением.
func (service *AuthenticationService) RefreshToken(ctx context.Context, presented string, ipAddress string) (*model.TokensPair, error) {
	if presented == "" {
		return nil, errRefreshTokenMissing
	}

	claims, err := service.JWTService.ValidateRefreshToken(presented)
	if err != nil {
		service.Logger.Debug("не удалось провалидировать токен", zap.Error(err))
		return nil, errRefreshTokenInvalid
	}

	user, err := service.UserRepository.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errRefreshTokenInvalid
		}
		return nil, err
	}

	if !user.HasRefreshToken(presented) {
		// подписанный, но уже замененный токен: повторное использование или выход из аккаунта
		service.Logger.Warn("предъявлен устаревший refresh токен", zap.String("user_id", user.ID))
		service.Notifier.Notify(ctx, user.ID, notifier.EventRefreshTokenReuse, ipAddress)
		return nil, errRefreshTokenReused
	}

	return service.issueTokenPair(ctx, user, &presented)
}

// Logout очищает сохраненный refresh токен; после этого ротация старым токеном невозможна.
func (service *AuthenticationService) Logout(ctx context.Context, identity model.Identity) error {
	if err := service.UserRepository.SetRefreshToken(ctx, identity.UserID, nil); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.Unauthorized("unauthorized request")
		}
		return err
	}

	service.Logger.Info("выполнен выход из аккаунта", zap.String("user_id", identity.UserID))
	return nil
}

// ChangePassword меняет пароль после проверки старого. Действующий refresh токен не отзывается.
func (service *AuthenticationService) ChangePassword(ctx context.Context, identity model.Identity, oldPassword string, newPassword string) error {
	if oldPassword == "" || strings.TrimSpace(newPassword) == "" {
		return errs.Validation("old and new passwords are required")
	}

	user, err := service.UserRepository.FindByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.Unauthorized("unauthorized request")
		}
		return err
	}

	if !security.CheckPassword(user.PasswordHash, oldPassword) {
		return errInvalidOldPassword
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return errPasswordTooLong
		}
		return errs.Internal("ошибка хэширования пароля", err)
	}

	if err := service.UserRepository.SetPassword(ctx, user.ID, passwordHash); err != nil {
		return err
	}

	service.Logger.Info("пароль изменен", zap.String("user_id", user.ID))
	return nil
}

// issueTokenPair при presented == nil безусловно заменяет refresh токен (вход),
// иначе заменяет его только если в хранилище все еще лежит presented (ротация).
func (service *AuthenticationService) issueTokenPair(ctx context.Context, user *model.User, presented *string) (*model.TokensPair, error) {
	tokensPair, err := service.JWTService.GenerateAccessRefreshTokens(user)
	if err != nil {
		return nil, errs.Internal("ошибка генерации токенов", err)
	}

	if presented == nil {
		err = service.UserRepository.SetRefreshToken(ctx, user.ID, &tokensPair.RefreshToken)
	} else {
		err = service.UserRepository.SwapRefreshToken(ctx, user.ID, *presented, tokensPair.RefreshToken)
	}
	if err != nil {
		if presented != nil && errors.Is(err, errs.ErrNotFound) {
			// параллельная ротация успела заменить токен первой
			return nil, errRefreshTokenReused
		}
		return nil, errs.Internal("не удалось сохранить рефреш токен", err)
	}

	return tokensPair, nil
}

func (service *AuthenticationService) recordFailure(ctx context.Context, attemptKey string) {
	if err := service.Limiter.Failure(ctx, attemptKey); err != nil {
		service.Logger.Warn("не удалось учесть неудачную попытку входа", zap.Error(err))
	}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
