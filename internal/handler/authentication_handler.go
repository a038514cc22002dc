package handler

import (
	"TaskTracker/internal/errs"
	"TaskTracker/internal/model"
	"TaskTracker/internal/response"
	"TaskTracker/internal/security"
	"TaskTracker/internal/service"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const requestTimeout = 3 * time.Second

var errInvalidJSON = errs.Validation("неверный json")

type AuthenticationService interface {
	Register(ctx context.Context, input service.RegisterInput) (*model.User, error)
	Login(ctx context.Context, emailOrUsername string, password string, ipAddress string) (*model.User, *model.TokensPair, error)
	RefreshToken(ctx context.Context, presented string, ipAddress string) (*model.TokensPair, error)
	Logout(ctx context.Context, identity model.Identity) error
	ChangePassword(ctx context.Context, identity model.Identity, oldPassword string, newPassword string) error
}

type AuthenticationHandler struct {
	service AuthenticationService
	cookies CookieConfig
	logger  *zap.Logger
}

// LoginRequest содержит email или логин и пароль
// swagger:model
type LoginRequest struct {
	// example: alice@example.com
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

// LoginResponse содержит профиль и выданную пару токенов
// swagger:model
type LoginResponse struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// RefreshTokenRequest содержит refresh токен в json формате
// swagger:model
type RefreshTokenRequest struct {
	// Refresh токен
	// example: eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest содержит старый и новый пароль
// swagger:model
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func NewAuthenticationHandler(authenticationService AuthenticationService, cookies CookieConfig, logger *zap.Logger) *AuthenticationHandler {
	return &AuthenticationHandler{service: authenticationService, cookies: cookies, logger: logger}
}

// Register godoc
// @Summary Регистрация пользователя
// @Description Создает пользователя. Логин, email и имя приводятся к нижнему регистру.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Данные пользователя"
// @Success 201 {object} response.APIResponse "пользователь создан"
// @Failure 400 {object} response.APIError "не заполнено обязательное поле"
// @Failure 409 {object} response.APIError "логин или email уже заняты"
// @Router /users/register [post]
func (handler *AuthenticationHandler) Register(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), requestTimeout)
	defer cancel()

	var input service.RegisterInput
	if err := decodeJSON(request, &input); err != nil {
		response.Error(writer, handler.logger, err)
		return
	}

	user, err := handler.service.Register(ctx, input)
	if err != nil {
		response.Error(writer, handler.logger, err)
		return
	}

	response.JSON(writer, http.StatusCreated, user, "User registered successfully")
}

// Login godoc
// @Summary Вход
// @Description Проверяет пароль, выдает пару токенов в cookie и в теле ответа. Прежний refresh токен перестает действовать.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Email или логин и пароль"
// @Success 200 {object} response.APIResponse "успешный вход"
// @Failure 400 {object} response.APIError "не передан логин или пароль"
// @Failure 401 {object} response.APIError "неверный пароль"
// @Failure 404 {object} response.APIError "пользователь не найден"
// @Failure 429 {object} response.APIError "слишком много попыток"
// @Router /users/login [post]
func (handler *AuthenticationHandler) Login(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), requestTimeout)
	defer cancel()

	var loginRequest LoginRequest
	if err := decodeJSON(request, &loginRequest); err != nil {
		response.Error(writer, handler.logger, err)
		return
	}

	user, tokensPair, err := handler.service.Login(ctx, loginRequest.EmailOrUsername, loginRequest.Password, clientIP(request))
	if err != nil {
		response.Error(writer, handler.logger, err)
		return
	}

	handler.cookies.setSession(writer, tokensPair)
	response.JSON(writer, http.StatusOK, &LoginResponse{
		User:         user,
		AccessToken:  tokensPair.AccessToken,
		RefreshToken: tokensPair.RefreshToken,
	}, "User logged in successfully")
}

// RefreshToken godoc
// @Summary Обновление токенов
// @Description Обменивает refresh токен из cookie или тела запроса на новую пару. Использованный токен повторно не принимается.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest false "Refresh токен, если нет cookie"
// @Success 200 {object} response.APIResponse "токены обновлены"
// @Failure 401 {object} response.APIError "токен отсутствует, невалиден или уже использован"
// @Router /users/refresh-token [post]
func (handler *AuthenticationHandler) RefreshToken(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), requestTimeout)
	defer cancel()

	presented := ""
	if cookie, err := request.Cookie(security.RefreshTokenCookie); err == nil {
		presented = cookie.Value
	}
	if presented == "" {
		var refreshTokenRequest RefreshTokenRequest
		if err := decodeJSON(request, &refreshTokenRequest); err != nil && !errors.Is(err, io.EOF) {
			response.Error(writer, handler.logger, err)
			return
		}
		presented = refreshTokenRequest.RefreshToken
	}

	tokensPair, err := handler.service.RefreshToken(ctx, presented, clientIP(request))
	if err != nil {
		response.Error(writer, handler.logger, err)
		return
	}

	handler.cookies.setSession(writer, tokensPair)
	response.JSON(writer, http.StatusOK, tokensPair, "Access token refreshed")
}

// Logout godoc
// @Summary Выход из аккаунта
// @Description Отзывает refresh токен и очищает cookie сессии.
// @Tags Users
// @Produce json
// @Success 200 {object} response.APIResponse "выполнен выход из аккаунта"
// @Failure 401 {object} response.APIError "не авторизован"
// @Security ApiKeyAuth
// @Router /users/logout [post]
func (handler *AuthenticationHandler) Logout(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), requestTimeout)
	defer cancel()

	identity, ok := security.IdentityFromContext(ctx)
	if !ok {
		response.Error(writer, handler.logger, errs.Unauthorized("unauthorized request"))
		return
	}

	if err := handler.service.Logout(ctx, identity); err != nil {
		response.Error(writer, handler.logger, err)
		return
	}

	handler.cookies.clearSession(writer)
	response.JSON(writer, http.StatusOK, struct{}{}, "User logged out")
}

// ChangePassword godoc
// @Summary Смена пароля
// @Tags Users
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Старый и новый пароль"
// @Success 200 {object} response.APIResponse "пароль изменен"
// @Failure 401 {object} response.APIError "неверный старый пароль"
// @Security ApiKeyAuth
// @Router /users/change-password [post]
func (handler *AuthenticationHandler) ChangePassword(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), requestTimeout)
	defer cancel()

	identity, ok := security.IdentityFromContext(ctx)
	if !ok {
		response.Error(writer, handler.logger, errs.Unauthorized("unauthorized request"))
		return
	}

	var changeRequest ChangePasswordRequest
	if err := decodeJSON(request, &changeRequest); err != nil {
		response.Error(writer, handler.logger, err)
		return
	}

	if err := handler.service.ChangePassword(ctx, identity, changeRequest.OldPassword, changeRequest.NewPassword); err != nil {
		response.Error(writer, handler.logger, err)
		return
	}

	response.JSON(writer, http.StatusOK, struct{}{}, "Password changed successfully")
}

// GetCurrentUser godoc
// @Summary Текущий пользователь
// @Description Возвращает профиль без хэша пароля и refresh токена.
// @Tags Users
// @Produce json
// @Success 200 {object} response.APIResponse "профиль"
// @Failure 401 {object} response.APIError "не авторизован"
// @Security ApiKeyAuth
// @Router /users/current-user [get]
func (handler *AuthenticationHandler) GetCurrentUser(writer http.ResponseWriter, request *http.Request) {
	user, ok := security.UserFromContext(request.Context())
	if !ok {
		response.Error(writer, handler.logger, errs.Unauthorized("unauthorized request"))
		return
	}

	response.JSON(writer, http.StatusOK, user, "User fetched successfully")
}

func decodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return &errs.Error{Kind: errs.KindValidation, Message: "request body is empty", Err: err}
		}
		return errInvalidJSON
	}
	return nil
}

// clientIP возвращает адрес клиента без порта. RealIP в роутере уже учел X-Forwarded-For.
func clientIP(request *http.Request) string {
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
