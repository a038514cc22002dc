package security

import (
	"TaskTracker/internal/errs"
	"TaskTracker/internal/model"
	"TaskTracker/internal/response"
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

var errUnauthorized = errs.Unauthorized("unauthorized request")

type userContextKey struct{}

// UserFinder описывает часть хранилища учетных данных, нужная верификатору.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// SessionVerifier проверяет access токен и разрешает его в пользователя.
// Refresh токен не читается: access токен доверяется без состояния до истечения.
type SessionVerifier struct {
	tokens *TokenManager
	users  UserFinder
	logger *zap.Logger
}

func NewSessionVerifier(tokens *TokenManager, users UserFinder, logger *zap.Logger) *SessionVerifier {
	return &SessionVerifier{tokens: tokens, users: users, logger: logger}
}

// Authenticate возвращает пользователя по access токену. Любая причина отказа
// (нет токена, подпись, срок, пользователь удален) превращается в Unauthorized.
func (verifier *SessionVerifier) Authenticate(ctx context.Context, accessToken string) (*model.User, error) {
	if accessToken == "" {
		return nil, errUnauthorized
	}

	claims, err := verifier.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		verifier.logger.Debug("невалидный access токен", zap.Error(err))
		return nil, errs.Unauthorized("invalid access token")
	}

	user, err := verifier.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.Unauthorized("invalid access token")
		}
		return nil, err
	}

	return user, nil
}

// Middleware оборачивает Authenticate для chi.
func (verifier *SessionVerifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		user, err := verifier.Authenticate(request.Context(), ExtractAccessToken(request))
		if err != nil {
			response.Error(writer, verifier.logger, err)
			return
		}

		next.ServeHTTP(writer, request.WithContext(WithUser(request.Context(), user)))
	})
}

// ExtractAccessToken берет токен из cookie, а при ее отсутствии из заголовка Authorization.
func ExtractAccessToken(request *http.Request) string {
	if cookie, err := request.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authorizationHeader := request.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authorizationHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ""
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*model.User)
	return user, ok && user != nil
}

// IdentityFromContext возвращает личность, положенную Middleware.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return model.Identity{}, false
	}
	return user.Identity(), true
}
