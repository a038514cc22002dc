package security

import (
	"TaskTracker/internal/errs"
	"TaskTracker/internal/model"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func newVerifier(users UserFinder) (*SessionVerifier, *TokenManager) {
	manager := NewTokenManager(testTokenConfig())
	return NewSessionVerifier(manager, users, zap.NewNop()), manager
}

func TestAuthenticate_NoToken(t *testing.T) {
	verifier, _ := newVerifier(new(MockUserFinder))

	_, err := verifier.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	users := new(MockUserFinder)
	verifier, _ := newVerifier(users)

	_, err := verifier.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
	users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	users := new(MockUserFinder)
	verifier, manager := newVerifier(users)

	past := time.Now().Add(-time.Hour)
	pair, err := manager.WithClock(func() time.Time { return past }).GenerateAccessRefreshTokens(testUser())
	require.NoError(t, err)

	_, err = verifier.Authenticate(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestAuthenticate_UserDeleted(t *testing.T) {
	users := new(MockUserFinder)
	verifier, manager := newVerifier(users)
	ctx := context.Background()

	pair, err := manager.GenerateAccessRefreshTokens(testUser())
	require.NoError(t, err)
	users.On("FindByID", ctx, "user-1").Return(nil, errs.NotFound("user does not exist"))

	_, err = verifier.Authenticate(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestAuthenticate_StoreFailureIsInternal(t *testing.T) {
	users := new(MockUserFinder)
	verifier, manager := newVerifier(users)
	ctx := context.Background()

	pair, err := manager.GenerateAccessRefreshTokens(testUser())
	require.NoError(t, err)
	users.On("FindByID", ctx, "user-1").Return(nil, errs.Internal("db", errors.New("down")))

	_, err = verifier.Authenticate(ctx, pair.AccessToken)
	assert.Equal(t, errs.KindInternal, errs.KindOf(err))
}

func TestAuthenticate_Success(t *testing.T) {
	users := new(MockUserFinder)
	verifier, manager := newVerifier(users)
	ctx := context.Background()

	pair, err := manager.GenerateAccessRefreshTokens(testUser())
	require.NoError(t, err)
	users.On("FindByID", ctx, "user-1").Return(testUser(), nil)

	user, err := verifier.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestMiddleware(t *testing.T) {
	users := new(MockUserFinder)
	verifier, manager := newVerifier(users)

	pair, err := manager.GenerateAccessRefreshTokens(testUser())
	require.NoError(t, err)
	users.On("FindByID", mock.Anything, "user-1").Return(testUser(), nil)

	var seen model.Identity
	protected := verifier.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen, _ = IdentityFromContext(request.Context())
		writer.WriteHeader(http.StatusNoContent)
	}))

	t.Run("bearer header", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		recorder := httptest.NewRecorder()

		protected.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Equal(t, model.Identity{UserID: "user-1", Username: "alice"}, seen)
	})

	t.Run("cookie", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: pair.AccessToken})
		recorder := httptest.NewRecorder()

		protected.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusNoContent, recorder.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		recorder := httptest.NewRecorder()

		protected.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "unauthorized request", body["message"])
	})
}

func TestExtractAccessToken(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ExtractAccessToken(request))

	request.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, ExtractAccessToken(request))

	request.Header.Set("Authorization", "Bearer header-token")
	assert.Equal(t, "header-token", ExtractAccessToken(request))

	request.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "cookie-token"})
	assert.Equal(t, "cookie-token", ExtractAccessToken(request))
}
