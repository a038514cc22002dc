package security

import (
	"TaskTracker/config"
	"TaskTracker/internal/model"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims описывает полезную нагрузку обоих токенов. Username есть только в access токене.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// TokenConfig хранит секреты и сроки жизни токенов.
type TokenConfig struct {
	AccessSecret  []byte
	AccessTTL     time.Duration
	RefreshSecret []byte
	RefreshTTL    time.Duration
	Issuer        string
}

func NewTokenConfig(jwtConfig config.JWTConfig) (TokenConfig, error) {
	accessTTL, err := jwtConfig.AccessTTL()
	if err != nil {
		return TokenConfig{}, err
	}
	refreshTTL, err := jwtConfig.RefreshTTL()
	if err != nil {
		return TokenConfig{}, err
	}

	return TokenConfig{
		AccessSecret:  []byte(jwtConfig.AccessTokenSecret),
		AccessTTL:     accessTTL,
		RefreshSecret: []byte(jwtConfig.RefreshTokenSecret),
		RefreshTTL:    refreshTTL,
		Issuer:        jwtConfig.Issuer,
	}, nil
}

var ErrInvalidToken = errors.New("невалидный токен")

type TokenManager struct {
	config TokenConfig
	now    func() time.Time
}

func NewTokenManager(tokenConfig TokenConfig) *TokenManager {
	return &TokenManager{config: tokenConfig, now: time.Now}
}

// WithClock подменяет источник времени; используется в тестах окна действия токена.
func (manager *TokenManager) WithClock(now func() time.Time) *TokenManager {
	return &TokenManager{config: manager.config, now: now}
}

func (manager *TokenManager) AccessTTL() time.Duration  { return manager.config.AccessTTL }
func (manager *TokenManager) RefreshTTL() time.Duration { return manager.config.RefreshTTL }

// GenerateAccessRefreshTokens подписывает новую пару токенов. Сохранение refresh токена
// остается на вызывающей стороне.
func (manager *TokenManager) GenerateAccessRefreshTokens(user *model.User) (*model.TokensPair, error) {
	now := manager.now()

	accessToken, err := manager.sign(Claims{
		UserID:           user.ID,
		Username:         user.Username,
		RegisteredClaims: manager.registeredClaims(user.ID, now, manager.config.AccessTTL),
	}, manager.config.AccessSecret)
	if err != nil {
		return nil, fmt.Errorf("ошибка подписи access токена: %w", err)
	}

	refreshToken, err := manager.sign(Claims{
		UserID:           user.ID,
		RegisteredClaims: manager.registeredClaims(user.ID, now, manager.config.RefreshTTL),
	}, manager.config.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("ошибка подписи refresh токена: %w", err)
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (manager *TokenManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return manager.validate(tokenString, manager.config.AccessSecret)
}

func (manager *TokenManager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return manager.validate(tokenString, manager.config.RefreshSecret)
}

// registeredClaims добавляет jti, чтобы два токена, выпущенные в одну секунду, различались.
func (manager *TokenManager) registeredClaims(subject string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    manager.config.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.New().String(),
	}
}

func (manager *TokenManager) sign(claims Claims, secret []byte) (string, error) {
	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jwtToken.SignedString(secret)
}

func (manager *TokenManager) validate(tokenString string, secret []byte) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(manager.now),
	}
	if manager.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(manager.config.Issuer))
	}

	claims := &Claims{}
	jwtToken, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, options...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !jwtToken.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
