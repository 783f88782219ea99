package security

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"club-admin-server/config"
	"club-admin-server/internal/apperror"
	"club-admin-server/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"

	BearerPrefix = "Bearer "
)

type Claims struct {
	UserID    int64      `json:"user_id"`
	Username  string     `json:"username"`
	Role      model.Role `json:"role"`
	TokenType TokenType  `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTService подписывает и проверяет access/refresh токены.
// Ключ и времена жизни фиксируются при создании и дальше не меняются
type JWTService struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	now        func() time.Time
}

type JWTOption func(*JWTService)

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) JWTOption {
	return func(s *JWTService) {
		s.now = now
	}
}

func NewJWTService(cfg *config.JWTConfig, opts ...JWTOption) (*JWTService, error) {
	if cfg == nil || cfg.SecretKey == "" {
		return nil, apperror.New(apperror.KindSigning, "не задан ключ подписи токенов")
	}

	accessTTL, err := time.ParseDuration(cfg.AccessTokenTTL)
	if err != nil || accessTTL <= 0 {
		return nil, apperror.Wrap(apperror.KindSigning, "некорректное время жизни access токена", err)
	}
	refreshTTL, err := time.ParseDuration(cfg.RefreshTokenTTL)
	if err != nil || refreshTTL <= 0 {
		return nil, apperror.Wrap(apperror.KindSigning, "некорректное время жизни refresh токена", err)
	}

	service := &JWTService{
		secretKey:  []byte(cfg.SecretKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

func (s *JWTService) AccessTTL() time.Duration {
	return s.accessTTL
}

// CreateTokens выпускает новую пару токенов с одинаковыми claims.
// Каждый токен получает свой jti, поэтому два вызова подряд дают разные значения
func (s *JWTService) CreateTokens(userID int64, username string, role model.Role) (*model.TokensPair, error) {
	now := s.now()

	accessToken, err := s.sign(userID, username, role, TokenTypeAccess, now, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.sign(userID, username, role, TokenTypeRefresh, now, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *JWTService) sign(userID int64, username string, role model.Role, tokenType TokenType, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:    userID,
		Username:  username,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.secretKey)
	if err != nil {
		return "", apperror.Wrap(apperror.KindSigning, "ошибка подписи токена", err)
	}

	return signed, nil
}

// Decode проверяет подпись и срок действия. Подпись проверяется первой,
// поэтому подделанный просроченный токен даёт KindInvalidToken, а не KindExpiredToken
func (s *JWTService) Decode(tokenStr string) (*Claims, error) {
	claims := &Claims{}

	_, err := s.parser(false).ParseWithClaims(tokenStr, claims, s.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.Wrap(apperror.KindExpiredToken, "срок действия токена истёк", err)
		}
		return nil, apperror.Wrap(apperror.KindInvalidToken, "невалидный токен", err)
	}

	return claims, nil
}

func (s *JWTService) ParseAccessToken(tokenStr string) (*Claims, error) {
	return s.parseTyped(tokenStr, TokenTypeAccess)
}

func (s *JWTService) ParseRefreshToken(tokenStr string) (*Claims, error) {
	return s.parseTyped(tokenStr, TokenTypeRefresh)
}

func (s *JWTService) parseTyped(tokenStr string, expected TokenType) (*Claims, error) {
	claims, err := s.Decode(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != expected {
		return nil, apperror.New(apperror.KindInvalidToken, "неверный тип токена")
	}
	return claims, nil
}

// GetExpiration возвращает оставшееся время жизни токена в миллисекундах.
// Для просроченного токена ошибки нет, значение просто <= 0
func (s *JWTService) GetExpiration(tokenStr string) (int64, error) {
	claims := &Claims{}

	if _, err := s.parser(true).ParseWithClaims(tokenStr, claims, s.keyFunc); err != nil {
		return 0, apperror.Wrap(apperror.KindInvalidToken, "невалидный токен", err)
	}
	if claims.ExpiresAt == nil {
		return 0, apperror.New(apperror.KindInvalidToken, "в токене нет срока действия")
	}

	return claims.ExpiresAt.Sub(s.now()).Milliseconds(), nil
}

func (s *JWTService) GetUsername(tokenStr string) (string, error) {
	claims, err := s.Decode(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}

// ResolveToken отрезает префикс "Bearer " от значения заголовка Authorization
func (s *JWTService) ResolveToken(header string) (string, error) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", apperror.New(apperror.KindMalformedHeader, "заголовок Authorization должен начинаться с Bearer")
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	if token == "" {
		return "", apperror.New(apperror.KindMalformedHeader, "пустой токен в заголовке Authorization")
	}

	return token, nil
}

func (s *JWTService) parser(skipClaimsValidation bool) *jwt.Parser {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if skipClaimsValidation {
		options = append(options, jwt.WithoutClaimsValidation())
	} else {
		options = append(options, jwt.WithExpirationRequired())
		if s.issuer != "" {
			options = append(options, jwt.WithIssuer(s.issuer))
		}
	}
	return jwt.NewParser(options...)
}

func (s *JWTService) keyFunc(_ *jwt.Token) (interface{}, error) {
	return s.secretKey, nil
}
