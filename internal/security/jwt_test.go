package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"club-admin-server/config"
	"club-admin-server/internal/apperror"
	"club-admin-server/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func testJWTConfig(secret string) *config.JWTConfig {
	return &config.JWTConfig{
		SecretKey:       secret,
		AccessTokenTTL:  "30m",
		RefreshTokenTTL: "336h",
		Issuer:          "club-admin-server",
	}
}

func newTestJWTService(t *testing.T, secret string, clock *fakeClock) *JWTService {
	t.Helper()
	service, err := NewJWTService(testJWTConfig(secret), WithClock(clock.Now))
	require.NoError(t, err)
	return service
}

func TestNewJWTService_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.JWTConfig
	}{
		{name: "nil config", cfg: nil},
		{name: "empty secret", cfg: testJWTConfig("")},
		{name: "bad access ttl", cfg: &config.JWTConfig{SecretKey: "s", AccessTokenTTL: "x", RefreshTokenTTL: "1h"}},
		{name: "bad refresh ttl", cfg: &config.JWTConfig{SecretKey: "s", AccessTokenTTL: "1m", RefreshTokenTTL: "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewJWTService(tt.cfg)
			assert.Nil(t, service)
			assert.ErrorIs(t, err, apperror.ErrSigning)
		})
	}
}

func TestCreateTokens_DecodeRoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	service := newTestJWTService(t, "secret", clock)

	tokens, err := service.CreateTokens(42, "user1", model.RoleAdmin)
	require.NoError(t, err)

	access, err := service.ParseAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), access.UserID)
	assert.Equal(t, "user1", access.Username)
	assert.Equal(t, model.RoleAdmin, access.Role)
	assert.Equal(t, "42", access.Subject)
	assert.NotEmpty(t, access.ID)

	refresh, err := service.ParseRefreshToken(tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user1", refresh.Username)
	assert.True(t, refresh.ExpiresAt.After(access.ExpiresAt.Time))

	username, err := service.GetUsername(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user1", username)
}

func TestCreateTokens_FreshValuePerCall(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	service := newTestJWTService(t, "secret", clock)

	first, err := service.CreateTokens(1, "user1", model.RoleUser)
	require.NoError(t, err)
	second, err := service.CreateTokens(1, "user1", model.RoleUser)
	require.NoError(t, err)

	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestParse_WrongTokenType(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	service := newTestJWTService(t, "secret", clock)

	tokens, err := service.CreateTokens(1, "user1", model.RoleUser)
	require.NoError(t, err)

	_, err = service.ParseAccessToken(tokens.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)

	_, err = service.ParseRefreshToken(tokens.AccessToken)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestDecode_InvalidSignature(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	service := newTestJWTService(t, "secret", clock)
	foreign := newTestJWTService(t, "other-secret", clock)

	own, err := service.CreateTokens(1, "user1", model.RoleUser)
	require.NoError(t, err)
	forged, err := foreign.CreateTokens(2, "admin", model.RoleMaster)
	require.NoError(t, err)

	_, err = service.Decode(forged.AccessToken)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)

	ownParts := strings.Split(own.AccessToken, ".")
	forgedParts := strings.Split(forged.AccessToken, ".")
	spliced := ownParts[0] + "." + forgedParts[1] + "." + ownParts[2]

	_, err = service.Decode(spliced)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)

	_, err = service.Decode("not-a-jwt")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestDecode_RejectsOtherAlgorithms(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	service := newTestJWTService(t, "secret", clock)

	claims := Claims{
		Username:  "user1",
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "club-admin-server",
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
		},
	}
	hs256, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = service.Decode(hs256)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestDecode_Expired(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	service := newTestJWTService(t, "secret", clock)

	tokens, err := service.CreateTokens(1, "user1", model.RoleUser)
	require.NoError(t, err)

	clock.Advance(31 * time.Minute)

	_, err = service.Decode(tokens.AccessToken)
	assert.ErrorIs(t, err, apperror.ErrExpiredToken)
	assert.False(t, errors.Is(err, apperror.ErrInvalidToken))

	_, err = service.ParseRefreshToken(tokens.RefreshToken)
	assert.NoError(t, err)
}

func TestDecode_ExpiredAndForgedIsInvalid(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	service := newTestJWTService(t, "secret", clock)
	foreign := newTestJWTService(t, "other-secret", clock)

	forged, err := foreign.CreateTokens(1, "user1", model.RoleUser)
	require.NoError(t, err)

	clock.Advance(time.Hour)

	_, err = service.Decode(forged.AccessToken)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestGetExpiration(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	service := newTestJWTService(t, "secret", clock)
	ttl := service.AccessTTL().Milliseconds()

	tokens, err := service.CreateTokens(1, "user1", model.RoleUser)
	require.NoError(t, err)

	remaining, err := service.GetExpiration(tokens.AccessToken)
	require.NoError(t, err)
	assert.LessOrEqual(t, remaining, ttl)
	assert.Greater(t, remaining, int64(0))

	clock.Advance(service.AccessTTL())

	remaining, err = service.GetExpiration(tokens.AccessToken)
	require.NoError(t, err)
	assert.LessOrEqual(t, remaining, int64(0))

	clock.Advance(time.Hour)

	remaining, err = service.GetExpiration(tokens.AccessToken)
	require.NoError(t, err)
	assert.Less(t, remaining, int64(0))
}

func TestGetExpiration_InvalidSignature(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	service := newTestJWTService(t, "secret", clock)
	foreign := newTestJWTService(t, "other-secret", clock)

	forged, err := foreign.CreateTokens(1, "user1", model.RoleUser)
	require.NoError(t, err)

	_, err = service.GetExpiration(forged.AccessToken)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestResolveToken(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	service := newTestJWTService(t, "secret", clock)

	token, err := service.ResolveToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	for _, header := range []string{"", "abc.def.ghi", "Basic dXNlcjpwYXNz", "bearer abc", "Bearer ", "Bearer    "} {
		_, err := service.ResolveToken(header)
		assert.ErrorIs(t, err, apperror.ErrMalformedHeader, header)
	}
}
