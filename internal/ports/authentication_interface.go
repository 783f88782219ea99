package ports

import (
	"club-admin-server/internal/model"
	"context"
)

type AuthenticationService interface {
	Login(ctx context.Context, username, password string) (*model.LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*model.TokensPair, error)
	Logout(ctx context.Context, username, authorizationHeader string) (string, error)
}

// SessionInvalidator : отзыв текущей сессии пользователя (refresh запись + access токен)
type SessionInvalidator interface {
	InvalidateAccessToken(ctx context.Context, username, authorizationHeader string) error
}
