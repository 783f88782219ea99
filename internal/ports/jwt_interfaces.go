package ports

import (
	"club-admin-server/internal/model"
	"club-admin-server/internal/security"
)

type JWTServiceInterface interface {
	CreateTokens(userID int64, username string, role model.Role) (*model.TokensPair, error)
	ParseRefreshToken(tokenStr string) (*security.Claims, error)
	GetExpiration(tokenStr string) (int64, error)
	ResolveToken(header string) (string, error)
}

type PasswordEncoder interface {
	Hash(rawPassword string) (string, error)
	Matches(rawPassword, hash string) bool
	MatchesDummy(rawPassword string)
}
