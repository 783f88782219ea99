package ports

import (
	"context"
	"time"
)

// SessionRepository : Redis слой
type SessionRepository interface {
	SetRefreshToken(ctx context.Context, key, value string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, key string) (string, error)
	HasKeyRefreshToken(ctx context.Context, key string) (bool, error)
	DeleteRefreshToken(ctx context.Context, key string) error
	SetBlackList(ctx context.Context, token, identityTag string, ttl time.Duration) error
	HasKeyBlackList(ctx context.Context, token string) (bool, error)
}
