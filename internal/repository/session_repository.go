package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"club-admin-server/config"
	"club-admin-server/internal/apperror"
	"club-admin-server/internal/util"

	"github.com/redis/go-redis/v9"
)

const (
	refreshTokenPrefix = "RT:"
	accessTokenPrefix  = "AT:"
)

// RefreshTokenKey : ключ записи refresh токена пользователя
func RefreshTokenKey(username string) string {
	return refreshTokenPrefix + username
}

// BlackListTag : значение записи чёрного списка, указывает владельца токена
func BlackListTag(username string) string {
	return accessTokenPrefix + username
}

// SessionRepository хранит в Redis две группы записей: refresh токены по ключу RT:<username>
// и отозванные access токены по самому значению токена. У каждой записи свой TTL
type SessionRepository struct {
	client  *config.RedisClient
	timeout time.Duration
}

func NewSessionRepository(rdb *config.RedisClient, timeout time.Duration) *SessionRepository {
	return &SessionRepository{client: rdb, timeout: timeout}
}

// SetRefreshToken : upsert, повторная запись заменяет значение и TTL
func (r *SessionRepository) SetRefreshToken(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.set(ctx, key, value, ttl, "[SessionRepo] ошибка сохранения refresh токена")
}

// GetRefreshToken возвращает "" если записи нет
func (r *SessionRepository) GetRefreshToken(ctx context.Context, key string) (string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	val, err := r.client.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	} else if err != nil {
		return "", unavailable("[SessionRepo] ошибка чтения refresh токена", err)
	}
	return val, nil
}

func (r *SessionRepository) HasKeyRefreshToken(ctx context.Context, key string) (bool, error) {
	return r.exists(ctx, key, "[SessionRepo] ошибка проверки refresh токена")
}

// DeleteRefreshToken : удаление отсутствующего ключа не ошибка
func (r *SessionRepository) DeleteRefreshToken(ctx context.Context, key string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.client.Client.Del(ctx, key).Err(); err != nil {
		return unavailable("[SessionRepo] ошибка удаления refresh токена", err)
	}
	return nil
}

func (r *SessionRepository) SetBlackList(ctx context.Context, token, identityTag string, ttl time.Duration) error {
	return r.set(ctx, token, identityTag, ttl, "[SessionRepo] ошибка добавления токена в чёрный список")
}

func (r *SessionRepository) HasKeyBlackList(ctx context.Context, token string) (bool, error) {
	return r.exists(ctx, token, "[SessionRepo] ошибка проверки чёрного списка")
}

func (r *SessionRepository) set(ctx context.Context, key, value string, ttl time.Duration, message string) error {
	// TTL 0 в Redis означает "хранить вечно"
	if ttl <= 0 {
		return fmt.Errorf("%s: некорректный TTL %s", message, ttl)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cmd := r.client.Client.Set(ctx, key, value, ttl)
	if err := cmd.Err(); err != nil {
		return unavailable(message, err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("%s: неожиданный ответ Redis: %s", message, cmd.Val())
	}

	return nil
}

func (r *SessionRepository) exists(ctx context.Context, key, message string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	n, err := r.client.Client.Exists(ctx, key).Result()
	if err != nil {
		return false, unavailable(message, err)
	}
	return n > 0, nil
}

func (r *SessionRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func unavailable(message string, err error) error {
	return apperror.Wrap(apperror.KindStoreUnavailable, "хранилище сессий недоступно", util.LogError(message, err))
}
