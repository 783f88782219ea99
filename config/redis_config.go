package config

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	Client *redis.Client
}

// NewRedisClient создаёт клиент без повторных попыток: ошибка Redis сразу
// возвращается вызывающему, чтобы не переупорядочить пары delete/set
func NewRedisClient(cfg *RedisConfig) (*RedisClient, error) {
	client := redis.NewClient(redisOptions(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeoutDuration())
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ошибка пинга Redis: %w", err)
	}

	log.Println("Подключение к Redis успешно выполнено")
	return &RedisClient{Client: client}, nil
}

// WrapRedisClient оборачивает уже созданный клиент (используется в тестах с miniredis)
func WrapRedisClient(client *redis.Client) *RedisClient {
	return &RedisClient{Client: client}
}

func redisOptions(cfg *RedisConfig) *redis.Options {
	opTimeout := cfg.OperationTimeout()
	return &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeoutDuration(),
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
		MaxRetries:   -1,
	}
}

func (r *RedisClient) Close() error {
	if err := r.Client.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия соединения с Redis: %w", err)
	}
	return nil
}
