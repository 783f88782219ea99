package config

import "time"

// DefaultBlacklistGrace : запас TTL записи чёрного списка на расхождение часов
// между сервером, выпустившим токен, и сервером, который его проверяет
const DefaultBlacklistGrace = 10 * time.Minute

const (
	defaultAccessTokenTTL  = "30m"
	defaultRefreshTokenTTL = "336h"
	defaultIssuer          = "club-admin-server"
	defaultRedisDialTTL    = "2s"
	defaultRedisOpTimeout  = "500ms"
)

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
	// AutoMigrate применяет миграции при старте сервера
	AutoMigrate bool `yaml:"auto_migrate"`
}

type RedisConfig struct {
	Addr        string `yaml:"addr"`
	Password    string `yaml:"password"`
	DB          int    `yaml:"db"`
	DialTimeout string `yaml:"dial_timeout"`
	// OpTimeout ограничивает каждую отдельную команду к Redis
	OpTimeout string `yaml:"op_timeout"`
}

type JWTConfig struct {
	SecretKey       string `yaml:"secret_key"`
	AccessTokenTTL  string `yaml:"access_token_ttl"`
	RefreshTokenTTL string `yaml:"refresh_token_ttl"`
	BlacklistGrace  string `yaml:"blacklist_grace"`
	Issuer          string `yaml:"issuer"`
}

type PasswordConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

// Grace возвращает запас TTL для чёрного списка, по умолчанию DefaultBlacklistGrace
func (c *JWTConfig) Grace() time.Duration {
	if c.BlacklistGrace == "" {
		return DefaultBlacklistGrace
	}
	grace, err := time.ParseDuration(c.BlacklistGrace)
	if err != nil || grace < 0 {
		return DefaultBlacklistGrace
	}
	return grace
}

// OperationTimeout : таймаут одной команды Redis
func (c *RedisConfig) OperationTimeout() time.Duration {
	return parseDurationOr(c.OpTimeout, defaultRedisOpTimeout)
}

func (c *RedisConfig) DialTimeoutDuration() time.Duration {
	return parseDurationOr(c.DialTimeout, defaultRedisDialTTL)
}

func parseDurationOr(value, fallback string) time.Duration {
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(fallback)
	return d
}
