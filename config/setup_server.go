package config

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	DatabaseConfig DatabaseConfig `yaml:"databaseConfig"`
	RedisConfig    RedisConfig    `yaml:"redisConfig"`
	ServerAddr     string         `yaml:"serverAddr"`
	JWT            JWTConfig      `yaml:"jwt"`
	Password       PasswordConfig `yaml:"password"`
}

// LoadConfig читает YAML конфигурацию, подставляет значения по умолчанию и валидирует её
func LoadConfig(path string) (*AppConfig, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseConfig(file)
}

func ParseConfig(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *AppConfig) applyDefaults() {
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = ":8080"
	}
	if cfg.JWT.AccessTokenTTL == "" {
		cfg.JWT.AccessTokenTTL = defaultAccessTokenTTL
	}
	if cfg.JWT.RefreshTokenTTL == "" {
		cfg.JWT.RefreshTokenTTL = defaultRefreshTokenTTL
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = defaultIssuer
	}
	if cfg.Password.BcryptCost == 0 {
		cfg.Password.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.RedisConfig.Addr == "" {
		cfg.RedisConfig.Addr = "localhost:6379"
	}
}

// Validate проверяет значения, без которых сервер не должен стартовать
func (cfg *AppConfig) Validate() error {
	if cfg.JWT.SecretKey == "" {
		return fmt.Errorf("jwt.secret_key не задан")
	}

	accessTTL, err := time.ParseDuration(cfg.JWT.AccessTokenTTL)
	if err != nil || accessTTL <= 0 {
		return fmt.Errorf("некорректный jwt.access_token_ttl: %q", cfg.JWT.AccessTokenTTL)
	}
	refreshTTL, err := time.ParseDuration(cfg.JWT.RefreshTokenTTL)
	if err != nil || refreshTTL <= 0 {
		return fmt.Errorf("некорректный jwt.refresh_token_ttl: %q", cfg.JWT.RefreshTokenTTL)
	}
	if refreshTTL <= accessTTL {
		return fmt.Errorf("jwt.refresh_token_ttl должен быть больше jwt.access_token_ttl")
	}

	if cfg.JWT.BlacklistGrace != "" {
		grace, err := time.ParseDuration(cfg.JWT.BlacklistGrace)
		if err != nil || grace < 0 {
			return fmt.Errorf("некорректный jwt.blacklist_grace: %q", cfg.JWT.BlacklistGrace)
		}
	}

	if cfg.Password.BcryptCost < bcrypt.MinCost || cfg.Password.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("password.bcrypt_cost должен быть в диапазоне %d..%d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return nil
}

func SetupServer(serverAddress string) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	server := &http.Server{
		Addr:              serverAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return server, router
}

func SetupDatabase(dsn string) (*Database, error) {
	return NewDatabaseConnection("postgres", dsn)
}

func SetupRedis(cfg *RedisConfig) (*RedisClient, error) {
	return NewRedisClient(cfg)
}
