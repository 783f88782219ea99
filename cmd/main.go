package main

import (
	"club-admin-server/config"
	_ "club-admin-server/docs"
	"club-admin-server/internal/db/migrate"
	"club-admin-server/internal/handler"
	"club-admin-server/internal/repository"
	"club-admin-server/internal/security"
	"club-admin-server/internal/service"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Club-admin-server
// @version 1.0
// @description REST API авторизации и управления участниками клуба

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig(configPath())
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	if cfg.DatabaseConfig.AutoMigrate {
		if err := migrate.Run(cfg.DatabaseConfig.DSN, migrate.DirectionUp); err != nil {
			log.Fatalf("Ошибка миграций: %v", err)
		}
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	jwtService, err := security.NewJWTService(&cfg.JWT)
	if err != nil {
		log.Fatalf("Ошибка создания JWT сервиса: %v", err)
	}
	passwordEncoder, err := security.NewPasswordEncoder(cfg.Password.BcryptCost)
	if err != nil {
		log.Fatalf("Ошибка создания PasswordEncoder: %v", err)
	}

	srv, router := config.SetupServer(cfg.ServerAddr)

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient, cfg.RedisConfig.OperationTimeout())

	authService := service.NewAuthenticationService(userRepo, sessionRepo, jwtService, passwordEncoder, cfg.JWT.Grace())
	userService := service.NewUserService(userRepo, passwordEncoder, authService)

	authHandler := handler.NewAuthenticationHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	authMiddleware := security.JWTMiddleware(jwtService, sessionRepo)
	optionalAuthMiddleware := security.OptionalJWTMiddleware(jwtService, sessionRepo)

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupAuthRoutes(router, authHandler, authMiddleware)
	setupUserRoutes(router, userHandler, authMiddleware, optionalAuthMiddleware)

	runServer(ctx, srv)
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.yaml"
}

func setupAuthRoutes(r chi.Router, h *handler.AuthenticationHandler, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/me", h.GetCurrentUser)
			r.Head("/me", h.GetCurrentUserHead)
			r.Post("/logout", h.Logout)
		})
		r.Group(func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/refresh", h.RefreshToken)
		})
	})
}

func setupUserRoutes(r chi.Router, h *handler.UserHandler, authMiddleware, optionalAuthMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/users", func(r chi.Router) {
		r.With(optionalAuthMiddleware).Post("/", h.RegisterUser)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/{id}", h.GetUser)
			r.Put("/{id}", h.UpdateUser)
		})
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
