package service

import (
	"context"
	"crypto/subtle"
	"log"
	"time"

	"club-admin-server/internal/apperror"
	"club-admin-server/internal/model"
	"club-admin-server/internal/ports"
	"club-admin-server/internal/repository"
	"club-admin-server/internal/util"
)

type AuthenticationService struct {
	userRepository    ports.UserRepository
	sessionRepository ports.SessionRepository
	jwtService        ports.JWTServiceInterface
	passwordEncoder   ports.PasswordEncoder
	blackListGrace    time.Duration
}

func NewAuthenticationService(
	userRepository ports.UserRepository,
	sessionRepository ports.SessionRepository,
	jwtService ports.JWTServiceInterface,
	passwordEncoder ports.PasswordEncoder,
	blackListGrace time.Duration,
) *AuthenticationService {
	return &AuthenticationService{
		userRepository:    userRepository,
		sessionRepository: sessionRepository,
		jwtService:        jwtService,
		passwordEncoder:   passwordEncoder,
		blackListGrace:    blackListGrace,
	}
}

// Login проверяет логин и пароль и выдаёт новую пару токенов.
// Предыдущий refresh токен пользователя удаляется: после вызова в Redis
// остаётся ровно одна запись RT:<username>.
//
// Отсутствующий пользователь и неверный пароль возвращают одну и ту же ошибку
// USER_NOT_FOUND, различие пишется только в лог.
func (s *AuthenticationService) Login(ctx context.Context, username, password string) (*model.LoginResult, error) {
	username = canonicalUsername(username)
	user, err := s.userRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, util.LogError("[AuthService] не удалось найти пользователя", err)
	}
	if user == nil {
		s.passwordEncoder.MatchesDummy(password)
		log.Printf("[AuthService] вход отклонён: пользователь %q не найден", username)
		return nil, apperror.New(apperror.KindUserNotFound, model.InvalidAccountDetail)
	}

	if !s.passwordEncoder.Matches(password, user.PasswordHash) {
		log.Printf("[AuthService] вход отклонён: неверный пароль пользователя %q", username)
		return nil, apperror.New(apperror.KindUserNotFound, model.InvalidAccountDetail)
	}

	tokens, err := s.jwtService.CreateTokens(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	key := repository.RefreshTokenKey(user.Username)
	exists, err := s.sessionRepository.HasKeyRefreshToken(ctx, key)
	if err != nil {
		return nil, err
	}
	if exists {
		if err := s.sessionRepository.DeleteRefreshToken(ctx, key); err != nil {
			return nil, err
		}
	}

	if err := s.storeRefreshToken(ctx, key, tokens.RefreshToken); err != nil {
		return nil, err
	}

	return &model.LoginResult{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		Tokens:   tokens,
	}, nil
}

// RefreshToken меняет refresh токен на новую пару (ротация).
// Принимается только тот токен, который сейчас хранится в RT:<username>,
// уже заменённый токен повторно использовать нельзя
func (s *AuthenticationService) RefreshToken(ctx context.Context, refreshToken string) (*model.TokensPair, error) {
	claims, err := s.jwtService.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	key := repository.RefreshTokenKey(claims.Username)
	stored, err := s.sessionRepository.GetRefreshToken(ctx, key)
	if err != nil {
		return nil, err
	}
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		log.Printf("[AuthService] refresh токен пользователя %q не найден или уже заменён", claims.Username)
		return nil, apperror.New(apperror.KindTokenNotFound, "refresh токен не найден")
	}

	user, err := s.userRepository.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, util.LogError("[AuthService] не удалось найти пользователя", err)
	}
	if user == nil || user.Username != claims.Username {
		return nil, apperror.New(apperror.KindUserNotFound, model.InvalidAccountDetail)
	}

	tokens, err := s.jwtService.CreateTokens(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, key, tokens.RefreshToken); err != nil {
		return nil, err
	}

	return tokens, nil
}

// Logout удаляет refresh токен и заносит access токен в чёрный список.
// Уже истёкший access токен тоже попадает в чёрный список
func (s *AuthenticationService) Logout(ctx context.Context, username, authorizationHeader string) (string, error) {
	if err := s.InvalidateAccessToken(ctx, username, authorizationHeader); err != nil {
		return "", err
	}
	log.Printf("[AuthService] пользователь %q вышел из системы", username)
	return username, nil
}

// InvalidateAccessToken : общий шаг logout и обновления пользователя.
// TTL записи чёрного списка = оставшееся время жизни токена + grace период
func (s *AuthenticationService) InvalidateAccessToken(ctx context.Context, username, authorizationHeader string) error {
	if err := s.sessionRepository.DeleteRefreshToken(ctx, repository.RefreshTokenKey(username)); err != nil {
		return err
	}

	token, err := s.jwtService.ResolveToken(authorizationHeader)
	if err != nil {
		return err
	}

	remaining, err := s.jwtService.GetExpiration(token)
	if err != nil {
		return err
	}

	ttl := time.Duration(max(remaining, 0))*time.Millisecond + s.blackListGrace
	if ttl <= 0 {
		// истёкший токен при нулевом grace уже не пройдёт проверку подписи
		log.Printf("[AuthService] токен пользователя %q уже истёк, чёрный список не нужен", username)
		return nil
	}

	return s.sessionRepository.SetBlackList(ctx, token, repository.BlackListTag(username), ttl)
}

func (s *AuthenticationService) storeRefreshToken(ctx context.Context, key, refreshToken string) error {
	remaining, err := s.jwtService.GetExpiration(refreshToken)
	if err != nil {
		return err
	}
	return s.sessionRepository.SetRefreshToken(ctx, key, refreshToken, time.Duration(remaining)*time.Millisecond)
}
