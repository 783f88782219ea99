package service

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"club-admin-server/internal/apperror"
	"club-admin-server/internal/model"
	"club-admin-server/internal/ports"
	"club-admin-server/internal/security"
	"club-admin-server/internal/util"
)

const (
	// bcrypt учитывает только первые 72 байта пароля
	maxPasswordBytes = 72
	// VARCHAR(64) в таблице users
	maxFieldLength = 64
)

type UserService struct {
	userRepository  ports.UserRepository
	passwordEncoder ports.PasswordEncoder
	sessions        ports.SessionInvalidator
}

func NewUserService(
	userRepository ports.UserRepository,
	passwordEncoder ports.PasswordEncoder,
	sessions ports.SessionInvalidator,
) *UserService {
	return &UserService{
		userRepository:  userRepository,
		passwordEncoder: passwordEncoder,
		sessions:        sessions,
	}
}

// Register создаёт пользователя. Анонимный вызов всегда получает ROLE_USER,
// другую роль может назначить только привилегированный пользователь из контекста,
// и не выше своей собственной
func (s *UserService) Register(ctx context.Context, input model.RegisterInput) (*model.User, error) {
	username, err := normalizeUsername(input.Username)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	if err := validateProfile(input.Name, input.Contact); err != nil {
		return nil, err
	}
	role, err := resolveRole(input.Role, model.RoleUser)
	if err != nil {
		return nil, err
	}
	if role != model.RoleUser {
		claims, err := security.GetClaimsFromContext(ctx)
		if err != nil || !claims.Role.CanManage(role) {
			log.Printf("[UserService] отказано в регистрации %q с ролью %s", username, role)
			return nil, apperror.New(apperror.KindNoAuthority, "недостаточно прав для назначения роли")
		}
	}

	if err := s.ValidateUsernameDuplication(ctx, username); err != nil {
		return nil, err
	}

	hash, err := s.passwordEncoder.Hash(input.Password)
	if err != nil {
		return nil, util.LogError("[UserService] не удалось создать хэш пароля", err)
	}

	// уникальный индекс в БД ловит гонку двух регистраций одного username
	created, err := s.userRepository.Save(ctx, model.NewUser(username, hash, role, input.Name, input.Contact))
	if err != nil {
		return nil, err
	}

	log.Printf("[UserService] зарегистрирован пользователь %q (id=%d)", created.Username, created.ID)
	return created, nil
}

func (s *UserService) ValidateUsernameDuplication(ctx context.Context, username string) error {
	user, err := s.userRepository.FindByUsername(ctx, username)
	if err != nil {
		return util.LogError("[UserService] не удалось проверить username", err)
	}
	if user != nil {
		return apperror.New(apperror.KindUsernameDuplicated, model.UsernameTakenDetail(username))
	}
	return nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepository.FindByID(ctx, id)
	if err != nil {
		return nil, util.LogError("[UserService] не удалось найти пользователя", err)
	}
	if user == nil {
		return nil, apperror.New(apperror.KindUserNotFound, model.InvalidAccountDetail)
	}
	return user, nil
}

// UpdateUser перезаписывает изменяемые поля пользователя и отзывает
// текущую сессию. Пароль хэшируется заново при каждом вызове, даже если он
// не изменился. Username не меняется, поэтому сессия ищется по старому имени.
//
// Изменение сохраняется только если сессию удалось отозвать: при недоступном
// Redis транзакция откатывается.
func (s *UserService) UpdateUser(ctx context.Context, id int64, input model.UpdateInput, authorizationHeader string) (*model.User, error) {
	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, apperror.New(apperror.KindNoAuthority, "пользователь не авторизован")
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	if err := validateProfile(input.Name, input.Contact); err != nil {
		return nil, err
	}
	role, err := resolveRole(input.Role, user.Role)
	if err != nil {
		return nil, err
	}
	if err := authorizeUpdate(claims, user, role); err != nil {
		return nil, err
	}

	hash, err := s.passwordEncoder.Hash(input.Password)
	if err != nil {
		return nil, util.LogError("[UserService] не удалось создать хэш пароля", err)
	}

	updated := *user
	updated.Apply(model.UserUpdate{
		PasswordHash: hash,
		Role:         role,
		Name:         input.Name,
		Contact:      input.Contact,
	})

	exec, rollback, commit, err := s.userRepository.BeginTX(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback()

	if err := s.userRepository.Update(ctx, exec, &updated); err != nil {
		return nil, err
	}

	if err := s.sessions.InvalidateAccessToken(ctx, updated.Username, authorizationHeader); err != nil {
		log.Printf("[UserService] сессия %q не отозвана, изменения откатываются: %v", updated.Username, err)
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[UserService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[UserService] пользователь %q обновлён, сессия отозвана", updated.Username)
	return &updated, nil
}

// authorizeUpdate : владелец меняет свои данные, но не свою роль.
// Чужие записи и роли меняет только привилегированный пользователь не ниже по рангу
func authorizeUpdate(caller *security.Claims, target *model.User, role model.Role) error {
	if caller.UserID != target.ID && !caller.Role.CanManage(target.Role) {
		return apperror.New(apperror.KindNoAuthority, "недостаточно прав")
	}
	if role != target.Role && !caller.Role.CanManage(role) {
		return apperror.New(apperror.KindNoAuthority, "недостаточно прав для назначения роли")
	}
	return nil
}

// canonicalUsername : одна и та же форма username при регистрации и входе
func canonicalUsername(username string) string {
	return strings.TrimSpace(username)
}

func normalizeUsername(username string) (string, error) {
	username = canonicalUsername(username)
	if username == "" {
		return "", apperror.New(apperror.KindInvalidInput, "username обязателен")
	}
	if utf8.RuneCountInString(username) > maxFieldLength {
		return "", apperror.New(apperror.KindInvalidInput, "username слишком длинный")
	}
	return username, nil
}

func validatePassword(password string) error {
	if password == "" {
		return apperror.New(apperror.KindInvalidInput, "пароль обязателен")
	}
	if len(password) > maxPasswordBytes {
		return apperror.New(apperror.KindInvalidInput, "пароль слишком длинный")
	}
	return nil
}

func validateProfile(name, contact string) error {
	if utf8.RuneCountInString(name) > maxFieldLength || utf8.RuneCountInString(contact) > maxFieldLength {
		return apperror.New(apperror.KindInvalidInput, "имя или контакт слишком длинные")
	}
	return nil
}

// resolveRole : пустая роль заменяется на fallback
func resolveRole(role model.Role, fallback model.Role) (model.Role, error) {
	if role == "" {
		return fallback, nil
	}
	parsed, err := model.ParseRole(string(role))
	if err != nil {
		return "", apperror.Wrap(apperror.KindInvalidInput, "неизвестная роль", err)
	}
	return parsed, nil
}
