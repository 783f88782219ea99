package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordEncoder хэширует пароли bcrypt'ом. Соль генерируется на каждый вызов
// и хранится внутри хэша, отдельно её сохранять не нужно
type PasswordEncoder struct {
	cost      int
	dummyHash []byte
}

func NewPasswordEncoder(cost int) (*PasswordEncoder, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("некорректная стоимость bcrypt: %d", cost)
	}

	// хэш для сравнения, когда пользователь не найден: время ответа то же, что при неверном пароле
	dummyHash, err := bcrypt.GenerateFromPassword([]byte("club-admin-server"), cost)
	if err != nil {
		return nil, fmt.Errorf("не удалось подготовить хэш: %w", err)
	}

	return &PasswordEncoder{cost: cost, dummyHash: dummyHash}, nil
}

func (e *PasswordEncoder) Hash(rawPassword string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), e.cost)
	if err != nil {
		return "", fmt.Errorf("ошибка хэширования пароля: %w", err)
	}
	return string(hash), nil
}

// Matches никогда не возвращает ошибку: испорченный хэш просто не совпадает
func (e *PasswordEncoder) Matches(rawPassword, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(rawPassword)) == nil
}

func (e *PasswordEncoder) MatchesDummy(rawPassword string) {
	_ = bcrypt.CompareHashAndPassword(e.dummyHash, []byte(rawPassword))
}
