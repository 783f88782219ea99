package model

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleUser   Role = "ROLE_USER"
	RoleAdmin  Role = "ROLE_ADMIN"
	RoleMaster Role = "ROLE_MASTER"
)

// ParseRole : проверяет, что роль входит в известный набор
func ParseRole(value string) (Role, error) {
	switch role := Role(value); role {
	case RoleUser, RoleAdmin, RoleMaster:
		return role, nil
	default:
		return "", fmt.Errorf("неизвестная роль: %q", value)
	}
}

// IsPrivileged : роли, которым доступны чужие учётные записи
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleMaster
}

func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 1
	case RoleMaster:
		return 2
	default:
		return 0
	}
}

// CanManage : привилегированная роль управляет ролями не выше своей
func (r Role) CanManage(other Role) bool {
	return r.IsPrivileged() && r.rank() >= other.rank()
}

// InvalidAccountDetail : одинаковый ответ для неизвестного username и неверного пароля
const InvalidAccountDetail = "неверная учётная запись"

func UsernameTakenDetail(username string) string {
	return fmt.Sprintf("username %q уже занят", username)
}

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	Name         string    `db:"name" json:"name"`
	Contact      string    `db:"contact" json:"contact"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// NewUser создаёт ещё не сохранённого пользователя (ID == 0)
func NewUser(username, passwordHash string, role Role, name, contact string) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		Name:         name,
		Contact:      contact,
	}
}

// WithID возвращает копию пользователя с присвоенным ID
func (u *User) WithID(id int64) *User {
	cp := *u
	cp.ID = id
	return &cp
}

// UserUpdate : изменяемые поля пользователя. Username не меняется никогда
type UserUpdate struct {
	PasswordHash string
	Role         Role
	Name         string
	Contact      string
}

func (u *User) Apply(update UserUpdate) {
	u.PasswordHash = update.PasswordHash
	u.Role = update.Role
	u.Name = update.Name
	u.Contact = update.Contact
}

// RegisterInput : данные для регистрации, пароль в открытом виде
type RegisterInput struct {
	Username string
	Password string
	Role     Role
	Name     string
	Contact  string
}

// UpdateInput : новые значения полей пользователя, пароль в открытом виде
type UpdateInput struct {
	Password string
	Role     Role
	Name     string
	Contact  string
}
