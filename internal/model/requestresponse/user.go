package requestresponse

import (
	"time"

	"club-admin-server/internal/model"
)

// RegisterRequest : тело запроса регистрации
type RegisterRequest struct {
	Username string `json:"username" example:"newuser123"`
	Password string `json:"password" example:"1234"`
	Role     string `json:"role" example:"ROLE_USER"`
	Name     string `json:"name" example:"명륜이"`
	Contact  string `json:"contact" example:"010-1234-5678"`
}

// UpdateUserRequest : тело запроса на обновление пользователя
type UpdateUserRequest struct {
	Password string `json:"password" example:"4321"`
	Role     string `json:"role" example:"ROLE_USER"`
	Name     string `json:"name" example:"율전이"`
	Contact  string `json:"contact" example:"010-8765-4321"`
}

// ErrorDetail : детальная информация об ошибке
type ErrorDetail struct {
	Code int    `json:"code" example:"400"`
	Kind string `json:"kind,omitempty" example:"USER_NOT_FOUND"`
	Text string `json:"text" example:"неверная учётная запись"`
}

// ErrorResponse : стандартная структура ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type UserData struct {
	ID        int64     `json:"id" example:"1"`
	Username  string    `json:"username" example:"user1"`
	Role      string    `json:"role" example:"ROLE_USER"`
	Name      string    `json:"name" example:"명륜이"`
	Contact   string    `json:"contact" example:"010-1234-5678"`
	CreatedAt time.Time `json:"created_at"`
}

// UserResponse : успешный ответ с данными пользователя
type UserResponse struct {
	Response UserData `json:"response"`
}

func NewUserResponse(user *model.User) UserResponse {
	return UserResponse{
		Response: UserData{
			ID:        user.ID,
			Username:  user.Username,
			Role:      string(user.Role),
			Name:      user.Name,
			Contact:   user.Contact,
			CreatedAt: user.CreatedAt,
		},
	}
}
