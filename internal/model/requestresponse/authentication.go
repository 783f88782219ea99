package requestresponse

// LoginRequest : тело запроса на аутентификацию
type LoginRequest struct {
	Username string `json:"username" example:"user1"`
	Password string `json:"password" example:"1234"`
}

// LoginData : данные успешного входа
type LoginData struct {
	UserID       int64  `json:"user_id" example:"1"`
	Username     string `json:"username" example:"user1"`
	Role         string `json:"role" example:"ROLE_USER"`
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
}

// LoginResponse : ответ на успешную аутентификацию
type LoginResponse struct {
	Response LoginData `json:"response"`
}

// CurrentUserResponse : информация о текущем пользователе
type CurrentUserResponse struct {
	Response struct {
		UserID   int64  `json:"user_id" example:"1"`
		Username string `json:"username" example:"user1"`
		Role     string `json:"role" example:"ROLE_USER"`
	} `json:"response"`
}

// RefreshTokenRequest : запрос на обновление пары токенов
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
}

// RefreshTokenResponse : ответ на успешный запрос
type RefreshTokenResponse struct {
	Response struct {
		AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
		RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
	} `json:"response"`
}

// LogoutResponse : ответ на завершение сессии
type LogoutResponse struct {
	Response struct {
		Username string `json:"username" example:"user1"`
	} `json:"response"`
}
