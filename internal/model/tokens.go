package model

// TokensPair содержит пару access и refresh токенов
// swagger:model
type TokensPair struct {
	// Access токен (JWT)
	// example: eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9...
	AccessToken string `json:"accessToken"`

	// Refresh токен (JWT, для получения новой пары)
	// example: eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9...
	RefreshToken string `json:"refreshToken"`
}

// LoginResult : результат успешного входа
type LoginResult struct {
	UserID   int64
	Username string
	Role     Role
	Tokens   *TokensPair
}
