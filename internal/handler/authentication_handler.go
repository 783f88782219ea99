package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"club-admin-server/internal/model/requestresponse"
	"club-admin-server/internal/ports"
	"club-admin-server/internal/security"
	"club-admin-server/internal/util"
)

type AuthenticationHandler struct {
	ports.AuthenticationService
}

func NewAuthenticationHandler(authenticationService ports.AuthenticationService) *AuthenticationHandler {
	return &AuthenticationHandler{authenticationService}
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Выдаёт пару access/refresh токенов по username и паролю. Предыдущий refresh токен пользователя перестаёт действовать
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса"
// @Success 200 {object} requestresponse.LoginResponse "Успешная аутентификация"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 404 {object} requestresponse.ErrorResponse "Неверный username или пароль" example({"error": {"code": 404, "kind": "USER_NOT_FOUND", "text": "неверная учётная запись"}})
// @Failure 503 {object} requestresponse.ErrorResponse "Хранилище сессий недоступно"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/login [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Username == "" || req.Password == "" {
		sendErrorResponse(w, http.StatusBadRequest, "username и password обязательны")
		return
	}

	result, err := h.AuthenticationService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	resp := requestresponse.LoginResponse{
		Response: requestresponse.LoginData{
			UserID:       result.UserID,
			Username:     result.Username,
			Role:         string(result.Role),
			AccessToken:  result.Tokens.AccessToken,
			RefreshToken: result.Tokens.RefreshToken,
		},
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetCurrentUser godoc
// @Summary Текущий пользователь
// @Description Возвращает id, username и роль из access токена
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CurrentUserResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/auth/me [get]
func (h *AuthenticationHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	resp := requestresponse.CurrentUserResponse{}
	resp.Response.UserID = claims.UserID
	resp.Response.Username = claims.Username
	resp.Response.Role = string(claims.Role)

	writeJSON(w, http.StatusOK, resp)
}

// GetCurrentUserHead godoc
// @Summary Текущий пользователь
// @Description Проверка действительности access токена без тела ответа
// @Tags Authentication
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200
// @Failure 401
// @Security ApiKeyAuth
// @Router /api/auth/me [head]
func (h *AuthenticationHandler) GetCurrentUserHead(w http.ResponseWriter, r *http.Request) {
	h.GetCurrentUser(w, r)
}

// RefreshToken godoc
// @Summary Обновление токенов
// @Description Меняет действующий refresh токен на новую пару. Старый refresh токен после этого не принимается
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RefreshTokenRequest true "Тело запроса"
// @Success 200 {object} requestresponse.RefreshTokenResponse "Новые access и refresh токены"
// @Failure 400 {object} requestresponse.ErrorResponse "Неверный JSON"
// @Failure 401 {object} requestresponse.ErrorResponse "Невалидный, истёкший или уже заменённый токен"
// @Failure 503 {object} requestresponse.ErrorResponse "Хранилище сессий недоступно"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/refresh [post]
func (h *AuthenticationHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.RefreshTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.RefreshToken == "" {
		sendErrorResponse(w, http.StatusBadRequest, "refresh_token обязателен")
		return
	}

	tokensPair, err := h.AuthenticationService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	resp := requestresponse.RefreshTokenResponse{}
	resp.Response.AccessToken = tokensPair.AccessToken
	resp.Response.RefreshToken = tokensPair.RefreshToken

	writeJSON(w, http.StatusOK, resp)
}

// Logout godoc
// @Summary Завершение сессии
// @Description Удаляет refresh токен пользователя и заносит текущий access токен в чёрный список
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.LogoutResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 503 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/auth/logout [post]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	username, err := h.AuthenticationService.Logout(r.Context(), claims.Username, r.Header.Get("Authorization"))
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	resp := requestresponse.LogoutResponse{}
	resp.Response.Username = username

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Println("ошибка кодирования ответа:", err)
	}
}
