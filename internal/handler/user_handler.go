package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"club-admin-server/internal/apperror"
	"club-admin-server/internal/model"
	"club-admin-server/internal/model/requestresponse"
	"club-admin-server/internal/ports"
	"club-admin-server/internal/security"
	"club-admin-server/internal/util"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService}
}

// RegisterUser godoc
// @Summary Регистрация нового пользователя
// @Description Создаёт пользователя с ROLE_USER. Другую роль может назначить только ROLE_ADMIN или ROLE_MASTER, передав свой access токен
// @Tags Users
// @Accept json
// @Produce json
// @Param body body requestresponse.RegisterRequest true "Тело запроса"
// @Param Authorization header string false "Bearer токен привилегированного пользователя"
// @Success 201 {object} requestresponse.UserResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse "Недостаточно прав для назначения роли"
// @Failure 409 {object} requestresponse.ErrorResponse "Username уже занят"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/users [post]
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	created, err := h.UserService.Register(r.Context(), model.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Role:     model.Role(req.Role),
		Name:     req.Name,
		Contact:  req.Contact,
	})
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, requestresponse.NewUserResponse(created))
}

// GetUser godoc
// @Summary Получение информации о пользователе
// @Description Доступен самому пользователю, ROLE_ADMIN и ROLE_MASTER
// @Tags Users
// @Produce json
// @Param id path int true "ID пользователя"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.UserResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	targetID, ok := userIDParam(w, r)
	if !ok || !restrictToOwner(w, r, targetID) {
		return
	}

	user, err := h.UserService.GetUser(r.Context(), targetID)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.NewUserResponse(user))
}

// UpdateUser godoc
// @Summary Обновление данных пользователя
// @Description Перезаписывает пароль, роль, имя и контакт. Роль меняет только ROLE_ADMIN или ROLE_MASTER. Текущая сессия пользователя после этого отзывается, нужен повторный вход
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "ID пользователя"
// @Param body body requestresponse.UpdateUserRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.UserResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 503 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/users/{id} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	targetID, ok := userIDParam(w, r)
	if !ok || !restrictToOwner(w, r, targetID) {
		return
	}

	var req requestresponse.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	updated, err := h.UserService.UpdateUser(r.Context(), targetID, model.UpdateInput{
		Password: req.Password,
		Role:     model.Role(req.Role),
		Name:     req.Name,
		Contact:  req.Contact,
	}, r.Header.Get("Authorization"))
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.NewUserResponse(updated))
}

// decodeJSON обрабатывает декодирование JSON и возвращает ответ об ошибке, если декодирование не удалось.
func decodeJSON(w http.ResponseWriter, r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "некорректное тело запроса")
		return err
	}
	return nil
}

func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		sendErrorResponse(w, http.StatusBadRequest, "некорректный id пользователя")
		return 0, false
	}
	return id, true
}

// restrictToOwner : чужие учётные записи доступны только ROLE_ADMIN и ROLE_MASTER
func restrictToOwner(w http.ResponseWriter, r *http.Request, targetID int64) bool {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
		return false
	}

	if !claims.Role.IsPrivileged() && claims.UserID != targetID {
		util.HandleAppError(w, apperror.New(apperror.KindNoAuthority, "недостаточно прав"))
		return false
	}

	return true
}

func sendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	util.HandleError(w, message, statusCode)
}
