package util

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"club-admin-server/internal/apperror"
	"club-admin-server/internal/model/requestresponse"
)

func LogError(message string, err error) error {
	log.Printf("%s: %v", message, err)
	return fmt.Errorf("%s: %w", message, err)
}

// HandleError пишет JSON ответ об ошибке
func HandleError(w http.ResponseWriter, message string, statusCode int) {
	writeError(w, statusCode, "", message)
}

// HandleAppError выбирает статус по apperror.Kind и не раскрывает клиенту внутренние причины
func HandleAppError(w http.ResponseWriter, err error) {
	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)
	if kind == apperror.KindInternal {
		writeError(w, status, "", apperror.DetailOf(err))
		return
	}
	writeError(w, status, string(kind), apperror.DetailOf(err))
}

func writeError(w http.ResponseWriter, statusCode int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(requestresponse.ErrorResponse{
		Error: requestresponse.ErrorDetail{
			Code: statusCode,
			Kind: kind,
			Text: message,
		},
	}); err != nil {
		log.Printf("ошибка кодирования ответа: %v", err)
	}
}
