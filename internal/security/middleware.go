package security

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"club-admin-server/internal/apperror"
	"club-admin-server/internal/util"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

// BlackListChecker : часть хранилища сессий, нужная middleware
type BlackListChecker interface {
	HasKeyBlackList(ctx context.Context, token string) (bool, error)
}

// JWTMiddleware пропускает запрос дальше только с действующим access токеном:
// токен не в чёрном списке, подпись верна и срок действия не истёк
func JWTMiddleware(jwtService *JWTService, blackList BlackListChecker) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(jwtService, blackList, next))
	}
}

// OptionalJWTMiddleware : запрос без заголовка Authorization проходит анонимно,
// переданный заголовок проверяется так же, как в JWTMiddleware
func OptionalJWTMiddleware(jwtService *JWTService, blackList BlackListChecker) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		authenticated := http.HandlerFunc(handleAuthentication(jwtService, blackList, next))
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.Header.Get("Authorization") == "" {
				next.ServeHTTP(writer, request)
				return
			}
			authenticated.ServeHTTP(writer, request)
		})
	}
}

func handleAuthentication(jwtService *JWTService, blackList BlackListChecker, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		token, err := jwtService.ResolveToken(request.Header.Get("Authorization"))
		if err != nil {
			util.HandleAppError(writer, err)
			return
		}

		blacklisted, err := blackList.HasKeyBlackList(request.Context(), token)
		if err != nil {
			log.Printf("[JWTMiddleware] не удалось проверить чёрный список: %v", err)
			util.HandleAppError(writer, err)
			return
		}
		if blacklisted {
			log.Printf("[JWTMiddleware] попытка использовать токен из чёрного списка")
			util.HandleAppError(writer, apperror.New(apperror.KindInvalidToken, "токен отозван"))
			return
		}

		claims, err := jwtService.ParseAccessToken(token)
		if err != nil {
			log.Printf("[JWTMiddleware] невалидный токен: %v", err)
			util.HandleAppError(writer, err)
			return
		}

		req := request.WithContext(ContextWithClaims(request.Context(), claims))
		next.ServeHTTP(writer, req)
	}
}

func GetClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("пользователь не авторизован")
	}
	return claims, nil
}

// ContextWithClaims кладёт claims в контекст запроса
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}
