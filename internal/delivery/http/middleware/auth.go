package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"verhaal-server/internal/auth"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}

// JWTMiddleware проверяет Bearer-токен и добавляет userID в контекст запроса.
func JWTMiddleware(tm *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondWithError(w, http.StatusUnauthorized, "отсутствует заголовок Authorization")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respondWithError(w, http.StatusUnauthorized, "неверный формат заголовка Authorization")
				return
			}

			claims, err := tm.ValidateAccessToken(parts[1])
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "невалидный токен")
				return
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				log.Error().Err(err).Str("user_id", claims.UserID).Msg("некорректный user_id в токене")
				respondWithError(w, http.StatusUnauthorized, "невалидный токен")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
