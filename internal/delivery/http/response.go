package http

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse - стандартное тело ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondWithError отправляет JSON-ответ с ошибкой.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

// RespondWithJSON отправляет JSON-ответ.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
