package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"verhaal-server/internal/model"
)

// Handler представляет HTTP обработчики аутентификации.
type Handler struct {
	service *Service
}

// NewHandler создает новый экземпляр обработчика аутентификации.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes регистрирует публичные маршруты аутентификации.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/register", h.Register).Methods("POST")
	router.HandleFunc("/auth/login", h.Login).Methods("POST")
	router.HandleFunc("/auth/refresh", h.Refresh).Methods("POST")
}

// Register обрабатывает регистрацию нового пользователя.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "неверный формат запроса")
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserAlreadyExists):
			respondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, model.ErrValidation):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			log.Error().Err(err).Msg("ошибка регистрации")
			respondWithError(w, http.StatusInternalServerError, "ошибка регистрации")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}

// Login обрабатывает вход пользователя.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "неверный формат запроса")
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, err.Error())
			return
		}
		log.Error().Err(err).Msg("ошибка входа")
		respondWithError(w, http.StatusInternalServerError, "ошибка входа")
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// Refresh обменивает refresh-токен на новую пару токенов.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		respondWithError(w, http.StatusBadRequest, "неверный формат запроса")
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidRefresh) {
			respondWithError(w, http.StatusUnauthorized, err.Error())
			return
		}
		log.Error().Err(err).Msg("ошибка обновления токенов")
		respondWithError(w, http.StatusInternalServerError, "ошибка обновления токенов")
		return
	}

	respondWithJSON(w, http.StatusOK, pair)
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
