package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"verhaal-server/internal/delivery/http/middleware"
	"verhaal-server/internal/model"
	"verhaal-server/internal/repository"
	"verhaal-server/internal/service"
)

// Handler представляет HTTP обработчик API сказок.
type Handler struct {
	storyService *service.StoryService
}

// New создает новый экземпляр обработчика.
func New(storyService *service.StoryService) *Handler {
	return &Handler{
		storyService: storyService,
	}
}

// RegisterRoutes регистрирует маршруты API (относительно /api, за JWT middleware).
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/stories", h.CreateStory).Methods("POST")
	router.HandleFunc("/stories", h.ListStories).Methods("GET")
	router.HandleFunc("/stories/{id}", h.GetStory).Methods("GET")
	router.HandleFunc("/stories/{id}", h.DeleteStory).Methods("DELETE")
}

// createStoryRequest - тело запроса на генерацию сказки. Выборы приходят
// слабо типизированной мапой и проходят валидацию в сервисе.
type createStoryRequest struct {
	Choices map[string]string `json:"choices"`
}

// CreateStory генерирует и сохраняет новую сказку по выборам пользователя.
func (h *Handler) CreateStory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		RespondWithError(w, http.StatusUnauthorized, "не удалось получить ID пользователя")
		return
	}

	var req createStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "неверный формат запроса")
		return
	}

	story, err := h.storyService.GenerateStory(r.Context(), userID, req.Choices)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrValidation):
			RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, model.ErrAuthRequired):
			RespondWithError(w, http.StatusUnauthorized, "требуется повторная аутентификация")
		case errors.Is(err, model.ErrPersistence):
			RespondWithError(w, http.StatusInternalServerError, "сказка сгенерирована, но не сохранена")
		default:
			log.Error().Err(err).Msg("ошибка генерации сказки")
			RespondWithError(w, http.StatusInternalServerError, "ошибка генерации сказки")
		}
		return
	}

	RespondWithJSON(w, http.StatusCreated, story)
}

// ListStories возвращает сказки пользователя, новые первыми.
// Никогда не отвечает ошибкой: в худшем случае коллекция пуста.
func (h *Handler) ListStories(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	stories := h.storyService.ListStories(r.Context(), userID)
	RespondWithJSON(w, http.StatusOK, stories)
}

// GetStory возвращает одну сказку пользователя по ID.
func (h *Handler) GetStory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		RespondWithError(w, http.StatusUnauthorized, "не удалось получить ID пользователя")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "неверный формат ID")
		return
	}

	story, err := h.storyService.GetStory(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrStoryNotFound) {
			RespondWithError(w, http.StatusNotFound, "сказка не найдена")
			return
		}
		log.Error().Err(err).Str("story_id", id.String()).Msg("ошибка получения сказки")
		RespondWithError(w, http.StatusInternalServerError, "ошибка получения сказки")
		return
	}

	RespondWithJSON(w, http.StatusOK, story)
}

// DeleteStory удаляет сказку пользователя. Чужой или несуществующий ID
// дает {"deleted": false}, а не ошибку.
func (h *Handler) DeleteStory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		RespondWithError(w, http.StatusUnauthorized, "не удалось получить ID пользователя")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "неверный формат ID")
		return
	}

	deleted, err := h.storyService.DeleteStory(r.Context(), userID, id)
	if err != nil {
		log.Error().Err(err).Str("story_id", id.String()).Msg("ошибка удаления сказки")
		RespondWithError(w, http.StatusInternalServerError, "ошибка удаления сказки")
		return
	}

	RespondWithJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}
