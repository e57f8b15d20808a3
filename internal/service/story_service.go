package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"verhaal-server/internal/metrics"
	"verhaal-server/internal/model"
)

// Иллюстрация пока не генерируется, используем статичную заглушку.
const storyImagePlaceholder = "https://images.unsplash.com/photo-1472396961693-142e6e269027?w=400&h=300&fit=crop&q=80"

// StoryRepository предоставляет доступ к хранилищу сказок.
// Все операции ограничены владельцем: userID всегда передается явно,
// никакого глобального "текущего пользователя" нет.
type StoryRepository interface {
	Create(ctx context.Context, story model.Story) (model.Story, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Story, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (model.Story, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

// CompletionClient - непрозрачная способность "отправь промпт, получи текст".
// Реализуется pkg/ai, в тестах подменяется моком.
type CompletionClient interface {
	Complete(ctx context.Context, req model.GenerationRequest) (string, error)
}

// StoryService реализует конвейер генерации сказок:
// валидация -> промпт -> удаленная генерация (или офлайн шаблон) ->
// вывод титула -> сохранение.
type StoryService struct {
	repo StoryRepository
	ai   CompletionClient
}

// NewStoryService создает новый экземпляр сервиса сказок.
func NewStoryService(repo StoryRepository, aiClient CompletionClient) *StoryService {
	return &StoryService{
		repo: repo,
		ai:   aiClient,
	}
}

// GenerateStory проводит один набор выборов через весь конвейер и возвращает
// сохраненную сказку.
//
// Политика ошибок:
//   - ErrValidation уходит вызывающему: некорректный ввод - это баг клиента,
//     офлайн-шаблон тут не спасает;
//   - ErrAuthRequired уходит вызывающему: без учетных данных невозможно
//     и сохранение;
//   - ErrRateLimited и ErrRemoteUnavailable гасятся подстановкой
//     офлайн-генератора и пользователю не видны;
//   - ошибка вывода титула гасится титулом по умолчанию;
//   - ErrPersistence уходит вызывающему: сказка сгенерирована, но молча
//     потерять ее хуже, чем явно сообщить об ошибке сохранения.
func (s *StoryService) GenerateStory(ctx context.Context, userID uuid.UUID, raw map[string]string) (model.Story, error) {
	if userID == uuid.Nil {
		metrics.GenerationFailures.WithLabelValues(metrics.FailureAuth).Inc()
		return model.Story{}, fmt.Errorf("нет идентичности пользователя: %w", model.ErrAuthRequired)
	}

	choices, err := ValidateChoices(raw)
	if err != nil {
		metrics.GenerationFailures.WithLabelValues(metrics.FailureValidation).Inc()
		return model.Story{}, err
	}

	content, source, err := s.generateContent(ctx, choices)
	if err != nil {
		return model.Story{}, err
	}

	title := s.deriveTitle(ctx, content)

	story := model.Story{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		Choices:   choices,
		AgeGroup:  choices.AgeLabel(),
		ImageURL:  storyImagePlaceholder,
		CreatedAt: time.Now().UTC(),
	}

	saved, err := s.repo.Create(ctx, story)
	if err != nil {
		metrics.GenerationFailures.WithLabelValues(metrics.FailurePersistence).Inc()
		log.Error().Err(err).Str("user_id", userID.String()).Msg("не удалось сохранить сгенерированную сказку")
		return model.Story{}, fmt.Errorf("сохранение не удалось (%v): %w", err, model.ErrPersistence)
	}

	metrics.StoriesGenerated.WithLabelValues(source).Inc()
	log.Info().
		Str("story_id", saved.ID.String()).
		Str("user_id", userID.String()).
		Str("source", source).
		Msg("сказка сгенерирована и сохранена")

	return saved, nil
}

// generateContent вызывает удаленный сервис и при необходимости подставляет
// офлайн-генератор. Возвращает текст сказки и источник для метрик.
func (s *StoryService) generateContent(ctx context.Context, choices model.ChoiceSet) (string, string, error) {
	req := ComposeStoryRequest(choices)

	content, err := s.ai.Complete(ctx, req)
	if err == nil {
		return content, metrics.SourceRemote, nil
	}

	if errors.Is(err, model.ErrAuthRequired) {
		metrics.GenerationFailures.WithLabelValues(metrics.FailureAuth).Inc()
		return "", "", err
	}

	// Rate limit и любая другая ошибка сервиса: молча подставляем
	// детерминированный шаблон вместо того, чтобы показывать пользователю
	// сбой генерации.
	log.Warn().Err(err).Msg("удаленная генерация не удалась, подставляем офлайн-шаблон")
	return GenerateFallbackStory(choices), metrics.SourceFallback, nil
}

// ListStories возвращает сказки пользователя, новые первыми.
// Чтение намеренно fail-soft: без идентичности или при ошибке хранилища
// возвращается пустая коллекция, а не ошибка.
func (s *StoryService) ListStories(ctx context.Context, userID uuid.UUID) []model.Story {
	if userID == uuid.Nil {
		return []model.Story{}
	}

	stories, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("не удалось получить список сказок")
		return []model.Story{}
	}
	if stories == nil {
		return []model.Story{}
	}
	return stories
}

// GetStory возвращает одну сказку пользователя по ID.
func (s *StoryService) GetStory(ctx context.Context, userID, id uuid.UUID) (model.Story, error) {
	if userID == uuid.Nil {
		return model.Story{}, fmt.Errorf("нет идентичности пользователя: %w", model.ErrAuthRequired)
	}
	return s.repo.GetByID(ctx, userID, id)
}

// DeleteStory удаляет сказку, только если совпали и ID, и владелец.
// Чужой или несуществующий ID - не исключительная ситуация: просто ничего
// не удалилось, возвращаем false.
func (s *StoryService) DeleteStory(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, fmt.Errorf("нет идентичности пользователя: %w", model.ErrAuthRequired)
	}
	return s.repo.Delete(ctx, userID, id)
}
