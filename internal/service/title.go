package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"verhaal-server/internal/metrics"
	"verhaal-server/internal/model"
)

// Параметры запроса титула: маленький бюджет, температура пониже.
const (
	titleSystemPrompt = "Genereer een korte, aantrekkelijke titel voor dit kinderverhaal. Maximaal 5 woorden."
	titleMaxTokens    = 20
	titleTemperature  = 0.7

	// Титул выводится из начала сказки, целиком она модели не нужна.
	titleExcerptRunes = 200
)

// DefaultStoryTitle используется, когда вывод титула не удался.
const DefaultStoryTitle = "Een Nieuw Avontuur"

// deriveTitle запрашивает у модели короткий титул для готовой сказки.
// Best effort: любая ошибка (транспорт, статус, пустое тело) дает
// фиксированный титул по умолчанию и никогда не роняет конвейер.
func (s *StoryService) deriveTitle(ctx context.Context, storyText string) string {
	excerpt := []rune(storyText)
	if len(excerpt) > titleExcerptRunes {
		excerpt = excerpt[:titleExcerptRunes]
	}

	raw, err := s.ai.Complete(ctx, model.GenerationRequest{
		SystemPrompt: titleSystemPrompt,
		Prompt:       "Verhaal: " + string(excerpt) + "...",
		MaxTokens:    titleMaxTokens,
		Temperature:  titleTemperature,
	})
	if err != nil {
		metrics.TitleFallbacks.Inc()
		log.Warn().Err(err).Msg("вывод титула не удался, используем титул по умолчанию")
		return DefaultStoryTitle
	}

	title := strings.ReplaceAll(raw, `"`, "")
	title = strings.ReplaceAll(title, "'", "")
	title = strings.TrimSpace(title)
	if title == "" {
		return DefaultStoryTitle
	}
	return title
}
