package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"verhaal-server/internal/model"
)

const defaultTimeout = 120 * time.Second

// Client предоставляет доступ к удаленному сервису генерации текста
// через OpenAI-совместимый API.
type Client struct {
	openaiClient *openai.Client
	modelName    string
	timeout      time.Duration
}

// Config содержит конфигурацию клиента генерации.
type Config struct {
	APIKey    string
	ModelName string
	BaseURL   string
	Timeout   int // секунды
}

// New создает новый экземпляр клиента генерации.
// API ключ живет только в серверной конфигурации и никогда не попадает
// в ответы или в код, доступный клиенту.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("не указан API ключ сервиса генерации")
	}

	if cfg.ModelName == "" {
		cfg.ModelName = "gpt-4.1-2025-04-14"
	}

	timeout := defaultTimeout
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	config.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		openaiClient: openai.NewClientWithConfig(config),
		modelName:    cfg.ModelName,
		timeout:      timeout,
	}, nil
}

// Complete отправляет один запрос на завершение чата и возвращает текст ответа.
// Ошибки классифицируются в sentinel-ошибки из internal/model:
// 429 -> ErrRateLimited, 401/403 -> ErrAuthRequired, остальное -> ErrRemoteUnavailable.
// Ретраев внутри клиента нет: восстановление - это подстановка офлайн-генератора
// на стороне оркестратора, а не повторение того же вызова.
func (c *Client) Complete(ctx context.Context, req model.GenerationRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.openaiClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		log.Warn().Err(err).Str("model", c.modelName).Msg("запрос к сервису генерации завершился ошибкой")
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("пустой ответ от сервиса генерации: %w", model.ErrRemoteUnavailable)
	}

	return resp.Choices[0].Message.Content, nil
}

// classifyError переводит ошибку транспорта или API в sentinel-ошибку конвейера.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("сервис генерации вернул 429: %w", model.ErrRateLimited)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("сервис генерации отклонил учетные данные: %w", model.ErrAuthRequired)
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("сервис генерации вернул 429: %w", model.ErrRateLimited)
	}

	return fmt.Errorf("ошибка вызова сервиса генерации (%v): %w", err, model.ErrRemoteUnavailable)
}
