package model

import "errors"

// Классификация ошибок конвейера генерации. Оркестратор выбирает ветку
// через errors.Is, поэтому все ошибки ниже используются как sentinel-значения
// и оборачиваются через fmt.Errorf("...: %w", err).
var (
	// ErrValidation - неполный или некорректный набор выборов от клиента.
	ErrValidation = errors.New("некорректный набор выборов")

	// ErrAuthRequired - нет валидных учетных данных (пользователя или API ключа).
	ErrAuthRequired = errors.New("требуется аутентификация")

	// ErrRateLimited - удаленный сервис генерации исчерпал квоту (HTTP 429).
	ErrRateLimited = errors.New("превышен лимит запросов к сервису генерации")

	// ErrRemoteUnavailable - любая другая ошибка удаленного сервиса генерации.
	ErrRemoteUnavailable = errors.New("сервис генерации недоступен")

	// ErrPersistence - не удалось сохранить сгенерированную сказку.
	ErrPersistence = errors.New("ошибка сохранения сказки")
)
