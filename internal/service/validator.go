package service

import (
	"fmt"
	"strings"

	"verhaal-server/internal/model"
)

// Обязательные поля набора выборов. Порядок фиксирован, чтобы сообщение
// об ошибке было стабильным.
var requiredChoiceKeys = []string{"character", "setting", "adventure", "ageGroup"}

// ValidateChoices проверяет сырой набор выборов от клиента и возвращает
// очищенный ChoiceSet. Значения вне словарей НЕ отклоняются: неизвестные коды
// обрабатывает PromptComposer через generic-фразы. Побочных эффектов нет.
func ValidateChoices(raw map[string]string) (model.ChoiceSet, error) {
	for _, key := range requiredChoiceKeys {
		if strings.TrimSpace(raw[key]) == "" {
			return model.ChoiceSet{}, fmt.Errorf("отсутствует обязательное поле %q: %w", key, model.ErrValidation)
		}
	}

	return model.ChoiceSet{
		AgeGroup:  sanitizeChoice(raw["ageGroup"]),
		Character: sanitizeChoice(raw["character"]),
		Setting:   sanitizeChoice(raw["setting"]),
		Adventure: sanitizeChoice(raw["adventure"]),
	}, nil
}

// sanitizeChoice удаляет символы разметки из пользовательского значения.
// Значения приходят с кнопок UI, но по сути это пользовательский ввод,
// который попадает в промпт и в сохраняемую запись. Остальные символы
// не изменяются.
func sanitizeChoice(value string) string {
	value = strings.ReplaceAll(value, "<", "")
	value = strings.ReplaceAll(value, ">", "")
	return value
}
