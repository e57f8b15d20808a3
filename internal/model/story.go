package model

import (
	"time"

	"github.com/google/uuid"
)

// Возрастные группы, приходящие от клиента.
const (
	AgeGroupYoung = "young"
	AgeGroupOlder = "older"
)

// Человекочитаемые метки возрастных групп (на нидерландском, как и весь контент).
const (
	AgeLabelYoung = "3-6 jaar"
	AgeLabelOlder = "7-12 jaar"
)

// ChoiceSet представляет проверенный и очищенный набор выборов пользователя.
// Значения уже прошли санитизацию (символы < и > удалены).
type ChoiceSet struct {
	AgeGroup  string `json:"ageGroup"`
	Character string `json:"character"`
	Setting   string `json:"setting"`
	Adventure string `json:"adventure"`
}

// IsYoung возвращает true для короткого детского шаблона (3-6 лет).
func (c ChoiceSet) IsYoung() bool {
	return c.AgeGroup == AgeGroupYoung
}

// AgeLabel возвращает человекочитаемую метку возрастной группы.
func (c ChoiceSet) AgeLabel() string {
	if c.IsYoung() {
		return AgeLabelYoung
	}
	return AgeLabelOlder
}

// GenerationRequest описывает один запрос к сервису генерации текста.
// Производный объект, не хранится в БД.
type GenerationRequest struct {
	SystemPrompt string
	Prompt       string
	MaxTokens    int
	Temperature  float32
}

// Story представляет сохраненную сказку пользователя.
type Story struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"-" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"story" db:"content"`
	Choices   ChoiceSet `json:"choices" db:"-"`
	AgeGroup  string    `json:"ageGroup" db:"age_group"`
	ImageURL  string    `json:"imageUrl,omitempty" db:"image_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
