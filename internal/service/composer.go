package service

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog/log"

	"verhaal-server/internal/model"
)

// Параметры генерации сказки. Бюджет токенов зависит от возрастной группы,
// температура фиксирована и подобрана повыше ради разнообразия.
const (
	storySystemPrompt = "Je bent een expert kinderverhalenschrijver die warme, veilige en unieke bedtijdverhalen creëert. Elk verhaal moet origineel zijn en vermijd clichés."
	storyTemperature  = 0.9

	maxTokensYoung = 800
	maxTokensOlder = 1500
)

// StoryClosingLine - обязательная финальная строка каждой сказки.
// Офлайн-шаблоны заканчиваются той же строкой, поэтому по форме результат
// удаленной и офлайн-генерации неразличим.
const StoryClosingLine = "En ze leefden nog lang en gelukkig! 🌟\n\nHet einde."

// Словари перевода кодов выбора в описательные фразы.
// Код вне словаря разрешается в generic-фразу, а не в ошибку:
// некорректные или будущие коды деградируют мягко, не блокируя генерацию.
var (
	characterPhrases = map[string]string{
		"princess": "dappere prinses",
		"knight":   "moedige ridder",
		"animal":   "slim dier",
		"child":    "avontuurlijk kind",
	}

	settingPhrases = map[string]string{
		"castle": "magisch kasteel",
		"forest": "betoverd bos",
		"ocean":  "onderwaterwereld",
		"space":  "de ruimte",
	}

	adventurePhrases = map[string]string{
		"treasure":   "op zoek naar een schat",
		"rescue":     "iemand redden",
		"friendship": "nieuwe vrienden maken",
		"magic":      "magie leren",
	}
)

// Generic-фразы для кодов вне словарей.
const (
	genericCharacterPhrase = "avontuurlijk personage"
	genericSettingPhrase   = "magische wereld"
	genericAdventurePhrase = "spannend avontuur"
)

// phraseOrDefault - тотальная функция код -> фраза: конечный словарь
// плюс явная ветка по умолчанию.
func phraseOrDefault(table map[string]string, code, fallback string) string {
	if phrase, ok := table[code]; ok {
		return phrase
	}
	return fallback
}

// ComposeStoryRequest детерминированно строит запрос генерации из очищенного
// набора выборов. Чистая функция: один и тот же ChoiceSet всегда дает
// один и тот же запрос.
func ComposeStoryRequest(choices model.ChoiceSet) model.GenerationRequest {
	ageText := "oudere kinderen (7-12 jaar)"
	lengthText := "10-15 minuten"
	styleText := "Maak het verhaal rijk aan details met wat meer complexe avonturen en karakterontwikkeling."
	maxTokens := maxTokensOlder
	if choices.IsYoung() {
		ageText = "jonge kinderen (3-6 jaar)"
		lengthText = "5 minuten"
		styleText = "Houd het verhaal simpel met korte zinnen en herhaling. Gebruik veel geluiden en emoties."
		maxTokens = maxTokensYoung
	}

	character := phraseOrDefault(characterPhrases, choices.Character, genericCharacterPhrase)
	setting := phraseOrDefault(settingPhrases, choices.Setting, genericSettingPhrase)
	adventure := phraseOrDefault(adventurePhrases, choices.Adventure, genericAdventurePhrase)

	prompt := fmt.Sprintf(`Schrijf een Nederlands bedtijdverhaal voor %s dat ongeveer %s duurt om voor te lezen.

Het verhaal moet:
- Hoofdpersoon: %s
- Locatie: %s
- Avontuur: %s
- Volledig kindvriendelijk en positief zijn
- Een duidelijk begin, midden en einde hebben
- Leerzame elementen bevatten zoals vriendschap, moed, of vriendelijkheid
- Eindigen met "%s"

%s

Schrijf het verhaal in een warme, verhalende toon alsof een ouder het voorleest. Maak het uniek en creatief, vermijd herhalingen en clichés.`,
		ageText, lengthText, character, setting, adventure, StoryClosingLine, styleText)

	if tokens := countTokens(prompt); tokens > 0 {
		log.Debug().Int("prompt_tokens", tokens).Int("max_tokens", maxTokens).Msg("промпт сказки составлен")
	}

	return model.GenerationRequest{
		SystemPrompt: storySystemPrompt,
		Prompt:       prompt,
		MaxTokens:    maxTokens,
		Temperature:  storyTemperature,
	}
}

var (
	tokenEncodingOnce sync.Once
	tokenEncoding     *tiktoken.Tiktoken
)

// countTokens считает токены промпта для учета бюджета.
// Если кодировка недоступна (нет кеша словаря BPE), возвращает 0 -
// учет токенов не должен блокировать генерацию.
func countTokens(text string) int {
	tokenEncodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			log.Debug().Err(err).Msg("кодировка токенов недоступна, учет отключен")
			return
		}
		tokenEncoding = enc
	})
	if tokenEncoding == nil {
		return 0
	}
	return len(tokenEncoding.Encode(text, nil, nil))
}
