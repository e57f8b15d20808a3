package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"verhaal-server/internal/model"
)

func TestComposeStoryRequest(t *testing.T) {
	t.Run("Young register", func(t *testing.T) {
		req := ComposeStoryRequest(model.ChoiceSet{
			AgeGroup:  "young",
			Character: "princess",
			Setting:   "castle",
			Adventure: "treasure",
		})

		assert.Equal(t, maxTokensYoung, req.MaxTokens)
		assert.Equal(t, float32(storyTemperature), req.Temperature)
		assert.Equal(t, storySystemPrompt, req.SystemPrompt)
		assert.Contains(t, req.Prompt, "jonge kinderen (3-6 jaar)")
		assert.Contains(t, req.Prompt, "5 minuten")
		assert.Contains(t, req.Prompt, "dappere prinses")
		assert.Contains(t, req.Prompt, "magisch kasteel")
		assert.Contains(t, req.Prompt, "op zoek naar een schat")
		assert.Contains(t, req.Prompt, "korte zinnen en herhaling")
		assert.Contains(t, req.Prompt, StoryClosingLine)
	})

	t.Run("Older register", func(t *testing.T) {
		req := ComposeStoryRequest(model.ChoiceSet{
			AgeGroup:  "older",
			Character: "knight",
			Setting:   "space",
			Adventure: "rescue",
		})

		assert.Equal(t, maxTokensOlder, req.MaxTokens)
		assert.Contains(t, req.Prompt, "oudere kinderen (7-12 jaar)")
		assert.Contains(t, req.Prompt, "10-15 minuten")
		assert.Contains(t, req.Prompt, "moedige ridder")
		assert.Contains(t, req.Prompt, "de ruimte")
		assert.Contains(t, req.Prompt, "iemand redden")
		assert.Contains(t, req.Prompt, "karakterontwikkeling")
	})

	t.Run("Unknown codes resolve to generic phrases", func(t *testing.T) {
		req := ComposeStoryRequest(model.ChoiceSet{
			AgeGroup:  "older",
			Character: "dragon",
			Setting:   "volcano",
			Adventure: "cooking",
		})

		assert.Contains(t, req.Prompt, genericCharacterPhrase)
		assert.Contains(t, req.Prompt, genericSettingPhrase)
		assert.Contains(t, req.Prompt, genericAdventurePhrase)
	})

	t.Run("Deterministic for identical input", func(t *testing.T) {
		choices := model.ChoiceSet{
			AgeGroup:  "young",
			Character: "animal",
			Setting:   "forest",
			Adventure: "friendship",
		}

		first := ComposeStoryRequest(choices)
		second := ComposeStoryRequest(choices)
		assert.Equal(t, first, second)
	})

	t.Run("Unknown age group falls back to older register", func(t *testing.T) {
		req := ComposeStoryRequest(model.ChoiceSet{
			AgeGroup:  "toddler",
			Character: "child",
			Setting:   "ocean",
			Adventure: "magic",
		})

		assert.Equal(t, maxTokensOlder, req.MaxTokens)
		assert.True(t, strings.Contains(req.Prompt, "oudere kinderen"))
	})
}
