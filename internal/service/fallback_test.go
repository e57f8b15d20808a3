package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"verhaal-server/internal/model"
)

func TestGenerateFallbackStory(t *testing.T) {
	t.Run("Both templates end with the closing line", func(t *testing.T) {
		for _, ageGroup := range []string{"young", "older"} {
			story := GenerateFallbackStory(model.ChoiceSet{
				AgeGroup:  ageGroup,
				Character: "princess",
				Setting:   "castle",
				Adventure: "treasure",
			})
			assert.True(t, strings.HasSuffix(story, StoryClosingLine), "age group %q", ageGroup)
		}
	})

	t.Run("Byte-identical for identical input", func(t *testing.T) {
		choices := model.ChoiceSet{
			AgeGroup:  "older",
			Character: "knight",
			Setting:   "ocean",
			Adventure: "rescue",
		}

		assert.Equal(t, GenerateFallbackStory(choices), GenerateFallbackStory(choices))
	})

	t.Run("Young forest friendship scenario", func(t *testing.T) {
		story := GenerateFallbackStory(model.ChoiceSet{
			AgeGroup:  "young",
			Character: "animal",
			Setting:   "forest",
			Adventure: "friendship",
		})

		assert.Contains(t, story, "Roos")
		assert.Contains(t, story, "Betoverde Woud")
		assert.Contains(t, story, "nieuwe vrienden te maken")
		assert.True(t, strings.HasSuffix(story, StoryClosingLine))
	})

	t.Run("Unknown codes resolve to generic placeholders", func(t *testing.T) {
		story := GenerateFallbackStory(model.ChoiceSet{
			AgeGroup:  "young",
			Character: "dragon",
			Setting:   "volcano",
			Adventure: "cooking",
		})

		assert.Contains(t, story, genericFallbackHero)
		assert.Contains(t, story, genericFallbackPlace)
		assert.Contains(t, story, genericFallbackQuest)
		assert.True(t, strings.HasSuffix(story, StoryClosingLine))
	})

	t.Run("Templates differ per age group", func(t *testing.T) {
		choices := model.ChoiceSet{
			AgeGroup:  "young",
			Character: "child",
			Setting:   "space",
			Adventure: "magic",
		}
		young := GenerateFallbackStory(choices)

		choices.AgeGroup = "older"
		older := GenerateFallbackStory(choices)

		assert.NotEqual(t, young, older)
		assert.Greater(t, len(older), len(young))
	})
}
