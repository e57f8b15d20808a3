package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"verhaal-server/internal/model"
	"verhaal-server/internal/service"
)

// mockCompletionClient - мок клиента генерации.
type mockCompletionClient struct {
	mock.Mock
}

func (m *mockCompletionClient) Complete(ctx context.Context, req model.GenerationRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// mockStoryRepository - мок хранилища сказок. Create при успехе возвращает
// переданную сказку, тест управляет только ошибкой.
type mockStoryRepository struct {
	mock.Mock
}

func (m *mockStoryRepository) Create(ctx context.Context, story model.Story) (model.Story, error) {
	args := m.Called(ctx, story)
	if err := args.Error(0); err != nil {
		return model.Story{}, err
	}
	return story, nil
}

func (m *mockStoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Story, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Story), args.Error(1)
}

func (m *mockStoryRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (model.Story, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(model.Story), args.Error(1)
}

func (m *mockStoryRepository) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, id)
	return args.Bool(0), args.Error(1)
}

// Запрос сказки и запрос титула различаются бюджетом токенов.
func isStoryRequest(req model.GenerationRequest) bool {
	return req.MaxTokens >= 800
}

func isTitleRequest(req model.GenerationRequest) bool {
	return req.MaxTokens < 100
}

func rawChoices() map[string]string {
	return map[string]string{
		"ageGroup":  "young",
		"character": "animal",
		"setting":   "forest",
		"adventure": "friendship",
	}
}

func TestGenerateStory(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Successful remote generation", func(t *testing.T) {
		mockAI := new(mockCompletionClient)
		mockRepo := new(mockStoryRepository)
		svc := service.NewStoryService(mockRepo, mockAI)

		mockAI.On("Complete", mock.Anything, mock.MatchedBy(isStoryRequest)).
			Return("Er was eens een vosje...", nil).Once()
		mockAI.On("Complete", mock.Anything, mock.MatchedBy(isTitleRequest)).
			Return(`"Het Vosje en de Egel"`, nil).Once()
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(s model.Story) bool {
			return s.UserID == userID && s.ID != uuid.Nil
		})).Return(nil).Once()

		story, err := svc.GenerateStory(ctx, userID, rawChoices())

		require.NoError(t, err)
		assert.Equal(t, "Er was eens een vosje...", story.Content)
		assert.Equal(t, "Het Vosje en de Egel", story.Title, "кавычки должны быть удалены")
		assert.Equal(t, model.AgeLabelYoung, story.AgeGroup)
		assert.Equal(t, "animal", story.Choices.Character)
		assert.NotEmpty(t, story.ImageURL)
		assert.False(t, story.CreatedAt.IsZero())
		mockAI.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Rate limit substitutes fallback story", func(t *testing.T) {
		mockAI := new(mockCompletionClient)
		mockRepo := new(mockStoryRepository)
		svc := service.NewStoryService(mockRepo, mockAI)

		mockAI.On("Complete", mock.Anything, mock.MatchedBy(isStoryRequest)).
			Return("", fmt.Errorf("429: %w", model.ErrRateLimited)).Once()
		mockAI.On("Complete", mock.Anything, mock.MatchedBy(isTitleRequest)).
			Return("Het Betoverde Woud", nil).Once()
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		story, err := svc.GenerateStory(ctx, userID, rawChoices())

		require.NoError(t, err, "rate limit не должен превращаться в ошибку пользователя")
		assert.True(t, strings.HasSuffix(story.Content, service.StoryClosingLine))
		assert.Contains(t, story.Content, "Roos")
		mockAI.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Remote error substitutes fallback story", func(t *testing.T) {
		mockAI := new(mockCompletionClient)
		mockRepo := new(mockStoryRepository)
		svc := service.NewStoryService(mockRepo, mockAI)

		mockAI.On("Complete", mock.Anything, mock.MatchedBy(isStoryRequest)).
			Return("", fmt.Errorf("boom: %w", model.ErrRemoteUnavailable)).Once()
		mockAI.On("Complete", mock.Anything, mock.MatchedBy(isTitleRequest)).
			Return("", fmt.Errorf("boom: %w", model.ErrRemoteUnavailable)).Once()
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		story, err := svc.GenerateStory(ctx, userID, rawChoices())

		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(story.Content, service.StoryClosingLine))
		assert.Equal(t, service.DefaultStoryTitle, story.Title)
	})

	t.Run("Auth failure is not recovered", func(t *testing.T) {
		mockAI := new(mockCompletionClient)
		mockRepo := new(mockStoryRepository)
		svc := service.NewStoryService(mockRepo, mockAI)

		mockAI.On("Complete", mock.Anything, mock.MatchedBy(isStoryRequest)).
			Return("", fmt.Errorf("401: %w", model.ErrAuthRequired)).Once()

		_, err := svc.GenerateStory(ctx, userID, rawChoices())

		assert.ErrorIs(t, err, model.ErrAuthRequired)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Validation failure prevents any generation call", func(t *testing.T) {
		mockAI := new(mockCompletionClient)
		mockRepo := new(mockStoryRepository)
		svc := service.NewStoryService(mockRepo, mockAI)

		raw := rawChoices()
		delete(raw, "adventure")

		_, err := svc.GenerateStory(ctx, userID, raw)

		assert.ErrorIs(t, err, model.ErrValidation)
		mockAI.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Missing identity fails fast", func(t *testing.T) {
		mockAI := new(mockCompletionClient)
		mockRepo := new(mockStoryRepository)
		svc := service.NewStoryService(mockRepo, mockAI)

		_, err := svc.GenerateStory(ctx, uuid.Nil, rawChoices())

		assert.ErrorIs(t, err, model.ErrAuthRequired)
		mockAI.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("Title failure falls back to default title", func(t *testing.T) {
		mockAI := new(mockCompletionClient)
		mockRepo := new(mockStoryRepository)
		svc := service.NewStoryService(mockRepo, mockAI)

		mockAI.On("Complete", mock.Anything, mock.MatchedBy(isStoryRequest)).
			Return("Er was eens een vosje...", nil).Once()
		mockAI.On("Complete", mock.Anything, mock.MatchedBy(isTitleRequest)).
			Return("", fmt.Errorf("boom: %w", model.ErrRemoteUnavailable)).Once()
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		story, err := svc.GenerateStory(ctx, userID, rawChoices())

		require.NoError(t, err)
		assert.Equal(t, service.DefaultStoryTitle, story.Title)
	})

	t.Run("Persistence failure surfaces after generation", func(t *testing.T) {
		mockAI := new(mockCompletionClient)
		mockRepo := new(mockStoryRepository)
		svc := service.NewStoryService(mockRepo, mockAI)

		mockAI.On("Complete", mock.Anything, mock.MatchedBy(isStoryRequest)).
			Return("Er was eens een vosje...", nil).Once()
		mockAI.On("Complete", mock.Anything, mock.MatchedBy(isTitleRequest)).
			Return("Titel", nil).Once()
		mockRepo.On("Create", mock.Anything, mock.Anything).
			Return(errors.New("connection refused")).Once()

		_, err := svc.GenerateStory(ctx, userID, rawChoices())

		assert.ErrorIs(t, err, model.ErrPersistence)
	})
}

func TestListStories(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Missing identity yields empty collection", func(t *testing.T) {
		mockRepo := new(mockStoryRepository)
		svc := service.NewStoryService(mockRepo, new(mockCompletionClient))

		stories := svc.ListStories(ctx, uuid.Nil)

		assert.NotNil(t, stories)
		assert.Empty(t, stories)
		mockRepo.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
	})

	t.Run("Repository error yields empty collection", func(t *testing.T) {
		mockRepo := new(mockStoryRepository)
		svc := service.NewStoryService(mockRepo, new(mockCompletionClient))

		mockRepo.On("ListByUser", mock.Anything, userID).
			Return(nil, errors.New("connection refused")).Once()

		stories := svc.ListStories(ctx, userID)

		assert.NotNil(t, stories)
		assert.Empty(t, stories)
	})

	t.Run("Stories are returned as stored", func(t *testing.T) {
		mockRepo := new(mockStoryRepository)
		svc := service.NewStoryService(mockRepo, new(mockCompletionClient))

		expected := []model.Story{
			{ID: uuid.New(), Title: "Nieuwste"},
			{ID: uuid.New(), Title: "Oudste"},
		}
		mockRepo.On("ListByUser", mock.Anything, userID).Return(expected, nil).Once()

		stories := svc.ListStories(ctx, userID)

		assert.Equal(t, expected, stories)
	})
}

func TestDeleteStory(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Foreign story is not deleted", func(t *testing.T) {
		mockRepo := new(mockStoryRepository)
		svc := service.NewStoryService(mockRepo, new(mockCompletionClient))

		storyID := uuid.New()
		mockRepo.On("Delete", mock.Anything, userID, storyID).Return(false, nil).Once()

		deleted, err := svc.DeleteStory(ctx, userID, storyID)

		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("Own story is deleted", func(t *testing.T) {
		mockRepo := new(mockStoryRepository)
		svc := service.NewStoryService(mockRepo, new(mockCompletionClient))

		storyID := uuid.New()
		mockRepo.On("Delete", mock.Anything, userID, storyID).Return(true, nil).Once()

		deleted, err := svc.DeleteStory(ctx, userID, storyID)

		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("Missing identity fails fast", func(t *testing.T) {
		mockRepo := new(mockStoryRepository)
		svc := service.NewStoryService(mockRepo, new(mockCompletionClient))

		_, err := svc.DeleteStory(ctx, uuid.Nil, uuid.New())

		assert.ErrorIs(t, err, model.ErrAuthRequired)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})
}
