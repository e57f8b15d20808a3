package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // Драйвер PostgreSQL для sqlx

	"verhaal-server/internal/model"
)

// ErrStoryNotFound возвращается, когда сказка не найдена или принадлежит
// другому пользователю. Снаружи эти случаи неразличимы намеренно.
var ErrStoryNotFound = errors.New("сказка не найдена")

// StoryRepository предоставляет доступ к данным сказок.
// Все запросы фильтруют по user_id: путь, читающий или удаляющий чужую
// сказку, отсутствует на уровне SQL.
type StoryRepository struct {
	pool *pgxpool.Pool
	db   *sqlx.DB
}

// NewStoryRepository создает новый экземпляр репозитория сказок.
func NewStoryRepository(pool *pgxpool.Pool, db *sqlx.DB) *StoryRepository {
	return &StoryRepository{
		pool: pool,
		db:   db,
	}
}

// storyRow - строка таблицы stories для sqlx.
type storyRow struct {
	ID        uuid.UUID      `db:"id"`
	UserID    uuid.UUID      `db:"user_id"`
	Title     string         `db:"title"`
	Content   string         `db:"content"`
	Choices   []byte         `db:"choices"`
	AgeGroup  string         `db:"age_group"`
	ImageURL  sql.NullString `db:"image_url"`
	CreatedAt sql.NullTime   `db:"created_at"`
}

func (r storyRow) toModel() (model.Story, error) {
	story := model.Story{
		ID:       r.ID,
		UserID:   r.UserID,
		Title:    r.Title,
		Content:  r.Content,
		AgeGroup: r.AgeGroup,
	}
	if r.ImageURL.Valid {
		story.ImageURL = r.ImageURL.String
	}
	if r.CreatedAt.Valid {
		story.CreatedAt = r.CreatedAt.Time
	}
	if len(r.Choices) > 0 {
		if err := json.Unmarshal(r.Choices, &story.Choices); err != nil {
			return model.Story{}, fmt.Errorf("ошибка разбора choices: %w", err)
		}
	}
	return story, nil
}

// Create сохраняет новую сказку. Записи только добавляются, in-place
// обновлений нет: каждая генерация создает независимую запись.
func (r *StoryRepository) Create(ctx context.Context, story model.Story) (model.Story, error) {
	query := `
		INSERT INTO stories (id, user_id, title, content, choices, age_group, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	if story.ID == uuid.Nil {
		story.ID = uuid.New()
	}

	choicesJSON, err := json.Marshal(story.Choices)
	if err != nil {
		return model.Story{}, fmt.Errorf("ошибка маршалинга choices: %w", err)
	}

	row := r.pool.QueryRow(ctx, query,
		story.ID,
		story.UserID,
		story.Title,
		story.Content,
		choicesJSON,
		story.AgeGroup,
		story.ImageURL,
		story.CreatedAt,
	)

	if err := row.Scan(&story.CreatedAt); err != nil {
		return model.Story{}, fmt.Errorf("ошибка сохранения сказки: %w", err)
	}

	return story, nil
}

// ListByUser возвращает все сказки пользователя, отсортированные по
// created_at по убыванию (новые первыми).
func (r *StoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Story, error) {
	query := `
		SELECT id, user_id, title, content, choices, age_group, image_url, created_at
		FROM stories
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var rows []storyRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("ошибка получения списка сказок: %w", err)
	}

	stories := make([]model.Story, 0, len(rows))
	for _, row := range rows {
		story, err := row.toModel()
		if err != nil {
			return nil, err
		}
		stories = append(stories, story)
	}

	return stories, nil
}

// GetByID возвращает одну сказку пользователя.
func (r *StoryRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (model.Story, error) {
	query := `
		SELECT id, user_id, title, content, choices, age_group, image_url, created_at
		FROM stories
		WHERE id = $1 AND user_id = $2
	`

	row := r.pool.QueryRow(ctx, query, id, userID)

	var sr storyRow
	err := row.Scan(
		&sr.ID,
		&sr.UserID,
		&sr.Title,
		&sr.Content,
		&sr.Choices,
		&sr.AgeGroup,
		&sr.ImageURL,
		&sr.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Story{}, ErrStoryNotFound
		}
		return model.Story{}, fmt.Errorf("ошибка получения сказки: %w", err)
	}

	return sr.toModel()
}

// Delete удаляет сказку, только если совпали и ID, и владелец.
// Возвращает true, если запись действительно была удалена.
func (r *StoryRepository) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	query := `DELETE FROM stories WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("ошибка удаления сказки: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
