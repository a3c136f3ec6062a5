package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dkoval/greetly-api/internal/database"
	"github.com/dkoval/greetly-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrAlreadyFavorited = errors.New("template already favorited")
)

const (
	recommendLimit = 20
	searchLimit    = 30
)

const templateListColumns = `id, name, category, tags, preview_image_url, is_premium, language, country, is_universal, downloads_count, created_at, updated_at`

// ListFilter narrows List results. Nil fields impose no constraint; the
// filter is a pure conjunction.
type ListFilter struct {
	Category *string
	Premium  *bool
	Language *string
}

type TemplateService struct {
	db *database.DB
}

func NewTemplateService(db *database.DB) *TemplateService {
	return &TemplateService{db: db}
}

// List returns a page of templates ordered by popularity, plus the total
// count under the same filter.
func (s *TemplateService) List(ctx context.Context, filter ListFilter, page, pageSize int) ([]models.Template, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var total int
	err := s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM templates
		WHERE ($1::varchar IS NULL OR category = $1)
		AND ($2::boolean IS NULL OR is_premium = $2)
		AND ($3::varchar IS NULL OR language = $3)
	`, filter.Category, filter.Premium, filter.Language).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+templateListColumns+` FROM templates
		WHERE ($1::varchar IS NULL OR category = $1)
		AND ($2::boolean IS NULL OR is_premium = $2)
		AND ($3::varchar IS NULL OR language = $3)
		ORDER BY downloads_count DESC
		LIMIT $4 OFFSET $5
	`, filter.Category, filter.Premium, filter.Language, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	templates, err := scanTemplates(rows)
	if err != nil {
		return nil, 0, err
	}
	return templates, total, nil
}

// Recommend returns templates matching the visitor's country plus universal
// ones, country matches ranked first, ties broken by popularity.
func (s *TemplateService) Recommend(ctx context.Context, countryCode string) ([]models.Template, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+templateListColumns+` FROM templates
		WHERE country = $1 OR is_universal = TRUE
		ORDER BY (country IS NOT DISTINCT FROM $1) DESC, downloads_count DESC
		LIMIT $2
	`, countryCode, recommendLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTemplates(rows)
}

// Search matches the query against template names (case-insensitive
// substring) and exact tag membership.
func (s *TemplateService) Search(ctx context.Context, query string, category *string) ([]models.Template, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+templateListColumns+` FROM templates
		WHERE (name ILIKE '%' || $1 || '%' OR $1 = ANY(tags))
		AND ($2::varchar IS NULL OR category = $2)
		ORDER BY downloads_count DESC
		LIMIT $3
	`, query, category, searchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTemplates(rows)
}

func (s *TemplateService) GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	var t models.Template
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+templateListColumns+`, design_data FROM templates WHERE id = $1
	`, id).Scan(
		&t.ID, &t.Name, &t.Category, &t.Tags, &t.PreviewImageURL, &t.IsPremium,
		&t.Language, &t.Country, &t.IsUniversal, &t.DownloadsCount,
		&t.CreatedAt, &t.UpdatedAt, &t.DesignData,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Create inserts a template. Only the seeding tool writes templates; the API
// treats them as read-only.
func (s *TemplateService) Create(ctx context.Context, t *models.Template) (*models.Template, error) {
	designData := t.DesignData
	if designData == nil {
		designData = json.RawMessage(`{"version":"1.0","objects":[]}`)
	}

	var created models.Template
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO templates (name, category, tags, preview_image_url, is_premium, language, country, is_universal, design_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+templateListColumns+`, design_data
	`, t.Name, t.Category, t.Tags, t.PreviewImageURL, t.IsPremium, t.Language, t.Country, t.IsUniversal, designData).Scan(
		&created.ID, &created.Name, &created.Category, &created.Tags, &created.PreviewImageURL,
		&created.IsPremium, &created.Language, &created.Country, &created.IsUniversal,
		&created.DownloadsCount, &created.CreatedAt, &created.UpdatedAt, &created.DesignData,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// IncrementDownloads bumps the popularity counter. Called when a card is
// created from the template.
func (s *TemplateService) IncrementDownloads(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Pool.Exec(ctx, `
		UPDATE templates SET downloads_count = downloads_count + 1 WHERE id = $1
	`, id)
	return err
}

func (s *TemplateService) Categories(ctx context.Context) ([]models.CategoryCount, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT category, COUNT(*) FROM templates GROUP BY category ORDER BY category
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.CategoryCount
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *TemplateService) Favorite(ctx context.Context, userID, templateID uuid.UUID) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO template_favorites (user_id, template_id) VALUES ($1, $2)
	`, userID, templateID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrAlreadyFavorited
			case "23503":
				return ErrTemplateNotFound
			}
		}
		return err
	}
	return nil
}

func (s *TemplateService) Unfavorite(ctx context.Context, userID, templateID uuid.UUID) error {
	_, err := s.db.Pool.Exec(ctx, `
		DELETE FROM template_favorites WHERE user_id = $1 AND template_id = $2
	`, userID, templateID)
	return err
}

func (s *TemplateService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Template, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT t.id, t.name, t.category, t.tags, t.preview_image_url, t.is_premium, t.language, t.country, t.is_universal, t.downloads_count, t.created_at, t.updated_at
		FROM template_favorites f
		JOIN templates t ON t.id = f.template_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTemplates(rows)
}

func scanTemplates(rows pgx.Rows) ([]models.Template, error) {
	var templates []models.Template
	for rows.Next() {
		var t models.Template
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Category, &t.Tags, &t.PreviewImageURL, &t.IsPremium,
			&t.Language, &t.Country, &t.IsUniversal, &t.DownloadsCount,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}
