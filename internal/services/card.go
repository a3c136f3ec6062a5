package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkoval/greetly-api/internal/database"
	"github.com/dkoval/greetly-api/internal/document"
	"github.com/dkoval/greetly-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrCardNotFound     = errors.New("card not found")
	ErrCardForbidden    = errors.New("not the card owner")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)

const (
	shareTokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	shareTokenLength   = 8

	// Collisions on an 8-char 62-symbol token are vanishingly rare; the cap
	// exists so a broken store cannot spin the loop forever.
	maxTokenAttempts = 10
)

const cardColumns = `id, user_id, template_id, title, design_data, share_token, is_public, view_count, created_at, updated_at`

type CardService struct {
	db *database.DB
}

func NewCardService(db *database.DB) *CardService {
	return &CardService{db: db}
}

// Create persists a new card for ownerID. The design payload is validated
// before anything is written; nil means an empty document. Token assignment
// is a draw-insert-redraw loop: the insert relies on the unique constraint on
// share_token, so two concurrent creates can never both win the same token.
func (s *CardService) Create(ctx context.Context, ownerID uuid.UUID, title string, designData json.RawMessage, isPublic bool, templateID *uuid.UUID) (*models.Card, error) {
	if designData == nil {
		empty := document.NewDocument()
		raw, err := empty.Encode()
		if err != nil {
			return nil, err
		}
		designData = raw
	} else if _, err := document.Decode(designData); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := generateShareToken()
		if err != nil {
			return nil, fmt.Errorf("failed to generate share token: %w", err)
		}

		var card models.Card
		err = s.db.Pool.QueryRow(ctx, `
			INSERT INTO cards (user_id, template_id, title, design_data, share_token, is_public)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+cardColumns+`
		`, ownerID, templateID, title, designData, token, isPublic).Scan(
			&card.ID, &card.UserID, &card.TemplateID, &card.Title, &card.DesignData,
			&card.ShareToken, &card.IsPublic, &card.ViewCount, &card.CreatedAt, &card.UpdatedAt,
		)
		if err == nil {
			return &card, nil
		}
		if isShareTokenCollision(err) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("failed to allocate share token after %d attempts", maxTokenAttempts)
}

// GetByID returns a card. Private cards are only visible to their owner; an
// absent requester is never treated as the owner.
func (s *CardService) GetByID(ctx context.Context, cardID uuid.UUID, requesterID *uuid.UUID) (*models.Card, error) {
	card, err := s.getByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !card.IsPublic && (requesterID == nil || *requesterID != card.UserID) {
		return nil, ErrCardForbidden
	}
	return card, nil
}

// GetByShareToken resolves a public card by its share token and bumps the
// view counter. A private card is indistinguishable from a missing one so
// the share path never leaks existence.
func (s *CardService) GetByShareToken(ctx context.Context, token string) (*models.Card, error) {
	var card models.Card
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE cards SET view_count = view_count + 1
		WHERE share_token = $1 AND is_public = TRUE
		RETURNING `+cardColumns+`
	`, token).Scan(
		&card.ID, &card.UserID, &card.TemplateID, &card.Title, &card.DesignData,
		&card.ShareToken, &card.IsPublic, &card.ViewCount, &card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

// Update replaces the supplied fields wholesale; nil fields are left
// untouched. Last write wins: there is no version precondition.
func (s *CardService) Update(ctx context.Context, cardID, requesterID uuid.UUID, title *string, designData json.RawMessage, isPublic *bool) (*models.Card, error) {
	if title == nil && designData == nil && isPublic == nil {
		return nil, ErrNoFieldsToUpdate
	}
	if designData != nil {
		if _, err := document.Decode(designData); err != nil {
			return nil, err
		}
	}

	existing, err := s.getByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != requesterID {
		return nil, ErrCardForbidden
	}

	var card models.Card
	err = s.db.Pool.QueryRow(ctx, `
		UPDATE cards SET
			title = COALESCE($1, title),
			design_data = COALESCE($2, design_data),
			is_public = COALESCE($3, is_public),
			updated_at = NOW()
		WHERE id = $4
		RETURNING `+cardColumns+`
	`, title, designData, isPublic, cardID).Scan(
		&card.ID, &card.UserID, &card.TemplateID, &card.Title, &card.DesignData,
		&card.ShareToken, &card.IsPublic, &card.ViewCount, &card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

func (s *CardService) Delete(ctx context.Context, cardID, requesterID uuid.UUID) error {
	existing, err := s.getByID(ctx, cardID)
	if err != nil {
		return err
	}
	if existing.UserID != requesterID {
		return ErrCardForbidden
	}

	_, err = s.db.Pool.Exec(ctx, `DELETE FROM cards WHERE id = $1`, cardID)
	return err
}

// ListByOwner returns a page of the owner's cards, newest updates first,
// plus the total count.
func (s *CardService) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]models.CardSummary, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var total int
	if err := s.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM cards WHERE user_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, title, share_token, is_public, view_count, created_at, updated_at
		FROM cards WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`, ownerID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cards []models.CardSummary
	for rows.Next() {
		var c models.CardSummary
		if err := rows.Scan(&c.ID, &c.Title, &c.ShareToken, &c.IsPublic, &c.ViewCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		cards = append(cards, c)
	}
	return cards, total, nil
}

func (s *CardService) getByID(ctx context.Context, cardID uuid.UUID) (*models.Card, error) {
	var card models.Card
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+cardColumns+` FROM cards WHERE id = $1
	`, cardID).Scan(
		&card.ID, &card.UserID, &card.TemplateID, &card.Title, &card.DesignData,
		&card.ShareToken, &card.IsPublic, &card.ViewCount, &card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

func isShareTokenCollision(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "cards_share_token_key"
}

func generateShareToken() (string, error) {
	buf := make([]byte, shareTokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, shareTokenLength)
	for i, b := range buf {
		out[i] = shareTokenAlphabet[int(b)%len(shareTokenAlphabet)]
	}
	return string(out), nil
}
