package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Card struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	TemplateID *uuid.UUID      `json:"template_id,omitempty"`
	Title      string          `json:"title"`
	DesignData json.RawMessage `json:"design_data"`
	ShareToken string          `json:"share_token"`
	IsPublic   bool            `json:"is_public"`
	ViewCount  int             `json:"view_count"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CardSummary is the listing shape: everything but the design payload.
type CardSummary struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	ShareToken string    `json:"share_token"`
	IsPublic   bool      `json:"is_public"`
	ViewCount  int       `json:"view_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
