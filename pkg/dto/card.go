package dto

import (
	"encoding/json"

	"github.com/dkoval/greetly-api/internal/models"
	"github.com/google/uuid"
)

type CreateCardRequest struct {
	Title      string          `json:"title"`
	DesignData json.RawMessage `json:"design_data,omitempty"`
	IsPublic   bool            `json:"is_public"`
	TemplateID *uuid.UUID      `json:"template_id,omitempty"`
}

type UpdateCardRequest struct {
	Title      *string         `json:"title,omitempty"`
	DesignData json.RawMessage `json:"design_data,omitempty"`
	IsPublic   *bool           `json:"is_public,omitempty"`
}

type ShareResponse struct {
	ShareToken string `json:"share_token"`
	ShareURL   string `json:"share_url"`
}

type CardListResponse struct {
	Cards []models.CardSummary `json:"cards"`
	Total int                  `json:"total"`
}
