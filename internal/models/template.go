package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Template struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Tags            []string        `json:"tags"`
	PreviewImageURL *string         `json:"preview_image_url,omitempty"`
	IsPremium       bool            `json:"is_premium"`
	Language        string          `json:"language"`
	Country         *string         `json:"country,omitempty"`
	IsUniversal     bool            `json:"is_universal"`
	DownloadsCount  int             `json:"downloads_count"`
	DesignData      json.RawMessage `json:"design_data,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
