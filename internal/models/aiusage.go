package models

import (
	"time"

	"github.com/google/uuid"
)

// AI usage kinds recorded per successful call.
const (
	AIUsageTextGeneration   = "text_generation"
	AIUsageDesignSuggestion = "design_suggestion"
	AIUsageTextImprovement  = "text_improvement"
)

type AIUsage struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Kind       string    `json:"kind"`
	TokensUsed int       `json:"tokens_used"`
	CreatedAt  time.Time `json:"created_at"`
}

// AIUsageStats summarizes the current month for the quota endpoint.
type AIUsageStats struct {
	Used      int    `json:"used"`
	Quota     int    `json:"quota"`
	Remaining int    `json:"remaining"`
	Tier      string `json:"tier"`
}
