package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription tiers, in ascending order of AI quota.
const (
	TierFree      = "free"
	TierMonthly   = "monthly"
	TierQuarterly = "quarterly"
	TierYearly    = "yearly"
)

type User struct {
	ID                    uuid.UUID  `json:"id"`
	Email                 string     `json:"email"`
	PasswordHash          string     `json:"-"`
	DisplayName           string     `json:"display_name"`
	AvatarURL             *string    `json:"avatar_url,omitempty"`
	Language              string     `json:"language"`
	Country               string     `json:"country"`
	SubscriptionTier      string     `json:"subscription_tier"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}
