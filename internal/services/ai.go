package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dkoval/greetly-api/internal/database"
	"github.com/dkoval/greetly-api/internal/models"
	"github.com/google/uuid"
)

var ErrQuotaExceeded = errors.New("monthly ai usage quota exceeded")

// Monthly AI call quotas per subscription tier.
var tierQuotas = map[string]int{
	models.TierFree:      3,
	models.TierMonthly:   50,
	models.TierQuarterly: 150,
	models.TierYearly:    500,
}

var languageNames = map[string]string{
	"en": "English",
	"zh": "Chinese",
	"fr": "French",
	"de": "German",
	"es": "Spanish",
	"ja": "Japanese",
}

// TextCompleter is the slice of the ai client the service needs.
type TextCompleter interface {
	Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, int, error)
}

type GreetingParams struct {
	Occasion  string
	Recipient string
	Tone      string
	Language  string
}

type DesignParams struct {
	Occasion string
	Style    string
	Colors   []string
}

type DesignSuggestions struct {
	ColorScheme     []string `json:"colorScheme"`
	FontSuggestions []string `json:"fontSuggestions"`
	LayoutTips      []string `json:"layoutTips"`
}

type AIService struct {
	db     *database.DB
	client TextCompleter
}

func NewAIService(db *database.DB, client TextCompleter) *AIService {
	return &AIService{db: db, client: client}
}

// GenerateGreeting produces a short greeting message for the card editor.
// Fails with ErrQuotaExceeded before calling the provider when the user is
// out of monthly quota.
func (s *AIService) GenerateGreeting(ctx context.Context, userID uuid.UUID, params GreetingParams) (string, error) {
	if err := s.checkQuota(ctx, userID); err != nil {
		return "", err
	}

	tone := params.Tone
	if tone == "" {
		tone = "warm"
	}
	language := languageName(params.Language)

	prompt := fmt.Sprintf(`Write a greeting card message in %s for the following:

Occasion: %s
Recipient: %s
Tone: %s

Requirements:
1. Sincere and heartfelt
2. Between 50 and 100 words
3. Appropriate for the occasion
4. Flowing and elegant language

Output only the greeting itself, with no commentary.`, language, params.Occasion, params.Recipient, tone)

	text, tokens, err := s.client.Complete(ctx,
		"You are a professional greeting card copywriter who crafts sincere, warm messages for every occasion.",
		prompt, 0.8, 300)
	if err != nil {
		return "", err
	}

	s.recordUsage(ctx, userID, models.AIUsageTextGeneration, tokens)
	return strings.TrimSpace(text), nil
}

// SuggestDesign asks the model for a color scheme, fonts, and layout tips as
// JSON. A response that fails to parse falls back to stock suggestions
// rather than erroring; the provider output is best-effort by nature.
func (s *AIService) SuggestDesign(ctx context.Context, userID uuid.UUID, params DesignParams) (*DesignSuggestions, error) {
	if err := s.checkQuota(ctx, userID); err != nil {
		return nil, err
	}

	style := params.Style
	if style == "" {
		style = "modern"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `As a greeting card design consultant, suggest a design for:

Occasion: %s
Style: %s
`, params.Occasion, style)
	if len(params.Colors) > 0 {
		fmt.Fprintf(&sb, "Current colors: %s\n", strings.Join(params.Colors, ", "))
	}
	sb.WriteString(`
Respond with JSON only, in this shape:
{
  "colorScheme": ["#FF6B6B", "#4ECDC4", "#45B7D1"],
  "fontSuggestions": ["Arial", "Georgia"],
  "layoutTips": ["center the headline", "leave generous margins", "keep contrast high"]
}`)

	text, tokens, err := s.client.Complete(ctx,
		"You are a professional greeting card design consultant specializing in color, typography, and layout.",
		sb.String(), 0.7, 500)
	if err != nil {
		return nil, err
	}

	s.recordUsage(ctx, userID, models.AIUsageDesignSuggestion, tokens)

	var suggestions DesignSuggestions
	if err := json.Unmarshal([]byte(extractJSON(text)), &suggestions); err != nil || len(suggestions.ColorScheme) == 0 {
		return defaultSuggestions(), nil
	}
	return &suggestions, nil
}

// ImproveText rewrites the user's draft while keeping its meaning and
// language.
func (s *AIService) ImproveText(ctx context.Context, userID uuid.UUID, text, language string) (string, error) {
	if err := s.checkQuota(ctx, userID); err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`Improve the following greeting card message. Keep the meaning and the %s language, make it warmer and more polished, and output only the improved text:

%s`, languageName(language), text)

	improved, tokens, err := s.client.Complete(ctx,
		"You are an editor who polishes greeting card messages without changing their intent.",
		prompt, 0.7, 300)
	if err != nil {
		return "", err
	}

	s.recordUsage(ctx, userID, models.AIUsageTextImprovement, tokens)
	return strings.TrimSpace(improved), nil
}

// UsageStats reports the current month's consumption against the user's
// quota.
func (s *AIService) UsageStats(ctx context.Context, userID uuid.UUID) (*models.AIUsageStats, error) {
	tier, err := s.userTier(ctx, userID)
	if err != nil {
		return nil, err
	}
	used, err := s.monthlyUsage(ctx, userID)
	if err != nil {
		return nil, err
	}

	quota := quotaFor(tier)
	remaining := quota - used
	if remaining < 0 {
		remaining = 0
	}
	return &models.AIUsageStats{Used: used, Quota: quota, Remaining: remaining, Tier: tier}, nil
}

// checkQuota is count-then-compare without locking: a concurrent burst from
// one user can slightly exceed the quota, which is acceptable here.
func (s *AIService) checkQuota(ctx context.Context, userID uuid.UUID) error {
	tier, err := s.userTier(ctx, userID)
	if err != nil {
		return err
	}
	used, err := s.monthlyUsage(ctx, userID)
	if err != nil {
		return err
	}
	if used >= quotaFor(tier) {
		return ErrQuotaExceeded
	}
	return nil
}

func (s *AIService) userTier(ctx context.Context, userID uuid.UUID) (string, error) {
	var tier string
	err := s.db.Pool.QueryRow(ctx, `SELECT subscription_tier FROM users WHERE id = $1`, userID).Scan(&tier)
	if err != nil {
		return "", err
	}
	return tier, nil
}

func (s *AIService) monthlyUsage(ctx context.Context, userID uuid.UUID) (int, error) {
	startOfMonth := monthStart(time.Now().UTC())
	var count int
	err := s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM ai_usage WHERE user_id = $1 AND created_at >= $2
	`, userID, startOfMonth).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// recordUsage is best-effort: a failed bookkeeping write must not fail a
// call the user already paid quota for.
func (s *AIService) recordUsage(ctx context.Context, userID uuid.UUID, kind string, tokens int) {
	_, _ = s.db.Pool.Exec(ctx, `
		INSERT INTO ai_usage (user_id, kind, tokens_used) VALUES ($1, $2, $3)
	`, userID, kind, tokens)
}

func quotaFor(tier string) int {
	if q, ok := tierQuotas[tier]; ok {
		return q
	}
	return tierQuotas[models.TierFree]
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return languageNames["en"]
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// extractJSON trims markdown code fences models often wrap JSON in.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func defaultSuggestions() *DesignSuggestions {
	return &DesignSuggestions{
		ColorScheme:     []string{"#FF6B6B", "#4ECDC4", "#45B7D1"},
		FontSuggestions: []string{"Arial", "Georgia"},
		LayoutTips:      []string{"center the headline", "leave generous margins", "keep contrast high"},
	}
}
