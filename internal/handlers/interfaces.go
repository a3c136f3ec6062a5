package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkoval/greetly-api/internal/models"
	"github.com/dkoval/greetly-api/internal/services"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	Register(ctx context.Context, email, password, displayName, language, country string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, displayName, language, country, avatarURL *string) (*models.User, error)
}

// CardServiceInterface defines the methods used by handlers from CardService
type CardServiceInterface interface {
	Create(ctx context.Context, ownerID uuid.UUID, title string, designData json.RawMessage, isPublic bool, templateID *uuid.UUID) (*models.Card, error)
	GetByID(ctx context.Context, cardID uuid.UUID, requesterID *uuid.UUID) (*models.Card, error)
	GetByShareToken(ctx context.Context, token string) (*models.Card, error)
	Update(ctx context.Context, cardID, requesterID uuid.UUID, title *string, designData json.RawMessage, isPublic *bool) (*models.Card, error)
	Delete(ctx context.Context, cardID, requesterID uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]models.CardSummary, int, error)
}

// TemplateServiceInterface defines the methods used by handlers from TemplateService
type TemplateServiceInterface interface {
	List(ctx context.Context, filter services.ListFilter, page, pageSize int) ([]models.Template, int, error)
	Recommend(ctx context.Context, countryCode string) ([]models.Template, error)
	Search(ctx context.Context, query string, category *string) ([]models.Template, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
	IncrementDownloads(ctx context.Context, id uuid.UUID) error
	Categories(ctx context.Context) ([]models.CategoryCount, error)
	Favorite(ctx context.Context, userID, templateID uuid.UUID) error
	Unfavorite(ctx context.Context, userID, templateID uuid.UUID) error
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Template, error)
}

// AIServiceInterface defines the methods used by handlers from AIService
type AIServiceInterface interface {
	GenerateGreeting(ctx context.Context, userID uuid.UUID, params services.GreetingParams) (string, error)
	SuggestDesign(ctx context.Context, userID uuid.UUID, params services.DesignParams) (*services.DesignSuggestions, error)
	ImproveText(ctx context.Context, userID uuid.UUID, text, language string) (string, error)
	UsageStats(ctx context.Context, userID uuid.UUID) (*models.AIUsageStats, error)
}

// SubscriptionServiceInterface defines the methods used by handlers from SubscriptionService
type SubscriptionServiceInterface interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, planID, method string) (*services.OrderInfo, error)
	ConfirmPayPal(ctx context.Context, userID uuid.UUID, orderID string) (*models.Subscription, error)
	Cancel(ctx context.Context, userID uuid.UUID) error
	Current(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, email string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}
