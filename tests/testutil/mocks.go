package testutil

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkoval/greetly-api/internal/models"
	"github.com/dkoval/greetly-api/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, email, password, displayName, language, country string) (*models.User, error) {
	args := m.Called(ctx, email, password, displayName, language, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id uuid.UUID, displayName, language, country, avatarURL *string) (*models.User, error) {
	args := m.Called(ctx, id, displayName, language, country, avatarURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockCardService mocks the CardService
type MockCardService struct {
	mock.Mock
}

func (m *MockCardService) Create(ctx context.Context, ownerID uuid.UUID, title string, designData json.RawMessage, isPublic bool, templateID *uuid.UUID) (*models.Card, error) {
	args := m.Called(ctx, ownerID, title, designData, isPublic, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardService) GetByID(ctx context.Context, cardID uuid.UUID, requesterID *uuid.UUID) (*models.Card, error) {
	args := m.Called(ctx, cardID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardService) GetByShareToken(ctx context.Context, token string) (*models.Card, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardService) Update(ctx context.Context, cardID, requesterID uuid.UUID, title *string, designData json.RawMessage, isPublic *bool) (*models.Card, error) {
	args := m.Called(ctx, cardID, requesterID, title, designData, isPublic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardService) Delete(ctx context.Context, cardID, requesterID uuid.UUID) error {
	args := m.Called(ctx, cardID, requesterID)
	return args.Error(0)
}

func (m *MockCardService) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]models.CardSummary, int, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.CardSummary), args.Int(1), args.Error(2)
}

// MockTemplateService mocks the TemplateService
type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) List(ctx context.Context, filter services.ListFilter, page, pageSize int) ([]models.Template, int, error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Template), args.Int(1), args.Error(2)
}

func (m *MockTemplateService) Recommend(ctx context.Context, countryCode string) ([]models.Template, error) {
	args := m.Called(ctx, countryCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Template), args.Error(1)
}

func (m *MockTemplateService) Search(ctx context.Context, query string, category *string) ([]models.Template, error) {
	args := m.Called(ctx, query, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Template), args.Error(1)
}

func (m *MockTemplateService) GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Template), args.Error(1)
}

func (m *MockTemplateService) IncrementDownloads(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTemplateService) Categories(ctx context.Context) ([]models.CategoryCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CategoryCount), args.Error(1)
}

func (m *MockTemplateService) Favorite(ctx context.Context, userID, templateID uuid.UUID) error {
	args := m.Called(ctx, userID, templateID)
	return args.Error(0)
}

func (m *MockTemplateService) Unfavorite(ctx context.Context, userID, templateID uuid.UUID) error {
	args := m.Called(ctx, userID, templateID)
	return args.Error(0)
}

func (m *MockTemplateService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Template, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Template), args.Error(1)
}

// MockAIService mocks the AIService
type MockAIService struct {
	mock.Mock
}

func (m *MockAIService) GenerateGreeting(ctx context.Context, userID uuid.UUID, params services.GreetingParams) (string, error) {
	args := m.Called(ctx, userID, params)
	return args.String(0), args.Error(1)
}

func (m *MockAIService) SuggestDesign(ctx context.Context, userID uuid.UUID, params services.DesignParams) (*services.DesignSuggestions, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DesignSuggestions), args.Error(1)
}

func (m *MockAIService) ImproveText(ctx context.Context, userID uuid.UUID, text, language string) (string, error) {
	args := m.Called(ctx, userID, text, language)
	return args.String(0), args.Error(1)
}

func (m *MockAIService) UsageStats(ctx context.Context, userID uuid.UUID) (*models.AIUsageStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AIUsageStats), args.Error(1)
}

// MockSubscriptionService mocks the SubscriptionService
type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) CreateOrder(ctx context.Context, userID uuid.UUID, planID, method string) (*services.OrderInfo, error) {
	args := m.Called(ctx, userID, planID, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.OrderInfo), args.Error(1)
}

func (m *MockSubscriptionService) ConfirmPayPal(ctx context.Context, userID uuid.UUID, orderID string) (*models.Subscription, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) Cancel(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockSubscriptionService) Current(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

// MockTokenService mocks the TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockTokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockTokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
