package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkoval/greetly-api/internal/middleware"
	"github.com/dkoval/greetly-api/internal/models"
	"github.com/dkoval/greetly-api/internal/services"
	"github.com/dkoval/greetly-api/pkg/dto"
	"github.com/dkoval/greetly-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAITest(t *testing.T) (*testutil.MockAIService, *AIHandler, *services.JWTService) {
	t.Helper()
	mockAIService := new(testutil.MockAIService)
	handler := NewAIHandler(mockAIService)
	jwtSvc := services.NewJWTService("test-secret-key", 15*time.Minute, 24*time.Hour)
	return mockAIService, handler, jwtSvc
}

func TestAIHandler_GenerateGreeting_Success(t *testing.T) {
	mockAIService, handler, jwtSvc := setupAITest(t)

	userID := uuid.New()
	params := services.GreetingParams{Occasion: "birthday", Recipient: "mom", Tone: "warm", Language: "en"}

	mockAIService.On("GenerateGreeting", mock.Anything, userID, params).Return("Happy birthday, Mom!", nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/ai/greeting", handler.GenerateGreeting)

	jsonBody, _ := json.Marshal(dto.GenerateGreetingRequest{Occasion: "birthday", Recipient: "mom", Tone: "warm", Language: "en"})

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/ai/greeting", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.GreetingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Happy birthday, Mom!", response.Text)
}

func TestAIHandler_GenerateGreeting_QuotaExceeded(t *testing.T) {
	mockAIService, handler, jwtSvc := setupAITest(t)

	userID := uuid.New()
	mockAIService.On("GenerateGreeting", mock.Anything, userID, mock.Anything).Return("", services.ErrQuotaExceeded)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/ai/greeting", handler.GenerateGreeting)

	jsonBody, _ := json.Marshal(dto.GenerateGreetingRequest{Occasion: "birthday"})

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/ai/greeting", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "quota exceeded")
}

func TestAIHandler_GenerateGreeting_MissingOccasion(t *testing.T) {
	_, handler, jwtSvc := setupAITest(t)

	userID := uuid.New()

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/ai/greeting", handler.GenerateGreeting)

	jsonBody, _ := json.Marshal(dto.GenerateGreetingRequest{})

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/ai/greeting", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "occasion is required")
}

func TestAIHandler_SuggestDesign_Success(t *testing.T) {
	mockAIService, handler, jwtSvc := setupAITest(t)

	userID := uuid.New()
	suggestions := &services.DesignSuggestions{
		ColorScheme:     []string{"#ff6b6b", "#ffe66d"},
		FontSuggestions: []string{"Pacifico"},
		LayoutTips:      []string{"Keep the headline centered"},
	}

	mockAIService.On("SuggestDesign", mock.Anything, userID, services.DesignParams{Occasion: "wedding"}).Return(suggestions, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/ai/design", handler.SuggestDesign)

	jsonBody, _ := json.Marshal(dto.SuggestDesignRequest{Occasion: "wedding"})

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/ai/design", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pacifico")
}

func TestAIHandler_Usage(t *testing.T) {
	mockAIService, handler, jwtSvc := setupAITest(t)

	userID := uuid.New()
	stats := &models.AIUsageStats{Used: 2, Quota: 3, Remaining: 1, Tier: models.TierFree}

	mockAIService.On("UsageStats", mock.Anything, userID).Return(stats, nil)

	app := drift.New()
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/ai/usage", handler.Usage)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodGet, "/ai/usage", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response models.AIUsageStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Remaining)
}
