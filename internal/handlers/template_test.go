package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkoval/greetly-api/internal/middleware"
	"github.com/dkoval/greetly-api/internal/models"
	"github.com/dkoval/greetly-api/internal/services"
	"github.com/dkoval/greetly-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupTemplateTest(t *testing.T) (*testutil.MockTemplateService, *TemplateHandler, *services.JWTService) {
	t.Helper()
	mockTemplateService := new(testutil.MockTemplateService)
	handler := NewTemplateHandler(mockTemplateService)
	jwtSvc := services.NewJWTService("test-secret-key", 15*time.Minute, 24*time.Hour)
	return mockTemplateService, handler, jwtSvc
}

func TestTemplateHandler_List_PassesFilters(t *testing.T) {
	mockTemplateService, handler, _ := setupTemplateTest(t)

	category := "birthday"
	premium := false
	expectedFilter := services.ListFilter{Category: &category, Premium: &premium}

	mockTemplateService.On("List", mock.Anything, mock.MatchedBy(func(f services.ListFilter) bool {
		return f.Category != nil && *f.Category == *expectedFilter.Category &&
			f.Premium != nil && *f.Premium == *expectedFilter.Premium &&
			f.Language == nil
	}), 1, 20).Return([]models.Template{}, 0, nil)

	app := drift.New()
	app.Get("/templates", handler.List)

	req := httptest.NewRequest(http.MethodGet, "/templates?category=birthday&premium=false", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockTemplateService.AssertExpectations(t)
}

func TestTemplateHandler_Recommend_UsesDetectedCountry(t *testing.T) {
	mockTemplateService, handler, _ := setupTemplateTest(t)

	mockTemplateService.On("Recommend", mock.Anything, "CN").Return([]models.Template{
		{ID: uuid.New(), Name: "Lunar New Year"},
	}, nil)

	app := drift.New()
	app.Use(middleware.Geo())
	app.Get("/templates/recommend", handler.Recommend)

	req := httptest.NewRequest(http.MethodGet, "/templates/recommend", nil)
	req.Header.Set("CF-IPCountry", "CN")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Lunar New Year")
	mockTemplateService.AssertExpectations(t)
}

func TestTemplateHandler_Search_RequiresQuery(t *testing.T) {
	_, handler, _ := setupTemplateTest(t)

	app := drift.New()
	app.Get("/templates/search", handler.Search)

	req := httptest.NewRequest(http.MethodGet, "/templates/search", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "q is required")
}

func TestTemplateHandler_Get_NotFound(t *testing.T) {
	mockTemplateService, handler, _ := setupTemplateTest(t)

	templateID := uuid.New()
	mockTemplateService.On("GetByID", mock.Anything, templateID).Return(nil, services.ErrTemplateNotFound)

	app := drift.New()
	app.Get("/templates/:templateId", handler.Get)

	req := httptest.NewRequest(http.MethodGet, "/templates/"+templateID.String(), nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTemplateHandler_Favorite_Duplicate(t *testing.T) {
	mockTemplateService, handler, jwtSvc := setupTemplateTest(t)

	userID := uuid.New()
	templateID := uuid.New()

	mockTemplateService.On("Favorite", mock.Anything, userID, templateID).Return(services.ErrAlreadyFavorited)

	app := drift.New()
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/templates/:templateId/favorite", handler.Favorite)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/templates/"+templateID.String()+"/favorite", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already in favorites")
}

func TestTemplateHandler_Favorite_RequiresAuth(t *testing.T) {
	_, handler, jwtSvc := setupTemplateTest(t)

	app := drift.New()
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/templates/:templateId/favorite", handler.Favorite)

	req := httptest.NewRequest(http.MethodPost, "/templates/"+uuid.NewString()+"/favorite", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTemplateHandler_Use_RecordsDownload(t *testing.T) {
	mockTemplateService, handler, _ := setupTemplateTest(t)

	templateID := uuid.New()
	mockTemplateService.On("IncrementDownloads", mock.Anything, templateID).Return(nil)

	app := drift.New()
	app.Post("/templates/:templateId/use", handler.Use)

	req := httptest.NewRequest(http.MethodPost, "/templates/"+templateID.String()+"/use", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockTemplateService.AssertExpectations(t)
}

func TestTemplateHandler_Categories(t *testing.T) {
	mockTemplateService, handler, _ := setupTemplateTest(t)

	mockTemplateService.On("Categories", mock.Anything).Return([]models.CategoryCount{
		{Name: "birthday", Count: 12},
		{Name: "wedding", Count: 4},
	}, nil)

	app := drift.New()
	app.Get("/templates/categories", handler.Categories)

	req := httptest.NewRequest(http.MethodGet, "/templates/categories", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "birthday")
}
