package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkoval/greetly-api/internal/document"
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

func generateTestToken(t *testing.T, jwtSvc *services.JWTService, userID uuid.UUID, email string) string {
	t.Helper()
	pair, err := jwtSvc.GenerateTokenPair(userID, email)
	require.NoError(t, err)
	return pair.AccessToken
}

func setupCardTest(t *testing.T) (*testutil.MockCardService, *CardHandler, *services.JWTService) {
	t.Helper()
	mockCardService := new(testutil.MockCardService)
	handler := NewCardHandler(mockCardService, "https://greetly.example.com")
	jwtSvc := services.NewJWTService("test-secret-key", 15*time.Minute, 24*time.Hour)
	return mockCardService, handler, jwtSvc
}

func TestCardHandler_Create_Success(t *testing.T) {
	mockCardService, handler, jwtSvc := setupCardTest(t)

	userID := uuid.New()
	design := json.RawMessage(`{"version":"1.0","objects":[]}`)
	card := &models.Card{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      "Birthday Card",
		DesignData: design,
		ShareToken: "aB3xK9mQ",
	}

	mockCardService.On("Create", mock.Anything, userID, "Birthday Card", mock.Anything, false, (*uuid.UUID)(nil)).Return(card, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/cards", handler.Create)

	body := dto.CreateCardRequest{Title: "Birthday Card", DesignData: design}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/cards", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response models.Card
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, card.ID, response.ID)
	assert.Equal(t, "aB3xK9mQ", response.ShareToken)

	mockCardService.AssertExpectations(t)
}

func TestCardHandler_Create_MissingTitle(t *testing.T) {
	_, handler, jwtSvc := setupCardTest(t)

	userID := uuid.New()

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/cards", handler.Create)

	jsonBody, _ := json.Marshal(dto.CreateCardRequest{})

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/cards", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")
}

func TestCardHandler_Create_InvalidDesign(t *testing.T) {
	mockCardService, handler, jwtSvc := setupCardTest(t)

	userID := uuid.New()
	design := json.RawMessage(`{"version":"2.0","objects":[]}`)

	mockCardService.On("Create", mock.Anything, userID, "Card", mock.Anything, false, (*uuid.UUID)(nil)).
		Return(nil, &document.UnsupportedVersionError{Version: "2.0"})

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/cards", handler.Create)

	jsonBody, _ := json.Marshal(dto.CreateCardRequest{Title: "Card", DesignData: design})

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/cards", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported document version")
}

func TestCardHandler_Create_Unauthenticated(t *testing.T) {
	_, handler, jwtSvc := setupCardTest(t)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/cards", handler.Create)

	jsonBody, _ := json.Marshal(dto.CreateCardRequest{Title: "Card"})
	req := httptest.NewRequest(http.MethodPost, "/cards", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCardHandler_Get_PublicWithoutAuth(t *testing.T) {
	mockCardService, handler, jwtSvc := setupCardTest(t)

	cardID := uuid.New()
	card := &models.Card{ID: cardID, Title: "Public Card", IsPublic: true}

	mockCardService.On("GetByID", mock.Anything, cardID, (*uuid.UUID)(nil)).Return(card, nil)

	app := drift.New()
	app.Use(middleware.OptionalAuth(jwtSvc))
	app.Get("/cards/:cardId", handler.Get)

	req := httptest.NewRequest(http.MethodGet, "/cards/"+cardID.String(), nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockCardService.AssertExpectations(t)
}

func TestCardHandler_Get_PrivateForbidden(t *testing.T) {
	mockCardService, handler, jwtSvc := setupCardTest(t)

	cardID := uuid.New()
	strangerID := uuid.New()

	mockCardService.On("GetByID", mock.Anything, cardID, &strangerID).Return(nil, services.ErrCardForbidden)

	app := drift.New()
	app.Use(middleware.OptionalAuth(jwtSvc))
	app.Get("/cards/:cardId", handler.Get)

	token := generateTestToken(t, jwtSvc, strangerID, "stranger@example.com")
	req := httptest.NewRequest(http.MethodGet, "/cards/"+cardID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCardHandler_Get_NotFound(t *testing.T) {
	mockCardService, handler, jwtSvc := setupCardTest(t)

	cardID := uuid.New()
	mockCardService.On("GetByID", mock.Anything, cardID, (*uuid.UUID)(nil)).Return(nil, services.ErrCardNotFound)

	app := drift.New()
	app.Use(middleware.OptionalAuth(jwtSvc))
	app.Get("/cards/:cardId", handler.Get)

	req := httptest.NewRequest(http.MethodGet, "/cards/"+cardID.String(), nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCardHandler_Get_InvalidID(t *testing.T) {
	_, handler, jwtSvc := setupCardTest(t)

	app := drift.New()
	app.Use(middleware.OptionalAuth(jwtSvc))
	app.Get("/cards/:cardId", handler.Get)

	req := httptest.NewRequest(http.MethodGet, "/cards/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCardHandler_Update_NotOwner(t *testing.T) {
	mockCardService, handler, jwtSvc := setupCardTest(t)

	cardID := uuid.New()
	strangerID := uuid.New()
	title := "New Title"

	mockCardService.On("Update", mock.Anything, cardID, strangerID, &title, mock.Anything, (*bool)(nil)).
		Return(nil, services.ErrCardForbidden)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Patch("/cards/:cardId", handler.Update)

	jsonBody, _ := json.Marshal(dto.UpdateCardRequest{Title: &title})

	token := generateTestToken(t, jwtSvc, strangerID, "stranger@example.com")
	req := httptest.NewRequest(http.MethodPatch, "/cards/"+cardID.String(), bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCardHandler_Delete_Success(t *testing.T) {
	mockCardService, handler, jwtSvc := setupCardTest(t)

	cardID := uuid.New()
	userID := uuid.New()

	mockCardService.On("Delete", mock.Anything, cardID, userID).Return(nil)

	app := drift.New()
	app.Use(middleware.Auth(jwtSvc))
	app.Delete("/cards/:cardId", handler.Delete)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodDelete, "/cards/"+cardID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockCardService.AssertExpectations(t)
}

func TestCardHandler_Share_ReturnsLink(t *testing.T) {
	mockCardService, handler, jwtSvc := setupCardTest(t)

	cardID := uuid.New()
	userID := uuid.New()
	card := &models.Card{ID: cardID, UserID: userID, ShareToken: "Zx9aB3kQ", IsPublic: true}

	public := true
	mockCardService.On("Update", mock.Anything, cardID, userID, (*string)(nil), mock.Anything, &public).Return(card, nil)

	app := drift.New()
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/cards/:cardId/share", handler.Share)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/cards/"+cardID.String()+"/share", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.ShareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Zx9aB3kQ", response.ShareToken)
	assert.Equal(t, "https://greetly.example.com/shared/Zx9aB3kQ", response.ShareURL)
}

func TestCardHandler_GetShared_Success(t *testing.T) {
	mockCardService, handler, _ := setupCardTest(t)

	card := &models.Card{ID: uuid.New(), Title: "Shared Card", ShareToken: "Zx9aB3kQ", IsPublic: true, ViewCount: 5}
	mockCardService.On("GetByShareToken", mock.Anything, "Zx9aB3kQ").Return(card, nil)

	app := drift.New()
	app.Get("/shared/:token", handler.GetShared)

	req := httptest.NewRequest(http.MethodGet, "/shared/Zx9aB3kQ", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response models.Card
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 5, response.ViewCount)
}

func TestCardHandler_GetShared_PrivateLooksMissing(t *testing.T) {
	mockCardService, handler, _ := setupCardTest(t)

	mockCardService.On("GetByShareToken", mock.Anything, "hidden00").Return(nil, services.ErrCardNotFound)

	app := drift.New()
	app.Get("/shared/:token", handler.GetShared)

	req := httptest.NewRequest(http.MethodGet, "/shared/hidden00", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "card not found")
}

func TestCardHandler_List_Paginates(t *testing.T) {
	mockCardService, handler, jwtSvc := setupCardTest(t)

	userID := uuid.New()
	summaries := []models.CardSummary{
		{ID: uuid.New(), Title: "One"},
		{ID: uuid.New(), Title: "Two"},
	}

	mockCardService.On("ListByOwner", mock.Anything, userID, 2, 10).Return(summaries, 12, nil)

	app := drift.New()
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/cards", handler.List)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodGet, "/cards?page=2&page_size=10", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.CardListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Len(t, response.Cards, 2)
	assert.Equal(t, 12, response.Total)
}
