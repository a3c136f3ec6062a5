package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/dkoval/greetly-api/internal/document"
	"github.com/dkoval/greetly-api/internal/middleware"
	"github.com/dkoval/greetly-api/internal/services"
	"github.com/dkoval/greetly-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type CardHandler struct {
	cardService CardServiceInterface
	baseURL     string
}

func NewCardHandler(cardService CardServiceInterface, baseURL string) *CardHandler {
	return &CardHandler{cardService: cardService, baseURL: baseURL}
}

func (h *CardHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateCardRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Title == "" {
		c.BadRequest("title is required")
		return
	}

	card, err := h.cardService.Create(context.Background(), userID, req.Title, req.DesignData, req.IsPublic, req.TemplateID)
	if err != nil {
		if designError(c, err) {
			return
		}
		c.InternalServerError("failed to create card")
		return
	}

	_ = c.JSON(201, card)
}

func (h *CardHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", defaultPageSize)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	cards, total, err := h.cardService.ListByOwner(context.Background(), userID, page, pageSize)
	if err != nil {
		c.InternalServerError("failed to list cards")
		return
	}

	_ = c.JSON(200, dto.CardListResponse{Cards: cards, Total: total})
}

func (h *CardHandler) Get(c *drift.Context) {
	cardID, err := uuid.Parse(c.Param("cardId"))
	if err != nil {
		c.BadRequest("invalid card id")
		return
	}

	var requesterID *uuid.UUID
	if userID := middleware.GetUserID(c); userID != uuid.Nil {
		requesterID = &userID
	}

	card, err := h.cardService.GetByID(context.Background(), cardID, requesterID)
	if err != nil {
		if errors.Is(err, services.ErrCardNotFound) {
			c.NotFound("card not found")
			return
		}
		if errors.Is(err, services.ErrCardForbidden) {
			c.Forbidden("card is private")
			return
		}
		c.InternalServerError("failed to get card")
		return
	}

	_ = c.JSON(200, card)
}

func (h *CardHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	cardID, err := uuid.Parse(c.Param("cardId"))
	if err != nil {
		c.BadRequest("invalid card id")
		return
	}

	var req dto.UpdateCardRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	card, err := h.cardService.Update(context.Background(), cardID, userID, req.Title, req.DesignData, req.IsPublic)
	if err != nil {
		if designError(c, err) {
			return
		}
		switch {
		case errors.Is(err, services.ErrCardNotFound):
			c.NotFound("card not found")
		case errors.Is(err, services.ErrCardForbidden):
			c.Forbidden("not the card owner")
		case errors.Is(err, services.ErrNoFieldsToUpdate):
			c.BadRequest("no fields to update")
		default:
			c.InternalServerError("failed to update card")
		}
		return
	}

	_ = c.JSON(200, card)
}

func (h *CardHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	cardID, err := uuid.Parse(c.Param("cardId"))
	if err != nil {
		c.BadRequest("invalid card id")
		return
	}

	if err := h.cardService.Delete(context.Background(), cardID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrCardNotFound):
			c.NotFound("card not found")
		case errors.Is(err, services.ErrCardForbidden):
			c.Forbidden("not the card owner")
		default:
			c.InternalServerError("failed to delete card")
		}
		return
	}

	_ = c.JSON(200, map[string]string{"message": "card deleted"})
}

// Share makes the card public and returns its share link. The token itself
// is minted at creation time, so sharing is just a visibility flip.
func (h *CardHandler) Share(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	cardID, err := uuid.Parse(c.Param("cardId"))
	if err != nil {
		c.BadRequest("invalid card id")
		return
	}

	public := true
	card, err := h.cardService.Update(context.Background(), cardID, userID, nil, nil, &public)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCardNotFound):
			c.NotFound("card not found")
		case errors.Is(err, services.ErrCardForbidden):
			c.Forbidden("not the card owner")
		default:
			c.InternalServerError("failed to share card")
		}
		return
	}

	_ = c.JSON(200, dto.ShareResponse{
		ShareToken: card.ShareToken,
		ShareURL:   h.baseURL + "/shared/" + card.ShareToken,
	})
}

// GetShared serves a publicly shared card by its token. No authentication,
// and missing vs. private cards are indistinguishable to the caller.
func (h *CardHandler) GetShared(c *drift.Context) {
	token := c.Param("token")
	if token == "" {
		c.BadRequest("missing share token")
		return
	}

	card, err := h.cardService.GetByShareToken(context.Background(), token)
	if err != nil {
		if errors.Is(err, services.ErrCardNotFound) {
			c.NotFound("card not found")
			return
		}
		c.InternalServerError("failed to get card")
		return
	}

	_ = c.JSON(200, card)
}

// designError maps document validation failures to 400 responses with the
// validator's message. Returns false for anything else.
func designError(c *drift.Context, err error) bool {
	var malformed *document.MalformedDocumentError
	var unsupported *document.UnsupportedVersionError
	if errors.As(err, &malformed) || errors.As(err, &unsupported) {
		c.BadRequest(err.Error())
		return true
	}
	return false
}

func queryInt(c *drift.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
