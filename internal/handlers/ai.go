package handlers

import (
	"context"
	"errors"

	"github.com/dkoval/greetly-api/internal/middleware"
	"github.com/dkoval/greetly-api/internal/services"
	"github.com/dkoval/greetly-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type AIHandler struct {
	aiService AIServiceInterface
}

func NewAIHandler(aiService AIServiceInterface) *AIHandler {
	return &AIHandler{aiService: aiService}
}

func (h *AIHandler) GenerateGreeting(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.GenerateGreetingRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Occasion == "" {
		c.BadRequest("occasion is required")
		return
	}

	language := req.Language
	if language == "" {
		language = middleware.GetLanguage(c)
	}

	text, err := h.aiService.GenerateGreeting(context.Background(), userID, services.GreetingParams{
		Occasion:  req.Occasion,
		Recipient: req.Recipient,
		Tone:      req.Tone,
		Language:  language,
	})
	if err != nil {
		h.writeError(c, err, "failed to generate greeting")
		return
	}

	_ = c.JSON(200, dto.GreetingResponse{Text: text})
}

func (h *AIHandler) SuggestDesign(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.SuggestDesignRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Occasion == "" {
		c.BadRequest("occasion is required")
		return
	}

	suggestions, err := h.aiService.SuggestDesign(context.Background(), userID, services.DesignParams{
		Occasion: req.Occasion,
		Style:    req.Style,
		Colors:   req.Colors,
	})
	if err != nil {
		h.writeError(c, err, "failed to suggest design")
		return
	}

	_ = c.JSON(200, suggestions)
}

func (h *AIHandler) ImproveText(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.ImproveTextRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Text == "" {
		c.BadRequest("text is required")
		return
	}

	improved, err := h.aiService.ImproveText(context.Background(), userID, req.Text, middleware.GetLanguage(c))
	if err != nil {
		h.writeError(c, err, "failed to improve text")
		return
	}

	_ = c.JSON(200, dto.ImprovedTextResponse{Text: improved})
}

func (h *AIHandler) Usage(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	stats, err := h.aiService.UsageStats(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get usage")
		return
	}

	_ = c.JSON(200, stats)
}

func (h *AIHandler) writeError(c *drift.Context, err error, fallback string) {
	if errors.Is(err, services.ErrQuotaExceeded) {
		_ = c.JSON(429, map[string]string{"error": "monthly AI quota exceeded"})
		return
	}
	c.InternalServerError(fallback)
}
