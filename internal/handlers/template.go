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

type TemplateHandler struct {
	templateService TemplateServiceInterface
}

func NewTemplateHandler(templateService TemplateServiceInterface) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

func (h *TemplateHandler) List(c *drift.Context) {
	filter := services.ListFilter{}
	if cat := c.QueryParam("category"); cat != "" {
		filter.Category = &cat
	}
	if lang := c.QueryParam("language"); lang != "" {
		filter.Language = &lang
	}
	switch c.QueryParam("premium") {
	case "true":
		v := true
		filter.Premium = &v
	case "false":
		v := false
		filter.Premium = &v
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", defaultPageSize)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	templates, total, err := h.templateService.List(context.Background(), filter, page, pageSize)
	if err != nil {
		c.InternalServerError("failed to list templates")
		return
	}

	_ = c.JSON(200, map[string]any{"templates": templates, "total": total})
}

// Recommend returns templates localized to the caller's country, as derived
// by the geo middleware.
func (h *TemplateHandler) Recommend(c *drift.Context) {
	templates, err := h.templateService.Recommend(context.Background(), middleware.GetCountry(c))
	if err != nil {
		c.InternalServerError("failed to recommend templates")
		return
	}

	_ = c.JSON(200, dto.TemplateListResponse{Templates: templates})
}

func (h *TemplateHandler) Search(c *drift.Context) {
	query := c.QueryParam("q")
	if query == "" {
		c.BadRequest("q is required")
		return
	}

	var category *string
	if cat := c.QueryParam("category"); cat != "" {
		category = &cat
	}

	templates, err := h.templateService.Search(context.Background(), query, category)
	if err != nil {
		c.InternalServerError("failed to search templates")
		return
	}

	_ = c.JSON(200, dto.TemplateListResponse{Templates: templates})
}

func (h *TemplateHandler) Get(c *drift.Context) {
	templateID, err := uuid.Parse(c.Param("templateId"))
	if err != nil {
		c.BadRequest("invalid template id")
		return
	}

	template, err := h.templateService.GetByID(context.Background(), templateID)
	if err != nil {
		if errors.Is(err, services.ErrTemplateNotFound) {
			c.NotFound("template not found")
			return
		}
		c.InternalServerError("failed to get template")
		return
	}

	_ = c.JSON(200, template)
}

// Use records a download. The client calls it when the user picks the
// template as the base for a new card.
func (h *TemplateHandler) Use(c *drift.Context) {
	templateID, err := uuid.Parse(c.Param("templateId"))
	if err != nil {
		c.BadRequest("invalid template id")
		return
	}

	if err := h.templateService.IncrementDownloads(context.Background(), templateID); err != nil {
		c.InternalServerError("failed to record download")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "download recorded"})
}

func (h *TemplateHandler) Categories(c *drift.Context) {
	categories, err := h.templateService.Categories(context.Background())
	if err != nil {
		c.InternalServerError("failed to list categories")
		return
	}

	_ = c.JSON(200, dto.CategoriesResponse{Categories: categories})
}

func (h *TemplateHandler) Favorite(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	templateID, err := uuid.Parse(c.Param("templateId"))
	if err != nil {
		c.BadRequest("invalid template id")
		return
	}

	if err := h.templateService.Favorite(context.Background(), userID, templateID); err != nil {
		switch {
		case errors.Is(err, services.ErrTemplateNotFound):
			c.NotFound("template not found")
		case errors.Is(err, services.ErrAlreadyFavorited):
			c.BadRequest("template is already in favorites")
		default:
			c.InternalServerError("failed to favorite template")
		}
		return
	}

	_ = c.JSON(200, map[string]string{"message": "template favorited"})
}

func (h *TemplateHandler) Unfavorite(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	templateID, err := uuid.Parse(c.Param("templateId"))
	if err != nil {
		c.BadRequest("invalid template id")
		return
	}

	if err := h.templateService.Unfavorite(context.Background(), userID, templateID); err != nil {
		c.InternalServerError("failed to unfavorite template")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "template unfavorited"})
}

func (h *TemplateHandler) ListFavorites(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	templates, err := h.templateService.ListFavorites(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to list favorites")
		return
	}

	_ = c.JSON(200, dto.TemplateListResponse{Templates: templates})
}
