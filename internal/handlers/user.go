package handlers

import (
	"context"

	"github.com/dkoval/greetly-api/internal/middleware"
	"github.com/dkoval/greetly-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type UserHandler struct {
	userService UserServiceInterface
}

func NewUserHandler(userService UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	user, err := h.userService.GetByID(context.Background(), userID)
	if err != nil {
		c.NotFound("user not found")
		return
	}

	_ = c.JSON(200, user)
}

func (h *UserHandler) UpdateMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.DisplayName != nil && *req.DisplayName == "" {
		c.BadRequest("display name cannot be empty")
		return
	}

	user, err := h.userService.UpdateProfile(context.Background(), userID,
		req.DisplayName, req.Language, req.Country, req.AvatarURL)
	if err != nil {
		c.InternalServerError("failed to update profile")
		return
	}

	_ = c.JSON(200, user)
}
