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

type SubscriptionHandler struct {
	subscriptionService SubscriptionServiceInterface
}

func NewSubscriptionHandler(subscriptionService SubscriptionServiceInterface) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// Plans is public so the pricing page renders without a login.
func (h *SubscriptionHandler) Plans(c *drift.Context) {
	_ = c.JSON(200, map[string]any{"plans": services.SubscriptionPlans})
}

func (h *SubscriptionHandler) CreateOrder(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateOrderRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Method == "" {
		req.Method = "paypal"
	}

	order, err := h.subscriptionService.CreateOrder(context.Background(), userID, req.PlanID, req.Method)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPlanNotFound):
			c.BadRequest("unknown plan")
		case errors.Is(err, services.ErrUnsupportedPaymentMethod):
			c.BadRequest("unsupported payment method")
		default:
			c.InternalServerError("failed to create order")
		}
		return
	}

	_ = c.JSON(201, order)
}

func (h *SubscriptionHandler) ConfirmPayPal(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.ConfirmPaymentRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.OrderID == "" {
		c.BadRequest("order_id is required")
		return
	}

	sub, err := h.subscriptionService.ConfirmPayPal(context.Background(), userID, req.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotCompleted):
			c.BadRequest("payment was not completed")
		case errors.Is(err, services.ErrPlanNotFound):
			c.BadRequest("order does not reference a known plan")
		default:
			c.InternalServerError("failed to confirm payment")
		}
		return
	}

	_ = c.JSON(200, sub)
}

func (h *SubscriptionHandler) Cancel(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	if err := h.subscriptionService.Cancel(context.Background(), userID); err != nil {
		if errors.Is(err, services.ErrSubscriptionNotFound) {
			c.NotFound("no active subscription")
			return
		}
		c.InternalServerError("failed to cancel subscription")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "subscription cancelled"})
}

func (h *SubscriptionHandler) Current(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	sub, err := h.subscriptionService.Current(context.Background(), userID)
	if err != nil {
		if errors.Is(err, services.ErrSubscriptionNotFound) {
			c.NotFound("no subscription")
			return
		}
		c.InternalServerError("failed to get subscription")
		return
	}

	_ = c.JSON(200, sub)
}
