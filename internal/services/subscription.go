package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dkoval/greetly-api/internal/database"
	"github.com/dkoval/greetly-api/internal/models"
	"github.com/dkoval/greetly-api/internal/payment"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrPlanNotFound             = errors.New("unknown subscription plan")
	ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")
	ErrPaymentNotCompleted      = errors.New("payment not completed")
	ErrSubscriptionNotFound     = errors.New("no subscription found")
)

// SubscriptionPlans is the purchasable catalog shown on the pricing page.
var SubscriptionPlans = []models.Plan{
	{ID: models.TierMonthly, Name: "Monthly Premium", PriceUSD: 9.99, Months: 1, AIQuota: 50},
	{ID: models.TierQuarterly, Name: "Quarterly Premium", PriceUSD: 24.99, Months: 3, AIQuota: 150},
	{ID: models.TierYearly, Name: "Yearly Premium", PriceUSD: 79.99, Months: 12, AIQuota: 500},
}

// PaymentProvider is the slice of the PayPal client the service needs.
type PaymentProvider interface {
	CreateOrder(ctx context.Context, value, currency, customID, returnURL, cancelURL string) (*payment.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*payment.Order, error)
}

// OrderInfo is returned to the frontend so it can send the buyer to the
// processor's approval page.
type OrderInfo struct {
	OrderID    string `json:"order_id"`
	PaymentURL string `json:"payment_url"`
	PlanID     string `json:"plan_id"`
}

const subscriptionColumns = `id, user_id, plan, status, current_period_start, current_period_end, paypal_order_id, created_at, updated_at`

type SubscriptionService struct {
	db      *database.DB
	paypal  PaymentProvider
	baseURL string
}

func NewSubscriptionService(db *database.DB, paypal PaymentProvider, baseURL string) *SubscriptionService {
	return &SubscriptionService{db: db, paypal: paypal, baseURL: baseURL}
}

func PlanByID(id string) (*models.Plan, bool) {
	for i := range SubscriptionPlans {
		if SubscriptionPlans[i].ID == id {
			return &SubscriptionPlans[i], true
		}
	}
	return nil, false
}

// CreateOrder opens a payment-processor order for the plan and records a
// pending subscription. Only PayPal is wired; other methods fail with
// ErrUnsupportedPaymentMethod.
func (s *SubscriptionService) CreateOrder(ctx context.Context, userID uuid.UUID, planID, method string) (*OrderInfo, error) {
	plan, ok := PlanByID(planID)
	if !ok {
		return nil, ErrPlanNotFound
	}
	if method != "paypal" {
		return nil, ErrUnsupportedPaymentMethod
	}

	customID := fmt.Sprintf("%s:%s", userID, plan.ID)
	order, err := s.paypal.CreateOrder(ctx,
		fmt.Sprintf("%.2f", plan.PriceUSD), "USD", customID,
		s.baseURL+"/payment/success", s.baseURL+"/payment/cancel")
	if err != nil {
		return nil, err
	}

	// Pending record until the capture confirms; the period is provisional.
	now := time.Now().UTC()
	_, err = s.db.Pool.Exec(ctx, `
		INSERT INTO subscriptions (user_id, plan, status, current_period_start, current_period_end, paypal_order_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, userID, plan.ID, models.SubscriptionPending, now, now.AddDate(0, plan.Months, 0), order.ID)
	if err != nil {
		return nil, err
	}

	return &OrderInfo{OrderID: order.ID, PaymentURL: order.ApprovalURL(), PlanID: plan.ID}, nil
}

// ConfirmPayPal captures the order and, if completed, activates the
// subscription and promotes the user's tier. The plan is recovered from the
// custom id the order was created with.
func (s *SubscriptionService) ConfirmPayPal(ctx context.Context, userID uuid.UUID, orderID string) (*models.Subscription, error) {
	order, err := s.paypal.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != payment.OrderCompleted {
		return nil, ErrPaymentNotCompleted
	}

	planID := ""
	if len(order.PurchaseUnits) > 0 {
		if parts := strings.SplitN(order.PurchaseUnits[0].CustomID, ":", 2); len(parts) == 2 {
			planID = parts[1]
		}
	}
	plan, ok := PlanByID(planID)
	if !ok {
		return nil, ErrPlanNotFound
	}

	now := time.Now().UTC()
	periodEnd := now.AddDate(0, plan.Months, 0)

	sub, err := s.upsertActive(ctx, userID, plan.ID, now, periodEnd, orderID)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Pool.Exec(ctx, `
		UPDATE users SET subscription_tier = $1, subscription_expires_at = $2, updated_at = NOW()
		WHERE id = $3
	`, plan.ID, periodEnd, userID)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// Cancel marks the active subscription cancelled and drops the user back to
// the free tier. Access until the paid period's end is not preserved; this
// mirrors the upstream behavior.
func (s *SubscriptionService) Cancel(ctx context.Context, userID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE subscriptions SET status = $1, updated_at = NOW()
		WHERE user_id = $2 AND status = $3
	`, models.SubscriptionCancelled, userID, models.SubscriptionActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}

	_, err = s.db.Pool.Exec(ctx, `
		UPDATE users SET subscription_tier = $1, subscription_expires_at = NULL, updated_at = NOW()
		WHERE id = $2
	`, models.TierFree, userID)
	return err
}

// Current returns the user's most recent subscription.
func (s *SubscriptionService) Current(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID).Scan(
		&sub.ID, &sub.UserID, &sub.Plan, &sub.Status,
		&sub.CurrentPeriodStart, &sub.CurrentPeriodEnd, &sub.PayPalOrderID,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *SubscriptionService) upsertActive(ctx context.Context, userID uuid.UUID, plan string, start, end time.Time, orderID string) (*models.Subscription, error) {
	var existingID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id FROM subscriptions WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1
	`, userID).Scan(&existingID)

	var sub models.Subscription
	if err == nil {
		err = s.db.Pool.QueryRow(ctx, `
			UPDATE subscriptions SET plan = $1, status = $2, current_period_start = $3, current_period_end = $4, paypal_order_id = $5, updated_at = NOW()
			WHERE id = $6
			RETURNING `+subscriptionColumns+`
		`, plan, models.SubscriptionActive, start, end, orderID, existingID).Scan(
			&sub.ID, &sub.UserID, &sub.Plan, &sub.Status,
			&sub.CurrentPeriodStart, &sub.CurrentPeriodEnd, &sub.PayPalOrderID,
			&sub.CreatedAt, &sub.UpdatedAt,
		)
	} else if errors.Is(err, pgx.ErrNoRows) {
		err = s.db.Pool.QueryRow(ctx, `
			INSERT INTO subscriptions (user_id, plan, status, current_period_start, current_period_end, paypal_order_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+subscriptionColumns+`
		`, userID, plan, models.SubscriptionActive, start, end, orderID).Scan(
			&sub.ID, &sub.UserID, &sub.Plan, &sub.Status,
			&sub.CurrentPeriodStart, &sub.CurrentPeriodEnd, &sub.PayPalOrderID,
			&sub.CreatedAt, &sub.UpdatedAt,
		)
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
