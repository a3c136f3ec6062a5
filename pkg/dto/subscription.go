package dto

type CreateOrderRequest struct {
	PlanID string `json:"plan_id"`
	Method string `json:"method"`
}

type ConfirmPaymentRequest struct {
	OrderID string `json:"order_id"`
}
