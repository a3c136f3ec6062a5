// Package payment wraps the PayPal REST orders API. Authentication uses the
// oauth2 client-credentials flow against PayPal's token endpoint; the HTTP
// client refreshes tokens transparently.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dkoval/greetly-api/internal/config"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	OrderCompleted = "COMPLETED"
	OrderApproved  = "APPROVED"
)

type Amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type PurchaseUnit struct {
	Amount   Amount `json:"amount"`
	CustomID string `json:"custom_id,omitempty"`
}

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

type Order struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
	Links         []Link         `json:"links"`
}

// ApprovalURL returns the link the buyer must visit to approve the order,
// or an empty string when PayPal did not supply one.
func (o *Order) ApprovalURL() string {
	for _, l := range o.Links {
		if l.Rel == "approve" {
			return l.Href
		}
	}
	return ""
}

type createOrderRequest struct {
	Intent             string             `json:"intent"`
	PurchaseUnits      []PurchaseUnit     `json:"purchase_units"`
	ApplicationContext applicationContext `json:"application_context"`
}

type applicationContext struct {
	BrandName string `json:"brand_name"`
	ReturnURL string `json:"return_url"`
	CancelURL string `json:"cancel_url"`
}

type PayPalClient struct {
	httpClient *http.Client
	baseURL    string
	configured bool
}

func NewPayPalClient(cfg config.PayPalConfig) *PayPalClient {
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.BaseURL + "/v1/oauth2/token",
	}
	return &PayPalClient{
		httpClient: cc.Client(context.Background()),
		baseURL:    cfg.BaseURL,
		configured: cfg.ClientID != "" && cfg.ClientSecret != "",
	}
}

func (c *PayPalClient) IsConfigured() bool {
	return c.configured
}

// CreateOrder opens a one-shot capture order. customID travels with the
// order and comes back on capture, which is how the confirmation path
// recovers the purchased plan.
func (c *PayPalClient) CreateOrder(ctx context.Context, value, currency, customID, returnURL, cancelURL string) (*Order, error) {
	body := createOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []PurchaseUnit{{
			Amount:   Amount{CurrencyCode: currency, Value: value},
			CustomID: customID,
		}},
		ApplicationContext: applicationContext{
			BrandName: "Greetly",
			ReturnURL: returnURL,
			CancelURL: cancelURL,
		},
	}
	return c.post(ctx, "/v2/checkout/orders", body)
}

// CaptureOrder captures an approved order. The returned status is
// OrderCompleted when payment went through.
func (c *PayPalClient) CaptureOrder(ctx context.Context, orderID string) (*Order, error) {
	return c.post(ctx, "/v2/checkout/orders/"+orderID+"/capture", nil)
}

func (c *PayPalClient) post(ctx context.Context, path string, body any) (*Order, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader([]byte("{}"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paypal request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("paypal api returned status %d", resp.StatusCode)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode paypal response: %w", err)
	}
	return &order, nil
}
