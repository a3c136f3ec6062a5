package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/dkoval/greetly-api/internal/database"
	"github.com/dkoval/greetly-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// EmptyDesign is a minimal valid design payload.
var EmptyDesign = json.RawMessage(`{"version":"1.0","objects":[]}`)

// SampleDesign has one object of each kind.
var SampleDesign = json.RawMessage(`{
	"version": "1.0",
	"objects": [
		{"id": "t1", "type": "text", "x": 10, "y": 20, "fill": "#333333", "text": "Happy Birthday!", "fontFamily": "Arial", "fontSize": 32},
		{"id": "r1", "type": "rect", "x": 0, "y": 0, "fill": "#ffcc00", "width": 400, "height": 300},
		{"id": "c1", "type": "circle", "x": 200, "y": 150, "fill": "#0af", "radius": 50}
	]
}`)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email:            fmt.Sprintf("user%d@example.com", f.counter),
		DisplayName:      fmt.Sprintf("Test User %d", f.counter),
		Language:         "en",
		Country:          "US",
		SubscriptionTier: models.TierFree,
	}

	for _, opt := range opts {
		opt(user)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("test-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	ctx := context.Background()
	err = f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, display_name, language, country, subscription_tier)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, user.Email, string(hash), user.DisplayName, user.Language, user.Country, user.SubscriptionTier).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithTier sets the user's subscription tier
func WithTier(tier string) UserOption {
	return func(u *models.User) {
		u.SubscriptionTier = tier
	}
}

// WithCountry sets the user's country code
func WithCountry(country string) UserOption {
	return func(u *models.User) {
		u.Country = country
	}
}

// CreateTemplate creates a test template with default values
func (f *Fixtures) CreateTemplate(t *testing.T, opts ...TemplateOption) *models.Template {
	t.Helper()
	f.counter++

	tmpl := &models.Template{
		Name:        fmt.Sprintf("Template %d", f.counter),
		Category:    "birthday",
		Tags:        []string{"birthday", "fun"},
		Language:    "en",
		IsUniversal: true,
		DesignData:  EmptyDesign,
	}

	for _, opt := range opts {
		opt(tmpl)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO templates (name, category, tags, preview_image_url, is_premium, language, country, is_universal, downloads_count, design_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, tmpl.Name, tmpl.Category, tmpl.Tags, tmpl.PreviewImageURL, tmpl.IsPremium,
		tmpl.Language, tmpl.Country, tmpl.IsUniversal, tmpl.DownloadsCount, tmpl.DesignData).Scan(
		&tmpl.ID, &tmpl.CreatedAt, &tmpl.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create template: %v", err)
	}

	return tmpl
}

// TemplateOption configures a test template
type TemplateOption func(*models.Template)

// WithCategory sets the template's category
func WithCategory(category string) TemplateOption {
	return func(tm *models.Template) {
		tm.Category = category
	}
}

// WithTemplateCountry pins the template to a country instead of universal
func WithTemplateCountry(country string) TemplateOption {
	return func(tm *models.Template) {
		tm.Country = &country
		tm.IsUniversal = false
	}
}

// WithDownloads sets the template's download count
func WithDownloads(n int) TemplateOption {
	return func(tm *models.Template) {
		tm.DownloadsCount = n
	}
}

// WithPremium marks the template premium
func WithPremium() TemplateOption {
	return func(tm *models.Template) {
		tm.IsPremium = true
	}
}
