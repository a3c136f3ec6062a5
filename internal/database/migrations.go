package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		display_name VARCHAR(255) NOT NULL,
		avatar_url VARCHAR(500),
		language VARCHAR(10) NOT NULL DEFAULT 'en',
		country VARCHAR(2) NOT NULL DEFAULT 'US',
		subscription_tier VARCHAR(20) NOT NULL DEFAULT 'free',
		subscription_expires_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash VARCHAR(255) NOT NULL UNIQUE,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS templates (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		category VARCHAR(100) NOT NULL,
		tags TEXT[] NOT NULL DEFAULT '{}',
		preview_image_url VARCHAR(500),
		is_premium BOOLEAN NOT NULL DEFAULT FALSE,
		language VARCHAR(10) NOT NULL DEFAULT 'en',
		country VARCHAR(2),
		is_universal BOOLEAN NOT NULL DEFAULT FALSE,
		downloads_count INTEGER NOT NULL DEFAULT 0,
		design_data JSONB NOT NULL DEFAULT '{"version":"1.0","objects":[]}',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS cards (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		template_id UUID REFERENCES templates(id) ON DELETE SET NULL,
		title VARCHAR(255) NOT NULL,
		design_data JSONB NOT NULL DEFAULT '{"version":"1.0","objects":[]}',
		share_token VARCHAR(8) NOT NULL UNIQUE,
		is_public BOOLEAN NOT NULL DEFAULT FALSE,
		view_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS template_favorites (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		template_id UUID NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(user_id, template_id)
	)`,

	`CREATE TABLE IF NOT EXISTS subscriptions (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		plan VARCHAR(20) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		current_period_start TIMESTAMP WITH TIME ZONE NOT NULL,
		current_period_end TIMESTAMP WITH TIME ZONE NOT NULL,
		paypal_order_id VARCHAR(100),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS ai_usage (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		kind VARCHAR(50) NOT NULL,
		tokens_used INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_cards_user_id ON cards(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_cards_share_token ON cards(share_token)`,
	`CREATE INDEX IF NOT EXISTS idx_templates_category ON templates(category)`,
	`CREATE INDEX IF NOT EXISTS idx_templates_country ON templates(country)`,
	`CREATE INDEX IF NOT EXISTS idx_templates_downloads ON templates(downloads_count DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_template_favorites_user_id ON template_favorites(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_subscriptions_user_id ON subscriptions(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_ai_usage_user_created ON ai_usage(user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id)`,

	// Trigram index backs the template name search path
	`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
	`CREATE INDEX IF NOT EXISTS idx_templates_name_search ON templates USING gin (name gin_trgm_ops)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
