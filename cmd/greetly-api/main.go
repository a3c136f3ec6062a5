package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkoval/greetly-api/internal/ai"
	"github.com/dkoval/greetly-api/internal/config"
	"github.com/dkoval/greetly-api/internal/database"
	"github.com/dkoval/greetly-api/internal/handlers"
	authmw "github.com/dkoval/greetly-api/internal/middleware"
	"github.com/dkoval/greetly-api/internal/payment"
	"github.com/dkoval/greetly-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db)
	cardService := services.NewCardService(db)
	templateService := services.NewTemplateService(db)
	aiService := services.NewAIService(db, ai.NewClient(cfg.OpenAI))
	subscriptionService := services.NewSubscriptionService(db, payment.NewPayPalClient(cfg.PayPal), cfg.BaseURL)

	authHandler := handlers.NewAuthHandler(userService, tokenService, jwtService)
	userHandler := handlers.NewUserHandler(userService)
	cardHandler := handlers.NewCardHandler(cardService, cfg.BaseURL)
	templateHandler := handlers.NewTemplateHandler(templateService)
	aiHandler := handlers.NewAIHandler(aiService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Accept-Language"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())
	app.Use(authmw.Geo())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	// Browsing templates and opening shared cards needs no account.
	api.Get("/templates", templateHandler.List)
	api.Get("/templates/recommended", templateHandler.Recommend)
	api.Get("/templates/search", templateHandler.Search)
	api.Get("/templates/categories", templateHandler.Categories)
	api.Get("/templates/:templateId", templateHandler.Get)
	api.Post("/templates/:templateId/use", templateHandler.Use)

	api.Get("/shared/:token", cardHandler.GetShared)

	api.Get("/subscriptions/plans", subscriptionHandler.Plans)

	// Card reads carry optional auth so owners can open their private cards.
	maybeAuth := api.Group("")
	maybeAuth.Use(authmw.OptionalAuth(jwtService))
	maybeAuth.Get("/cards/:cardId", cardHandler.Get)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)

	protected.Get("/cards", cardHandler.List)
	protected.Post("/cards", cardHandler.Create)
	protected.Patch("/cards/:cardId", cardHandler.Update)
	protected.Delete("/cards/:cardId", cardHandler.Delete)
	protected.Post("/cards/:cardId/share", cardHandler.Share)

	protected.Get("/users/me/favorites", templateHandler.ListFavorites)
	protected.Post("/templates/:templateId/favorite", templateHandler.Favorite)
	protected.Delete("/templates/:templateId/favorite", templateHandler.Unfavorite)

	protected.Post("/ai/greeting", aiHandler.GenerateGreeting)
	protected.Post("/ai/design", aiHandler.SuggestDesign)
	protected.Post("/ai/improve", aiHandler.ImproveText)
	protected.Get("/ai/usage", aiHandler.Usage)

	protected.Post("/subscriptions/orders", subscriptionHandler.CreateOrder)
	protected.Post("/subscriptions/confirm", subscriptionHandler.ConfirmPayPal)
	protected.Delete("/subscriptions/current", subscriptionHandler.Cancel)
	protected.Get("/subscriptions/current", subscriptionHandler.Current)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			_ = tokenService.CleanupExpired(context.Background())
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}
