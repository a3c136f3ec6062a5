package main

import (
	"context"
	"fmt"
	"log"

	"github.com/dkoval/greetly-api/internal/config"
	"github.com/dkoval/greetly-api/internal/database"
	"github.com/dkoval/greetly-api/internal/document"
	"github.com/dkoval/greetly-api/internal/models"
	"github.com/dkoval/greetly-api/internal/services"
)

type seed struct {
	name      string
	category  string
	tags      []string
	language  string
	country   string
	isPremium bool
	build     func(*document.Session) error
}

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

	templateService := services.NewTemplateService(db)

	created := 0
	for _, s := range seeds() {
		session := document.NewSession()
		if err := s.build(session); err != nil {
			log.Fatalf("Failed to build design for %q: %v", s.name, err)
		}

		design, err := session.ExportDocument().Encode()
		if err != nil {
			log.Fatalf("Failed to encode design for %q: %v", s.name, err)
		}

		tmpl := &models.Template{
			Name:        s.name,
			Category:    s.category,
			Tags:        s.tags,
			Language:    s.language,
			IsPremium:   s.isPremium,
			IsUniversal: s.country == "",
			DesignData:  design,
		}
		if s.country != "" {
			country := s.country
			tmpl.Country = &country
		}

		if _, err := templateService.Create(ctx, tmpl); err != nil {
			log.Fatalf("Failed to create template %q: %v", s.name, err)
		}
		created++
	}

	fmt.Printf("Seeded %d templates\n", created)
}

func seeds() []seed {
	return []seed{
		{
			name:     "Classic Birthday",
			category: "birthday",
			tags:     []string{"birthday", "classic"},
			language: "en",
			build: func(s *document.Session) error {
				if _, err := s.AddObject(document.ObjectRect, document.Attributes{
					Fill: "#fff4d6", Width: 600, Height: 400,
				}); err != nil {
					return err
				}
				if _, err := s.AddObject(document.ObjectCircle, document.Attributes{
					X: 300, Y: 120, Fill: "#ffb347", Radius: 60,
				}); err != nil {
					return err
				}
				_, err := s.AddObject(document.ObjectText, document.Attributes{
					X: 140, Y: 240, Fill: "#7a3b00", Text: "Happy Birthday!", FontSize: 48,
				})
				return err
			},
		},
		{
			name:     "Wedding Wishes",
			category: "wedding",
			tags:     []string{"wedding", "elegant"},
			language: "en",
			build: func(s *document.Session) error {
				if _, err := s.AddObject(document.ObjectRect, document.Attributes{
					Fill: "#fdfbf7", Width: 600, Height: 400,
				}); err != nil {
					return err
				}
				_, err := s.AddObject(document.ObjectText, document.Attributes{
					X: 120, Y: 180, Fill: "#8c7a5b", Text: "Congratulations on your wedding",
					FontFamily: "Georgia", FontSize: 36,
				})
				return err
			},
		},
		{
			name:      "Golden New Year",
			category:  "holiday",
			tags:      []string{"new-year", "holiday"},
			language:  "en",
			isPremium: true,
			build: func(s *document.Session) error {
				if _, err := s.AddObject(document.ObjectRect, document.Attributes{
					Fill: "#101030", Width: 600, Height: 400,
				}); err != nil {
					return err
				}
				if _, err := s.AddObject(document.ObjectCircle, document.Attributes{
					X: 480, Y: 80, Fill: "#ffd700", Radius: 40,
				}); err != nil {
					return err
				}
				_, err := s.AddObject(document.ObjectText, document.Attributes{
					X: 150, Y: 200, Fill: "#ffd700", Text: "Happy New Year", FontSize: 44,
				})
				return err
			},
		},
		{
			name:     "Lunar New Year",
			category: "holiday",
			tags:     []string{"lunar-new-year", "holiday"},
			language: "zh",
			country:  "CN",
			build: func(s *document.Session) error {
				if _, err := s.AddObject(document.ObjectRect, document.Attributes{
					Fill: "#b3001b", Width: 600, Height: 400,
				}); err != nil {
					return err
				}
				_, err := s.AddObject(document.ObjectText, document.Attributes{
					X: 200, Y: 180, Fill: "#ffd700", Text: "新年快乐", FontSize: 56,
				})
				return err
			},
		},
		{
			name:     "Festa Junina",
			category: "holiday",
			tags:     []string{"festa-junina", "holiday"},
			language: "pt",
			country:  "BR",
			build: func(s *document.Session) error {
				if _, err := s.AddObject(document.ObjectRect, document.Attributes{
					Fill: "#2a6f2a", Width: 600, Height: 400,
				}); err != nil {
					return err
				}
				_, err := s.AddObject(document.ObjectText, document.Attributes{
					X: 160, Y: 190, Fill: "#ffffff", Text: "Boa Festa Junina!", FontSize: 40,
				})
				return err
			},
		},
		{
			name:     "Thank You Note",
			category: "thank-you",
			tags:     []string{"thank-you", "simple"},
			language: "en",
			build: func(s *document.Session) error {
				_, err := s.AddObject(document.ObjectText, document.Attributes{
					X: 200, Y: 150, Text: "Thank you!",
				})
				return err
			},
		},
	}
}
