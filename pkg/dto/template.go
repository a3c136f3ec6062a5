package dto

import "github.com/dkoval/greetly-api/internal/models"

type TemplateListResponse struct {
	Templates []models.Template `json:"templates"`
}

type CategoriesResponse struct {
	Categories []models.CategoryCount `json:"categories"`
}
