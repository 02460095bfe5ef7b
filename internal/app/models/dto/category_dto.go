package dto

import "github.com/antonkh/eventory/internal/app/models"

// NewCategoryRequest is the admin category-creation payload
type NewCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// CategoryDto is the category representation
type CategoryDto struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ToCategoryDto maps a category model to its representation
func ToCategoryDto(c *models.Category) *CategoryDto {
	if c == nil {
		return nil
	}
	return &CategoryDto{ID: c.ID, Name: c.Name}
}
