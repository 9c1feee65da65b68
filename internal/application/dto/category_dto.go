package dto

import (
	"strings"
	"time"

	"github.com/jhoicas/chemflo-api/internal/domain"
	"github.com/jhoicas/chemflo-api/internal/domain/entity"
)

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

func (r *CreateCategoryRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if err := checkLen("name", r.Name, 2, 100); err != nil {
		return err
	}
	r.Description = trimOptional(r.Description)
	if r.Description != nil {
		if err := checkLen("description", *r.Description, 0, MaxCategoryDescriptionLen); err != nil {
			return err
		}
	}
	if r.Color == nil {
		c := entity.DefaultCategoryColor
		r.Color = &c
	}
	if !entity.IsValidColor(*r.Color) {
		return domain.Invalid("color", "debe ser un color hexadecimal (ej. #6366f1)")
	}
	return nil
}

// UpdateCategoryRequest actualización parcial; los campos nil no cambian.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

func (r *UpdateCategoryRequest) Validate() error {
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		r.Name = &n
		if err := checkLen("name", n, 2, 100); err != nil {
			return err
		}
	}
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		r.Description = &d
		if err := checkLen("description", d, 0, MaxCategoryDescriptionLen); err != nil {
			return err
		}
	}
	if r.Color != nil && !entity.IsValidColor(*r.Color) {
		return domain.Invalid("color", "debe ser un color hexadecimal (ej. #6366f1)")
	}
	return nil
}

// CategoryCount conteo embebido, mismo formato que consume el frontend.
type CategoryCount struct {
	Products int `json:"products"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Color       string         `json:"color"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Count       *CategoryCount `json:"_count,omitempty"`
}

func NewCategoryResponse(c *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// NewCategoryResponseWithCount incluye el conteo de productos (listados y detalle).
func NewCategoryResponseWithCount(c *entity.Category) CategoryResponse {
	out := NewCategoryResponse(c)
	out.Count = &CategoryCount{Products: c.ProductCount}
	return out
}
