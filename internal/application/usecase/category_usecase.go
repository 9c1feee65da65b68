package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/chemflo-api/internal/application/dto"
	"github.com/jhoicas/chemflo-api/internal/domain"
	"github.com/jhoicas/chemflo-api/internal/domain/entity"
	"github.com/jhoicas/chemflo-api/internal/domain/repository"
)

// CategoryUseCase casos de uso CRUD para categorías.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create crea una categoría. ErrDuplicate si el nombre ya existe.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, duplicateName(in.Name)
	}
	now := time.Now().UTC()
	c := &entity.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Color:       *in.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	out := dto.NewCategoryResponseWithCount(c)
	return &out, nil
}

// GetByID categoría con su conteo de productos.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	if err := dto.ValidateUUID("id", id); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.NewCategoryResponseWithCount(c)
	return &out, nil
}

// Update actualización parcial de una categoría.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := dto.ValidateUUID("id", id); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil && *in.Name != c.Name {
		other, err := uc.repo.GetByName(ctx, *in.Name)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, duplicateName(*in.Name)
		}
		c.Name = *in.Name
	}
	if in.Description != nil {
		if *in.Description == "" {
			c.Description = nil
		} else {
			c.Description = in.Description
		}
	}
	if in.Color != nil {
		c.Color = *in.Color
	}
	c.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	out := dto.NewCategoryResponseWithCount(c)
	return &out, nil
}

// Delete elimina la categoría; sus productos quedan sin categoría.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	if err := dto.ValidateUUID("id", id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// List todas las categorías ordenadas por nombre con su conteo de productos.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.NewCategoryResponseWithCount(c))
	}
	return out, nil
}

func duplicateName(name string) error {
	return fmt.Errorf("%w: ya existe una categoría con el nombre %s", domain.ErrDuplicate, name)
}
