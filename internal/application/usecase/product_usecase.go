package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/chemflo-api/internal/application/dto"
	"github.com/jhoicas/chemflo-api/internal/domain"
	"github.com/jhoicas/chemflo-api/internal/domain/entity"
	"github.com/jhoicas/chemflo-api/internal/domain/repository"
	"github.com/jhoicas/chemflo-api/pkg/logger"
)

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía movimientos;
// aquí solo se fija el stock inicial al crear. El listado de stock bajo vive en StockUseCase.
type ProductUseCase struct {
	txRunner repository.TxRunner
	repo     repository.ProductRepository
	log      *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner repository.TxRunner,
	repo repository.ProductRepository,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo, log: log}
}

// Create crea el producto, su entrada en el libro de stock y, si initialStock > 0,
// el movimiento IN "Initial stock". Todo en una sola transacción.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	initial := decimal.Zero
	if in.InitialStock != nil {
		initial = *in.InitialStock
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:                uuid.New().String(),
		Name:              in.Name,
		CASNumber:         in.CASNumber,
		Unit:              in.Unit,
		Description:       in.Description,
		CategoryID:        in.CategoryID,
		LowStockThreshold: *in.LowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := repository.WithinTx(ctx, uc.txRunner, func(ctx context.Context, repos repository.Repositories) (*entity.Product, error) {
		existing, err := repos.Products.GetByCASNumber(ctx, product.CASNumber)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: ya existe un producto con el número CAS %s", domain.ErrDuplicate, product.CASNumber)
		}
		if err := ensureCategory(ctx, repos.Categories, product.CategoryID); err != nil {
			return nil, err
		}
		if err := repos.Products.Create(ctx, product); err != nil {
			return nil, err
		}
		inv := &entity.Inventory{
			ID:           uuid.New().String(),
			ProductID:    product.ID,
			CurrentStock: initial,
			UpdatedAt:    now,
		}
		if err := repos.Inventory.Create(ctx, inv); err != nil {
			return nil, err
		}
		if initial.IsPositive() {
			note := entity.InitialStockNote
			if err := repos.Movements.Create(ctx, &entity.StockMovement{
				ID:        uuid.New().String(),
				ProductID: product.ID,
				Type:      entity.MovementTypeIN,
				Quantity:  initial,
				Notes:     &note,
				CreatedAt: now,
			}); err != nil {
				return nil, err
			}
		}
		return repos.Products.GetByID(ctx, product.ID)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("product_id", created.ID).
		Str("cas", created.CASNumber).
		Str("initial_stock", initial.String()).
		Msg("producto creado")

	out := dto.NewProductResponse(created)
	return &out, nil
}

// GetByID obtiene un producto con su categoría y stock. ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	if err := dto.ValidateUUID("id", id); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.NewProductResponse(product)
	return &out, nil
}

// Update actualiza los datos del producto. No permite modificar el stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.ValidateUUID("id", id); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	updated, err := repository.WithinTx(ctx, uc.txRunner, func(ctx context.Context, repos repository.Repositories) (*entity.Product, error) {
		product, err := repos.Products.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if in.CASNumber != nil && *in.CASNumber != product.CASNumber {
			other, err := repos.Products.GetByCASNumber(ctx, *in.CASNumber)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != id {
				return nil, fmt.Errorf("%w: ya existe un producto con el número CAS %s", domain.ErrDuplicate, *in.CASNumber)
			}
			product.CASNumber = *in.CASNumber
		}
		if in.Name != nil {
			product.Name = *in.Name
		}
		if in.Unit != nil {
			product.Unit = *in.Unit
		}
		if in.Description != nil {
			if *in.Description == "" {
				product.Description = nil
			} else {
				product.Description = in.Description
			}
		}
		if in.CategoryID.Set {
			if err := ensureCategory(ctx, repos.Categories, in.CategoryID.Value); err != nil {
				return nil, err
			}
			product.CategoryID = in.CategoryID.Value
		}
		if in.LowStockThreshold != nil {
			product.LowStockThreshold = *in.LowStockThreshold
		}
		product.UpdatedAt = time.Now().UTC()
		if err := repos.Products.Update(ctx, product); err != nil {
			return nil, err
		}
		return repos.Products.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewProductResponse(updated)
	return &out, nil
}

// Delete elimina el producto junto con su inventario y su historial de movimientos.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if err := dto.ValidateUUID("id", id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("product_id", id).Msg("producto eliminado")
	return nil
}

// List lista productos con búsqueda, filtro por categoría, orden y paginación.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductQuery) (*dto.ProductListResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	list, total, err := uc.repo.List(ctx, q.Filter())
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Products:   dto.NewProductResponses(list),
		Pagination: dto.NewPageResponse(q.PageRequest, total),
	}, nil
}

// ensureCategory verifica que la categoría referenciada exista (nil = sin categoría).
func ensureCategory(ctx context.Context, repo repository.CategoryRepository, id *string) error {
	if id == nil {
		return nil
	}
	c, err := repo.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.Invalid("categoryId", "la categoría no existe")
	}
	return nil
}
