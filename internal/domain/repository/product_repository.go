package repository

import (
	"context"

	"github.com/jhoicas/chemflo-api/internal/domain/entity"
)

// Columnas permitidas para ordenar el listado de productos.
const (
	ProductSortName              = "name"
	ProductSortCASNumber         = "casNumber"
	ProductSortCreatedAt         = "createdAt"
	ProductSortUpdatedAt         = "updatedAt"
	ProductSortLowStockThreshold = "lowStockThreshold"
)

// ProductFilter criterios de búsqueda del catálogo.
type ProductFilter struct {
	Search     string // nombre o CAS, sin distinguir mayúsculas
	CategoryID string
	SortBy     string
	SortDesc   bool
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las lecturas devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCASNumber(ctx context.Context, casNumber string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// Delete elimina el producto; el inventario y sus movimientos caen en cascada.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int, error)
}
