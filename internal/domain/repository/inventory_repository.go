package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/chemflo-api/internal/domain/entity"
)

// InventoryFilter criterios del listado del libro de stock.
type InventoryFilter struct {
	CategoryID   string
	LowStockOnly bool
	Limit        int
	Offset       int
}

// InventoryRepository define el puerto del libro de stock (una fila por producto).
// Solo el motor de inventario escribe aquí, y siempre dentro de un TxRunner.
type InventoryRepository interface {
	Create(ctx context.Context, inv *entity.Inventory) error
	// GetByProductID devuelve la entrada con Product y Category cargados, o nil.
	GetByProductID(ctx context.Context, productID string) (*entity.Inventory, error)
	// GetForUpdate lee la entrada y bloquea la fila hasta el commit de la transacción.
	// Carga Product (al menos Unit). Devuelve nil si no existe.
	GetForUpdate(ctx context.Context, productID string) (*entity.Inventory, error)
	UpdateStock(ctx context.Context, productID string, stock decimal.Decimal, at time.Time) error
	List(ctx context.Context, filter InventoryFilter) ([]*entity.Inventory, int, error)
	// ListLowStock devuelve las entradas con current_stock <= low_stock_threshold.
	ListLowStock(ctx context.Context) ([]*entity.Inventory, error)
}
