package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/chemflo-api/internal/domain/entity"
)

// MovementFilter filtros del historial de movimientos. Los campos vacíos o nil no filtran;
// From y To son inclusivos y pueden ir solos.
type MovementFilter struct {
	ProductID string
	Type      string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// StockMovementRepository puerto del libro de movimientos (append-only).
// No existe Update ni Delete: los movimientos solo desaparecen al borrar su producto.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// List devuelve la página pedida (más reciente primero) y el total que cumple el filtro.
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, int, error)
	Recent(ctx context.Context, limit int) ([]*entity.StockMovement, error)
	// Balance reproduce el historial del producto: suma de IN menos suma de OUT y cantidad de movimientos.
	Balance(ctx context.Context, productID string) (decimal.Decimal, int, error)
}
