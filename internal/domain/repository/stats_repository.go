package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// StockTotals agregados del dashboard.
// TotalStock suma current_stock de todos los productos sin convertir unidades (KG, MT y LITRE mezclados).
type StockTotals struct {
	TotalProducts   int
	TotalCategories int
	LowStockCount   int
	TotalStock      decimal.Decimal
}

// StatsRepository consultas de solo lectura para el dashboard.
type StatsRepository interface {
	Totals(ctx context.Context) (StockTotals, error)
}
