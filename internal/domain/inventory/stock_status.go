package inventory

import "github.com/shopspring/decimal"

// StockStatus clasificación de presentación del nivel de stock.
type StockStatus string

const (
	StatusCritical StockStatus = "CRITICAL"
	StatusLow      StockStatus = "LOW"
	StatusInStock  StockStatus = "IN_STOCK"
)

var (
	fifty   = decimal.NewFromInt(50)
	hundred = decimal.NewFromInt(100)
)

// IsLowStock es verdadero cuando el stock actual es menor o igual al umbral (inclusivo).
func IsLowStock(current decimal.Decimal, threshold int) bool {
	return current.LessThanOrEqual(decimal.NewFromInt(int64(threshold)))
}

// ClassifyStock clasifica el stock según el porcentaje current/threshold*100:
// <= 50 crítico, <= 100 bajo, > 100 en stock. Con umbral 0 el porcentaje es infinito.
func ClassifyStock(current decimal.Decimal, threshold int) StockStatus {
	if threshold <= 0 {
		return StatusInStock
	}
	pct := current.Mul(hundred).Div(decimal.NewFromInt(int64(threshold)))
	switch {
	case pct.LessThanOrEqual(fifty):
		return StatusCritical
	case pct.LessThanOrEqual(hundred):
		return StatusLow
	default:
		return StatusInStock
	}
}
