package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeIN  = "IN"  // entrada, suma al stock
	MovementTypeOUT = "OUT" // salida, resta del stock
)

// InitialStockNote nota del movimiento sintético creado junto con el producto.
const InitialStockNote = "Initial stock"

// StockMovement registro inmutable del libro de movimientos (append-only).
// Quantity siempre es positiva; el signo lo da Type.
type StockMovement struct {
	ID        string
	ProductID string
	Type      string
	Quantity  decimal.Decimal
	Notes     *string
	CreatedAt time.Time

	// Product se llena en listados para presentación.
	Product *Product
}

// IsValidMovementType indica si t es IN u OUT.
func IsValidMovementType(t string) bool {
	return t == MovementTypeIN || t == MovementTypeOUT
}
