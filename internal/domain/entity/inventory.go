package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory es la entrada del libro de stock de un producto (1:1 con Product).
// CurrentStock nunca es negativo y solo se modifica junto con un StockMovement.
type Inventory struct {
	ID           string
	ProductID    string
	CurrentStock decimal.Decimal
	UpdatedAt    time.Time

	// Product (con su Category) se llena en lecturas para presentación.
	Product *Product
}
