package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/chemflo-api/internal/domain"
	"github.com/jhoicas/chemflo-api/internal/domain/entity"
)

// ApplyMovement calcula el nuevo stock tras aplicar un movimiento (servicio de dominio).
// IN suma, OUT resta. Si una salida deja el stock en negativo devuelve
// *domain.InsufficientStockError y el stock actual sin cambios.
func ApplyMovement(current decimal.Decimal, movementType string, quantity decimal.Decimal, unit string) (decimal.Decimal, error) {
	if !quantity.IsPositive() {
		return current, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	switch movementType {
	case entity.MovementTypeIN:
		return current.Add(quantity), nil
	case entity.MovementTypeOUT:
		next := current.Sub(quantity)
		if next.IsNegative() {
			return current, &domain.InsufficientStockError{Current: current, Requested: quantity, Unit: unit}
		}
		return next, nil
	}
	return current, domain.Invalid("type", "debe ser IN u OUT")
}

// Replay reconstruye el stock desde cero aplicando los movimientos en orden cronológico.
// Se usa para conciliar el libro de stock contra su historial.
func Replay(movements []*entity.StockMovement) decimal.Decimal {
	balance := decimal.Zero
	for _, m := range movements {
		switch m.Type {
		case entity.MovementTypeIN:
			balance = balance.Add(m.Quantity)
		case entity.MovementTypeOUT:
			balance = balance.Sub(m.Quantity)
		}
	}
	return balance
}
