package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/chemflo-api/internal/domain/entity"
)

// Columnas de producto + categoría (LEFT JOIN) usadas por varios repositorios.
const productColumns = `
	p.id, p.name, p.cas_number, p.unit, p.description, p.category_id, p.low_stock_threshold, p.created_at, p.updated_at,
	c.id, c.name, c.description, c.color, c.created_at, c.updated_at`

const productJoins = `LEFT JOIN categories c ON c.id = p.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

// productRow destinos de Scan para productColumns. La categoría puede venir NULL.
type productRow struct {
	p        entity.Product
	catID    *string
	catName  *string
	catDesc  *string
	catColor *string
	catCAt   *time.Time
	catUAt   *time.Time
}

func (r *productRow) dest() []any {
	return []any{
		&r.p.ID, &r.p.Name, &r.p.CASNumber, &r.p.Unit, &r.p.Description, &r.p.CategoryID,
		&r.p.LowStockThreshold, &r.p.CreatedAt, &r.p.UpdatedAt,
		&r.catID, &r.catName, &r.catDesc, &r.catColor, &r.catCAt, &r.catUAt,
	}
}

func (r *productRow) product() *entity.Product {
	p := r.p
	if r.catID != nil {
		c := &entity.Category{ID: *r.catID, Description: r.catDesc}
		if r.catName != nil {
			c.Name = *r.catName
		}
		if r.catColor != nil {
			c.Color = *r.catColor
		}
		if r.catCAt != nil {
			c.CreatedAt = *r.catCAt
		}
		if r.catUAt != nil {
			c.UpdatedAt = *r.catUAt
		}
		p.Category = c
	}
	return &p
}

// inventoryRow inventario embebido en lecturas de producto (LEFT JOIN inventory i).
type inventoryRow struct {
	id        *string
	stock     decimal.NullDecimal
	updatedAt *time.Time
}

func (r *inventoryRow) dest() []any {
	return []any{&r.id, &r.stock, &r.updatedAt}
}

func (r *inventoryRow) inventory(productID string) *entity.Inventory {
	if r.id == nil {
		return nil
	}
	inv := &entity.Inventory{ID: *r.id, ProductID: productID, CurrentStock: r.stock.Decimal}
	if r.updatedAt != nil {
		inv.UpdatedAt = *r.updatedAt
	}
	return inv
}

func scanProductWithInventory(s rowScanner) (*entity.Product, error) {
	var pr productRow
	var ir inventoryRow
	if err := s.Scan(append(pr.dest(), ir.dest()...)...); err != nil {
		return nil, err
	}
	p := pr.product()
	p.Inventory = ir.inventory(p.ID)
	return p, nil
}

// scanInventory lee i.* seguido de productColumns.
func scanInventory(s rowScanner) (*entity.Inventory, error) {
	var inv entity.Inventory
	var pr productRow
	dest := append([]any{&inv.ID, &inv.ProductID, &inv.CurrentStock, &inv.UpdatedAt}, pr.dest()...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	inv.Product = pr.product()
	return &inv, nil
}

// scanMovement lee m.* seguido de productColumns.
func scanMovement(s rowScanner) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var pr productRow
	dest := append([]any{&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Notes, &m.CreatedAt}, pr.dest()...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	m.Product = pr.product()
	return &m, nil
}
