package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/chemflo-api/internal/domain"
	"github.com/jhoicas/chemflo-api/internal/domain/entity"
	"github.com/jhoicas/chemflo-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo libro de stock sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventorySelect = `SELECT i.id, i.product_id, i.current_stock, i.updated_at,` + productColumns + `
	FROM inventory i
	JOIN products p ON p.id = i.product_id
	` + productJoins

// Create crea la entrada del libro de un producto recién creado.
func (r *InventoryRepo) Create(ctx context.Context, inv *entity.Inventory) error {
	query := `INSERT INTO inventory (id, product_id, current_stock, updated_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.q.Exec(ctx, query, inv.ID, inv.ProductID, inv.CurrentStock, inv.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el producto ya tiene inventario", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

// GetByProductID entrada del libro con producto y categoría.
func (r *InventoryRepo) GetByProductID(ctx context.Context, productID string) (*entity.Inventory, error) {
	inv, err := scanInventory(r.q.QueryRow(ctx, inventorySelect+` WHERE i.product_id = $1`, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return inv, nil
}

// GetForUpdate obtiene la entrada y bloquea su fila (SELECT ... FOR UPDATE OF i).
// Solo tiene efecto dentro de una transacción; el bloqueo se libera en Commit/Rollback.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID string) (*entity.Inventory, error) {
	query := `
		SELECT i.id, i.product_id, i.current_stock, i.updated_at, p.name, p.unit, p.low_stock_threshold
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		WHERE i.product_id = $1
		FOR UPDATE OF i`
	var inv entity.Inventory
	var p entity.Product
	err := r.q.QueryRow(ctx, query, productID).Scan(
		&inv.ID, &inv.ProductID, &inv.CurrentStock, &inv.UpdatedAt, &p.Name, &p.Unit, &p.LowStockThreshold,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory for update: %w", err)
	}
	p.ID = inv.ProductID
	inv.Product = &p
	return &inv, nil
}

// UpdateStock fija el stock actual. El CHECK (current_stock >= 0) es la última barrera.
func (r *InventoryRepo) UpdateStock(ctx context.Context, productID string, stock decimal.Decimal, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE inventory SET current_stock = $2, updated_at = $3 WHERE product_id = $1`, productID, stock, at)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista el libro filtrado; el filtro de stock bajo va en el WHERE, antes del LIMIT.
func (r *InventoryRepo) List(ctx context.Context, f repository.InventoryFilter) ([]*entity.Inventory, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	pos := 1
	if f.CategoryID != "" {
		where += fmt.Sprintf(" AND p.category_id = $%d", pos)
		args = append(args, f.CategoryID)
		pos++
	}
	if f.LowStockOnly {
		where += " AND i.current_stock <= p.low_stock_threshold"
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM inventory i JOIN products p ON p.id = i.product_id` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count inventory: %w", err)
	}

	query := inventorySelect + where + " ORDER BY i.updated_at DESC, i.id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, f.Limit, f.Offset)
	}
	list, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListLowStock entradas con current_stock <= low_stock_threshold, por nombre de producto.
func (r *InventoryRepo) ListLowStock(ctx context.Context) ([]*entity.Inventory, error) {
	return r.query(ctx, inventorySelect+` WHERE i.current_stock <= p.low_stock_threshold ORDER BY p.name`)
}

func (r *InventoryRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Inventory, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Inventory, 0)
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}
