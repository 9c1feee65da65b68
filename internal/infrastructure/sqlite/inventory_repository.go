package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/chemflo-api/internal/domain"
	"github.com/jhoicas/chemflo-api/internal/domain/entity"
	"github.com/jhoicas/chemflo-api/internal/domain/inventory"
	"github.com/jhoicas/chemflo-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo libro de stock sobre SQLite.
type InventoryRepo struct {
	q Querier
}

func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventorySelect = `SELECT i.id, i.product_id, i.current_stock, i.updated_at,` + productColumns + `
	FROM inventory i
	JOIN products p ON p.id = i.product_id
	` + productJoins

func (r *InventoryRepo) Create(ctx context.Context, inv *entity.Inventory) error {
	query := `INSERT INTO inventory (id, product_id, current_stock, updated_at) VALUES (?, ?, ?, ?)`
	if _, err := r.q.ExecContext(ctx, query, inv.ID, inv.ProductID, inv.CurrentStock, formatTime(inv.UpdatedAt)); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el producto ya tiene inventario", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

func (r *InventoryRepo) GetByProductID(ctx context.Context, productID string) (*entity.Inventory, error) {
	inv, err := scanInventory(r.q.QueryRowContext(ctx, inventorySelect+` WHERE i.product_id = ?`, productID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return inv, nil
}

// GetForUpdate en SQLite no hay bloqueo por fila: la transacción ya es la única
// escritora (BEGIN IMMEDIATE sobre una sola conexión).
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID string) (*entity.Inventory, error) {
	return r.GetByProductID(ctx, productID)
}

func (r *InventoryRepo) UpdateStock(ctx context.Context, productID string, stock decimal.Decimal, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `UPDATE inventory SET current_stock = ?, updated_at = ? WHERE product_id = ?`,
		stock, formatTime(at), productID)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("update stock: %w", err)
	}
	return affectedOrNotFound(res)
}

// List con LowStockOnly filtra en Go con inventory.IsLowStock antes de paginar:
// current_stock es TEXT y compararlo como REAL pierde precisión decimal.
func (r *InventoryRepo) List(ctx context.Context, f repository.InventoryFilter) ([]*entity.Inventory, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if f.CategoryID != "" {
		where += ` AND p.category_id = ?`
		args = append(args, f.CategoryID)
	}
	const order = ` ORDER BY i.updated_at DESC, i.id`

	if f.LowStockOnly {
		all, err := r.query(ctx, inventorySelect+where+order, args...)
		if err != nil {
			return nil, 0, err
		}
		low := filterLowStock(all)
		return paginate(low, f.Limit, f.Offset), len(low), nil
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM inventory i JOIN products p ON p.id = i.product_id` + where
	if err := r.q.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count inventory: %w", err)
	}

	query := inventorySelect + where + order
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}
	list, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *InventoryRepo) ListLowStock(ctx context.Context) ([]*entity.Inventory, error) {
	all, err := r.query(ctx, inventorySelect+` ORDER BY p.name`)
	if err != nil {
		return nil, err
	}
	return filterLowStock(all), nil
}

// filterLowStock aplica el mismo predicado decimal que StatsRepo.Totals.
func filterLowStock(list []*entity.Inventory) []*entity.Inventory {
	out := make([]*entity.Inventory, 0, len(list))
	for _, inv := range list {
		if inv.Product != nil && inventory.IsLowStock(inv.CurrentStock, inv.Product.LowStockThreshold) {
			out = append(out, inv)
		}
	}
	return out
}

func paginate(list []*entity.Inventory, limit, offset int) []*entity.Inventory {
	if limit <= 0 {
		return list
	}
	if offset >= len(list) {
		return []*entity.Inventory{}
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

func (r *InventoryRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Inventory, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
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
