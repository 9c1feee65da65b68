package sqlite

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/chemflo-api/internal/domain/entity"
	"github.com/jhoicas/chemflo-api/internal/domain/inventory"
	"github.com/jhoicas/chemflo-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos sobre SQLite. Solo INSERT y lecturas.
type StockMovementRepo struct {
	q Querier
}

func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementSelect = `SELECT m.id, m.product_id, m.type, m.quantity, m.notes, m.created_at,` + productColumns + `
	FROM stock_movements m
	JOIN products p ON p.id = m.product_id
	` + productJoins

func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `INSERT INTO stock_movements (id, product_id, type, quantity, notes, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := r.q.ExecContext(ctx, query, m.ID, m.ProductID, m.Type, m.Quantity, m.Notes, formatTime(m.CreatedAt)); err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if f.ProductID != "" {
		where += ` AND m.product_id = ?`
		args = append(args, f.ProductID)
	}
	if f.Type != "" {
		where += ` AND m.type = ?`
		args = append(args, f.Type)
	}
	if f.From != nil {
		where += ` AND m.created_at >= ?`
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		where += ` AND m.created_at <= ?`
		args = append(args, formatTime(*f.To))
	}

	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM stock_movements m`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock movements: %w", err)
	}

	query := movementSelect + where + ` ORDER BY m.created_at DESC, m.id DESC`
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

func (r *StockMovementRepo) Recent(ctx context.Context, limit int) ([]*entity.StockMovement, error) {
	return r.query(ctx, movementSelect+` ORDER BY m.created_at DESC, m.id DESC LIMIT ?`, limit)
}

// Balance reproduce el historial en Go (las cantidades son TEXT; SUM de SQLite perdería precisión).
func (r *StockMovementRepo) Balance(ctx context.Context, productID string) (decimal.Decimal, int, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT type, quantity FROM stock_movements WHERE product_id = ? ORDER BY created_at, id`, productID)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("movement balance: %w", err)
	}
	defer rows.Close()
	var history []*entity.StockMovement
	for rows.Next() {
		m := &entity.StockMovement{ProductID: productID}
		if err := rows.Scan(&m.Type, &m.Quantity); err != nil {
			return decimal.Zero, 0, fmt.Errorf("scan movement: %w", err)
		}
		history = append(history, m)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, 0, err
	}
	return inventory.Replay(history), len(history), nil
}

func (r *StockMovementRepo) query(ctx context.Context, query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockMovement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
