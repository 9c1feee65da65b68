package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/chemflo-api/internal/domain/entity"
	"github.com/jhoicas/chemflo-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos sobre PostgreSQL. Solo INSERT y lecturas.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementSelect = `SELECT m.id, m.product_id, m.type, m.quantity, m.notes, m.created_at,` + productColumns + `
	FROM stock_movements m
	JOIN products p ON p.id = m.product_id
	` + productJoins

// Create persiste un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, type, quantity, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, m.ID, m.ProductID, m.Type, m.Quantity, m.Notes, m.CreatedAt); err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// List movimientos filtrados, más reciente primero, con el total que cumple el filtro.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	pos := 1
	if f.ProductID != "" {
		where += fmt.Sprintf(" AND m.product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.Type != "" {
		where += fmt.Sprintf(" AND m.type = $%d", pos)
		args = append(args, f.Type)
		pos++
	}
	if f.From != nil {
		where += fmt.Sprintf(" AND m.created_at >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		where += fmt.Sprintf(" AND m.created_at <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements m`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock movements: %w", err)
	}

	query := movementSelect + where + " ORDER BY m.created_at DESC, m.id DESC"
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

// Recent los n movimientos más recientes de todo el sistema.
func (r *StockMovementRepo) Recent(ctx context.Context, limit int) ([]*entity.StockMovement, error) {
	return r.query(ctx, movementSelect+" ORDER BY m.created_at DESC, m.id DESC LIMIT $1", limit)
}

// Balance suma de IN menos suma de OUT del producto y cantidad de movimientos.
func (r *StockMovementRepo) Balance(ctx context.Context, productID string) (decimal.Decimal, int, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE -quantity END), 0), COUNT(*)
		FROM stock_movements WHERE product_id = $1`
	var balance decimal.Decimal
	var count int
	if err := r.q.QueryRow(ctx, query, productID).Scan(&balance, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("movement balance: %w", err)
	}
	return balance, count, nil
}

func (r *StockMovementRepo) query(ctx context.Context, query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
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
