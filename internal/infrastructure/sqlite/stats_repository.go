package sqlite

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/chemflo-api/internal/domain/inventory"
	"github.com/jhoicas/chemflo-api/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo agregados del dashboard sobre SQLite.
type StatsRepo struct {
	q Querier
}

func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

// Totals la suma y el conteo de stock bajo se calculan en Go con decimal exacto.
func (r *StatsRepo) Totals(ctx context.Context) (repository.StockTotals, error) {
	var t repository.StockTotals
	err := r.q.QueryRowContext(ctx, `SELECT (SELECT COUNT(*) FROM products), (SELECT COUNT(*) FROM categories)`).
		Scan(&t.TotalProducts, &t.TotalCategories)
	if err != nil {
		return t, fmt.Errorf("stock totals: %w", err)
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT i.current_stock, p.low_stock_threshold FROM inventory i JOIN products p ON p.id = i.product_id`)
	if err != nil {
		return t, fmt.Errorf("stock totals: %w", err)
	}
	defer rows.Close()
	t.TotalStock = decimal.Zero
	for rows.Next() {
		var stock decimal.Decimal
		var threshold int
		if err := rows.Scan(&stock, &threshold); err != nil {
			return t, fmt.Errorf("scan stock: %w", err)
		}
		t.TotalStock = t.TotalStock.Add(stock)
		if inventory.IsLowStock(stock, threshold) {
			t.LowStockCount++
		}
	}
	return t, rows.Err()
}
