package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/chemflo-api/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo agregados del dashboard. Usar dentro de RunReadOnly para un snapshot consistente.
type StatsRepo struct {
	q Querier
}

func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

// Totals conteos y suma cruda del stock en una sola consulta.
func (r *StatsRepo) Totals(ctx context.Context) (repository.StockTotals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM inventory i JOIN products p ON p.id = i.product_id
				WHERE i.current_stock <= p.low_stock_threshold),
			(SELECT COALESCE(SUM(current_stock), 0) FROM inventory)`
	var t repository.StockTotals
	if err := r.q.QueryRow(ctx, query).Scan(&t.TotalProducts, &t.TotalCategories, &t.LowStockCount, &t.TotalStock); err != nil {
		return repository.StockTotals{}, fmt.Errorf("stock totals: %w", err)
	}
	return t, nil
}
