package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/chemflo-api/internal/application/dto"
	"github.com/jhoicas/chemflo-api/internal/domain/entity"
	"github.com/jhoicas/chemflo-api/internal/domain/inventory"
	"github.com/jhoicas/chemflo-api/internal/domain/repository"
)

// ErrReportUnavailable no hay generador de reportes configurado.
var ErrReportUnavailable = errors.New("reporte de stock no disponible")

// StockReportPDF arma el reporte de existencias de todos los productos y lo renderiza.
// Retorna (pdfBytes, filename, err).
func (uc *StockUseCase) StockReportPDF(ctx context.Context) ([]byte, string, error) {
	if uc.reports == nil {
		return nil, "", ErrReportUnavailable
	}
	now := uc.now()
	report, err := repository.WithinSnapshot(ctx, uc.txRunner, func(ctx context.Context, repos repository.Repositories) (dto.StockReport, error) {
		// Limit 0: todas las entradas
		items, total, err := repos.Inventory.List(ctx, repository.InventoryFilter{})
		if err != nil {
			return dto.StockReport{}, err
		}
		r := dto.StockReport{
			Title:         "Reporte de existencias",
			GeneratedAt:   now,
			TotalProducts: total,
			Rows:          make([]dto.StockReportRow, 0, len(items)),
		}
		for _, inv := range items {
			r.Rows = append(r.Rows, reportRow(inv))
			if inv.Product != nil && inventory.IsLowStock(inv.CurrentStock, inv.Product.LowStockThreshold) {
				r.LowStockCount++
			}
		}
		sort.SliceStable(r.Rows, func(i, j int) bool {
			return strings.ToLower(r.Rows[i].ProductName) < strings.ToLower(r.Rows[j].ProductName)
		})
		return r, nil
	})
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.reports.GenerateStockReport(report)
	if err != nil {
		return nil, "", fmt.Errorf("generar reporte pdf: %w", err)
	}
	return pdf, fmt.Sprintf("stock-%s.pdf", now.Format("20060102-1504")), nil
}

func reportRow(inv *entity.Inventory) dto.StockReportRow {
	row := dto.StockReportRow{CurrentStock: inv.CurrentStock}
	if p := inv.Product; p != nil {
		row.ProductName = p.Name
		row.CASNumber = p.CASNumber
		row.Unit = p.Unit
		row.Threshold = p.LowStockThreshold
		row.Status = inventory.ClassifyStock(inv.CurrentStock, p.LowStockThreshold)
		if p.Category != nil {
			row.CategoryName = p.Category.Name
		}
	}
	return row
}
