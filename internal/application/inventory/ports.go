package inventory

import "github.com/jhoicas/chemflo-api/internal/application/dto"

// StockReportGenerator renderiza el reporte de existencias (implementado en infrastructure/pdf).
type StockReportGenerator interface {
	GenerateStockReport(report dto.StockReport) ([]byte, error)
}
