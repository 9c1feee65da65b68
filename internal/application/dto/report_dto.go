package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/chemflo-api/internal/domain/inventory"
)

// StockReport datos del reporte PDF de existencias.
type StockReport struct {
	Title         string
	GeneratedAt   time.Time
	TotalProducts int
	LowStockCount int
	Rows          []StockReportRow
}

// StockReportRow una fila por producto, ordenadas por nombre.
type StockReportRow struct {
	ProductName  string
	CASNumber    string
	CategoryName string
	Unit         string
	CurrentStock decimal.Decimal
	Threshold    int
	Status       inventory.StockStatus
}
