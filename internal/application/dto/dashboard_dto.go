package dto

import "github.com/shopspring/decimal"

// DashboardStatsResponse respuesta de GET /api/inventory/stats.
// Todos los valores salen de un mismo snapshot de la BD.
type DashboardStatsResponse struct {
	TotalProducts   int `json:"totalProducts"`
	TotalCategories int `json:"totalCategories"`
	LowStockCount   int `json:"lowStockCount"`
	// TotalStockValue suma cruda de current_stock de todos los productos, sin
	// convertir unidades: mezcla KG, MT y LITRE.
	TotalStockValue decimal.Decimal         `json:"totalStockValue"`
	RecentMovements []StockMovementResponse `json:"recentMovements"`
}
