package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/chemflo-api/internal/domain"
	"github.com/jhoicas/chemflo-api/internal/domain/entity"
	"github.com/jhoicas/chemflo-api/internal/domain/inventory"
)

// UpdateStockRequest body para POST /api/inventory/:productId/stock.
type UpdateStockRequest struct {
	Type     string          `json:"type"`
	Quantity decimal.Decimal `json:"quantity"`
	Notes    *string         `json:"notes,omitempty"`
}

// Validate verifica tipo, cantidad y notas; recorta las notas (vacías → nil).
func (r *UpdateStockRequest) Validate() error {
	if !entity.IsValidMovementType(r.Type) {
		return domain.Invalid("type", "debe ser IN u OUT")
	}
	if !r.Quantity.IsPositive() {
		return domain.Invalid("quantity", "debe ser un número positivo")
	}
	if err := checkScale("quantity", r.Quantity); err != nil {
		return err
	}
	r.Notes = trimOptional(r.Notes)
	if r.Notes != nil {
		if err := checkLen("notes", *r.Notes, 0, MaxNotesLen); err != nil {
			return err
		}
	}
	return nil
}

// InventoryQuery filtros de GET /api/inventory.
type InventoryQuery struct {
	CategoryID   string `query:"categoryId"`
	LowStockOnly bool   `query:"lowStockOnly"`
	PageRequest
}

func (q *InventoryQuery) Validate() error {
	q.PageRequest.Normalize(DefaultPageLimit)
	if q.CategoryID != "" {
		return ValidateUUID("categoryId", q.CategoryID)
	}
	return nil
}

// MovementQuery filtros de GET /api/inventory/movements. Fechas en RFC 3339 o YYYY-MM-DD.
type MovementQuery struct {
	ProductID string `query:"productId"`
	Type      string `query:"type"`
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
	PageRequest

	From *time.Time
	To   *time.Time
}

// Validate normaliza la paginación y parsea el rango de fechas.
// Una fecha sin hora en EndDate cubre el día completo.
func (q *MovementQuery) Validate() error {
	q.PageRequest.Normalize(20)
	if q.ProductID != "" {
		if err := ValidateUUID("productId", q.ProductID); err != nil {
			return err
		}
	}
	if q.Type != "" && !entity.IsValidMovementType(q.Type) {
		return domain.Invalid("type", "debe ser IN u OUT")
	}
	if q.StartDate != "" {
		t, _, err := parseDate(q.StartDate)
		if err != nil {
			return domain.Invalid("startDate", "formato de fecha inválido")
		}
		q.From = &t
	}
	if q.EndDate != "" {
		t, dateOnly, err := parseDate(q.EndDate)
		if err != nil {
			return domain.Invalid("endDate", "formato de fecha inválido")
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		q.To = &t
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return domain.Invalid("endDate", "debe ser posterior a startDate")
	}
	return nil
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.UTC(), false, nil
}

// InventoryResponse entrada del libro de stock con su producto.
type InventoryResponse struct {
	ID           string                `json:"id"`
	ProductID    string                `json:"productId"`
	CurrentStock decimal.Decimal       `json:"currentStock"`
	IsLowStock   bool                  `json:"isLowStock"`
	Status       inventory.StockStatus `json:"status"`
	UpdatedAt    time.Time             `json:"updatedAt"`
	Product      *ProductResponse      `json:"product,omitempty"`
}

func NewInventoryResponse(inv *entity.Inventory) InventoryResponse {
	out := InventoryResponse{
		ID:           inv.ID,
		ProductID:    inv.ProductID,
		CurrentStock: inv.CurrentStock,
		UpdatedAt:    inv.UpdatedAt,
	}
	if inv.Product != nil {
		out.IsLowStock = inventory.IsLowStock(inv.CurrentStock, inv.Product.LowStockThreshold)
		out.Status = inventory.ClassifyStock(inv.CurrentStock, inv.Product.LowStockThreshold)
		p := NewProductResponse(inv.Product)
		out.Product = &p
	}
	return out
}

// StockMovementResponse registro del libro de movimientos.
type StockMovementResponse struct {
	ID        string           `json:"id"`
	ProductID string           `json:"productId"`
	Type      string           `json:"type"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Notes     *string          `json:"notes"`
	CreatedAt time.Time        `json:"createdAt"`
	Product   *ProductResponse `json:"product,omitempty"`
}

func NewStockMovementResponse(m *entity.StockMovement) StockMovementResponse {
	out := StockMovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
	}
	if m.Product != nil {
		p := NewProductResponse(m.Product)
		out.Product = &p
	}
	return out
}

func NewStockMovementResponses(ms []*entity.StockMovement) []StockMovementResponse {
	out := make([]StockMovementResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, NewStockMovementResponse(m))
	}
	return out
}

// StockUpdateResponse resultado de una mutación de stock confirmada.
type StockUpdateResponse struct {
	Inventory InventoryResponse     `json:"inventory"`
	Movement  StockMovementResponse `json:"movement"`
}

// InventoryListResponse lista paginada del libro de stock.
type InventoryListResponse struct {
	Inventories []InventoryResponse `json:"inventories"`
	Pagination  PageResponse        `json:"pagination"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Movements  []StockMovementResponse `json:"movements"`
	Pagination PageResponse            `json:"pagination"`
}

// ReconcileResponse compara el stock del libro contra la reproducción de sus movimientos.
type ReconcileResponse struct {
	ProductID     string          `json:"productId"`
	CurrentStock  decimal.Decimal `json:"currentStock"`
	ReplayedStock decimal.Decimal `json:"replayedStock"`
	Difference    decimal.Decimal `json:"difference"`
	MovementCount int             `json:"movementCount"`
	Consistent    bool            `json:"consistent"`
}
