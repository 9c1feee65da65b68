package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/chemflo-api/internal/domain"
	"github.com/jhoicas/chemflo-api/internal/domain/entity"
	"github.com/jhoicas/chemflo-api/internal/domain/repository"
)

// CreateProductRequest entrada para crear un producto con su stock inicial.
type CreateProductRequest struct {
	Name              string           `json:"name"`
	CASNumber         string           `json:"casNumber"`
	Unit              string           `json:"unit"`
	Description       *string          `json:"description,omitempty"`
	CategoryID        *string          `json:"categoryId,omitempty"`
	LowStockThreshold *int             `json:"lowStockThreshold,omitempty"`
	InitialStock      *decimal.Decimal `json:"initialStock,omitempty"`
}

// Validate recorta y valida los campos; aplica el umbral por defecto.
func (r *CreateProductRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.CASNumber = strings.TrimSpace(r.CASNumber)
	if err := checkLen("name", r.Name, 2, 200); err != nil {
		return err
	}
	if !entity.IsValidCASNumber(r.CASNumber) {
		return domain.Invalid("casNumber", "formato CAS inválido (ej. 7732-18-5)")
	}
	if !entity.IsValidUnit(r.Unit) {
		return domain.Invalid("unit", "debe ser KG, MT o LITRE")
	}
	r.Description = trimOptional(r.Description)
	if r.Description != nil {
		if err := checkLen("description", *r.Description, 0, MaxProductDescriptionLen); err != nil {
			return err
		}
	}
	r.CategoryID = trimOptional(r.CategoryID)
	if r.CategoryID != nil {
		if err := ValidateUUID("categoryId", *r.CategoryID); err != nil {
			return err
		}
	}
	if r.LowStockThreshold == nil {
		t := entity.DefaultLowStockThreshold
		r.LowStockThreshold = &t
	} else if *r.LowStockThreshold < 0 {
		return domain.Invalid("lowStockThreshold", "debe ser un entero no negativo")
	}
	if r.InitialStock != nil {
		if r.InitialStock.IsNegative() {
			return domain.Invalid("initialStock", "debe ser un número no negativo")
		}
		if err := checkScale("initialStock", *r.InitialStock); err != nil {
			return err
		}
	}
	return nil
}

// UpdateProductRequest entrada para actualizar un producto. El stock no se toca aquí.
// CategoryID admite null explícito para quitar la categoría.
type UpdateProductRequest struct {
	Name              *string          `json:"name"`
	CASNumber         *string          `json:"casNumber"`
	Unit              *string          `json:"unit"`
	Description       *string          `json:"description"`
	CategoryID        Nullable[string] `json:"categoryId"`
	LowStockThreshold *int             `json:"lowStockThreshold"`
}

func (r *UpdateProductRequest) Validate() error {
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		r.Name = &n
		if err := checkLen("name", n, 2, 200); err != nil {
			return err
		}
	}
	if r.CASNumber != nil {
		cas := strings.TrimSpace(*r.CASNumber)
		r.CASNumber = &cas
		if !entity.IsValidCASNumber(cas) {
			return domain.Invalid("casNumber", "formato CAS inválido (ej. 7732-18-5)")
		}
	}
	if r.Unit != nil && !entity.IsValidUnit(*r.Unit) {
		return domain.Invalid("unit", "debe ser KG, MT o LITRE")
	}
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		r.Description = &d
		if err := checkLen("description", d, 0, MaxProductDescriptionLen); err != nil {
			return err
		}
	}
	if r.CategoryID.Value != nil {
		if err := ValidateUUID("categoryId", *r.CategoryID.Value); err != nil {
			return err
		}
	}
	if r.LowStockThreshold != nil && *r.LowStockThreshold < 0 {
		return domain.Invalid("lowStockThreshold", "debe ser un entero no negativo")
	}
	return nil
}

// ProductQuery filtros de GET /api/products.
type ProductQuery struct {
	Search     string
	CategoryID string
	SortBy     string
	SortOrder  string
	PageRequest
}

var productSortColumns = map[string]bool{
	repository.ProductSortName:              true,
	repository.ProductSortCASNumber:         true,
	repository.ProductSortCreatedAt:         true,
	repository.ProductSortUpdatedAt:         true,
	repository.ProductSortLowStockThreshold: true,
}

func (q *ProductQuery) Validate() error {
	q.PageRequest.Normalize(DefaultPageLimit)
	q.Search = strings.TrimSpace(q.Search)
	if q.CategoryID != "" {
		if err := ValidateUUID("categoryId", q.CategoryID); err != nil {
			return err
		}
	}
	if q.SortBy == "" {
		q.SortBy = repository.ProductSortCreatedAt
	}
	if !productSortColumns[q.SortBy] {
		return domain.Invalid("sortBy", "columna de orden no permitida")
	}
	switch strings.ToLower(q.SortOrder) {
	case "":
		q.SortOrder = "desc"
	case "asc", "desc":
		q.SortOrder = strings.ToLower(q.SortOrder)
	default:
		return domain.Invalid("sortOrder", "debe ser asc o desc")
	}
	return nil
}

// Filter traduce la consulta al filtro del repositorio.
func (q ProductQuery) Filter() repository.ProductFilter {
	return repository.ProductFilter{
		Search:     q.Search,
		CategoryID: q.CategoryID,
		SortBy:     q.SortBy,
		SortDesc:   q.SortOrder == "desc",
		Limit:      q.Limit,
		Offset:     q.Offset(),
	}
}

// InventoryBrief stock embebido en la respuesta de producto.
type InventoryBrief struct {
	ID           string          `json:"id"`
	CurrentStock decimal.Decimal `json:"currentStock"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	CASNumber         string            `json:"casNumber"`
	Unit              string            `json:"unit"`
	Description       *string           `json:"description"`
	CategoryID        *string           `json:"categoryId"`
	LowStockThreshold int               `json:"lowStockThreshold"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
	Category          *CategoryResponse `json:"category"`
	Inventory         *InventoryBrief   `json:"inventory,omitempty"`
}

func NewProductResponse(p *entity.Product) ProductResponse {
	out := ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		CASNumber:         p.CASNumber,
		Unit:              p.Unit,
		Description:       p.Description,
		CategoryID:        p.CategoryID,
		LowStockThreshold: p.LowStockThreshold,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if p.Category != nil {
		c := NewCategoryResponse(p.Category)
		out.Category = &c
	}
	if p.Inventory != nil {
		out.Inventory = &InventoryBrief{
			ID:           p.Inventory.ID,
			CurrentStock: p.Inventory.CurrentStock,
			UpdatedAt:    p.Inventory.UpdatedAt,
		}
	}
	return out
}

// NewLowStockProductResponse producto de una entrada del libro, con su stock embebido.
func NewLowStockProductResponse(inv *entity.Inventory) ProductResponse {
	p := *inv.Product
	p.Inventory = &entity.Inventory{ID: inv.ID, ProductID: inv.ProductID, CurrentStock: inv.CurrentStock, UpdatedAt: inv.UpdatedAt}
	return NewProductResponse(&p)
}

func NewProductResponses(ps []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, NewProductResponse(p))
	}
	return out
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Products   []ProductResponse `json:"products"`
	Pagination PageResponse      `json:"pagination"`
}
