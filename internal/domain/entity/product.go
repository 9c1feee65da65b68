package entity

import (
	"regexp"
	"time"
)

// Unidades de medida admitidas para un químico.
const (
	UnitKG    = "KG"    // masa, kilogramos
	UnitMT    = "MT"    // masa, toneladas métricas
	UnitLITRE = "LITRE" // volumen, litros
)

// DefaultLowStockThreshold umbral de stock bajo cuando no se indica uno.
const DefaultLowStockThreshold = 10

var casNumberPattern = regexp.MustCompile(`^\d{1,7}-\d{2}-\d$`)

// Product representa un químico del catálogo, identificado por su número CAS.
// El stock no vive aquí: se maneja en Inventory y solo cambia vía movimientos.
type Product struct {
	ID                string
	Name              string
	CASNumber         string // único, ej. 7732-18-5
	Unit              string // KG, MT, LITRE
	Description       *string
	CategoryID        *string
	LowStockThreshold int
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Category e Inventory se llenan solo en lecturas con JOIN.
	Category  *Category
	Inventory *Inventory
}

// IsValidUnit indica si u pertenece a la enumeración de unidades.
func IsValidUnit(u string) bool {
	switch u {
	case UnitKG, UnitMT, UnitLITRE:
		return true
	}
	return false
}

// IsValidCASNumber valida el formato del número de registro CAS.
func IsValidCASNumber(cas string) bool {
	return casNumberPattern.MatchString(cas)
}
