package entity

import (
	"regexp"
	"time"
)

// DefaultCategoryColor color asignado cuando la categoría se crea sin uno.
const DefaultCategoryColor = "#6366f1"

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Category agrupa productos bajo un nombre único y un color de presentación.
type Category struct {
	ID           string
	Name         string
	Description  *string
	Color        string
	ProductCount int // solo en listados
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsValidColor valida un color hexadecimal de 6 dígitos (#RRGGBB).
func IsValidColor(c string) bool {
	return hexColorPattern.MatchString(c)
}
