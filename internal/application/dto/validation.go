package dto

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/chemflo-api/internal/domain"
)

// Límites de longitud de los campos de texto.
const (
	MaxNotesLen               = 500
	MaxProductDescriptionLen  = 1000
	MaxCategoryDescriptionLen = 500
)

// MaxQuantityScale decimales admitidos en cantidades de stock.
const MaxQuantityScale = 3

// ValidateUUID valida que id sea un UUID.
func ValidateUUID(field, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Invalid(field, "no es un UUID válido")
	}
	return nil
}

// trimOptional recorta s; vacío se normaliza a nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func checkLen(field, s string, min, max int) error {
	n := utf8.RuneCountInString(s)
	if n < min || n > max {
		if min == 0 {
			return domain.Invalid(field, fmt.Sprintf("no debe exceder %d caracteres", max))
		}
		return domain.Invalid(field, fmt.Sprintf("debe tener entre %d y %d caracteres", min, max))
	}
	return nil
}

// checkScale rechaza cantidades con más de MaxQuantityScale decimales significativos ("1.500" es válido).
func checkScale(field string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(MaxQuantityScale)) {
		return domain.Invalid(field, fmt.Sprintf("admite como máximo %d decimales", MaxQuantityScale))
	}
	return nil
}
