package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// ValidationError detalla qué campo de la entrada es inválido.
// errors.Is(err, ErrInvalidInput) es verdadero para cualquier ValidationError.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// InsufficientStockError se devuelve cuando una salida (OUT) dejaría el stock en negativo.
// Lleva el stock actual, la cantidad pedida y la unidad del producto.
type InsufficientStockError struct {
	Current   decimal.Decimal
	Requested decimal.Decimal
	Unit      string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente. Actual: %s %s, solicitado: %s %s",
		e.Current.String(), e.Unit, e.Requested.String(), e.Unit)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
