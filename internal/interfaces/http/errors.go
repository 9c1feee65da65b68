package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/chemflo-api/internal/application/dto"
	appinventory "github.com/jhoicas/chemflo-api/internal/application/inventory"
	"github.com/jhoicas/chemflo-api/internal/domain"
	"github.com/jhoicas/chemflo-api/pkg/logger"
)

// Códigos de error de la API.
const (
	CodeValidation        = "VALIDATION"
	CodeInvalidBody       = "INVALID_BODY"
	CodeNotFound          = "NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeDuplicate         = "DUPLICATE"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeMissingToken      = "MISSING_TOKEN"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeUnavailable       = "UNAVAILABLE"
	CodeInternal          = "INTERNAL"
)

// writeError traduce un error de dominio a status + dto.ErrorResponse.
// Lo no reconocido responde 500 sin detalle y se registra.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var insufficient *domain.InsufficientStockError
	var invalid *domain.ValidationError
	switch {
	case errors.As(err, &insufficient):
		return respond(c, fiber.StatusBadRequest, CodeInsufficientStock, insufficient.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		return respond(c, fiber.StatusBadRequest, CodeInsufficientStock, err.Error())
	case errors.As(err, &invalid):
		return respond(c, fiber.StatusBadRequest, CodeValidation, invalid.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return respond(c, fiber.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return respond(c, fiber.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		return respond(c, fiber.StatusConflict, CodeDuplicate, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return respond(c, fiber.StatusUnauthorized, CodeUnauthorized, err.Error())
	case errors.Is(err, appinventory.ErrReportUnavailable):
		return respond(c, fiber.StatusServiceUnavailable, CodeUnavailable, err.Error())
	}
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("error no controlado")
	return respond(c, fiber.StatusInternalServerError, CodeInternal, "error interno del servidor")
}

func respond(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message})
}

func invalidBody(c *fiber.Ctx) error {
	return respond(c, fiber.StatusBadRequest, CodeInvalidBody, "cuerpo inválido")
}
