package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/infrastructure/export"
	"github.com/jhoicas/estoque-api/pkg/validator"
)

// errInvalidBody cuerpo o query que no se pudo decodificar.
var errInvalidBody = errors.New("cuerpo inválido")

// NewErrorHandler traduce los errores devueltos por handlers a dto.ErrorResponse.
// Los errores no clasificados se registran y se responden con un mensaje genérico.
func NewErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := classify(err)
		if status == fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("error interno")
		}
		return c.Status(status).JSON(body)
	}
}

func classify(err error) (int, dto.ErrorResponse) {
	var (
		stockErr *domain.InsufficientStockError
		valErr   *domain.ValidationError
		fiberErr *fiber.Error
	)
	switch {
	case errors.As(err, &stockErr):
		available := stockErr.Available
		return fiber.StatusConflict, dto.ErrorResponse{
			Code:      "INSUFFICIENT_STOCK",
			Message:   "estoque insuficiente",
			Available: &available,
		}
	case errors.As(err, &valErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: valErr.Fields}
	case validator.IsValidationError(err):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: validator.Fields(err)}
	case errors.Is(err, errInvalidBody):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"}
	case errors.Is(err, export.ErrUnknownFormat):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_FORMAT", Message: "formato debe ser csv, xlsx o pdf"}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "autenticación requerida"}
	case errors.Is(err, domain.ErrInactiveProfile):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "INACTIVE_PROFILE", Message: "usuario inactivo"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto con el estado actual"}
	case errors.As(err, &fiberErr):
		return fiberErr.Code, dto.ErrorResponse{Code: "HTTP_ERROR", Message: fiberErr.Message}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno, intente más tarde"}
}

// binder decodifica y valida la entrada de los handlers.
type binder struct {
	v validator.Validator
}

func (b binder) body(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return errInvalidBody
	}
	return b.v.Validate(dst)
}

func (b binder) query(c *fiber.Ctx, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return errInvalidBody
	}
	return b.v.Validate(dst)
}

// idParam devuelve el parámetro :id. Un id que no es UUID no puede existir: ErrNotFound.
func idParam(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", domain.ErrNotFound
	}
	return id, nil
}
