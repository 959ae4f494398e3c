package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
)

// errorMapping status HTTP + código estable para un error de dominio.
type errorMapping struct {
	err    error
	status int
	code   string
}

// El orden importa: se usa el primer errors.Is que coincida.
var errorMappings = []errorMapping{
	{domain.ErrEmptyItems, fiber.StatusBadRequest, "EMPTY_ITEMS"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrOTPInvalid, fiber.StatusBadRequest, "OTP_INVALID"},
	{domain.ErrOTPExpired, fiber.StatusBadRequest, "OTP_EXPIRED"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrTokenRevoked, fiber.StatusUnauthorized, "TOKEN_REVOKED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotVerified, fiber.StatusForbidden, "NOT_VERIFIED"},
	{domain.ErrAccountInactive, fiber.StatusForbidden, "ACCOUNT_INACTIVE"},
	{domain.ErrAccountTerminated, fiber.StatusForbidden, "ACCOUNT_TERMINATED"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrPhoneAlreadyExists, fiber.StatusConflict, "PHONE_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUnavailable, fiber.StatusServiceUnavailable, "UNAVAILABLE"},
}

// writeError traduce err a la respuesta JSON. Los errores no clasificados se registran
// y se devuelven como 500 sin exponer el detalle.
func writeError(c *fiber.Ctx, err error) error {
	var ve *validationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
			Details: ve.fields,
		})
	}
	if errors.Is(err, errInvalidBody) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.err.Error()})
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
	}

	log.Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// ErrorHandler handler global de Fiber: rutas inexistentes, panics recuperados, etc.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}
