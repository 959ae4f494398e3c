package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrPhoneAlreadyExists = errors.New("el teléfono ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrEmptyItems         = errors.New("la transacción debe tener al menos un ítem")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrNotVerified        = errors.New("la cuenta no está verificada")
	ErrAccountInactive    = errors.New("la cuenta está desactivada")
	ErrAccountTerminated  = errors.New("la cuenta fue dada de baja")
	ErrOTPInvalid         = errors.New("código OTP inválido")
	ErrOTPExpired         = errors.New("código OTP vencido")
	ErrTokenRevoked       = errors.New("token revocado")
	ErrUnavailable        = errors.New("servicio no disponible")
)
