package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// VerificationRepository persiste OTPs y tokens de restablecimiento de contraseña.
type VerificationRepository interface {
	CreateOTP(ctx context.Context, otp *entity.VerificationOTP) error
	// LatestOTP devuelve el OTP más reciente del usuario para el propósito dado.
	LatestOTP(ctx context.Context, userID, purpose string) (*entity.VerificationOTP, error)
	// MarkOTPUsed es condicional (solo si no estaba usado): domain.ErrOTPInvalid si otro lo consumió antes.
	MarkOTPUsed(ctx context.Context, id string) error
	DeleteOTPs(ctx context.Context, userID string) error

	CreateResetToken(ctx context.Context, token *entity.PasswordResetToken) error
	GetResetToken(ctx context.Context, id, userID string) (*entity.PasswordResetToken, error)
	// DeleteResetToken devuelve domain.ErrNotFound si el token ya fue consumido.
	DeleteResetToken(ctx context.Context, id string) error
}
