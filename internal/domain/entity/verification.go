package entity

import "time"

// Propósitos de un OTP.
const (
	OTPPurposePhoneVerification = "phone_verification"
	OTPPurposePasswordReset     = "password_reset"
)

// VerificationOTP código de 6 dígitos enviado al teléfono del usuario. Uso único.
type VerificationOTP struct {
	ID        string
	UserID    string
	Purpose   string
	Code      string
	Used      bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsValid indica si el código sigue vigente y no fue usado.
func (o *VerificationOTP) IsValid(now time.Time) bool {
	return !o.Used && now.Before(o.ExpiresAt)
}

// PasswordResetToken permiso temporal para fijar una nueva contraseña tras verificar el OTP.
type PasswordResetToken struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsValid indica si el token no ha vencido.
func (t *PasswordResetToken) IsValid(now time.Time) bool {
	return now.Before(t.ExpiresAt)
}
