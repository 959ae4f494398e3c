package ports

import "context"

// OTPSender entrega un código OTP al usuario (SMS, WhatsApp, log en desarrollo).
type OTPSender interface {
	SendOTP(ctx context.Context, phone, code, purpose string) error
}
