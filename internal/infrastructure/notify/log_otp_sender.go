// Package notify entrega de códigos OTP.
package notify

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/application/ports"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

var _ ports.OTPSender = (*LogOTPSender)(nil)

// LogOTPSender registra el OTP en el log en lugar de enviarlo por SMS.
// El código solo aparece en nivel debug.
type LogOTPSender struct {
	log *logger.Logger
}

// NewLogOTPSender construye el sender.
func NewLogOTPSender(log *logger.Logger) *LogOTPSender {
	if log == nil {
		log = logger.Nop()
	}
	return &LogOTPSender{log: log.Named("otp")}
}

// SendOTP nunca falla.
func (s *LogOTPSender) SendOTP(_ context.Context, phone, code, purpose string) error {
	s.log.Info().Str("phone", maskPhone(phone)).Str("purpose", purpose).Msg("OTP emitido")
	s.log.Debug().Str("phone", phone).Str("purpose", purpose).Str("code", code).Msg("OTP (desarrollo)")
	return nil
}

// maskPhone deja visibles los últimos 3 dígitos.
func maskPhone(phone string) string {
	if len(phone) <= 3 {
		return "***"
	}
	masked := make([]byte, len(phone))
	for i := range phone {
		if i < len(phone)-3 {
			masked[i] = '*'
		} else {
			masked[i] = phone[i]
		}
	}
	return string(masked)
}
