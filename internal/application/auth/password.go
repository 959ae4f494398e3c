package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

const minPasswordLen = 8

// ForgetPassword envía un OTP de recuperación al teléfono.
func (uc *AuthUseCase) ForgetPassword(ctx context.Context, in dto.PhoneRequest) (*dto.MessageResponse, error) {
	user, err := uc.userByPhone(ctx, in.Phone)
	if err != nil {
		return nil, err
	}
	code, err := uc.issueOTP(ctx, uc.verRepo, user.ID, entity.OTPPurposePasswordReset)
	if err != nil {
		return nil, err
	}
	uc.deliverOTP(ctx, user, code, entity.OTPPurposePasswordReset)
	return &dto.MessageResponse{Message: "Se envió un código de recuperación"}, nil
}

// VerifyResetOTP canjea el OTP de recuperación por un token de restablecimiento.
func (uc *AuthUseCase) VerifyResetOTP(ctx context.Context, in dto.VerifyOTPRequest) (*dto.ResetTokenResponse, error) {
	user, err := uc.userByPhone(ctx, in.Phone)
	if err != nil {
		return nil, err
	}
	if err := uc.consumeOTP(ctx, user.ID, entity.OTPPurposePasswordReset, in.OTP); err != nil {
		return nil, err
	}
	now := uc.now()
	token := &entity.PasswordResetToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: now.Add(uc.cfg.ResetTokenTTL),
		CreatedAt: now,
	}
	if err := uc.verRepo.CreateResetToken(ctx, token); err != nil {
		return nil, err
	}
	return &dto.ResetTokenResponse{
		Message: "Código verificado",
		UserID:  user.ID,
		TokenID: token.ID,
	}, nil
}

// SetNewPassword fija la contraseña con un token vigente y lo consume.
// Token inexistente o vencido = ErrInvalidInput.
func (uc *AuthUseCase) SetNewPassword(ctx context.Context, in dto.NewPasswordRequest) (*dto.MessageResponse, error) {
	token, err := uc.verRepo.GetResetToken(ctx, in.TokenID, in.UserID)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, domain.ErrInvalidInput
	}
	if !token.IsValid(uc.now()) {
		if err := uc.verRepo.DeleteResetToken(ctx, token.ID); err != nil {
			uc.log.Warn().Err(err).Str("token_id", token.ID).Msg("no se pudo borrar el token vencido")
		}
		return nil, domain.ErrInvalidInput
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.ErrInvalidInput
	}
	// Se consume antes de cambiar la contraseña: de dos requests simultáneos solo uno avanza.
	if err := uc.verRepo.DeleteResetToken(ctx, token.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidInput
		}
		return nil, err
	}
	if err := uc.setPassword(ctx, token.UserID, in.Password); err != nil {
		return nil, err
	}
	return &dto.MessageResponse{Message: "Contraseña actualizada"}, nil
}

// ChangePassword cambia la contraseña verificando la actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) (*dto.MessageResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.OldPassword)) != nil {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.setPassword(ctx, user.ID, in.NewPassword); err != nil {
		return nil, err
	}
	return &dto.MessageResponse{Message: "Contraseña actualizada"}, nil
}

func (uc *AuthUseCase) setPassword(ctx context.Context, userID, password string) error {
	if len(password) < minPasswordLen {
		return domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdatePassword(ctx, userID, string(hash))
}
