package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.VerificationRepository = (*VerificationRepo)(nil)

// VerificationRepo OTPs y tokens de restablecimiento sobre PostgreSQL.
type VerificationRepo struct {
	q Querier
}

// NewVerificationRepository construye el adaptador.
func NewVerificationRepository(q Querier) *VerificationRepo {
	return &VerificationRepo{q: q}
}

// CreateOTP persiste un código emitido.
func (r *VerificationRepo) CreateOTP(ctx context.Context, otp *entity.VerificationOTP) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO verification_otps (id, user_id, purpose, code, used, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		otp.ID, otp.UserID, otp.Purpose, otp.Code, otp.Used, otp.ExpiresAt, otp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}
	return nil
}

// LatestOTP último código emitido para el usuario y propósito. (nil, nil) si no hay.
func (r *VerificationRepo) LatestOTP(ctx context.Context, userID, purpose string) (*entity.VerificationOTP, error) {
	var o entity.VerificationOTP
	err := r.q.QueryRow(ctx, `
		SELECT id, user_id, purpose, code, used, expires_at, created_at
		FROM verification_otps WHERE user_id = $1 AND purpose = $2
		ORDER BY created_at DESC LIMIT 1`, userID, purpose,
	).Scan(&o.ID, &o.UserID, &o.Purpose, &o.Code, &o.Used, &o.ExpiresAt, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get otp: %w", err)
	}
	return &o, nil
}

// MarkOTPUsed invalida un código tras usarlo. Si ya estaba usado devuelve domain.ErrOTPInvalid.
func (r *VerificationRepo) MarkOTPUsed(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE verification_otps SET used = TRUE WHERE id = $1 AND NOT used`, id)
	if err != nil {
		return fmt.Errorf("mark otp used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOTPInvalid
	}
	return nil
}

// DeleteOTPs borra todos los códigos del usuario.
func (r *VerificationRepo) DeleteOTPs(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM verification_otps WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete otps: %w", err)
	}
	return nil
}

// CreateResetToken persiste un token de restablecimiento.
func (r *VerificationRepo) CreateResetToken(ctx context.Context, t *entity.PasswordResetToken) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO password_reset_tokens (id, user_id, expires_at, created_at) VALUES ($1, $2, $3, $4)`,
		t.ID, t.UserID, t.ExpiresAt, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}
	return nil
}

// GetResetToken busca el token del usuario. (nil, nil) si no existe.
func (r *VerificationRepo) GetResetToken(ctx context.Context, id, userID string) (*entity.PasswordResetToken, error) {
	var t entity.PasswordResetToken
	err := r.q.QueryRow(ctx, `
		SELECT id, user_id, expires_at, created_at FROM password_reset_tokens WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&t.ID, &t.UserID, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reset token: %w", err)
	}
	return &t, nil
}

// DeleteResetToken consume el token. domain.ErrNotFound si ya no existía.
func (r *VerificationRepo) DeleteResetToken(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM password_reset_tokens WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
