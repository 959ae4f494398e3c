package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/pkg/jwt"
)

// Resultados de login para la métrica pos_login_attempts_total.
const (
	loginSuccess     = "success"
	loginInvalid     = "invalid_credentials"
	loginBlocked     = "blocked"
	loginUnavailable = "error"
)

// Login verifica teléfono/password y emite el par de tokens.
// Usuario inexistente y password incorrecta devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByPhone(ctx, strings.TrimSpace(in.Phone))
	if err != nil {
		uc.metrics.LoginAttempt(loginUnavailable)
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		uc.metrics.LoginAttempt(loginInvalid)
		return nil, domain.ErrUnauthorized
	}
	if err := blockError(user); err != nil {
		uc.metrics.LoginAttempt(loginBlocked)
		return nil, err
	}

	access, refresh, err := uc.issuePair(user)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo registrar el último login")
	}
	info, err := uc.userInfo(ctx, user)
	if err != nil {
		return nil, err
	}
	uc.metrics.LoginAttempt(loginSuccess)
	return &dto.LoginResponse{Access: access, Refresh: refresh, UserInfo: *info}, nil
}

// Refresh rota el refresh token: el presentado queda revocado y se emite un par nuevo.
func (uc *AuthUseCase) Refresh(ctx context.Context, in dto.RefreshRequest) (*dto.TokenPairResponse, error) {
	claims, err := uc.parseActive(ctx, in.Refresh, jwt.TypeRefresh)
	if err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.LoginBlockReason() != "" {
		return nil, domain.ErrUnauthorized
	}
	fresh, err := uc.blacklist.RevokeOnce(ctx, claims.ID, claims.Remaining())
	if err != nil {
		return nil, err
	}
	if !fresh {
		// Otro request rotó este refresh al mismo tiempo.
		return nil, domain.ErrTokenRevoked
	}
	access, refresh, err := uc.issuePair(user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairResponse{Access: access, Refresh: refresh}, nil
}

// Logout revoca el refresh token presentado y el access token de la sesión actual.
// El refresh debe pertenecer al mismo usuario del access token.
func (uc *AuthUseCase) Logout(ctx context.Context, current *jwt.Claims, in dto.RefreshRequest) error {
	refresh, err := uc.parseActive(ctx, in.Refresh, jwt.TypeRefresh)
	if err != nil {
		return err
	}
	if refresh.UserID != current.UserID {
		return domain.ErrForbidden
	}
	if err := uc.blacklist.Revoke(ctx, refresh.ID, refresh.Remaining()); err != nil {
		return err
	}
	return uc.blacklist.Revoke(ctx, current.ID, current.Remaining())
}

// parseActive valida firma, tipo y que el jti no esté en la lista negra.
func (uc *AuthUseCase) parseActive(ctx context.Context, token, tokenType string) (*jwt.Claims, error) {
	claims, err := jwt.Parse(uc.cfg.Secret, token, tokenType)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	revoked, err := uc.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, domain.ErrTokenRevoked
	}
	return claims, nil
}

func (uc *AuthUseCase) issuePair(user *entity.User) (string, string, error) {
	base := jwt.Params{
		Secret:         uc.cfg.Secret,
		Issuer:         uc.cfg.Issuer,
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Role:           user.Role,
	}
	accessParams := base
	accessParams.TokenType = jwt.TypeAccess
	accessParams.ExpMinutes = uc.cfg.ExpMinutes
	access, err := jwt.Generate(accessParams)
	if err != nil {
		return "", "", err
	}
	refreshParams := base
	refreshParams.TokenType = jwt.TypeRefresh
	refreshParams.ExpMinutes = uc.cfg.RefreshExpMinutes
	refresh, err := jwt.Generate(refreshParams)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (uc *AuthUseCase) userInfo(ctx context.Context, user *entity.User) (*dto.UserInfo, error) {
	info := &dto.UserInfo{
		ID:             user.ID,
		Phone:          user.Phone,
		FullName:       user.DisplayName(),
		Email:          user.Email,
		OrganizationID: user.OrganizationID,
		Role:           user.Role,
		Address:        user.Address,
		Capabilities:   entity.CapabilitiesFor(user.Role).Names(),
	}
	if user.OrganizationID != "" {
		org, err := uc.orgRepo.GetByID(ctx, user.OrganizationID)
		if err != nil {
			return nil, err
		}
		if org != nil {
			info.OrganizationName = org.Name
		}
	}
	info.ProfilePicture = uc.pictureURL(ctx, user)
	return info, nil
}

// blockError traduce el motivo de bloqueo de la cuenta a su error de dominio.
func blockError(user *entity.User) error {
	switch user.LoginBlockReason() {
	case "not_verified":
		return domain.ErrNotVerified
	case "inactive":
		return domain.ErrAccountInactive
	case "terminated":
		return domain.ErrAccountTerminated
	}
	return nil
}
