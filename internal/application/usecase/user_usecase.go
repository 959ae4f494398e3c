package usecase

import (
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// ToUserResponse convierte el usuario a su salida pública (sin password).
// ProfilePicture queda con la clave del objeto; quien tenga el storage la convierte en URL.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:             u.ID,
		OrganizationID: u.OrganizationID,
		Username:       u.Username,
		Email:          u.Email,
		Phone:          u.Phone,
		FullName:       u.FullName,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Address:        u.Address,
		Role:           u.Role,
		ProfilePicture: u.ProfilePicture,
		IsOwner:        u.IsOwner,
		IsVerified:     u.IsVerified,
		IsActive:       u.IsActive,
		IsTerminated:   u.IsTerminated,
		LastLoginAt:    u.LastLoginAt,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
