package dto

import "time"

// SignupRequest alta de un usuario dueño junto con su organización.
type SignupRequest struct {
	Phone            string `json:"phone" validate:"required,min=7,max=20"`
	Email            string `json:"email" validate:"omitempty,email"`
	FullName         string `json:"full_name" validate:"required,min=1,max=150"`
	Password         string `json:"password" validate:"required,min=8,max=72"`
	OrganizationName string `json:"organization_name" validate:"omitempty,max=150"`
}

// SignupResponse resultado del registro; la cuenta queda pendiente de verificar el OTP.
type SignupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	Phone   string `json:"phone"`
}

// PhoneRequest cuerpo con solo el teléfono (resend-otp, forget-password).
type PhoneRequest struct {
	Phone string `json:"phone" validate:"required,min=7,max=20"`
}

// VerifyOTPRequest teléfono + código de 6 dígitos.
type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required,min=7,max=20"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// LoginRequest credenciales de login (teléfono + contraseña).
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserInfo datos del usuario que acompañan a los tokens.
type UserInfo struct {
	ID               string   `json:"id"`
	Phone            string   `json:"phone"`
	FullName         string   `json:"full_name"`
	Email            string   `json:"email"`
	OrganizationID   string   `json:"organization_id"`
	OrganizationName string   `json:"organization_name"`
	Role             string   `json:"role"`
	Address          string   `json:"address"`
	ProfilePicture   string   `json:"profile_picture"`
	Capabilities     []string `json:"capabilities"`
}

// LoginResponse par de tokens + datos del usuario.
type LoginResponse struct {
	Access   string   `json:"access"`
	Refresh  string   `json:"refresh"`
	UserInfo UserInfo `json:"user_info"`
}

// RefreshRequest cuerpo de /refresh y /logout.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// TokenPairResponse tokens emitidos por /refresh.
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// ResetTokenResponse resultado de verificar el OTP de recuperación.
type ResetTokenResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	TokenID string `json:"token_id"`
}

// NewPasswordRequest fija la nueva contraseña con el token de recuperación.
type NewPasswordRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid"`
	TokenID  string `json:"token_id" validate:"required,uuid"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// ChangePasswordRequest cambio de contraseña con la actual.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// UpdateProfileRequest campos editables del perfil (todos opcionales).
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name" validate:"omitempty,min=1,max=150"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Address   *string `json:"address" validate:"omitempty,max=255"`
}

// UpdateProfileResponse perfil actualizado y lista de campos modificados.
type UpdateProfileResponse struct {
	Message       string       `json:"message"`
	UpdatedFields []string     `json:"updated_fields"`
	Profile       UserResponse `json:"profile"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	FullName       string     `json:"full_name"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Address        string     `json:"address"`
	Role           string     `json:"role"`
	ProfilePicture string     `json:"profile_picture"`
	IsOwner        bool       `json:"is_owner"`
	IsVerified     bool       `json:"is_verified"`
	IsActive       bool       `json:"is_active"`
	IsTerminated   bool       `json:"is_terminated"`
	LastLoginAt    *time.Time `json:"last_login_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ProfilePictureResponse URL temporal de la foto subida.
type ProfilePictureResponse struct {
	Message        string `json:"message"`
	ProfilePicture string `json:"profile_picture"`
}
