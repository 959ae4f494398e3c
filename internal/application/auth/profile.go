package auth

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// MaxPictureSize tamaño máximo de la foto de perfil (5 MiB).
const MaxPictureSize = 5 << 20

// PictureUpload archivo recibido en PUT /profile/picture.
type PictureUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// GetProfile devuelve el usuario autenticado con la URL temporal de su foto.
func (uc *AuthUseCase) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.currentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.profileResponse(ctx, user), nil
}

// UpdateProfile aplica los campos enviados y devuelve cuáles cambiaron.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, userID string, in dto.UpdateProfileRequest) (*dto.UpdateProfileResponse, error) {
	user, err := uc.currentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated := make([]string, 0, 5)
	set := func(field string, dst *string, v *string) {
		if v == nil {
			return
		}
		nv := strings.TrimSpace(*v)
		if nv != *dst {
			*dst = nv
			updated = append(updated, field)
		}
	}
	if in.FullName != nil && strings.TrimSpace(*in.FullName) == "" {
		return nil, domain.ErrInvalidInput
	}
	set("full_name", &user.FullName, in.FullName)
	set("first_name", &user.FirstName, in.FirstName)
	set("last_name", &user.LastName, in.LastName)
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != "" && email != user.Email {
			other, err := uc.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != user.ID {
				return nil, domain.ErrEmailAlreadyExists
			}
		}
		set("email", &user.Email, &email)
	}
	set("address", &user.Address, in.Address)

	if len(updated) > 0 {
		user.UpdatedAt = uc.now()
		if err := uc.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	return &dto.UpdateProfileResponse{
		Message:       "Perfil actualizado",
		UpdatedFields: updated,
		Profile:       *uc.profileResponse(ctx, user),
	}, nil
}

// UploadPicture sube la foto al storage y reemplaza la anterior.
func (uc *AuthUseCase) UploadPicture(ctx context.Context, userID string, f PictureUpload) (*dto.ProfilePictureResponse, error) {
	if uc.storage == nil {
		return nil, domain.ErrUnavailable
	}
	if !strings.HasPrefix(f.ContentType, "image/") || f.Size <= 0 || f.Size > MaxPictureSize {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.currentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	key := "profile-pictures/" + user.ID + "/" + uuid.New().String() + strings.ToLower(path.Ext(f.Filename))
	if err := uc.storage.Put(ctx, key, f.Body, f.Size, f.ContentType); err != nil {
		return nil, err
	}
	previous := user.ProfilePicture
	user.ProfilePicture = key
	user.UpdatedAt = uc.now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if previous != "" {
		if err := uc.storage.Delete(ctx, previous); err != nil {
			uc.log.Warn().Err(err).Str("key", previous).Msg("no se pudo borrar la foto anterior")
		}
	}
	url, err := uc.storage.URL(ctx, key)
	if err != nil {
		return nil, err
	}
	return &dto.ProfilePictureResponse{Message: "Foto actualizada", ProfilePicture: url}, nil
}

// DeletePicture borra la foto. Sin foto = ErrInvalidInput.
func (uc *AuthUseCase) DeletePicture(ctx context.Context, userID string) (*dto.MessageResponse, error) {
	user, err := uc.currentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ProfilePicture == "" {
		return nil, domain.ErrInvalidInput
	}
	if uc.storage == nil {
		return nil, domain.ErrUnavailable
	}
	if err := uc.storage.Delete(ctx, user.ProfilePicture); err != nil {
		return nil, err
	}
	user.ProfilePicture = ""
	user.UpdatedAt = uc.now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return &dto.MessageResponse{Message: "Foto eliminada"}, nil
}

func (uc *AuthUseCase) currentUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (uc *AuthUseCase) profileResponse(ctx context.Context, user *entity.User) *dto.UserResponse {
	out := usecase.ToUserResponse(user)
	out.ProfilePicture = uc.pictureURL(ctx, user)
	return out
}

// pictureURL URL presignada de la foto; vacía si no hay foto o storage.
func (uc *AuthUseCase) pictureURL(ctx context.Context, user *entity.User) string {
	if user.ProfilePicture == "" || uc.storage == nil {
		return ""
	}
	url, err := uc.storage.URL(ctx, user.ProfilePicture)
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo firmar la URL de la foto")
		return ""
	}
	return url
}
