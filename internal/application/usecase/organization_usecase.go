package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// OrganizationUseCase aplica reglas de negocio para organizaciones (casos de uso).
// El alta ocurre en el registro (ver auth).
type OrganizationUseCase struct {
	repo repository.OrganizationRepository
}

// NewOrganizationUseCase construye el caso de uso con el puerto de persistencia.
func NewOrganizationUseCase(repo repository.OrganizationRepository) *OrganizationUseCase {
	return &OrganizationUseCase{repo: repo}
}

// GetByID obtiene una organización por ID.
func (uc *OrganizationUseCase) GetByID(ctx context.Context, id string) (*dto.OrganizationResponse, error) {
	org, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return toOrganizationResponse(org), nil
}

// Update actualiza los campos enviados.
func (uc *OrganizationUseCase) Update(ctx context.Context, id string, in dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error) {
	org, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		org.Name = name
	}
	if in.Email != nil {
		org.Email = strings.TrimSpace(*in.Email)
	}
	if in.Address != nil {
		org.Address = *in.Address
	}
	if in.Phone != nil {
		org.Phone = strings.TrimSpace(*in.Phone)
	}
	org.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, org); err != nil {
		return nil, err
	}
	return toOrganizationResponse(org), nil
}

func toOrganizationResponse(o *entity.Organization) *dto.OrganizationResponse {
	return &dto.OrganizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		Email:     o.Email,
		Address:   o.Address,
		Phone:     o.Phone,
		IsActive:  o.IsActive,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
