package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// CustomerUseCase casos de uso para clientes. Los saldos los mantienen las ventas.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un nuevo cliente con saldos en cero.
func (uc *CustomerUseCase) Create(ctx context.Context, organizationID string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	now := time.Now()
	c := &entity.Customer{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		DueAmount:      decimal.Zero,
		PaymentTotal:   decimal.Zero,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := applyCustomer(c, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// GetByID obtiene un cliente de la organización.
func (uc *CustomerUseCase) GetByID(ctx context.Context, organizationID, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(c), nil
}

// List lista clientes con búsqueda por nombre, email o móvil.
func (uc *CustomerUseCase) List(ctx context.Context, organizationID, search string, page dto.PageRequest) ([]dto.CustomerResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, organizationID, strings.TrimSpace(search), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCustomerResponse(c))
	}
	return out, nil
}

// Update reemplaza los datos de contacto; due_amount y payment_total no se tocan.
func (uc *CustomerUseCase) Update(ctx context.Context, organizationID, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if err := applyCustomer(c, in); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Delete elimina un cliente; sus ventas quedan como "Walk-in".
func (uc *CustomerUseCase) Delete(ctx context.Context, organizationID, id string) error {
	return uc.repo.Delete(ctx, organizationID, id)
}

func applyCustomer(c *entity.Customer, in dto.CustomerRequest) error {
	c.Name = strings.TrimSpace(in.Name)
	if c.Name == "" {
		return domain.ErrInvalidInput
	}
	c.Email = strings.TrimSpace(in.Email)
	c.Mobile = strings.TrimSpace(in.Mobile)
	c.Address = in.Address
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	return nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Mobile:       c.Mobile,
		Address:      c.Address,
		DueAmount:    c.DueAmount,
		PaymentTotal: c.PaymentTotal,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
