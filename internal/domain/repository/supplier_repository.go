package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, organizationID, id string) (*entity.Supplier, error)
	List(ctx context.Context, organizationID string, limit, offset int) ([]*entity.Supplier, error)
	Count(ctx context.Context, organizationID string) (int, error)
	Update(ctx context.Context, s *entity.Supplier) error
	Delete(ctx context.Context, organizationID, id string) error
}
