package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia para Purchase y PurchaseItem.
type PurchaseRepository interface {
	Create(ctx context.Context, p *entity.Purchase) error
	CreateItem(ctx context.Context, item *entity.PurchaseItem) error
	GetByID(ctx context.Context, organizationID, id string) (*entity.Purchase, error)
	List(ctx context.Context, organizationID string, f DocumentFilter) ([]*entity.Purchase, int, error)
}
