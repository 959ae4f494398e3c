package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// DocumentFilter filtros comunes de listados de ventas/compras.
// From/To se comparan por fecha (inclusive); Search busca en número de documento y contraparte.
type DocumentFilter struct {
	From   *time.Time
	To     *time.Time
	Search string
	Limit  int // 0 = sin límite
	Offset int
}

// SaleRepository define el puerto de persistencia para Sale y SaleItem.
type SaleRepository interface {
	Create(ctx context.Context, s *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	// GetByID devuelve la venta con sus ítems; ForUpdate bloquea la cabecera (usar dentro de tx).
	GetByID(ctx context.Context, organizationID, id string) (*entity.Sale, error)
	GetByIDForUpdate(ctx context.Context, organizationID, id string) (*entity.Sale, error)
	List(ctx context.Context, organizationID string, f DocumentFilter) ([]*entity.Sale, int, error)
	UpdatePayment(ctx context.Context, s *entity.Sale) error
}
