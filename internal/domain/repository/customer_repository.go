package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	GetByID(ctx context.Context, organizationID, id string) (*entity.Customer, error)
	List(ctx context.Context, organizationID, search string, limit, offset int) ([]*entity.Customer, error)
	Update(ctx context.Context, c *entity.Customer) error
	Delete(ctx context.Context, organizationID, id string) error
	// ApplyBalance suma los deltas a due_amount y payment_total de forma atómica.
	ApplyBalance(ctx context.Context, organizationID, id string, dueDelta, paidDelta decimal.Decimal) error
}
