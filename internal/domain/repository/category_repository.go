package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category.
// Todas las operaciones van acotadas a la organización.
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, organizationID, id string) (*entity.Category, error)
	List(ctx context.Context, organizationID string) ([]*entity.Category, error)
	Update(ctx context.Context, c *entity.Category) error
	Delete(ctx context.Context, organizationID, id string) error
}
