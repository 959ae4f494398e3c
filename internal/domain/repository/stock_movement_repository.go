package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// MovementFilter filtros del historial de movimientos.
type MovementFilter struct {
	ProductID string
	Type      string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// StockMovementRepository persistencia append-only de movimientos (no hay Update ni Delete).
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	List(ctx context.Context, organizationID string, f MovementFilter) ([]*entity.StockMovement, int, error)
}
