package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-backoffice/internal/application/ports"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/inventory"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// Adjustment un cambio de stock a aplicar dentro de una transacción.
type Adjustment struct {
	OrganizationID string
	ProductID      string
	Type           string // in | out | adjust
	Quantity       int    // positiva para in/out; con signo para adjust
	Reference      string // número de venta/compra
	Notes          string
	ActorID        string
	At             time.Time
}

// StockAdjuster aplica deltas de stock y registra el movimiento, siempre con los repos de la tx del caller.
type StockAdjuster struct {
	allowNegative bool
	metrics       ports.BusinessMetrics
	log           *logger.Logger
}

// NewStockAdjuster construye el ajustador. allowNegative=false rechaza salidas que dejen stock < 0.
func NewStockAdjuster(allowNegative bool, metrics ports.BusinessMetrics, log *logger.Logger) *StockAdjuster {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &StockAdjuster{allowNegative: allowNegative, metrics: metrics, log: log}
}

// Apply suma el delta a current_stock con un UPDATE atómico y agrega el StockMovement,
// ambos sobre la misma transacción. Devuelve el movimiento y el stock resultante.
func (a *StockAdjuster) Apply(ctx context.Context, repos repository.TxRepositories, adj Adjustment) (*entity.StockMovement, int, error) {
	delta, err := inventory.Delta(adj.Type, adj.Quantity)
	if err != nil {
		return nil, 0, err
	}
	if adj.At.IsZero() {
		adj.At = time.Now()
	}

	stock, err := repos.Products.ApplyStockDelta(ctx, adj.OrganizationID, adj.ProductID, delta, !a.allowNegative)
	if err != nil {
		return nil, 0, err
	}

	mov := &entity.StockMovement{
		ID:              uuid.New().String(),
		OrganizationID:  adj.OrganizationID,
		ProductID:       adj.ProductID,
		Type:            adj.Type,
		Quantity:        adj.Quantity,
		ReferenceNumber: adj.Reference,
		Notes:           adj.Notes,
		CreatedBy:       adj.ActorID,
		CreatedAt:       adj.At,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, 0, err
	}

	a.metrics.StockMovement(adj.Type)
	if stock < 0 {
		a.metrics.NegativeStock()
		a.log.Warn().
			Str("organization_id", adj.OrganizationID).
			Str("product_id", adj.ProductID).
			Str("reference", adj.Reference).
			Int("stock", stock).
			Msg("stock negativo tras movimiento")
	}
	return mov, stock, nil
}
