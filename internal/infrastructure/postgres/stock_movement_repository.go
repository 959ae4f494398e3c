package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo persistencia append-only de stock_movements.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el repositorio. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, organization_id, product_id, movement_type, quantity, reference_number, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.OrganizationID, m.ProductID, m.Type, m.Quantity, m.ReferenceNumber, m.Notes,
		nullIfEmpty(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// List historial de movimientos, más recientes primero.
func (r *StockMovementRepo) List(ctx context.Context, organizationID string, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	w := newWhere("m.organization_id = $1", organizationID)
	if f.ProductID != "" {
		w.add("m.product_id = ?", f.ProductID)
	}
	if f.Type != "" {
		w.add("m.movement_type = ?", f.Type)
	}
	if f.From != nil {
		w.add("m.created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("m.created_at < ?", endOfDay(*f.To))
	}

	var total int
	if err := r.q.QueryRow(ctx, "SELECT COUNT(*) FROM stock_movements m WHERE "+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock movements: %w", err)
	}

	query := `
		SELECT m.id, m.organization_id, m.product_id, p.name, m.movement_type, m.quantity, m.reference_number,
			m.notes, COALESCE(m.created_by::text, ''), m.created_at
		FROM stock_movements m
		JOIN products p ON p.id = m.product_id
		WHERE ` + w.String() + ` ORDER BY m.created_at DESC, m.id`
	query += w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.OrganizationID, &m.ProductID, &m.ProductName, &m.Type, &m.Quantity,
			&m.ReferenceNumber, &m.Notes, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, total, rows.Err()
}
