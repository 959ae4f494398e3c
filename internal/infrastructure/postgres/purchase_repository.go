package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de PurchaseRepository.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el repositorio. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `
	pu.id, pu.organization_id, pu.purchase_number, pu.supplier_id::text, COALESCE(su.name, ''),
	pu.total_amount, pu.status, pu.notes, COALESCE(pu.created_by::text, ''), pu.created_at, pu.updated_at`

const purchaseFrom = `
	FROM purchases pu
	LEFT JOIN suppliers su ON su.id = pu.supplier_id`

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	err := row.Scan(&p.ID, &p.OrganizationID, &p.PurchaseNumber, &p.SupplierID, &p.SupplierName,
		&p.TotalAmount, &p.Status, &p.Notes, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserta la cabecera de la compra.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchases (id, organization_id, purchase_number, supplier_id, total_amount, status, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.OrganizationID, p.PurchaseNumber, p.SupplierID, p.TotalAmount, p.Status, p.Notes,
		nullIfEmpty(p.CreatedBy), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreateItem inserta una línea de la compra.
func (r *PurchaseRepo) CreateItem(ctx context.Context, item *entity.PurchaseItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_items (id, purchase_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.PurchaseID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert purchase item: %w", err)
	}
	return nil
}

// GetByID devuelve la compra con sus ítems. (nil, nil) si no existe.
func (r *PurchaseRepo) GetByID(ctx context.Context, organizationID, id string) (*entity.Purchase, error) {
	query := "SELECT" + purchaseColumns + purchaseFrom + " WHERE pu.organization_id = $1 AND pu.id = $2"
	p, err := scanPurchase(r.q.QueryRow(ctx, query, organizationID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.purchase_id, i.product_id, pr.name, i.quantity, i.unit_price, i.subtotal
		FROM purchase_items i
		JOIN products pr ON pr.id = i.product_id
		WHERE i.purchase_id = $1
		ORDER BY pr.name, i.id`, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		p.Items = append(p.Items, &it)
	}
	return p, rows.Err()
}

// List compras de la organización (sin ítems), más recientes primero.
func (r *PurchaseRepo) List(ctx context.Context, organizationID string, f repository.DocumentFilter) ([]*entity.Purchase, int, error) {
	w := newWhere("pu.organization_id = $1", organizationID)
	if f.From != nil {
		w.add("pu.created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("pu.created_at < ?", endOfDay(*f.To))
	}
	if f.Search != "" {
		pat := likePattern(f.Search)
		w.add("(pu.purchase_number ILIKE ? OR su.name ILIKE ?)", pat, pat)
	}

	var total int
	if err := r.q.QueryRow(ctx, "SELECT COUNT(*)"+purchaseFrom+" WHERE "+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}

	query := "SELECT" + purchaseColumns + purchaseFrom + " WHERE " + w.String() + " ORDER BY pu.created_at DESC, pu.id"
	query += w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}
