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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository (cabecera + ítems).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el repositorio. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `
	s.id, s.organization_id, s.invoice_number, s.customer_id::text, COALESCE(c.name, ''),
	s.total_amount, s.discount, s.vat, s.net_total, s.paid_amount, s.payment_status, s.notes,
	COALESCE(s.created_by::text, ''),
	COALESCE((SELECT SUM(i.quantity) FROM sale_items i WHERE i.sale_id = s.id), 0),
	s.created_at, s.updated_at`

const saleFrom = `
	FROM sales s
	LEFT JOIN customers c ON c.id = s.customer_id`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.OrganizationID, &s.InvoiceNumber, &s.CustomerID, &s.CustomerName,
		&s.TotalAmount, &s.Discount, &s.VAT, &s.NetTotal, &s.PaidAmount, &s.PaymentStatus, &s.Notes,
		&s.CreatedBy, &s.ItemsCount, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta la cabecera de la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, organization_id, invoice_number, customer_id, total_amount, discount, vat, net_total,
			paid_amount, payment_status, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.OrganizationID, s.InvoiceNumber, s.CustomerID, s.TotalAmount, s.Discount, s.VAT, s.NetTotal,
		s.PaidAmount, s.PaymentStatus, s.Notes, nullIfEmpty(s.CreatedBy), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem inserta una línea de la venta.
func (r *SaleRepo) CreateItem(ctx context.Context, item *entity.SaleItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID devuelve la venta con sus ítems. (nil, nil) si no existe en la organización.
func (r *SaleRepo) GetByID(ctx context.Context, organizationID, id string) (*entity.Sale, error) {
	return r.get(ctx, organizationID, id, false)
}

// GetByIDForUpdate igual que GetByID pero antes bloquea la fila de la venta (SELECT ... FOR UPDATE).
func (r *SaleRepo) GetByIDForUpdate(ctx context.Context, organizationID, id string) (*entity.Sale, error) {
	return r.get(ctx, organizationID, id, true)
}

func (r *SaleRepo) get(ctx context.Context, organizationID, id string, lock bool) (*entity.Sale, error) {
	if lock {
		var lockedID string
		err := r.q.QueryRow(ctx, `SELECT id FROM sales WHERE organization_id = $1 AND id = $2 FOR UPDATE`, organizationID, id).Scan(&lockedID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil
			}
			return nil, fmt.Errorf("lock sale: %w", err)
		}
	}
	query := "SELECT" + saleColumns + saleFrom + " WHERE s.organization_id = $1 AND s.id = $2"
	s, err := scanSale(r.q.QueryRow(ctx, query, organizationID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	items, err := r.items(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return s, nil
}

func (r *SaleRepo) items(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.sale_id, i.product_id, p.name, i.quantity, i.unit_price, i.subtotal
		FROM sale_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.sale_id = $1
		ORDER BY p.name, i.id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List ventas de la organización (sin ítems), más recientes primero, con el total de filas.
func (r *SaleRepo) List(ctx context.Context, organizationID string, f repository.DocumentFilter) ([]*entity.Sale, int, error) {
	w := saleWhere(organizationID, f)

	var total int
	if err := r.q.QueryRow(ctx, "SELECT COUNT(*)"+saleFrom+" WHERE "+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	query := "SELECT" + saleColumns + saleFrom + " WHERE " + w.String() + " ORDER BY s.created_at DESC, s.id"
	query += w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// UpdatePayment persiste paid_amount y payment_status.
func (r *SaleRepo) UpdatePayment(ctx context.Context, s *entity.Sale) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales SET paid_amount = $3, payment_status = $4, updated_at = $5
		WHERE organization_id = $1 AND id = $2`,
		s.OrganizationID, s.ID, s.PaidAmount, s.PaymentStatus, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale payment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// saleWhere filtros compartidos entre el listado y el resumen del reporte de ventas.
func saleWhere(organizationID string, f repository.DocumentFilter) *whereBuilder {
	w := newWhere("s.organization_id = $1", organizationID)
	if f.From != nil {
		w.add("s.created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("s.created_at < ?", endOfDay(*f.To))
	}
	if f.Search != "" {
		pat := likePattern(f.Search)
		w.add("(s.invoice_number ILIKE ? OR c.name ILIKE ?)", pat, pat)
	}
	return w
}
