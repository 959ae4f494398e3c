package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, organization_id, name, email, mobile, address, due_amount, payment_total, is_active, created_at, updated_at`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(&c.ID, &c.OrganizationID, &c.Name, &c.Email, &c.Mobile, &c.Address,
		&c.DueAmount, &c.PaymentTotal, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.OrganizationID, c.Name, c.Email, c.Mobile, c.Address,
		c.DueAmount, c.PaymentTotal, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente de la organización. (nil, nil) si no existe.
func (r *CustomerRepo) GetByID(ctx context.Context, organizationID, id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE organization_id = $1 AND id = $2`
	c, err := scanCustomer(r.q.QueryRow(ctx, query, organizationID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// List lista clientes por organización; search filtra por nombre, email o móvil.
func (r *CustomerRepo) List(ctx context.Context, organizationID, search string, limit, offset int) ([]*entity.Customer, error) {
	w := newWhere("organization_id = $1", organizationID)
	if search != "" {
		pat := likePattern(search)
		w.add("(name ILIKE ? OR email ILIKE ? OR mobile ILIKE ?)", pat, pat, pat)
	}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE ` + w.String() + ` ORDER BY name, id`
	query += w.page(limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza los datos de contacto. Los saldos solo cambian vía ApplyBalance.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE customers SET name = $3, email = $4, mobile = $5, address = $6, is_active = $7, updated_at = $8
		WHERE organization_id = $1 AND id = $2`,
		c.OrganizationID, c.ID, c.Name, c.Email, c.Mobile, c.Address, c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cliente; sus ventas quedan como Walk-in (ON DELETE SET NULL).
func (r *CustomerRepo) Delete(ctx context.Context, organizationID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM customers WHERE organization_id = $1 AND id = $2`, organizationID, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ApplyBalance suma los deltas a due_amount y payment_total en una sola sentencia.
func (r *CustomerRepo) ApplyBalance(ctx context.Context, organizationID, id string, dueDelta, paidDelta decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE customers SET due_amount = due_amount + $3, payment_total = payment_total + $4, updated_at = now()
		WHERE organization_id = $1 AND id = $2`,
		organizationID, id, dueDelta, paidDelta,
	)
	if err != nil {
		return fmt.Errorf("apply customer balance: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
