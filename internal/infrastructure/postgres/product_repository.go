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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `
	p.id, p.organization_id, p.category_id, COALESCE(c.name, ''), p.product_code, p.name, p.sku, p.unit,
	p.purchase_price, p.sell_price, p.reorder_level, p.current_stock, p.barcode, p.status, p.description,
	p.created_at, p.updated_at`

const productFrom = `
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.OrganizationID, &p.CategoryID, &p.CategoryName, &p.ProductCode, &p.Name, &p.SKU, &p.Unit,
		&p.PurchasePrice, &p.SellPrice, &p.ReorderLevel, &p.CurrentStock, &p.Barcode, &p.Status, &p.Description,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto. El stock inicial lo fija el caso de uso (y su movimiento "in").
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, organization_id, category_id, product_code, name, sku, unit, purchase_price, sell_price,
			reorder_level, current_stock, barcode, status, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.OrganizationID, p.CategoryID, p.ProductCode, p.Name, p.SKU, p.Unit, p.PurchasePrice, p.SellPrice,
		p.ReorderLevel, p.CurrentStock, p.Barcode, p.Status, p.Description, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto de la organización. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, organizationID, id string) (*entity.Product, error) {
	query := "SELECT" + productColumns + productFrom + " WHERE p.organization_id = $1 AND p.id = $2"
	p, err := scanProduct(r.q.QueryRow(ctx, query, organizationID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza los datos descriptivos y precios. No toca current_stock (solo vía movimientos).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET category_id = $3, product_code = $4, name = $5, sku = $6, unit = $7,
			purchase_price = $8, sell_price = $9, reorder_level = $10, barcode = $11, status = $12,
			description = $13, updated_at = $14
		WHERE organization_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		p.OrganizationID, p.ID, p.CategoryID, p.ProductCode, p.Name, p.SKU, p.Unit,
		p.PurchasePrice, p.SellPrice, p.ReorderLevel, p.Barcode, p.Status, p.Description, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto. Si figura en ventas o compras la FK lo impide (ErrConflict).
func (r *ProductRepo) Delete(ctx context.Context, organizationID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE organization_id = $1 AND id = $2`, organizationID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos de la organización con búsqueda y paginación; devuelve también el total.
func (r *ProductRepo) List(ctx context.Context, organizationID string, f repository.ProductFilter) ([]*entity.Product, int, error) {
	w := newWhere("p.organization_id = $1", organizationID)
	if f.Search != "" {
		pat := likePattern(f.Search)
		w.add("(p.name ILIKE ? OR p.sku ILIKE ? OR p.product_code ILIKE ?)", pat, pat, pat)
	}
	if f.CategoryID != "" {
		w.add("p.category_id = ?", f.CategoryID)
	}

	var total int
	if err := r.q.QueryRow(ctx, "SELECT COUNT(*) FROM products p WHERE "+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := "SELECT" + productColumns + productFrom + " WHERE " + w.String() + " ORDER BY p.created_at DESC, p.id"
	query += w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// ApplyStockDelta suma delta a current_stock en una sola sentencia (sin read-modify-write).
// Con guard, una fila no afectada se desambigua entre producto inexistente y stock insuficiente.
func (r *ProductRepo) ApplyStockDelta(ctx context.Context, organizationID, productID string, delta int, guard bool) (int, error) {
	query := `
		UPDATE products SET current_stock = current_stock + $3, updated_at = now()
		WHERE organization_id = $1 AND id = $2`
	if guard {
		query += " AND current_stock + $3 >= 0"
	}
	query += " RETURNING current_stock"

	var stock int
	err := r.q.QueryRow(ctx, query, organizationID, productID, delta).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if isOutOfRange(err) {
		return 0, fmt.Errorf("apply stock delta: %w", domain.ErrInvalidInput)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("apply stock delta: %w", err)
	}
	if !guard {
		return 0, domain.ErrNotFound
	}
	var exists bool
	if err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE organization_id = $1 AND id = $2)`,
		organizationID, productID,
	).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return 0, domain.ErrNotFound
	}
	return 0, domain.ErrInsufficientStock
}
