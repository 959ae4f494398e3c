package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes y dashboard.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// SalesSummary totales de las ventas que cumplen el filtro.
// items_sold suma las cantidades de sale_items de esas ventas; revenue = Σ net_total.
func (r *ReportRepo) SalesSummary(ctx context.Context, organizationID string, f repository.DocumentFilter) (repository.SalesSummary, error) {
	w := saleWhere(organizationID, f)
	query := `
	WITH filtered AS (
	    SELECT s.id, s.net_total, s.discount
	    FROM sales s
	    LEFT JOIN customers c ON c.id = s.customer_id
	    WHERE ` + w.String() + `
	)
	SELECT
	    (SELECT COUNT(*) FROM filtered)                                                AS invoices,
	    COALESCE((SELECT SUM(i.quantity) FROM sale_items i JOIN filtered f ON f.id = i.sale_id), 0) AS items_sold,
	    COALESCE((SELECT SUM(net_total) FROM filtered), 0)                             AS revenue,
	    COALESCE((SELECT SUM(discount)  FROM filtered), 0)                             AS discounts`

	var s repository.SalesSummary
	if err := r.q.QueryRow(ctx, query, w.args...).Scan(&s.Invoices, &s.ItemsSold, &s.Revenue, &s.Discounts); err != nil {
		return s, fmt.Errorf("report.SalesSummary: %w", err)
	}
	return s, nil
}

// StockSummary valoriza el stock y cuenta productos bajo el punto de reorden o agotados.
func (r *ReportRepo) StockSummary(ctx context.Context, organizationID, search string) (repository.StockSummary, error) {
	w := newWhere("p.organization_id = $1", organizationID)
	if search != "" {
		pat := likePattern(search)
		w.add("(p.name ILIKE ? OR p.sku ILIKE ? OR p.product_code ILIKE ?)", pat, pat, pat)
	}
	query := `
	SELECT
	    COALESCE(SUM(p.purchase_price * p.current_stock), 0)                AS stock_value_cost,
	    COALESCE(SUM(p.sell_price     * p.current_stock), 0)                AS stock_value_retail,
	    COUNT(*) FILTER (WHERE p.current_stock <= p.reorder_level)          AS low_stock_items,
	    COUNT(*) FILTER (WHERE p.current_stock <= 0)                        AS out_of_stock_items
	FROM products p
	WHERE ` + w.String()

	var s repository.StockSummary
	if err := r.q.QueryRow(ctx, query, w.args...).
		Scan(&s.StockValueCost, &s.StockValueRetail, &s.LowStockItems, &s.OutOfStockItems); err != nil {
		return s, fmt.Errorf("report.StockSummary: %w", err)
	}
	return s, nil
}

// ProductCount total de productos de la organización.
func (r *ReportRepo) ProductCount(ctx context.Context, organizationID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE organization_id = $1`, organizationID).Scan(&n); err != nil {
		return 0, fmt.Errorf("report.ProductCount: %w", err)
	}
	return n, nil
}

// StockValueByMonth valor a costo del stock actual agrupado por mes (UTC) de alta del producto.
// Solo devuelve meses con productos; el caso de uso rellena los vacíos.
func (r *ReportRepo) StockValueByMonth(ctx context.Context, organizationID string, since time.Time) ([]repository.MonthValue, error) {
	const query = `
	SELECT
	    to_char(p.created_at AT TIME ZONE 'UTC', 'YYYY-MM')  AS month,
	    COALESCE(SUM(p.purchase_price * p.current_stock), 0) AS value
	FROM products p
	WHERE p.organization_id = $1
	  AND p.created_at >= $2
	GROUP BY 1
	ORDER BY 1`

	rows, err := r.q.Query(ctx, query, organizationID, since)
	if err != nil {
		return nil, fmt.Errorf("report.StockValueByMonth: %w", err)
	}
	defer rows.Close()

	var out []repository.MonthValue
	for rows.Next() {
		var mv repository.MonthValue
		if err := rows.Scan(&mv.Month, &mv.Value); err != nil {
			return nil, fmt.Errorf("report.StockValueByMonth scan: %w", err)
		}
		out = append(out, mv)
	}
	return out, rows.Err()
}

// SalesByDay ventas netas por día (UTC) desde since (solo días con ventas).
func (r *ReportRepo) SalesByDay(ctx context.Context, organizationID string, since time.Time) ([]repository.DayValue, error) {
	const query = `
	SELECT
	    to_char(s.created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
	    COALESCE(SUM(s.net_total), 0)     AS sales
	FROM sales s
	WHERE s.organization_id = $1
	  AND s.created_at >= $2
	GROUP BY 1
	ORDER BY 1`

	rows, err := r.q.Query(ctx, query, organizationID, since)
	if err != nil {
		return nil, fmt.Errorf("report.SalesByDay: %w", err)
	}
	defer rows.Close()

	var out []repository.DayValue
	for rows.Next() {
		var dv repository.DayValue
		if err := rows.Scan(&dv.Day, &dv.Sales); err != nil {
			return nil, fmt.Errorf("report.SalesByDay scan: %w", err)
		}
		out = append(out, dv)
	}
	return out, rows.Err()
}

// CategoryDistribution cantidad de productos por categoría, mayor primero.
// Los productos sin categoría se agrupan con nombre vacío.
func (r *ReportRepo) CategoryDistribution(ctx context.Context, organizationID string) ([]repository.CategoryCount, error) {
	const query = `
	SELECT COALESCE(c.name, '') AS category, COUNT(*) AS products
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	WHERE p.organization_id = $1
	GROUP BY 1
	ORDER BY products DESC, category`

	rows, err := r.q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("report.CategoryDistribution: %w", err)
	}
	defer rows.Close()

	var out []repository.CategoryCount
	for rows.Next() {
		var cc repository.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, fmt.Errorf("report.CategoryDistribution scan: %w", err)
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}

// TopProductsSold los `limit` productos con más unidades vendidas (histórico).
func (r *ReportRepo) TopProductsSold(ctx context.Context, organizationID string, limit int) ([]repository.TopProduct, error) {
	const query = `
	SELECT
	    p.name,
	    COALESCE(c.name, '')        AS category,
	    SUM(i.quantity)             AS quantity_sold,
	    COALESCE(SUM(i.subtotal), 0) AS sales_value
	FROM sale_items i
	JOIN sales s      ON s.id = i.sale_id
	JOIN products p   ON p.id = i.product_id
	LEFT JOIN categories c ON c.id = p.category_id
	WHERE s.organization_id = $1
	GROUP BY p.id, p.name, c.name
	ORDER BY quantity_sold DESC, p.name
	LIMIT $2`

	rows, err := r.q.Query(ctx, query, organizationID, limit)
	if err != nil {
		return nil, fmt.Errorf("report.TopProductsSold: %w", err)
	}
	defer rows.Close()

	var out []repository.TopProduct
	for rows.Next() {
		var tp repository.TopProduct
		if err := rows.Scan(&tp.Name, &tp.Category, &tp.QuantitySold, &tp.SalesValue); err != nil {
			return nil, fmt.Errorf("report.TopProductsSold scan: %w", err)
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}
