package repository

import (
	"context"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Search     string // nombre, sku o product_code (case-insensitive)
	CategoryID string
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, organizationID, id string) (*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, organizationID, id string) error
	List(ctx context.Context, organizationID string, f ProductFilter) ([]*entity.Product, int, error)

	// ApplyStockDelta suma delta (con signo) a current_stock en una sola sentencia UPDATE y
	// devuelve el stock resultante. Con guard=true la salida no puede dejar stock negativo
	// (ErrInsufficientStock). Producto inexistente en la organización = ErrNotFound.
	ApplyStockDelta(ctx context.Context, organizationID, productID string, delta int, guard bool) (int, error)
}
