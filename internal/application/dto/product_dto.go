package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// InitialStock > 0 genera un movimiento "in" de carga inicial.
type CreateProductRequest struct {
	CategoryID    *string         `json:"category_id" validate:"omitempty,uuid"`
	ProductCode   string          `json:"product_code" validate:"omitempty,max=50"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	SKU           string          `json:"sku" validate:"required,min=1,max=100"`
	Unit          string          `json:"unit" validate:"omitempty,oneof=kg litre loaf gram piece box set"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellPrice     decimal.Decimal `json:"sell_price"`
	ReorderLevel  int             `json:"reorder_level" validate:"min=0"`
	InitialStock  int             `json:"initial_stock" validate:"min=0"`
	Barcode       *string         `json:"barcode" validate:"omitempty,max=64"`
	Status        string          `json:"status" validate:"omitempty,oneof=active inactive archived"`
	Description   string          `json:"description"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock: solo vía movimientos).
type UpdateProductRequest struct {
	CategoryID    *string          `json:"category_id" validate:"omitempty,uuid"`
	ProductCode   *string          `json:"product_code" validate:"omitempty,max=50"`
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SKU           *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	Unit          *string          `json:"unit" validate:"omitempty,oneof=kg litre loaf gram piece box set"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SellPrice     *decimal.Decimal `json:"sell_price"`
	ReorderLevel  *int             `json:"reorder_level" validate:"omitempty,min=0"`
	Barcode       *string          `json:"barcode" validate:"omitempty,max=64"`
	Status        *string          `json:"status" validate:"omitempty,oneof=active inactive archived"`
	Description   *string          `json:"description"`
}

// ProductListQuery filtros del listado de productos.
type ProductListQuery struct {
	Search     string `query:"search"`
	CategoryID string `query:"category_id" validate:"omitempty,uuid"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	CategoryID    *string         `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	ProductCode   string          `json:"product_code"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellPrice     decimal.Decimal `json:"sell_price"`
	ReorderLevel  int             `json:"reorder_level"`
	CurrentStock  int             `json:"current_stock"`
	StockStatus   string          `json:"stock_status"`
	Barcode       *string         `json:"barcode"`
	Status        string          `json:"status"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
