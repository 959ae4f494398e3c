package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemRequest línea de una venta o compra. UnitPrice vacío = precio por defecto del producto.
type LineItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  int              `json:"quantity" validate:"gt=0,lte=1000000"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest body para POST /api/sales.
// PaidAmount omitido = venta pagada en su totalidad.
type CreateSaleRequest struct {
	InvoiceNumber string            `json:"invoice_number" validate:"omitempty,max=50"`
	CustomerID    *string           `json:"customer_id" validate:"omitempty,uuid"`
	Discount      decimal.Decimal   `json:"discount"`
	VAT           decimal.Decimal   `json:"vat"`
	PaidAmount    *decimal.Decimal  `json:"paid_amount"`
	Notes         string            `json:"notes" validate:"omitempty,max=500"`
	Items         []LineItemRequest `json:"items" validate:"dive"`
}

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	PurchaseNumber string            `json:"purchase_number" validate:"omitempty,max=50"`
	SupplierID     *string           `json:"supplier_id" validate:"omitempty,uuid"`
	Status         string            `json:"status" validate:"omitempty,max=50"` // por defecto received
	Notes          string            `json:"notes" validate:"omitempty,max=500"`
	Items          []LineItemRequest `json:"items" validate:"dive"`
}

// PaymentRequest abono sobre una venta.
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// DocumentListQuery filtros de listados de ventas/compras y del reporte de ventas.
type DocumentListQuery struct {
	From   string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Search string `query:"search"`
}

// LineItemResponse línea de un documento.
type LineItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse salida de una venta. Items se omite en listados.
type SaleResponse struct {
	ID            string             `json:"id"`
	InvoiceNumber string             `json:"invoice_number"`
	CustomerID    *string            `json:"customer_id"`
	CustomerName  string             `json:"customer_name"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	Discount      decimal.Decimal    `json:"discount"`
	VAT           decimal.Decimal    `json:"vat"`
	NetTotal      decimal.Decimal    `json:"net_total"`
	PaidAmount    decimal.Decimal    `json:"paid_amount"`
	DueAmount     decimal.Decimal    `json:"due_amount"`
	PaymentStatus string             `json:"payment_status"`
	Notes         string             `json:"notes"`
	CreatedBy     string             `json:"created_by"`
	ItemsCount    int                `json:"items_count"`
	Items         []LineItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID             string             `json:"id"`
	PurchaseNumber string             `json:"purchase_number"`
	SupplierID     *string            `json:"supplier_id"`
	SupplierName   string             `json:"supplier_name"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	Status         string             `json:"status"`
	Notes          string             `json:"notes"`
	CreatedBy      string             `json:"created_by"`
	Items          []LineItemResponse `json:"items,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// PurchaseListResponse lista paginada de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
