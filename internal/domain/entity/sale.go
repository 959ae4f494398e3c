package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago de una venta.
const (
	PaymentStatusPaid    = "paid"
	PaymentStatusDue     = "due"
	PaymentStatusPartial = "partial"
)

// Sale cabecera de una venta (POS). Se crea junto con sus ítems en una sola transacción.
type Sale struct {
	ID             string
	OrganizationID string
	InvoiceNumber  string // único por organización
	CustomerID     *string
	CustomerName   string // solo lectura (join)
	TotalAmount    decimal.Decimal
	Discount       decimal.Decimal
	VAT            decimal.Decimal
	NetTotal       decimal.Decimal
	PaidAmount     decimal.Decimal
	PaymentStatus  string
	Notes          string
	CreatedBy      string
	ItemsCount     int // solo lectura: suma de cantidades
	Items          []*SaleItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SaleItem línea de una venta. Subtotal = Quantity * UnitPrice.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	ProductName string // solo lectura (join)
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}
