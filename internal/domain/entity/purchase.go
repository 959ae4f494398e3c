package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseStatusReceived estado por defecto: la mercancía entra al stock al registrar la compra.
const PurchaseStatusReceived = "received"

// Purchase cabecera de una compra a proveedor.
type Purchase struct {
	ID             string
	OrganizationID string
	PurchaseNumber string // único por organización
	SupplierID     *string
	SupplierName   string // solo lectura (join)
	TotalAmount    decimal.Decimal
	Status         string
	Notes          string
	CreatedBy      string
	Items          []*PurchaseItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PurchaseItem línea de una compra. Subtotal = Quantity * UnitPrice.
type PurchaseItem struct {
	ID          string
	PurchaseID  string
	ProductID   string
	ProductName string // solo lectura (join)
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}
