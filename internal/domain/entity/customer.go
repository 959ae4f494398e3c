package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente de la organización.
// DueAmount y PaymentTotal los mantienen las ventas y sus pagos.
type Customer struct {
	ID             string
	OrganizationID string
	Name           string
	Email          string
	Mobile         string
	Address        string
	DueAmount      decimal.Decimal
	PaymentTotal   decimal.Decimal
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// WalkInCustomerName nombre mostrado en reportes cuando la venta no tiene cliente.
const WalkInCustomerName = "Walk-in"
