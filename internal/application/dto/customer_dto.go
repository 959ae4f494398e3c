package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRequest alta o edición de un cliente. Los saldos no se editan.
type CustomerRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=150"`
	Email    string `json:"email" validate:"omitempty,email"`
	Mobile   string `json:"mobile" validate:"omitempty,max=20"`
	Address  string `json:"address" validate:"omitempty,max=255"`
	IsActive *bool  `json:"is_active"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Mobile       string          `json:"mobile"`
	Address      string          `json:"address"`
	DueAmount    decimal.Decimal `json:"due_amount"`
	PaymentTotal decimal.Decimal `json:"payment_total"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
