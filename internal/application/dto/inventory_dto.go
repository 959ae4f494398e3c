package dto

import "time"

// CreateMovementRequest body para POST /api/stock-movements.
// in/out llevan cantidad positiva; adjust una cantidad con signo distinta de cero.
type CreateMovementRequest struct {
	ProductID       string `json:"product_id" validate:"required,uuid"`
	MovementType    string `json:"movement_type" validate:"required,oneof=in out adjust"`
	Quantity        int    `json:"quantity" validate:"required,min=-1000000,max=1000000"`
	ReferenceNumber string `json:"reference_number" validate:"omitempty,max=50"`
	Notes           string `json:"notes" validate:"omitempty,max=500"`
}

// MovementListQuery filtros del historial de movimientos.
type MovementListQuery struct {
	ProductID    string `query:"product_id" validate:"omitempty,uuid"`
	MovementType string `query:"movement_type" validate:"omitempty,oneof=in out adjust"`
	From         string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To           string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// StockMovementResponse salida de un movimiento.
// StockAfter solo se informa al registrar el movimiento.
type StockMovementResponse struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	ProductName     string    `json:"product_name,omitempty"`
	MovementType    string    `json:"movement_type"`
	Quantity        int       `json:"quantity"`
	ReferenceNumber string    `json:"reference_number"`
	Notes           string    `json:"notes"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	StockAfter      *int      `json:"stock_after,omitempty"`
}

// StockMovementListResponse lista paginada de movimientos.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
