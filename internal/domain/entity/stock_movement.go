package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIn     = "in"     // entrada (compra, carga inicial)
	MovementTypeOut    = "out"    // salida (venta)
	MovementTypeAdjust = "adjust" // ajuste con signo
)

// StockMovement registro inmutable (append-only) de un cambio de stock.
// Quantity es positiva para in/out; en adjust lleva signo.
type StockMovement struct {
	ID              string
	OrganizationID  string
	ProductID       string
	ProductName     string // solo lectura (join)
	Type            string
	Quantity        int
	ReferenceNumber string // número de venta/compra que lo originó
	Notes           string
	CreatedBy       string // UserID
	CreatedAt       time.Time
}

// ValidMovementType indica si el tipo es in, out o adjust.
func ValidMovementType(t string) bool {
	return t == MovementTypeIn || t == MovementTypeOut || t == MovementTypeAdjust
}
