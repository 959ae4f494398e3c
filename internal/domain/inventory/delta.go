package inventory

import (
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

// MaxQuantity tope de unidades por línea o movimiento (las columnas de cantidad son INTEGER).
const MaxQuantity = 1_000_000

// Delta devuelve el cambio con signo que un movimiento aplica sobre current_stock (servicio de dominio).
//
//	in     → +cantidad (cantidad > 0)
//	out    → -cantidad (cantidad > 0)
//	adjust → cantidad tal cual (≠ 0, con signo)
func Delta(movementType string, quantity int) (int, error) {
	if quantity > MaxQuantity || quantity < -MaxQuantity {
		return 0, domain.ErrInvalidInput
	}
	switch movementType {
	case entity.MovementTypeIn:
		if quantity <= 0 {
			return 0, domain.ErrInvalidInput
		}
		return quantity, nil
	case entity.MovementTypeOut:
		if quantity <= 0 {
			return 0, domain.ErrInvalidInput
		}
		return -quantity, nil
	case entity.MovementTypeAdjust:
		if quantity == 0 {
			return 0, domain.ErrInvalidInput
		}
		return quantity, nil
	}
	return 0, domain.ErrInvalidInput
}

// Replay reconstruye el stock final a partir del stock inicial y una secuencia de movimientos.
// Sirve para conciliar current_stock contra el historial.
func Replay(initial int, movements []*entity.StockMovement) (int, error) {
	stock := initial
	for _, m := range movements {
		d, err := Delta(m.Type, m.Quantity)
		if err != nil {
			return 0, err
		}
		stock += d
	}
	return stock, nil
}
