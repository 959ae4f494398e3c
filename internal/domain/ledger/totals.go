// Package ledger contiene la aritmética de los documentos de venta y compra.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/inventory"
)

// MaxAmount mayor importe representable en las columnas NUMERIC(12,2).
var MaxAmount = decimal.RequireFromString("9999999999.99")

// ValidAmount exige un importe no negativo, con a lo sumo dos decimales y que quepa en MaxAmount.
// Así Σ subtotales guardados = total guardado.
func ValidAmount(v decimal.Decimal) error {
	if v.IsNegative() || !v.Equal(v.Round(2)) || v.GreaterThan(MaxAmount) {
		return domain.ErrInvalidInput
	}
	return nil
}

// Line cantidad y precio unitario ya resueltos de una línea.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal = cantidad × precio unitario.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Validate exige 0 < cantidad <= inventory.MaxQuantity, precio válido y subtotal representable.
func (l Line) Validate() error {
	if l.Quantity <= 0 || l.Quantity > inventory.MaxQuantity {
		return domain.ErrInvalidInput
	}
	if err := ValidAmount(l.UnitPrice); err != nil {
		return err
	}
	return ValidAmount(l.Subtotal())
}

// Total suma los subtotales de las líneas.
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// NetTotal = total - descuento + IVA.
func NetTotal(total, discount, vat decimal.Decimal) decimal.Decimal {
	return total.Sub(discount).Add(vat)
}

// PaymentStatus deriva el estado de pago: paid si lo pagado cubre el neto,
// partial si hay algún pago, due si no hay ninguno.
func PaymentStatus(netTotal, paid decimal.Decimal) string {
	switch {
	case paid.GreaterThanOrEqual(netTotal):
		return entity.PaymentStatusPaid
	case paid.IsPositive():
		return entity.PaymentStatusPartial
	}
	return entity.PaymentStatusDue
}

// Outstanding saldo pendiente de una venta (nunca negativo).
func Outstanding(netTotal, paid decimal.Decimal) decimal.Decimal {
	d := netTotal.Sub(paid)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
