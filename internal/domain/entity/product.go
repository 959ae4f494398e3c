package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida admitidas.
const (
	UnitKG    = "kg"
	UnitLitre = "litre"
	UnitLoaf  = "loaf"
	UnitGram  = "gram"
	UnitPiece = "piece"
	UnitBox   = "box"
	UnitSet   = "set"
)

// Estado de ciclo de vida del producto.
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
	ProductStatusArchived = "archived"
)

// Estado de stock derivado (no se persiste).
const (
	StockStatusInStock    = "in_stock"
	StockStatusLowStock   = "low_stock"
	StockStatusOutOfStock = "out_of_stock"
)

// Product representa un producto de la organización.
// CurrentStock solo cambia vía movimientos de stock (nunca por update directo).
type Product struct {
	ID             string
	OrganizationID string
	CategoryID     *string
	CategoryName   string // solo lectura (join)
	ProductCode    string
	Name           string
	SKU            string // único por organización
	Unit           string
	PurchasePrice  decimal.Decimal
	SellPrice      decimal.Decimal
	ReorderLevel   int
	CurrentStock   int
	Barcode        *string // único por organización si se informa
	Status         string
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidUnit indica si la unidad es una de las admitidas.
func ValidUnit(u string) bool {
	switch u {
	case UnitKG, UnitLitre, UnitLoaf, UnitGram, UnitPiece, UnitBox, UnitSet:
		return true
	}
	return false
}

// ValidProductStatus indica si el estado de ciclo de vida es válido.
func ValidProductStatus(s string) bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusArchived:
		return true
	}
	return false
}

// StockStatus clasifica el stock actual frente al punto de reorden.
func (p *Product) StockStatus() string {
	switch {
	case p.CurrentStock <= 0:
		return StockStatusOutOfStock
	case p.CurrentStock <= p.ReorderLevel:
		return StockStatusLowStock
	}
	return StockStatusInStock
}

// StockValueCost valor del stock a precio de compra.
func (p *Product) StockValueCost() decimal.Decimal {
	return p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.CurrentStock)))
}

// StockValueRetail valor del stock a precio de venta.
func (p *Product) StockValueRetail() decimal.Decimal {
	return p.SellPrice.Mul(decimal.NewFromInt(int64(p.CurrentStock)))
}
