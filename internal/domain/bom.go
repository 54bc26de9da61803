package domain

import "github.com/shopspring/decimal"

// BOMEntry links a service to a material consumed per unit of service.
type BOMEntry struct {
	ID         uint
	ServiceID  uint
	MaterialID uint
	Quantity   decimal.NullDecimal
}

// PerUnit returns the usable factor, or false when the factor is missing or
// not positive.
func (b BOMEntry) PerUnit() (decimal.Decimal, bool) {
	if !b.Quantity.Valid || !b.Quantity.Decimal.IsPositive() {
		return decimal.Zero, false
	}
	return b.Quantity.Decimal, true
}

// BOMCostLine is a BOM entry joined with the unit cost of its material.
type BOMCostLine struct {
	Entry    BOMEntry
	UnitCost decimal.Decimal
}
