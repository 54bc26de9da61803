package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Material struct {
	ID        uint
	Name      string
	Unit      string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanCover reports whether the on-hand quantity covers required.
func (m Material) CanCover(required decimal.Decimal) bool {
	return m.Quantity.GreaterThanOrEqual(required)
}
