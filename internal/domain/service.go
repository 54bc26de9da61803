package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a lab service that can be ordered, e.g. a zirconia crown.
type Service struct {
	ID           uint
	Name         string
	BasePrice    decimal.Decimal
	MaterialCost decimal.NullDecimal
	TotalValue   decimal.NullDecimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
