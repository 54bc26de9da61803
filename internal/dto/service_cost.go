package dto

import "github.com/shopspring/decimal"

// ServiceCost is the outcome of recalculating one service.
type ServiceCost struct {
	ServiceID    uint
	MaterialCost decimal.Decimal
	TotalValue   decimal.Decimal
	SkippedLines int
}
