package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type AdjustmentOperation string

const (
	OperationCommit  AdjustmentOperation = "COMMIT"
	OperationAdjust  AdjustmentOperation = "ADJUST"
	OperationRelease AdjustmentOperation = "RELEASE"
)

// StockMovement is the change applied to one material. A positive Delta is
// consumption, a negative one is stock returned.
type StockMovement struct {
	MaterialID   uint
	MaterialName string
	Before       decimal.Decimal
	Delta        decimal.Decimal
	After        decimal.Decimal
}

type AdjustmentResult struct {
	OrderID   uint
	Operation AdjustmentOperation
	Movements []StockMovement
	Repairs   []LineRepair
}

// IsEmpty reports whether the adjustment left the ledger untouched.
func (r *AdjustmentResult) IsEmpty() bool {
	return r == nil || len(r.Movements) == 0
}

type StockAdjustedEvent struct {
	EventID    string                `json:"eventId"`
	OrderID    uint                  `json:"orderId"`
	Operation  string                `json:"operation"`
	Movements  []StockMovementRecord `json:"movements"`
	OccurredAt time.Time             `json:"occurredAt"`
}

type StockMovementRecord struct {
	MaterialID uint            `json:"materialId"`
	Before     decimal.Decimal `json:"before"`
	Delta      decimal.Decimal `json:"delta"`
	After      decimal.Decimal `json:"after"`
}
