package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderResponse struct {
	TraceID   string                  `json:"traceId"`
	OrderID   uint                    `json:"orderId"`
	Operation string                  `json:"operation"`
	Movements []StockMovementResponse `json:"movements"`
	Repaired  []LineRepairResponse    `json:"repaired"`
	Timestamp time.Time               `json:"timestamp"`
}

type StockMovementResponse struct {
	MaterialID   uint            `json:"materialId"`
	MaterialName string          `json:"materialName"`
	Before       decimal.Decimal `json:"before"`
	Delta        decimal.Decimal `json:"delta"`
	After        decimal.Decimal `json:"after"`
}

type LineRepairResponse struct {
	LineID    uint `json:"lineId"`
	ServiceID uint `json:"serviceId"`
	Corrected int  `json:"corrected"`
}

type ErrorResponse struct {
	TraceID   string        `json:"traceId"`
	Status    int           `json:"status"`
	Message   string        `json:"message"`
	Code      string        `json:"code"`
	OrderID   uint          `json:"orderId,omitempty"`
	Details   *ErrorDetails `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

type ErrorDetails struct {
	MaterialID   uint             `json:"materialId,omitempty"`
	MaterialName string           `json:"materialName,omitempty"`
	Available    *decimal.Decimal `json:"available,omitempty"`
	Required     *decimal.Decimal `json:"required,omitempty"`
	ServiceID    uint             `json:"serviceId,omitempty"`
}

type RecalculationResponse struct {
	TraceID  string           `json:"traceId"`
	Services []ServiceCostDTO `json:"services"`
}

type ServiceCostDTO struct {
	ServiceID    uint            `json:"serviceId"`
	MaterialCost decimal.Decimal `json:"materialCost"`
	TotalValue   decimal.Decimal `json:"totalValue"`
}

type RepairResponse struct {
	TraceID string       `json:"traceId"`
	Report  RepairReport `json:"report"`
}
