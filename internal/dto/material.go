package dto

import "github.com/shopspring/decimal"

type SearchMaterialsRequest struct {
	MaterialIDs []uint `json:"materialIds"`
}

type SearchMaterialsResponse struct {
	TraceID   string        `json:"traceId"`
	Materials []MaterialDTO `json:"materials"`
	NotFound  []uint        `json:"notFound"`
}

type MaterialDTO struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unitCost"`
}
