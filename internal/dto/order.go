package dto

import "time"

type SaveOrderRequest struct {
	DeliveryDate time.Time          `json:"deliveryDate"`
	Status       string             `json:"status"`
	Priority     string             `json:"priority"`
	Lines        []OrderLineRequest `json:"lines"`
}

type OrderLineRequest struct {
	ServiceID uint `json:"serviceId"`
	Quantity  int  `json:"quantity"`
}

type SaveOrderResult struct {
	OrderID    uint
	Adjustment *AdjustmentResult
}
