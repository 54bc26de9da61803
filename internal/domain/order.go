package domain

import "time"

type Order struct {
	ID           uint
	DeliveryDate time.Time
	Status       string
	Priority     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const (
	OrderStatusReceived   = "RECEIVED"
	OrderStatusInProgress = "IN_PROGRESS"
	OrderStatusReady      = "READY"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCanceled   = "CANCELED"
)

const (
	OrderPriorityNormal = "NORMAL"
	OrderPriorityUrgent = "URGENT"
)

// IsValidOrderStatus reports whether status is one of the known order statuses.
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusReceived, OrderStatusInProgress, OrderStatusReady, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

func IsValidOrderPriority(priority string) bool {
	return priority == OrderPriorityNormal || priority == OrderPriorityUrgent
}
