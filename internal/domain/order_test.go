package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrder_Creation(t *testing.T) {
	delivery := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	createdAt := time.Now()

	order := Order{
		ID:           1,
		DeliveryDate: delivery,
		Status:       OrderStatusReceived,
		Priority:     OrderPriorityUrgent,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}

	assert.Equal(t, uint(1), order.ID)
	assert.Equal(t, delivery, order.DeliveryDate)
	assert.Equal(t, OrderStatusReceived, order.Status)
	assert.Equal(t, OrderPriorityUrgent, order.Priority)
}

func TestOrder_StatusConstants(t *testing.T) {
	assert.Equal(t, "RECEIVED", OrderStatusReceived)
	assert.Equal(t, "IN_PROGRESS", OrderStatusInProgress)
	assert.Equal(t, "READY", OrderStatusReady)
	assert.Equal(t, "DELIVERED", OrderStatusDelivered)
	assert.Equal(t, "CANCELED", OrderStatusCanceled)
}

func TestIsValidOrderStatus(t *testing.T) {
	assert.True(t, IsValidOrderStatus(OrderStatusInProgress))
	assert.False(t, IsValidOrderStatus("PENDING"))
	assert.False(t, IsValidOrderStatus(""))
}

func TestIsValidOrderPriority(t *testing.T) {
	assert.True(t, IsValidOrderPriority(OrderPriorityNormal))
	assert.True(t, IsValidOrderPriority(OrderPriorityUrgent))
	assert.False(t, IsValidOrderPriority("LOW"))
}
