package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "order not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Empty(t, err.Resource)
}

func TestNotFoundError_ResourceNotFound(t *testing.T) {
	err := NewResourceNotFoundError(ResourceMaterial, 7)

	assert.Equal(t, ResourceMaterial, err.Resource)
	assert.Equal(t, "material with id 7 not found", err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_Wrapped(t *testing.T) {
	err := fmt.Errorf("resolving bom: %w", NewResourceNotFoundError(ResourceBOM, 3))

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, ResourceBOM, notFoundErr.Resource)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "deliveryDate", Message: "deliveryDate is required"},
		{Field: "lines", Message: "lines must not be empty"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestInvalidQuantityError(t *testing.T) {
	err := NewInvalidQuantityError(4, 0)

	iqe, ok := IsInvalidQuantityError(fmt.Errorf("wrapped: %w", err))
	assert.True(t, ok)
	assert.Equal(t, uint(4), iqe.ServiceID)
	assert.Equal(t, 0, iqe.Quantity)
	assert.Contains(t, err.Error(), "service 4")
}

func TestInsufficientStockError(t *testing.T) {
	err := NewInsufficientStockError(1, "Zirconia disc", decimal.NewFromInt(1), decimal.NewFromInt(6))

	ise, ok := IsInsufficientStockError(err)
	assert.True(t, ok)
	assert.Equal(t, "Zirconia disc", ise.MaterialName)
	assert.True(t, ise.Available.Equal(decimal.NewFromInt(1)))
	assert.True(t, ise.Required.Equal(decimal.NewFromInt(6)))
	assert.Contains(t, err.Error(), "available 1, required 6")
}

func TestConflictAndDeadlockErrors(t *testing.T) {
	_, ok := IsConflictError(NewConflictError("order is canceled"))
	assert.True(t, ok)

	_, ok = IsDeadlockError(NewDeadlockError("max retries exceeded"))
	assert.True(t, ok)

	_, ok = IsDeadlockError(NewConflictError("nope"))
	assert.False(t, ok)
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "failed to query database")
	assert.Contains(t, err.Error(), "database error")
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}
