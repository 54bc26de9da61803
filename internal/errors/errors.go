package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	ResourceOrder    = "order"
	ResourceService  = "service"
	ResourceBOM      = "bom"
	ResourceMaterial = "material"
)

type NotFoundError struct {
	Message  string
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func NewResourceNotFoundError(resource string, id uint) *NotFoundError {
	return &NotFoundError{
		Message:  fmt.Sprintf("%s with id %d not found", resource, id),
		Resource: resource,
	}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nfe *NotFoundError
	if stderrors.As(err, &nfe) {
		return nfe, true
	}
	return nil, false
}

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// InvalidQuantityError reports a non-positive quantity where positivity is
// required.
type InvalidQuantityError struct {
	ServiceID uint
	Quantity  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for service %d: must be greater than zero", e.Quantity, e.ServiceID)
}

func NewInvalidQuantityError(serviceID uint, quantity int) *InvalidQuantityError {
	return &InvalidQuantityError{ServiceID: serviceID, Quantity: quantity}
}

func IsInvalidQuantityError(err error) (*InvalidQuantityError, bool) {
	var iqe *InvalidQuantityError
	if stderrors.As(err, &iqe) {
		return iqe, true
	}
	return nil, false
}

// InsufficientStockError is returned when a material cannot cover the
// requested consumption.
type InsufficientStockError struct {
	MaterialID   uint
	MaterialName string
	Available    decimal.Decimal
	Required     decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for material %q (id %d): available %s, required %s",
		e.MaterialName, e.MaterialID, e.Available.String(), e.Required.String())
}

func NewInsufficientStockError(materialID uint, materialName string, available, required decimal.Decimal) *InsufficientStockError {
	return &InsufficientStockError{
		MaterialID:   materialID,
		MaterialName: materialName,
		Available:    available,
		Required:     required,
	}
}

func IsInsufficientStockError(err error) (*InsufficientStockError, bool) {
	var ise *InsufficientStockError
	if stderrors.As(err, &ise) {
		return ise, true
	}
	return nil, false
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

type DeadlockError struct {
	Message string
}

func (e *DeadlockError) Error() string {
	return e.Message
}

func NewDeadlockError(message string) *DeadlockError {
	return &DeadlockError{Message: message}
}

func IsDeadlockError(err error) (*DeadlockError, bool) {
	var de *DeadlockError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
