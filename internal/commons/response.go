package commons

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"dentalab/internal/dto"
	apperrors "dentalab/internal/errors"
)

type validationErrorResponse struct {
	TraceID string                       `json:"traceId"`
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func WriteValidationError(w http.ResponseWriter, traceID string, message string, logger *zap.Logger, details ...apperrors.ValidationDetail) {
	WriteJSON(w, http.StatusBadRequest, validationErrorResponse{
		TraceID: traceID,
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	}, logger)
}

// WriteError maps a use case error to its HTTP status and error code.
// Anything unrecognised is logged and answered with a generic 500.
func WriteError(w http.ResponseWriter, traceID string, orderID uint, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		WriteValidationError(w, traceID, ve.Message, logger, ve.Details...)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		writeErrorResponse(w, traceID, orderID, http.StatusNotFound, "NOT_FOUND", err.Error(), nil, logger)
		return
	}

	if iqe, ok := apperrors.IsInvalidQuantityError(err); ok {
		writeErrorResponse(w, traceID, orderID, http.StatusUnprocessableEntity, "INVALID_QUANTITY", err.Error(),
			&dto.ErrorDetails{ServiceID: iqe.ServiceID}, logger)
		return
	}

	if ise, ok := apperrors.IsInsufficientStockError(err); ok {
		writeErrorResponse(w, traceID, orderID, http.StatusConflict, "INSUFFICIENT_STOCK", err.Error(), &dto.ErrorDetails{
			MaterialID:   ise.MaterialID,
			MaterialName: ise.MaterialName,
			Available:    &ise.Available,
			Required:     &ise.Required,
		}, logger)
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		writeErrorResponse(w, traceID, orderID, http.StatusConflict, "CONFLICT", err.Error(), nil, logger)
		return
	}

	if _, ok := apperrors.IsDeadlockError(err); ok {
		writeErrorResponse(w, traceID, orderID, http.StatusConflict, "DEADLOCK", err.Error(), nil, logger)
		return
	}

	logger.Error("unexpected error", zap.String("traceId", traceID), zap.Error(err))
	writeErrorResponse(w, traceID, orderID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", nil, logger)
}

func writeErrorResponse(w http.ResponseWriter, traceID string, orderID uint, statusCode int, code string, message string, details *dto.ErrorDetails, logger *zap.Logger) {
	WriteJSON(w, statusCode, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    statusCode,
		Message:   message,
		Code:      code,
		OrderID:   orderID,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}, logger)
}
