package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"dentalab/internal/commons"
	"dentalab/internal/domain"
	"dentalab/internal/dto"
	apperrors "dentalab/internal/errors"
)

const (
	maxLinesPerOrder = 100
	maxLineQuantity  = 10000
)

type SaveOrderUseCase interface {
	CreateOrder(ctx context.Context, req dto.SaveOrderRequest) (*dto.SaveOrderResult, error)
	UpdateOrder(ctx context.Context, orderID uint, req dto.SaveOrderRequest) (*dto.SaveOrderResult, error)
	DeleteOrder(ctx context.Context, orderID uint) (*dto.SaveOrderResult, error)
}

type OrderController struct {
	useCase SaveOrderUseCase
	logger  *zap.Logger
}

func NewOrderController(useCase SaveOrderUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	req, ok := c.decode(w, r, traceID, logger)
	if !ok {
		return
	}

	if err := validateSaveOrderRequest(req, true); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		commons.WriteValidationError(w, traceID, ve.Message, logger, ve.Details...)
		return
	}

	result, err := c.useCase.CreateOrder(r.Context(), req)
	if err != nil {
		commons.WriteError(w, traceID, 0, err, logger)
		return
	}

	c.writeOrderResponse(w, traceID, http.StatusCreated, result)
}

func (c *OrderController) Update(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, ok := c.orderID(w, r, traceID, logger)
	if !ok {
		return
	}

	req, ok := c.decode(w, r, traceID, logger)
	if !ok {
		return
	}

	if err := validateSaveOrderRequest(req, false); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		commons.WriteValidationError(w, traceID, ve.Message, logger, ve.Details...)
		return
	}

	result, err := c.useCase.UpdateOrder(r.Context(), orderID, req)
	if err != nil {
		commons.WriteError(w, traceID, orderID, err, logger)
		return
	}

	c.writeOrderResponse(w, traceID, http.StatusOK, result)
}

func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, ok := c.orderID(w, r, traceID, logger)
	if !ok {
		return
	}

	result, err := c.useCase.DeleteOrder(r.Context(), orderID)
	if err != nil {
		commons.WriteError(w, traceID, orderID, err, logger)
		return
	}

	c.writeOrderResponse(w, traceID, http.StatusOK, result)
}

func (c *OrderController) orderID(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger) (uint, bool) {
	orderID, err := strconv.ParseUint(chi.URLParam(r, "orderId"), 10, 32)
	if err != nil || orderID == 0 {
		logger.Warn("invalid orderId in path", zap.String("orderId", chi.URLParam(r, "orderId")))
		commons.WriteValidationError(w, traceID, "invalid orderId", logger, apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must be a positive integer",
		})
		return 0, false
	}
	return uint(orderID), true
}

func (c *OrderController) decode(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger) (dto.SaveOrderRequest, bool) {
	var req dto.SaveOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return req, false
	}
	return req, true
}

// validateSaveOrderRequest checks the request shape. Line quantities are left
// to the use case, which answers with InvalidQuantity.
func validateSaveOrderRequest(req dto.SaveOrderRequest, creating bool) error {
	var details []apperrors.ValidationDetail

	if creating && req.DeliveryDate.IsZero() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "deliveryDate",
			Message: "deliveryDate is required",
		})
	}

	if req.Status != "" && !domain.IsValidOrderStatus(req.Status) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be one of RECEIVED, IN_PROGRESS, READY, DELIVERED, CANCELED",
		})
	}

	if req.Priority != "" && !domain.IsValidOrderPriority(req.Priority) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "priority",
			Message: "priority must be NORMAL or URGENT",
		})
	}

	if creating && len(req.Lines) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "lines",
			Message: "lines must not be empty",
		})
	}

	if len(req.Lines) > maxLinesPerOrder {
		details = append(details, apperrors.ValidationDetail{
			Field:   "lines",
			Message: "lines exceeds maximum of 100",
		})
	}

	for idx, line := range req.Lines {
		if line.ServiceID == 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "lines[" + strconv.Itoa(idx) + "].serviceId",
				Message: "each serviceId must be a positive integer",
			})
		}

		if line.Quantity > maxLineQuantity {
			details = append(details, apperrors.ValidationDetail{
				Field:   "lines[" + strconv.Itoa(idx) + "].quantity",
				Message: "quantity must not exceed 10000",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func (c *OrderController) writeOrderResponse(w http.ResponseWriter, traceID string, status int, result *dto.SaveOrderResult) {
	response := dto.OrderResponse{
		TraceID:   traceID,
		OrderID:   result.OrderID,
		Movements: []dto.StockMovementResponse{},
		Repaired:  []dto.LineRepairResponse{},
		Timestamp: time.Now().UTC(),
	}

	if adj := result.Adjustment; adj != nil {
		response.Operation = string(adj.Operation)
		for _, mv := range adj.Movements {
			response.Movements = append(response.Movements, dto.StockMovementResponse{
				MaterialID:   mv.MaterialID,
				MaterialName: mv.MaterialName,
				Before:       mv.Before,
				Delta:        mv.Delta,
				After:        mv.After,
			})
		}
		for _, rep := range adj.Repairs {
			response.Repaired = append(response.Repaired, dto.LineRepairResponse{
				LineID:    rep.LineID,
				ServiceID: rep.ServiceID,
				Corrected: rep.Corrected,
			})
		}
	}

	commons.WriteJSON(w, status, response, c.logger)
}
