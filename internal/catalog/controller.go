package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"dentalab/internal/commons"
	"dentalab/internal/dto"
	apperrors "dentalab/internal/errors"
)

const maxMaterialIDs = 100

type Controller struct {
	costs     CostCalculator
	materials MaterialLookup
	logger    *zap.Logger
}

func NewController(costs CostCalculator, materials MaterialLookup, logger *zap.Logger) *Controller {
	return &Controller{
		costs:     costs,
		materials: materials,
		logger:    logger,
	}
}

func (c *Controller) HandleSearchMaterials(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.SearchMaterialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validateSearchMaterialsRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		commons.WriteValidationError(w, traceID, ve.Message, logger, ve.Details...)
		return
	}

	found, notFound, err := c.materials.GetMaterialsByIDs(r.Context(), req.MaterialIDs)
	if err != nil {
		commons.WriteError(w, traceID, 0, err, logger)
		return
	}

	resp := dto.SearchMaterialsResponse{
		TraceID:   traceID,
		Materials: make([]dto.MaterialDTO, 0, len(found)),
		NotFound:  notFound,
	}
	for _, m := range found {
		resp.Materials = append(resp.Materials, dto.MaterialDTO{
			ID:       m.ID,
			Name:     m.Name,
			Unit:     m.Unit,
			Quantity: m.Quantity,
			UnitCost: m.UnitCost,
		})
	}

	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func validateSearchMaterialsRequest(req dto.SearchMaterialsRequest) error {
	if len(req.MaterialIDs) == 0 {
		return apperrors.NewValidationError("materialIds is required", apperrors.ValidationDetail{
			Field:   "materialIds",
			Message: "materialIds must not be empty",
		})
	}

	if len(req.MaterialIDs) > maxMaterialIDs {
		msg := "materialIds exceeds maximum of 100"
		return apperrors.NewValidationError(msg, apperrors.ValidationDetail{
			Field:   "materialIds",
			Message: msg,
		})
	}

	for _, id := range req.MaterialIDs {
		if id == 0 {
			msg := "each materialId must be a positive integer"
			return apperrors.NewValidationError(msg, apperrors.ValidationDetail{
				Field:   "materialIds",
				Message: msg,
			})
		}
	}

	return nil
}

func (c *Controller) HandleRecalculateService(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	serviceID, err := strconv.ParseUint(chi.URLParam(r, "serviceId"), 10, 32)
	if err != nil || serviceID == 0 {
		commons.WriteValidationError(w, traceID, "invalid serviceId", logger, apperrors.ValidationDetail{
			Field:   "serviceId",
			Message: "serviceId must be a positive integer",
		})
		return
	}

	cost, err := c.costs.Recalculate(r.Context(), uint(serviceID))
	if err != nil {
		commons.WriteError(w, traceID, 0, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.RecalculationResponse{
		TraceID:  traceID,
		Services: []dto.ServiceCostDTO{toServiceCostDTO(*cost)},
	}, logger)
}

func (c *Controller) HandleRecalculateAll(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	costs, err := c.costs.RecalculateAll(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, 0, err, logger)
		return
	}

	resp := dto.RecalculationResponse{TraceID: traceID, Services: make([]dto.ServiceCostDTO, 0, len(costs))}
	for _, cost := range costs {
		resp.Services = append(resp.Services, toServiceCostDTO(cost))
	}

	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func toServiceCostDTO(cost dto.ServiceCost) dto.ServiceCostDTO {
	return dto.ServiceCostDTO{
		ServiceID:    cost.ServiceID,
		MaterialCost: cost.MaterialCost,
		TotalValue:   cost.TotalValue,
	}
}
