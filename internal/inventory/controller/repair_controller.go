package controller

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dentalab/internal/commons"
	"dentalab/internal/dto"
)

type LineRepairService interface {
	RepairInconsistentLines(ctx context.Context) (*dto.RepairReport, error)
}

type RepairController struct {
	repair LineRepairService
	logger *zap.Logger
}

func NewRepairController(repair LineRepairService, logger *zap.Logger) *RepairController {
	return &RepairController{repair: repair, logger: logger}
}

// RepairOrderLines runs the batch repair over every persisted order line.
func (c *RepairController) RepairOrderLines(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	report, err := c.repair.RepairInconsistentLines(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, 0, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.RepairResponse{TraceID: traceID, Report: *report}, logger)
}
