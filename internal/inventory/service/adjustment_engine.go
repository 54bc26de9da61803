package service

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"dentalab/internal/domain"
	"dentalab/internal/dto"
	apperrors "dentalab/internal/errors"
)

type bomResolver interface {
	Resolve(ctx context.Context, tx *sql.Tx, serviceID uint) ([]domain.BOMEntry, error)
}

type stockLedger interface {
	Apply(ctx context.Context, tx *sql.Tx, plan StockPlan) ([]dto.StockMovement, error)
}

type lineReconciler interface {
	Diff(ctx context.Context, tx *sql.Tx, orderID uint, newLines []domain.LineItem) (*LineDiff, error)
	Snapshot(ctx context.Context, tx *sql.Tx, orderID uint) (map[uint]int, []dto.LineRepair, error)
}

// AdjustmentEngine turns order line changes into stock movements. Each call
// builds one StockPlan and applies it atomically through the ledger inside
// the caller's transaction.
type AdjustmentEngine struct {
	resolver   bomResolver
	ledger     stockLedger
	reconciler lineReconciler
	logger     *zap.Logger
	tracer     trace.Tracer
}

func NewAdjustmentEngine(
	resolver bomResolver,
	ledger stockLedger,
	reconciler lineReconciler,
	logger *zap.Logger,
	tracer trace.Tracer,
) *AdjustmentEngine {
	return &AdjustmentEngine{
		resolver:   resolver,
		ledger:     ledger,
		reconciler: reconciler,
		logger:     logger,
		tracer:     tracer,
	}
}

// CommitNewOrder consumes the full BOM requirement of every line of a new
// order.
func (e *AdjustmentEngine) CommitNewOrder(ctx context.Context, tx *sql.Tx, orderID uint, lines []domain.LineItem) (*dto.AdjustmentResult, error) {
	ctx, span := e.startSpan(ctx, "inventory.CommitNewOrder", orderID)
	defer span.End()

	byService, err := AggregateLines(lines)
	if err != nil {
		return nil, e.fail(span, orderID, dto.OperationCommit, err)
	}

	plan := StockPlan{}
	for _, serviceID := range sortedKeys(byService) {
		if err := e.addToPlan(ctx, tx, plan, serviceID, byService[serviceID]); err != nil {
			return nil, e.fail(span, orderID, dto.OperationCommit, err)
		}
	}

	return e.apply(ctx, tx, span, orderID, dto.OperationCommit, plan, nil)
}

// AdjustEditedOrder applies only the difference between the persisted lines
// of orderID and newLines. Services whose quantity grew consume the extra
// units, services that shrank or disappeared return theirs.
func (e *AdjustmentEngine) AdjustEditedOrder(ctx context.Context, tx *sql.Tx, orderID uint, newLines []domain.LineItem) (*dto.AdjustmentResult, error) {
	ctx, span := e.startSpan(ctx, "inventory.AdjustEditedOrder", orderID)
	defer span.End()

	diff, err := e.reconciler.Diff(ctx, tx, orderID, newLines)
	if err != nil {
		return nil, e.fail(span, orderID, dto.OperationAdjust, err)
	}

	plan := StockPlan{}
	for _, serviceID := range diff.ServiceIDs() {
		delta := diff.Delta(serviceID)
		if delta == 0 {
			continue
		}
		if err := e.addToPlan(ctx, tx, plan, serviceID, delta); err != nil {
			return nil, e.fail(span, orderID, dto.OperationAdjust, err)
		}
	}

	return e.apply(ctx, tx, span, orderID, dto.OperationAdjust, plan, diff.Repairs)
}

// ReleaseOrder returns the consumption of every persisted line of orderID.
func (e *AdjustmentEngine) ReleaseOrder(ctx context.Context, tx *sql.Tx, orderID uint) (*dto.AdjustmentResult, error) {
	ctx, span := e.startSpan(ctx, "inventory.ReleaseOrder", orderID)
	defer span.End()

	previous, repairs, err := e.reconciler.Snapshot(ctx, tx, orderID)
	if err != nil {
		return nil, e.fail(span, orderID, dto.OperationRelease, err)
	}

	plan := StockPlan{}
	for _, serviceID := range sortedKeys(previous) {
		if err := e.addToPlan(ctx, tx, plan, serviceID, -previous[serviceID]); err != nil {
			return nil, e.fail(span, orderID, dto.OperationRelease, err)
		}
	}

	return e.apply(ctx, tx, span, orderID, dto.OperationRelease, plan, repairs)
}

// addToPlan adds the requirement of units of serviceID to plan. Negative
// units release stock.
func (e *AdjustmentEngine) addToPlan(ctx context.Context, tx *sql.Tx, plan StockPlan, serviceID uint, units int) error {
	entries, err := e.resolver.Resolve(ctx, tx, serviceID)
	if isMissingBOM(err) {
		e.logger.Debug("service has no bill of materials", zap.Uint("serviceId", serviceID))
		return nil
	}
	if err != nil {
		return err
	}

	release := units < 0
	if release {
		units = -units
	}

	for _, entry := range entries {
		required, effective, err := Required(entry, units)
		if err != nil {
			return err
		}
		if !effective {
			e.logger.Warn("bom factor missing or not positive, no consumption applied",
				zap.Uint("serviceId", serviceID), zap.Uint("materialId", entry.MaterialID), zap.Uint("bomEntryId", entry.ID))
			continue
		}
		if release {
			required = required.Neg()
		}
		plan.Add(entry.MaterialID, required)
	}

	return nil
}

func (e *AdjustmentEngine) apply(
	ctx context.Context,
	tx *sql.Tx,
	span trace.Span,
	orderID uint,
	op dto.AdjustmentOperation,
	plan StockPlan,
	repairs []dto.LineRepair,
) (*dto.AdjustmentResult, error) {
	movements, err := e.ledger.Apply(ctx, tx, plan)
	if err != nil {
		return nil, e.fail(span, orderID, op, err)
	}

	consumed, returned := decimal.Zero, decimal.Zero
	for _, mv := range movements {
		if mv.Delta.IsPositive() {
			consumed = consumed.Add(mv.Delta)
		} else {
			returned = returned.Sub(mv.Delta)
		}
	}

	span.SetAttributes(
		attribute.Int("inventory.materials_touched", len(movements)),
		attribute.Int("inventory.lines_repaired", len(repairs)),
	)
	e.logger.Info("stock adjusted",
		zap.Uint("orderId", orderID),
		zap.String("operation", string(op)),
		zap.Int("materials", len(movements)),
		zap.String("consumed", consumed.String()),
		zap.String("returned", returned.String()),
	)

	return &dto.AdjustmentResult{
		OrderID:   orderID,
		Operation: op,
		Movements: movements,
		Repairs:   repairs,
	}, nil
}

func (e *AdjustmentEngine) startSpan(ctx context.Context, name string, orderID uint) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, name, trace.WithAttributes(attribute.Int64("order.id", int64(orderID))))
}

func (e *AdjustmentEngine) fail(span trace.Span, orderID uint, op dto.AdjustmentOperation, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	fields := []zap.Field{zap.Uint("orderId", orderID), zap.String("operation", string(op)), zap.Error(err)}
	if ise, ok := apperrors.IsInsufficientStockError(err); ok {
		fields = append(fields,
			zap.Uint("materialId", ise.MaterialID),
			zap.String("available", ise.Available.String()),
			zap.String("required", ise.Required.String()),
		)
	}
	e.logger.Warn("stock adjustment rejected", fields...)

	return err
}
