package usecase

import (
	"context"
	"database/sql"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"dentalab/internal/domain"
	"dentalab/internal/dto"
	apperrors "dentalab/internal/errors"
	"dentalab/internal/infrastructure/mysql"
)

type OrderRepository interface {
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Order, error)
	Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (uint, error)
	Update(ctx context.Context, tx *sql.Tx, order domain.Order) error
	Delete(ctx context.Context, tx *sql.Tx, id uint) error
}

type OrderLineRepository interface {
	InsertBatch(ctx context.Context, tx *sql.Tx, orderID uint, lines []domain.LineItem) error
	DeleteByOrder(ctx context.Context, tx *sql.Tx, orderID uint) (int64, error)
}

type InventoryEngine interface {
	CommitNewOrder(ctx context.Context, tx *sql.Tx, orderID uint, lines []domain.LineItem) (*dto.AdjustmentResult, error)
	AdjustEditedOrder(ctx context.Context, tx *sql.Tx, orderID uint, newLines []domain.LineItem) (*dto.AdjustmentResult, error)
	ReleaseOrder(ctx context.Context, tx *sql.Tx, orderID uint) (*dto.AdjustmentResult, error)
}

type StockEventPublisher interface {
	Publish(ctx context.Context, event dto.StockAdjustedEvent) error
}

type TransactionRunner interface {
	WithinTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx *sql.Tx) error) error
}

// SaveOrderUseCase owns the transaction boundary of every order write. The
// order row, its lines and the stock movements they cause commit together.
type SaveOrderUseCase struct {
	orders           OrderRepository
	lines            OrderLineRepository
	inventory        InventoryEngine
	tx               TransactionRunner
	publisher        StockEventPublisher
	logger           *zap.Logger
	tracer           trace.Tracer
	txTimeout        time.Duration
	maxRetryAttempts int
	backoffs         []time.Duration
	now              func() time.Time
}

func NewSaveOrderUseCase(
	orders OrderRepository,
	lines OrderLineRepository,
	inventory InventoryEngine,
	tx TransactionRunner,
	publisher StockEventPublisher,
	logger *zap.Logger,
	tracer trace.Tracer,
	txTimeout time.Duration,
	maxRetryAttempts int,
) *SaveOrderUseCase {
	if maxRetryAttempts < 1 {
		maxRetryAttempts = 1
	}
	return &SaveOrderUseCase{
		orders:           orders,
		lines:            lines,
		inventory:        inventory,
		tx:               tx,
		publisher:        publisher,
		logger:           logger,
		tracer:           tracer,
		txTimeout:        txTimeout,
		maxRetryAttempts: maxRetryAttempts,
		// attempt 1 waits 0ms before retrying, attempt 2 100ms, then 200ms
		backoffs: []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond},
		now:      time.Now,
	}
}

// CreateOrder inserts the order and its lines and consumes their materials.
func (uc *SaveOrderUseCase) CreateOrder(ctx context.Context, req dto.SaveOrderRequest) (*dto.SaveOrderResult, error) {
	ctx, span := uc.tracer.Start(ctx, "order.Create", trace.WithAttributes(attribute.Int("order.lines", len(req.Lines))))
	defer span.End()

	uc.logger.Info("create order started", zap.Int("lineCount", len(req.Lines)))

	order, lines, err := newOrder(req)
	if err != nil {
		return nil, uc.fail(span, 0, err)
	}

	var result dto.SaveOrderResult
	err = uc.withRetry(ctx, 0, func(ctx context.Context, tx *sql.Tx) error {
		orderID, err := uc.orders.Insert(ctx, tx, order)
		if err != nil {
			return err
		}

		adjustment, err := uc.inventory.CommitNewOrder(ctx, tx, orderID, lines)
		if err != nil {
			return err
		}

		if err := uc.lines.InsertBatch(ctx, tx, orderID, lines); err != nil {
			return err
		}

		result = dto.SaveOrderResult{OrderID: orderID, Adjustment: adjustment}
		return nil
	})
	if err != nil {
		return nil, uc.fail(span, 0, err)
	}

	span.SetAttributes(attribute.Int64("order.id", int64(result.OrderID)))
	uc.logger.Info("order created", zap.Uint("orderId", result.OrderID), zap.Int("materials", len(result.Adjustment.Movements)))
	uc.publish(ctx, result.Adjustment)

	return &result, nil
}

// UpdateOrder rewrites the order header and replaces its lines. Only the
// difference against the persisted lines moves stock. Moving an order to
// CANCELED returns all of its stock and keeps the lines for reference.
func (uc *SaveOrderUseCase) UpdateOrder(ctx context.Context, orderID uint, req dto.SaveOrderRequest) (*dto.SaveOrderResult, error) {
	ctx, span := uc.tracer.Start(ctx, "order.Update", trace.WithAttributes(attribute.Int64("order.id", int64(orderID))))
	defer span.End()

	uc.logger.Info("update order started", zap.Uint("orderId", orderID), zap.Int("lineCount", len(req.Lines)))

	lines, err := toLineItems(req.Lines)
	if err != nil {
		return nil, uc.fail(span, orderID, err)
	}
	if req.Status == domain.OrderStatusCanceled {
		lines = nil
	}

	var result dto.SaveOrderResult
	err = uc.withRetry(ctx, orderID, func(ctx context.Context, tx *sql.Tx) error {
		current, err := uc.orders.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if err := ensureEditable(current); err != nil {
			return err
		}

		updated := *current
		applyHeader(&updated, req)
		if err := uc.orders.Update(ctx, tx, updated); err != nil {
			return err
		}

		var adjustment *dto.AdjustmentResult
		if updated.Status == domain.OrderStatusCanceled {
			adjustment, err = uc.inventory.ReleaseOrder(ctx, tx, orderID)
			if err != nil {
				return err
			}
		} else {
			adjustment, err = uc.inventory.AdjustEditedOrder(ctx, tx, orderID, lines)
			if err != nil {
				return err
			}
			if _, err := uc.lines.DeleteByOrder(ctx, tx, orderID); err != nil {
				return err
			}
			if err := uc.lines.InsertBatch(ctx, tx, orderID, lines); err != nil {
				return err
			}
		}

		result = dto.SaveOrderResult{OrderID: orderID, Adjustment: adjustment}
		return nil
	})
	if err != nil {
		return nil, uc.fail(span, orderID, err)
	}

	uc.logger.Info("order updated", zap.Uint("orderId", orderID), zap.Int("materials", len(result.Adjustment.Movements)))
	uc.publish(ctx, result.Adjustment)

	return &result, nil
}

// DeleteOrder returns the stock held by the order and removes it with its
// lines. Delivered orders cannot be deleted.
func (uc *SaveOrderUseCase) DeleteOrder(ctx context.Context, orderID uint) (*dto.SaveOrderResult, error) {
	ctx, span := uc.tracer.Start(ctx, "order.Delete", trace.WithAttributes(attribute.Int64("order.id", int64(orderID))))
	defer span.End()

	uc.logger.Info("delete order started", zap.Uint("orderId", orderID))

	var result dto.SaveOrderResult
	err := uc.withRetry(ctx, orderID, func(ctx context.Context, tx *sql.Tx) error {
		current, err := uc.orders.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if current.Status == domain.OrderStatusDelivered {
			return apperrors.NewConflictError("delivered orders cannot be deleted")
		}

		adjustment := &dto.AdjustmentResult{OrderID: orderID, Operation: dto.OperationRelease}
		// canceled orders already gave their stock back
		if current.Status != domain.OrderStatusCanceled {
			adjustment, err = uc.inventory.ReleaseOrder(ctx, tx, orderID)
			if err != nil {
				return err
			}
		}

		if _, err := uc.lines.DeleteByOrder(ctx, tx, orderID); err != nil {
			return err
		}
		if err := uc.orders.Delete(ctx, tx, orderID); err != nil {
			return err
		}

		result = dto.SaveOrderResult{OrderID: orderID, Adjustment: adjustment}
		return nil
	})
	if err != nil {
		return nil, uc.fail(span, orderID, err)
	}

	uc.logger.Info("order deleted", zap.Uint("orderId", orderID), zap.Int("materials", len(result.Adjustment.Movements)))
	uc.publish(ctx, result.Adjustment)

	return &result, nil
}

func (uc *SaveOrderUseCase) withRetry(ctx context.Context, orderID uint, fn func(ctx context.Context, tx *sql.Tx) error) error {
	for attempt := 1; attempt <= uc.maxRetryAttempts; attempt++ {
		err := uc.runTx(ctx, fn)
		if err == nil {
			return nil
		}

		if !mysql.IsDeadlock(err) {
			return err
		}

		if attempt == uc.maxRetryAttempts {
			break
		}

		uc.logger.Warn("deadlock detected, retrying",
			zap.Int("attempt", attempt), zap.Int("maxAttempts", uc.maxRetryAttempts), zap.Uint("orderId", orderID))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(uc.backoff(attempt)):
		}
	}

	return apperrors.NewDeadlockError("max retries exceeded")
}

func (uc *SaveOrderUseCase) runTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	if uc.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.txTimeout)
		defer cancel()
	}
	return uc.tx.WithinTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead}, fn)
}

// backoff is the wait after a failed attempt, with ±20% jitter.
func (uc *SaveOrderUseCase) backoff(attempt int) time.Duration {
	if len(uc.backoffs) == 0 {
		return 0
	}
	idx := attempt - 1
	if idx >= len(uc.backoffs) {
		idx = len(uc.backoffs) - 1
	}
	base := uc.backoffs[idx]
	return time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
}

func (uc *SaveOrderUseCase) publish(ctx context.Context, adjustment *dto.AdjustmentResult) {
	if adjustment.IsEmpty() {
		return
	}

	event := dto.StockAdjustedEvent{
		EventID:    uuid.NewString(),
		OrderID:    adjustment.OrderID,
		Operation:  string(adjustment.Operation),
		Movements:  make([]dto.StockMovementRecord, 0, len(adjustment.Movements)),
		OccurredAt: uc.now().UTC(),
	}
	for _, mv := range adjustment.Movements {
		event.Movements = append(event.Movements, dto.StockMovementRecord{
			MaterialID: mv.MaterialID,
			Before:     mv.Before,
			Delta:      mv.Delta,
			After:      mv.After,
		})
	}

	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("failed to publish stock event",
			zap.Uint("orderId", adjustment.OrderID), zap.String("eventId", event.EventID), zap.Error(err))
	}
}

func (uc *SaveOrderUseCase) fail(span trace.Span, orderID uint, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	uc.logger.Warn("order save failed", zap.Uint("orderId", orderID), zap.Error(err))
	return err
}

func newOrder(req dto.SaveOrderRequest) (domain.Order, []domain.LineItem, error) {
	if len(req.Lines) == 0 {
		return domain.Order{}, nil, apperrors.NewValidationError("order must have at least one line",
			apperrors.ValidationDetail{Field: "lines", Message: "lines must not be empty"})
	}
	if req.Status == domain.OrderStatusCanceled || req.Status == domain.OrderStatusDelivered {
		return domain.Order{}, nil, apperrors.NewValidationError("invalid initial status",
			apperrors.ValidationDetail{Field: "status", Message: "a new order cannot be " + req.Status})
	}

	lines, err := toLineItems(req.Lines)
	if err != nil {
		return domain.Order{}, nil, err
	}

	order := domain.Order{Status: domain.OrderStatusReceived, Priority: domain.OrderPriorityNormal}
	applyHeader(&order, req)
	return order, lines, nil
}

func applyHeader(order *domain.Order, req dto.SaveOrderRequest) {
	if !req.DeliveryDate.IsZero() {
		order.DeliveryDate = req.DeliveryDate
	}
	if req.Status != "" {
		order.Status = req.Status
	}
	if req.Priority != "" {
		order.Priority = req.Priority
	}
}

func ensureEditable(order *domain.Order) error {
	switch order.Status {
	case domain.OrderStatusCanceled, domain.OrderStatusDelivered:
		return apperrors.NewConflictError("order is " + order.Status + " and can no longer be edited")
	}
	return nil
}

func toLineItems(lines []dto.OrderLineRequest) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, apperrors.NewInvalidQuantityError(l.ServiceID, l.Quantity)
		}
		items = append(items, domain.LineItem{ServiceID: l.ServiceID, Quantity: l.Quantity})
	}
	return items, nil
}
