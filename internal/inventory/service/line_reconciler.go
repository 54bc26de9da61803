package service

import (
	"context"
	"database/sql"
	"sort"

	"go.uber.org/zap"

	"dentalab/internal/domain"
	"dentalab/internal/dto"
	apperrors "dentalab/internal/errors"
)

type OrderLineRepository interface {
	FindByOrder(ctx context.Context, tx *sql.Tx, orderID uint) ([]domain.OrderLine, error)
	UpdateQuantity(ctx context.Context, tx *sql.Tx, lineID uint, quantity int) error
}

// LineDiff is the last committed line set of an order against a proposed one,
// both keyed by service id.
type LineDiff struct {
	Previous map[uint]int
	Next     map[uint]int
	Repairs  []dto.LineRepair
}

// ServiceIDs returns every service present on either side, ascending.
func (d *LineDiff) ServiceIDs() []uint {
	seen := make(map[uint]struct{}, len(d.Previous)+len(d.Next))
	for id := range d.Previous {
		seen[id] = struct{}{}
	}
	for id := range d.Next {
		seen[id] = struct{}{}
	}
	return sortedKeys(seen)
}

// Delta is the change in ordered units of serviceID. Services missing on a
// side count as zero.
func (d *LineDiff) Delta(serviceID uint) int {
	return d.Next[serviceID] - d.Previous[serviceID]
}

// LineReconciler reads the persisted lines of an order. It has to run before
// the new lines are written.
type LineReconciler struct {
	lines  OrderLineRepository
	logger *zap.Logger
}

func NewLineReconciler(lines OrderLineRepository, logger *zap.Logger) *LineReconciler {
	return &LineReconciler{lines: lines, logger: logger}
}

func (r *LineReconciler) Diff(ctx context.Context, tx *sql.Tx, orderID uint, newLines []domain.LineItem) (*LineDiff, error) {
	next, err := AggregateLines(newLines)
	if err != nil {
		return nil, err
	}

	previous, repairs, err := r.Snapshot(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	return &LineDiff{Previous: previous, Next: next, Repairs: repairs}, nil
}

// Snapshot returns the persisted quantities of orderID per service. NULL or
// non-positive quantities are corrected to 1 in place and reported.
func (r *LineReconciler) Snapshot(ctx context.Context, tx *sql.Tx, orderID uint) (map[uint]int, []dto.LineRepair, error) {
	rows, err := r.lines.FindByOrder(ctx, tx, orderID)
	if err != nil {
		return nil, nil, err
	}

	previous := make(map[uint]int, len(rows))
	var repairs []dto.LineRepair

	for _, row := range rows {
		switch row.Classify() {
		case domain.LineRemoved:
			r.logger.Warn("order line without service skipped, left for batch repair",
				zap.Uint("orderId", orderID), zap.Uint("lineId", row.ID))
			continue

		case domain.LineCorrected:
			if err := r.lines.UpdateQuantity(ctx, tx, row.ID, domain.RepairedQuantity); err != nil {
				return nil, nil, err
			}
			repairs = append(repairs, dto.LineRepair{
				LineID:    row.ID,
				ServiceID: *row.ServiceID,
				Previous:  row.Quantity,
				Corrected: domain.RepairedQuantity,
			})
			r.logger.Warn("order line quantity corrected",
				zap.Uint("orderId", orderID), zap.Uint("lineId", row.ID),
				zap.Uint("serviceId", *row.ServiceID), zap.Int("correctedTo", domain.RepairedQuantity))
			previous[*row.ServiceID] += domain.RepairedQuantity

		default:
			previous[*row.ServiceID] += *row.Quantity
		}
	}

	return previous, repairs, nil
}

// AggregateLines sums requested quantities per service. Any quantity that is
// not positive is rejected.
func AggregateLines(lines []domain.LineItem) (map[uint]int, error) {
	byService := make(map[uint]int, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, apperrors.NewInvalidQuantityError(line.ServiceID, line.Quantity)
		}
		byService[line.ServiceID] += line.Quantity
	}
	return byService, nil
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
