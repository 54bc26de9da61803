package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"dentalab/internal/domain"
	"dentalab/internal/dto"
)

type TransactionRunner interface {
	WithinTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx *sql.Tx) error) error
}

type RepairLineRepository interface {
	FindAll(ctx context.Context, tx *sql.Tx) ([]domain.OrderLine, error)
	UpdateQuantity(ctx context.Context, tx *sql.Tx, lineID uint, quantity int) error
	Delete(ctx context.Context, tx *sql.Tx, lineID uint) error
}

// LineRepairService fixes persisted order lines that cannot be reconciled:
// orphans are deleted and missing quantities are set to 1. Running it twice
// is a no-op the second time.
type LineRepairService struct {
	tx     TransactionRunner
	lines  RepairLineRepository
	logger *zap.Logger
}

func NewLineRepairService(tx TransactionRunner, lines RepairLineRepository, logger *zap.Logger) *LineRepairService {
	return &LineRepairService{tx: tx, lines: lines, logger: logger}
}

func (s *LineRepairService) RepairInconsistentLines(ctx context.Context) (*dto.RepairReport, error) {
	report := &dto.RepairReport{}

	err := s.tx.WithinTx(ctx, nil, func(ctx context.Context, tx *sql.Tx) error {
		rows, err := s.lines.FindAll(ctx, tx)
		if err != nil {
			return err
		}

		report.Scanned = len(rows)
		for _, line := range rows {
			s.repairLine(ctx, tx, line, report)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("order line repair failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("order line repair finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("valid", report.Valid),
		zap.Int("corrected", report.Corrected),
		zap.Int("removed", report.Removed),
		zap.Int("errored", report.Errored),
	)

	return report, nil
}

func (s *LineRepairService) repairLine(ctx context.Context, tx *sql.Tx, line domain.OrderLine, report *dto.RepairReport) {
	switch line.Classify() {
	case domain.LineRemoved:
		if err := s.lines.Delete(ctx, tx, line.ID); err != nil {
			report.Errored++
			s.logger.Error("failed to delete orphaned order line", zap.Uint("lineId", line.ID), zap.Error(err))
			return
		}
		report.Removed++
		s.logger.Warn("orphaned order line deleted", zap.Uint("lineId", line.ID))

	case domain.LineCorrected:
		if err := s.lines.UpdateQuantity(ctx, tx, line.ID, domain.RepairedQuantity); err != nil {
			report.Errored++
			s.logger.Error("failed to correct order line quantity", zap.Uint("lineId", line.ID), zap.Error(err))
			return
		}
		report.Corrected++
		s.logger.Warn("order line quantity corrected", zap.Uint("lineId", line.ID), zap.Int("correctedTo", domain.RepairedQuantity))

	default:
		report.Valid++
	}
}
