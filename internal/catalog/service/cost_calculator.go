package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"dentalab/internal/domain"
	"dentalab/internal/dto"
)

type ServiceRepository interface {
	FindByID(ctx context.Context, tx *sql.Tx, id uint) (*domain.Service, error)
	FindAllIDs(ctx context.Context) ([]uint, error)
	UpdateCosts(ctx context.Context, id uint, materialCost, totalValue decimal.Decimal) error
}

type BOMCostRepository interface {
	FindCostLinesByService(ctx context.Context, serviceID uint) ([]domain.BOMCostLine, error)
}

// CostCalculator derives the material cost and total value of services from
// their bill of materials and the current unit cost of each material.
type CostCalculator struct {
	services ServiceRepository
	boms     BOMCostRepository
	logger   *zap.Logger
}

func NewCostCalculator(services ServiceRepository, boms BOMCostRepository, logger *zap.Logger) *CostCalculator {
	return &CostCalculator{services: services, boms: boms, logger: logger}
}

func (c *CostCalculator) Recalculate(ctx context.Context, serviceID uint) (*dto.ServiceCost, error) {
	service, err := c.services.FindByID(ctx, nil, serviceID)
	if err != nil {
		return nil, err
	}

	lines, err := c.boms.FindCostLinesByService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	cost := MaterialCost(lines)
	cost.ServiceID = serviceID
	cost.TotalValue = service.BasePrice.Add(cost.MaterialCost)

	if err := c.services.UpdateCosts(ctx, serviceID, cost.MaterialCost, cost.TotalValue); err != nil {
		return nil, err
	}

	if cost.SkippedLines > 0 {
		c.logger.Warn("bom entries without a usable factor ignored in cost",
			zap.Uint("serviceId", serviceID), zap.Int("skipped", cost.SkippedLines))
	}
	c.logger.Info("service cost recalculated",
		zap.Uint("serviceId", serviceID),
		zap.String("materialCost", cost.MaterialCost.String()),
		zap.String("totalValue", cost.TotalValue.String()),
	)

	return &cost, nil
}

// RecalculateAll recalculates every service in id order and stops at the
// first failure.
func (c *CostCalculator) RecalculateAll(ctx context.Context) ([]dto.ServiceCost, error) {
	ids, err := c.services.FindAllIDs(ctx)
	if err != nil {
		return nil, err
	}

	costs := make([]dto.ServiceCost, 0, len(ids))
	for _, id := range ids {
		cost, err := c.Recalculate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("recalculating service %d: %w", id, err)
		}
		costs = append(costs, *cost)
	}

	return costs, nil
}

// MaterialCost sums factor × unit cost over lines. Entries with a missing or
// non-positive factor contribute nothing and are counted as skipped.
func MaterialCost(lines []domain.BOMCostLine) dto.ServiceCost {
	cost := dto.ServiceCost{MaterialCost: decimal.Zero}
	for _, line := range lines {
		perUnit, ok := line.Entry.PerUnit()
		if !ok {
			cost.SkippedLines++
			continue
		}
		cost.MaterialCost = cost.MaterialCost.Add(perUnit.Mul(line.UnitCost))
	}
	return cost
}
