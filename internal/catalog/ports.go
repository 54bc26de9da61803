package catalog

import (
	"context"

	"dentalab/internal/domain"
	"dentalab/internal/dto"
)

type CostCalculator interface {
	Recalculate(ctx context.Context, serviceID uint) (*dto.ServiceCost, error)
	RecalculateAll(ctx context.Context) ([]dto.ServiceCost, error)
}

type MaterialLookup interface {
	GetMaterialsByIDs(ctx context.Context, ids []uint) (found []domain.Material, notFoundIDs []uint, err error)
}
