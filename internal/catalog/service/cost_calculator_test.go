package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dentalab/internal/domain"
	apperrors "dentalab/internal/errors"
)

type mockServiceRepository struct {
	FindByIDFunc    func(ctx context.Context, tx *sql.Tx, id uint) (*domain.Service, error)
	FindAllIDsFunc  func(ctx context.Context) ([]uint, error)
	UpdateCostsFunc func(ctx context.Context, id uint, materialCost, totalValue decimal.Decimal) error
}

func (m *mockServiceRepository) FindByID(ctx context.Context, tx *sql.Tx, id uint) (*domain.Service, error) {
	return m.FindByIDFunc(ctx, tx, id)
}

func (m *mockServiceRepository) FindAllIDs(ctx context.Context) ([]uint, error) {
	return m.FindAllIDsFunc(ctx)
}

func (m *mockServiceRepository) UpdateCosts(ctx context.Context, id uint, materialCost, totalValue decimal.Decimal) error {
	if m.UpdateCostsFunc == nil {
		return nil
	}
	return m.UpdateCostsFunc(ctx, id, materialCost, totalValue)
}

type mockBOMCostRepository struct {
	FindCostLinesByServiceFunc func(ctx context.Context, serviceID uint) ([]domain.BOMCostLine, error)
}

func (m *mockBOMCostRepository) FindCostLinesByService(ctx context.Context, serviceID uint) ([]domain.BOMCostLine, error) {
	return m.FindCostLinesByServiceFunc(ctx, serviceID)
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func costLine(factor *string, unitCost string) domain.BOMCostLine {
	entry := domain.BOMEntry{ServiceID: 1, MaterialID: 1}
	if factor != nil {
		entry.Quantity = decimal.NewNullDecimal(d(*factor))
	}
	return domain.BOMCostLine{Entry: entry, UnitCost: d(unitCost)}
}

func strPtr(s string) *string { return &s }

func TestMaterialCost(t *testing.T) {
	tests := []struct {
		name    string
		lines   []domain.BOMCostLine
		want    string
		skipped int
	}{
		{"no bom", nil, "0", 0},
		{"single", []domain.BOMCostLine{costLine(strPtr("2"), "12.50")}, "25", 0},
		{"mixed", []domain.BOMCostLine{
			costLine(strPtr("0.5"), "40"),
			costLine(strPtr("3"), "1.10"),
			costLine(nil, "99"),
			costLine(strPtr("-1"), "5"),
		}, "23.3", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaterialCost(tt.lines)
			assert.True(t, d(tt.want).Equal(got.MaterialCost), "got %s", got.MaterialCost)
			assert.Equal(t, tt.skipped, got.SkippedLines)
		})
	}
}

func TestCostCalculator_Recalculate(t *testing.T) {
	var storedCost, storedTotal decimal.Decimal
	services := &mockServiceRepository{
		FindByIDFunc: func(ctx context.Context, tx *sql.Tx, id uint) (*domain.Service, error) {
			return &domain.Service{ID: id, BasePrice: d("150")}, nil
		},
		UpdateCostsFunc: func(ctx context.Context, id uint, materialCost, totalValue decimal.Decimal) error {
			storedCost, storedTotal = materialCost, totalValue
			return nil
		},
	}
	boms := &mockBOMCostRepository{
		FindCostLinesByServiceFunc: func(ctx context.Context, serviceID uint) ([]domain.BOMCostLine, error) {
			return []domain.BOMCostLine{costLine(strPtr("2"), "12.50"), costLine(strPtr("1"), "4")}, nil
		},
	}

	cost, err := NewCostCalculator(services, boms, zap.NewNop()).Recalculate(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, uint(3), cost.ServiceID)
	assert.True(t, d("29").Equal(cost.MaterialCost))
	assert.True(t, d("179").Equal(cost.TotalValue))
	assert.True(t, storedCost.Equal(cost.MaterialCost))
	assert.True(t, storedTotal.Equal(cost.TotalValue))
}

func TestCostCalculator_RecalculateUnknownService(t *testing.T) {
	services := &mockServiceRepository{
		FindByIDFunc: func(ctx context.Context, tx *sql.Tx, id uint) (*domain.Service, error) {
			return nil, apperrors.NewResourceNotFoundError(apperrors.ResourceService, id)
		},
	}

	_, err := NewCostCalculator(services, &mockBOMCostRepository{}, zap.NewNop()).Recalculate(context.Background(), 9)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestCostCalculator_RecalculateAll(t *testing.T) {
	var updated []uint
	services := &mockServiceRepository{
		FindAllIDsFunc: func(ctx context.Context) ([]uint, error) { return []uint{1, 2}, nil },
		FindByIDFunc: func(ctx context.Context, tx *sql.Tx, id uint) (*domain.Service, error) {
			return &domain.Service{ID: id, BasePrice: d("10")}, nil
		},
		UpdateCostsFunc: func(ctx context.Context, id uint, materialCost, totalValue decimal.Decimal) error {
			updated = append(updated, id)
			return nil
		},
	}
	boms := &mockBOMCostRepository{
		FindCostLinesByServiceFunc: func(ctx context.Context, serviceID uint) ([]domain.BOMCostLine, error) {
			return nil, nil
		},
	}

	costs, err := NewCostCalculator(services, boms, zap.NewNop()).RecalculateAll(context.Background())

	require.NoError(t, err)
	require.Len(t, costs, 2)
	assert.Equal(t, []uint{1, 2}, updated)
	assert.True(t, d("10").Equal(costs[1].TotalValue))
}

func TestCostCalculator_RecalculateAllStopsOnError(t *testing.T) {
	services := &mockServiceRepository{
		FindAllIDsFunc: func(ctx context.Context) ([]uint, error) { return []uint{1, 2}, nil },
		FindByIDFunc: func(ctx context.Context, tx *sql.Tx, id uint) (*domain.Service, error) {
			return &domain.Service{ID: id}, nil
		},
	}
	boms := &mockBOMCostRepository{
		FindCostLinesByServiceFunc: func(ctx context.Context, serviceID uint) ([]domain.BOMCostLine, error) {
			return nil, errors.New("connection reset")
		},
	}

	_, err := NewCostCalculator(services, boms, zap.NewNop()).RecalculateAll(context.Background())

	assert.EqualError(t, err, "recalculating service 1: connection reset")
}
