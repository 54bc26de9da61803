package service

import (
	"context"
	"database/sql"
	"sort"

	"github.com/shopspring/decimal"

	"dentalab/internal/domain"
	"dentalab/internal/dto"
	apperrors "dentalab/internal/errors"
)

type MaterialRepository interface {
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Material, error)
	UpdateQuantity(ctx context.Context, tx *sql.Tx, id uint, quantity decimal.Decimal) error
}

// StockPlan holds the net change per material for one batch. Positive values
// consume stock, negative values return it.
type StockPlan map[uint]decimal.Decimal

func (p StockPlan) Add(materialID uint, quantity decimal.Decimal) {
	p[materialID] = p[materialID].Add(quantity)
}

// MaterialIDs returns the materials with a non-zero net change in ascending
// order, which is also the lock order.
func (p StockPlan) MaterialIDs() []uint {
	ids := make([]uint, 0, len(p))
	for id, qty := range p {
		if !qty.IsZero() {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// StockLedger applies a StockPlan to the on-hand quantities.
type StockLedger struct {
	materials MaterialRepository
}

func NewStockLedger(materials MaterialRepository) *StockLedger {
	return &StockLedger{materials: materials}
}

// Apply locks every touched material, checks the whole plan and only then
// writes. Nothing is written when any material would go negative.
func (l *StockLedger) Apply(ctx context.Context, tx *sql.Tx, plan StockPlan) ([]dto.StockMovement, error) {
	ids := plan.MaterialIDs()
	movements := make([]dto.StockMovement, 0, len(ids))

	for _, id := range ids {
		material, err := l.materials.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return nil, err
		}

		delta := plan[id]
		if delta.IsPositive() && !material.CanCover(delta) {
			return nil, apperrors.NewInsufficientStockError(material.ID, material.Name, material.Quantity, delta)
		}

		movements = append(movements, dto.StockMovement{
			MaterialID:   material.ID,
			MaterialName: material.Name,
			Before:       material.Quantity,
			Delta:        delta,
			After:        material.Quantity.Sub(delta),
		})
	}

	for _, mv := range movements {
		if err := l.materials.UpdateQuantity(ctx, tx, mv.MaterialID, mv.After); err != nil {
			return nil, err
		}
	}

	return movements, nil
}
