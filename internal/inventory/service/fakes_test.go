package service

import (
	"context"
	"database/sql"
	"sort"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"dentalab/internal/domain"
	apperrors "dentalab/internal/errors"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func factor(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func uintPtr(v uint) *uint { return &v }
func intPtr(v int) *int    { return &v }

type fakeServices struct {
	services map[uint]*domain.Service
}

func (f *fakeServices) FindByID(ctx context.Context, tx *sql.Tx, id uint) (*domain.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError(apperrors.ResourceService, id)
	}
	return s, nil
}

type fakeBOMs struct {
	entries map[uint][]domain.BOMEntry
}

func (f *fakeBOMs) FindByService(ctx context.Context, tx *sql.Tx, serviceID uint) ([]domain.BOMEntry, error) {
	return f.entries[serviceID], nil
}

type fakeMaterials struct {
	materials map[uint]*domain.Material
	locked    []uint
	updates   int
	updateErr error
}

func (f *fakeMaterials) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Material, error) {
	m, ok := f.materials[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError(apperrors.ResourceMaterial, id)
	}
	f.locked = append(f.locked, id)
	cp := *m
	return &cp, nil
}

func (f *fakeMaterials) UpdateQuantity(ctx context.Context, tx *sql.Tx, id uint, quantity decimal.Decimal) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates++
	f.materials[id].Quantity = quantity
	return nil
}

func (f *fakeMaterials) stock(id uint) decimal.Decimal {
	return f.materials[id].Quantity
}

type fakeLines struct {
	rows    map[uint][]domain.OrderLine
	nextID  uint
	updated map[uint]int
}

func newFakeLines() *fakeLines {
	return &fakeLines{rows: map[uint][]domain.OrderLine{}, updated: map[uint]int{}}
}

func (f *fakeLines) FindByOrder(ctx context.Context, tx *sql.Tx, orderID uint) ([]domain.OrderLine, error) {
	rows := make([]domain.OrderLine, len(f.rows[orderID]))
	copy(rows, f.rows[orderID])
	return rows, nil
}

func (f *fakeLines) UpdateQuantity(ctx context.Context, tx *sql.Tx, lineID uint, quantity int) error {
	f.updated[lineID] = quantity
	for orderID, rows := range f.rows {
		for i := range rows {
			if rows[i].ID == lineID {
				f.rows[orderID][i].Quantity = intPtr(quantity)
			}
		}
	}
	return nil
}

// replace mimics the order save use case persisting the new line set.
func (f *fakeLines) replace(orderID uint, lines []domain.LineItem) {
	f.rows[orderID] = nil
	for _, l := range lines {
		f.nextID++
		f.rows[orderID] = append(f.rows[orderID], domain.OrderLine{
			ID:        f.nextID,
			OrderID:   uintPtr(orderID),
			ServiceID: uintPtr(l.ServiceID),
			Quantity:  intPtr(l.Quantity),
		})
	}
}

func (f *fakeLines) addRaw(orderID uint, line domain.OrderLine) {
	f.nextID++
	line.ID = f.nextID
	f.rows[orderID] = append(f.rows[orderID], line)
}

// labFixture wires the real resolver, ledger, reconciler and engine over
// in-memory repositories.
type labFixture struct {
	services  *fakeServices
	boms      *fakeBOMs
	materials *fakeMaterials
	lines     *fakeLines
	engine    *AdjustmentEngine
}

func newLabFixture(logger *zap.Logger) *labFixture {
	fx := &labFixture{
		services:  &fakeServices{services: map[uint]*domain.Service{}},
		boms:      &fakeBOMs{entries: map[uint][]domain.BOMEntry{}},
		materials: &fakeMaterials{materials: map[uint]*domain.Material{}},
		lines:     newFakeLines(),
	}
	fx.engine = NewAdjustmentEngine(
		NewBOMResolver(fx.boms, fx.services),
		NewStockLedger(fx.materials),
		NewLineReconciler(fx.lines, logger),
		logger,
		noop.NewTracerProvider().Tracer("test"),
	)
	return fx
}

func (fx *labFixture) material(id uint, name, stock string) {
	fx.materials.materials[id] = &domain.Material{ID: id, Name: name, Quantity: dec(stock)}
}

func (fx *labFixture) service(id uint, name string) {
	fx.services.services[id] = &domain.Service{ID: id, Name: name}
}

func (fx *labFixture) bom(serviceID, materialID uint, perUnit decimal.NullDecimal) {
	entries := fx.boms.entries[serviceID]
	entries = append(entries, domain.BOMEntry{
		ID:         uint(len(entries) + 1),
		ServiceID:  serviceID,
		MaterialID: materialID,
		Quantity:   perUnit,
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].MaterialID < entries[j].MaterialID })
	fx.boms.entries[serviceID] = entries
}
