package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"dentalab/internal/catalog"
	"dentalab/internal/domain"
	"dentalab/internal/dto"
	inventoryctrl "dentalab/internal/inventory/controller"
	orderctrl "dentalab/internal/order/controller"
)

type stubSaveOrder struct{}

func (stubSaveOrder) CreateOrder(ctx context.Context, req dto.SaveOrderRequest) (*dto.SaveOrderResult, error) {
	return &dto.SaveOrderResult{OrderID: 1}, nil
}

func (stubSaveOrder) UpdateOrder(ctx context.Context, orderID uint, req dto.SaveOrderRequest) (*dto.SaveOrderResult, error) {
	return &dto.SaveOrderResult{OrderID: orderID}, nil
}

func (stubSaveOrder) DeleteOrder(ctx context.Context, orderID uint) (*dto.SaveOrderResult, error) {
	return &dto.SaveOrderResult{OrderID: orderID}, nil
}

type stubCosts struct{}

func (stubCosts) Recalculate(ctx context.Context, serviceID uint) (*dto.ServiceCost, error) {
	return &dto.ServiceCost{ServiceID: serviceID}, nil
}

func (stubCosts) RecalculateAll(ctx context.Context) ([]dto.ServiceCost, error) {
	return nil, nil
}

type stubLookup struct{}

func (stubLookup) GetMaterialsByIDs(ctx context.Context, ids []uint) ([]domain.Material, []uint, error) {
	return nil, []uint{}, nil
}

type stubRepair struct{}

func (stubRepair) RepairInconsistentLines(ctx context.Context) (*dto.RepairReport, error) {
	return &dto.RepairReport{}, nil
}

func testRouter() http.Handler {
	logger := zap.NewNop()
	return NewRouter(
		orderctrl.NewOrderController(stubSaveOrder{}, logger),
		catalog.NewController(stubCosts{}, stubLookup{}, logger),
		inventoryctrl.NewRepairController(stubRepair{}, logger),
		logger,
	)
}

func TestRouter_Routes(t *testing.T) {
	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodPost, "/orders", `{"deliveryDate":"2026-11-02T00:00:00Z","lines":[{"serviceId":1,"quantity":1}]}`, http.StatusCreated},
		{http.MethodPut, "/orders/4", `{"lines":[]}`, http.StatusOK},
		{http.MethodDelete, "/orders/4", "", http.StatusOK},
		{http.MethodPost, "/services/recalculate", "", http.StatusOK},
		{http.MethodPost, "/services/2/recalculate", "", http.StatusOK},
		{http.MethodPost, "/maintenance/order-lines/repair", "", http.StatusOK},
		{http.MethodPost, "/materials/search", `{"materialIds":[1]}`, http.StatusOK},
		{http.MethodGet, "/orders/4", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/unknown", "", http.StatusNotFound},
	}

	router := testRouter()
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
