package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"dentalab/internal/catalog"
	inventoryctrl "dentalab/internal/inventory/controller"
	orderctrl "dentalab/internal/order/controller"
)

func NewRouter(
	orderCtrl *orderctrl.OrderController,
	catalogCtrl *catalog.Controller,
	repairCtrl *inventoryctrl.RepairController,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orderCtrl.Create)
		r.Put("/{orderId}", orderCtrl.Update)
		r.Delete("/{orderId}", orderCtrl.Delete)
	})

	r.Route("/services", func(r chi.Router) {
		r.Post("/recalculate", catalogCtrl.HandleRecalculateAll)
		r.Post("/{serviceId}/recalculate", catalogCtrl.HandleRecalculateService)
	})

	r.Post("/materials/search", catalogCtrl.HandleSearchMaterials)

	r.Post("/maintenance/order-lines/repair", repairCtrl.RepairOrderLines)

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestId", middleware.GetReqID(r.Context())),
			)
		})
	}
}
