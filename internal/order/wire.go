package order

import (
	"database/sql"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"dentalab/internal/config"
	"dentalab/internal/infrastructure/mysql"
	"dentalab/internal/order/controller"
	orderrepo "dentalab/internal/order/repository"
	"dentalab/internal/order/usecase"
)

func NewModule(
	db *sql.DB,
	cfg *config.Config,
	engine usecase.InventoryEngine,
	publisher usecase.StockEventPublisher,
	logger *zap.Logger,
	tracer trace.Tracer,
) *controller.OrderController {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	lineRepo := orderrepo.NewMySQLOrderLineRepository(db)

	saveOrder := usecase.NewSaveOrderUseCase(
		orderRepo,
		lineRepo,
		engine,
		mysql.NewTxRunner(db),
		publisher,
		logger,
		tracer,
		cfg.Order.TxTimeout,
		cfg.Order.MaxRetryAttempts,
	)

	return controller.NewOrderController(saveOrder, logger)
}
