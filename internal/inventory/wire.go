package inventory

import (
	"database/sql"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	catalogrepo "dentalab/internal/catalog/repository"
	"dentalab/internal/infrastructure/mysql"
	"dentalab/internal/inventory/controller"
	"dentalab/internal/inventory/service"
	orderrepo "dentalab/internal/order/repository"
)

type Module struct {
	Engine           *service.AdjustmentEngine
	RepairController *controller.RepairController
}

func NewModule(db *sql.DB, logger *zap.Logger, tracer trace.Tracer) *Module {
	materialRepo := catalogrepo.NewMySQLMaterialRepository(db)
	bomRepo := catalogrepo.NewMySQLBOMRepository(db)
	serviceRepo := catalogrepo.NewMySQLServiceRepository(db)
	lineRepo := orderrepo.NewMySQLOrderLineRepository(db)

	engine := service.NewAdjustmentEngine(
		service.NewBOMResolver(bomRepo, serviceRepo),
		service.NewStockLedger(materialRepo),
		service.NewLineReconciler(lineRepo, logger),
		logger,
		tracer,
	)

	repair := service.NewLineRepairService(mysql.NewTxRunner(db), lineRepo, logger)

	return &Module{
		Engine:           engine,
		RepairController: controller.NewRepairController(repair, logger),
	}
}
