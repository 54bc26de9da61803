package catalog

import (
	"database/sql"

	"go.uber.org/zap"

	"dentalab/internal/catalog/repository"
	"dentalab/internal/catalog/service"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	serviceRepo := repository.NewMySQLServiceRepository(db)
	bomRepo := repository.NewMySQLBOMRepository(db)
	materialRepo := repository.NewMySQLMaterialRepository(db)

	calc := service.NewCostCalculator(serviceRepo, bomRepo, logger)
	lookup := service.NewMaterialLookup(materialRepo)

	return NewController(calc, lookup, logger)
}
