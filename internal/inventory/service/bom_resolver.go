package service

import (
	"context"
	"database/sql"

	"dentalab/internal/domain"
	apperrors "dentalab/internal/errors"
)

type BOMRepository interface {
	FindByService(ctx context.Context, tx *sql.Tx, serviceID uint) ([]domain.BOMEntry, error)
}

type ServiceRepository interface {
	FindByID(ctx context.Context, tx *sql.Tx, id uint) (*domain.Service, error)
}

// BOMResolver reads the bill of materials of a service.
type BOMResolver struct {
	boms     BOMRepository
	services ServiceRepository
}

func NewBOMResolver(boms BOMRepository, services ServiceRepository) *BOMResolver {
	return &BOMResolver{boms: boms, services: services}
}

// Resolve returns the BOM entries of serviceID. An unknown service yields a
// NotFoundError for ResourceService; a known service without entries yields
// one for ResourceBOM.
func (r *BOMResolver) Resolve(ctx context.Context, tx *sql.Tx, serviceID uint) ([]domain.BOMEntry, error) {
	if _, err := r.services.FindByID(ctx, tx, serviceID); err != nil {
		return nil, err
	}

	entries, err := r.boms.FindByService(ctx, tx, serviceID)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, apperrors.NewResourceNotFoundError(apperrors.ResourceBOM, serviceID)
	}

	return entries, nil
}

func isMissingBOM(err error) bool {
	nfe, ok := apperrors.IsNotFoundError(err)
	return ok && nfe.Resource == apperrors.ResourceBOM
}
