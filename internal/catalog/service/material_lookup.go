package service

import (
	"context"

	"dentalab/internal/domain"
)

type MaterialRepository interface {
	FindByIDs(ctx context.Context, ids []uint) ([]domain.Material, error)
}

// MaterialLookup reads current on-hand stock for a set of materials.
type MaterialLookup struct {
	repo MaterialRepository
}

func NewMaterialLookup(repo MaterialRepository) *MaterialLookup {
	return &MaterialLookup{repo: repo}
}

// GetMaterialsByIDs returns the materials that exist and, in request order,
// the ids that do not.
func (s *MaterialLookup) GetMaterialsByIDs(ctx context.Context, ids []uint) ([]domain.Material, []uint, error) {
	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	foundSet := make(map[uint]struct{}, len(found))
	for _, m := range found {
		foundSet[m.ID] = struct{}{}
	}

	notFoundIDs := []uint{}
	for _, id := range ids {
		if _, ok := foundSet[id]; !ok {
			notFoundIDs = append(notFoundIDs, id)
		}
	}

	return found, notFoundIDs, nil
}
