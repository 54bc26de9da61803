package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dentalab/internal/domain"
)

type mockMaterialRepository struct {
	FindByIDsFunc func(ctx context.Context, ids []uint) ([]domain.Material, error)
}

func (m *mockMaterialRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Material, error) {
	return m.FindByIDsFunc(ctx, ids)
}

func TestMaterialLookup_GetMaterialsByIDs(t *testing.T) {
	repo := &mockMaterialRepository{
		FindByIDsFunc: func(ctx context.Context, ids []uint) ([]domain.Material, error) {
			return []domain.Material{{ID: 1, Name: "Zirconia disc"}, {ID: 3, Name: "Stain kit"}}, nil
		},
	}

	found, notFound, err := NewMaterialLookup(repo).GetMaterialsByIDs(context.Background(), []uint{3, 2, 1, 7})

	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, []uint{2, 7}, notFound)
}

func TestMaterialLookup_AllFound(t *testing.T) {
	repo := &mockMaterialRepository{
		FindByIDsFunc: func(ctx context.Context, ids []uint) ([]domain.Material, error) {
			return []domain.Material{{ID: 1}}, nil
		},
	}

	_, notFound, err := NewMaterialLookup(repo).GetMaterialsByIDs(context.Background(), []uint{1})

	require.NoError(t, err)
	assert.NotNil(t, notFound)
	assert.Empty(t, notFound)
}

func TestMaterialLookup_RepositoryError(t *testing.T) {
	repo := &mockMaterialRepository{
		FindByIDsFunc: func(ctx context.Context, ids []uint) ([]domain.Material, error) {
			return nil, errors.New("database error")
		},
	}

	_, _, err := NewMaterialLookup(repo).GetMaterialsByIDs(context.Background(), []uint{1})

	assert.EqualError(t, err, "database error")
}
