package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "dentalab/internal/errors"
)

func TestBOMResolver_Resolve(t *testing.T) {
	fx := newLabFixture(zap.NewNop())
	fx.service(1, "Zirconia crown")
	fx.bom(1, 20, factor("2"))
	fx.bom(1, 10, factor("0.5"))

	resolver := NewBOMResolver(fx.boms, fx.services)
	entries, err := resolver.Resolve(context.Background(), nil, 1)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint(10), entries[0].MaterialID)
	assert.Equal(t, uint(20), entries[1].MaterialID)
}

func TestBOMResolver_UnknownService(t *testing.T) {
	fx := newLabFixture(zap.NewNop())

	resolver := NewBOMResolver(fx.boms, fx.services)
	_, err := resolver.Resolve(context.Background(), nil, 404)

	nfe, ok := apperrors.IsNotFoundError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ResourceService, nfe.Resource)
	assert.False(t, isMissingBOM(err))
}

func TestBOMResolver_ServiceWithoutBOM(t *testing.T) {
	fx := newLabFixture(zap.NewNop())
	fx.service(2, "Model scan")

	resolver := NewBOMResolver(fx.boms, fx.services)
	_, err := resolver.Resolve(context.Background(), nil, 2)

	nfe, ok := apperrors.IsNotFoundError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ResourceBOM, nfe.Resource)
	assert.True(t, isMissingBOM(err))
}
