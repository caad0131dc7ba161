package handlers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustlens/trustlens/internal/domain/entities"
	"github.com/trustlens/trustlens/internal/domain/services"
	"github.com/trustlens/trustlens/internal/infrastructure/config"
)

func newTestAggregator(t *testing.T) *services.Aggregator {
	t.Helper()
	aggregator, err := services.NewAggregator(entities.DefaultWeights())
	require.NoError(t, err)
	return aggregator
}

func TestWeightsHandler_Get(t *testing.T) {
	handler := NewWeightsHandler(newTestAggregator(t), nil, "")

	weights := handler.Get(context.Background())
	assert.Equal(t, entities.DefaultWeights(), weights)
}

func TestWeightsHandler_Set(t *testing.T) {
	handler := NewWeightsHandler(newTestAggregator(t), nil, "")

	weights, err := handler.Set(context.Background(), map[string]float64{
		entities.WeightKeySourceVerification: 0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, weights.SourceVerification)
}

func TestWeightsHandler_Set_RejectsInvalid(t *testing.T) {
	handler := NewWeightsHandler(newTestAggregator(t), nil, "")

	_, err := handler.Set(context.Background(), map[string]float64{
		entities.WeightKeySourceVerification: -1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrInvalidConfiguration)

	// Prior configuration stays active
	assert.Equal(t, entities.DefaultWeights(), handler.Get(context.Background()))
}

func TestWeightsHandler_Set_RejectsEmpty(t *testing.T) {
	handler := NewWeightsHandler(newTestAggregator(t), nil, "")

	_, err := handler.Set(context.Background(), nil)
	assert.Error(t, err)
}

func TestWeightsHandler_Set_PersistsConfig(t *testing.T) {
	basePath := t.TempDir()
	cfg := config.Default()
	handler := NewWeightsHandler(newTestAggregator(t), cfg, basePath)

	_, err := handler.Set(context.Background(), map[string]float64{
		entities.WeightKeyCommunityRating: 0.4,
	})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(basePath, ".trustlens", "config.yaml"))
	require.NoError(t, err)

	loaded, err := config.Load(basePath)
	require.NoError(t, err)
	assert.Equal(t, 0.4, loaded.Weights.CommunityRating)
}
