package handlers

import (
	"context"
	"fmt"

	"github.com/trustlens/trustlens/internal/domain/entities"
	"github.com/trustlens/trustlens/internal/domain/services"
	"github.com/trustlens/trustlens/internal/infrastructure/config"
)

// WeightsHandler handles reading and updating the scoring weights.
type WeightsHandler struct {
	aggregator *services.Aggregator
	cfg        *config.Config
	basePath   string
}

// NewWeightsHandler creates a new weights handler. basePath is where the
// updated configuration is persisted; pass "" to keep updates in memory only.
func NewWeightsHandler(aggregator *services.Aggregator, cfg *config.Config, basePath string) *WeightsHandler {
	return &WeightsHandler{
		aggregator: aggregator,
		cfg:        cfg,
		basePath:   basePath,
	}
}

// Get returns the active weight configuration.
func (h *WeightsHandler) Get(_ context.Context) entities.WeightConfig {
	return h.aggregator.Weights()
}

// Set applies weight updates. Invalid updates are rejected as a whole; the
// active configuration is left untouched. Accepted updates are persisted to
// the configuration file when a base path is set.
func (h *WeightsHandler) Set(_ context.Context, updates map[string]float64) (entities.WeightConfig, error) {
	if len(updates) == 0 {
		return entities.WeightConfig{}, fmt.Errorf("no weight updates given")
	}

	if err := h.aggregator.Configure(updates); err != nil {
		return entities.WeightConfig{}, err
	}

	weights := h.aggregator.Weights()

	if h.basePath != "" && h.cfg != nil {
		h.cfg.Weights = config.FromWeightConfig(weights)
		if err := config.Write(h.basePath, h.cfg); err != nil {
			return entities.WeightConfig{}, fmt.Errorf("persisting weights: %w", err)
		}
	}

	return weights, nil
}
