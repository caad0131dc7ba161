package handlers

import (
	"context"

	"github.com/trustlens/trustlens/internal/domain/entities"
	"github.com/trustlens/trustlens/internal/domain/services"
)

// HistoryHandler handles verification history queries.
type HistoryHandler struct {
	service *services.VerificationService
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(service *services.VerificationService) *HistoryHandler {
	return &HistoryHandler{
		service: service,
	}
}

// Handle returns stored verification results, most recent first.
func (h *HistoryHandler) Handle(ctx context.Context, limit, offset int) ([]*entities.VerificationResult, error) {
	return h.service.History(ctx, limit, offset)
}
