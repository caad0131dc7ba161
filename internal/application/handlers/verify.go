// Package handlers provides application-level handlers that bridge the CLI
// and HTTP surfaces to the domain services.
package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/trustlens/trustlens/internal/domain/entities"
	"github.com/trustlens/trustlens/internal/domain/services"
)

// VerifyHandler handles content verification requests.
type VerifyHandler struct {
	service *services.VerificationService
}

// NewVerifyHandler creates a new verify handler.
func NewVerifyHandler(service *services.VerificationService) *VerifyHandler {
	return &VerifyHandler{
		service: service,
	}
}

// VerifyOptions controls verification behavior.
type VerifyOptions struct {
	Text     string // extracted content text, optional
	MediaURL string // optional
	SkipAI   bool   // skip AI-content detection
}

// Handle verifies a content URL and returns the trust assessment.
func (h *VerifyHandler) Handle(ctx context.Context, contentURL string, opts VerifyOptions) (*entities.VerificationResult, error) {
	contentURL = strings.TrimSpace(contentURL)
	if contentURL == "" {
		return nil, errors.New("content URL is required")
	}

	return h.service.Verify(ctx, services.VerifyRequest{
		ContentURL: contentURL,
		Text:       opts.Text,
		MediaURL:   opts.MediaURL,
		SkipAI:     opts.SkipAI,
	})
}

// Rate records a community rating for a content URL. The returned result is
// nil when the URL has not been verified yet; the rating still counts toward
// future verifications.
func (h *VerifyHandler) Rate(ctx context.Context, contentURL string, rating float64, raterID string) (*entities.VerificationResult, error) {
	contentURL = strings.TrimSpace(contentURL)
	if contentURL == "" {
		return nil, errors.New("content URL is required")
	}

	return h.service.Rate(ctx, &entities.CommunityRating{
		ContentURL: contentURL,
		Rating:     rating,
		RaterID:    raterID,
	})
}

// SubmitSignal merges a late-arriving factor into an existing result.
func (h *VerifyHandler) SubmitSignal(ctx context.Context, contentURL string, factor entities.Factor) (*entities.VerificationResult, error) {
	contentURL = strings.TrimSpace(contentURL)
	if contentURL == "" {
		return nil, errors.New("content URL is required")
	}
	if strings.TrimSpace(factor.Name) == "" {
		return nil, errors.New("factor name is required")
	}

	return h.service.SubmitSignal(ctx, contentURL, factor)
}
