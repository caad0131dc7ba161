package services

import (
	"context"
	"fmt"

	"github.com/trustlens/trustlens/internal/domain/entities"
	"github.com/trustlens/trustlens/internal/domain/ports"
)

const (
	// DefaultCorroborationLimit is how many corpus reports are checked.
	DefaultCorroborationLimit = 8
	// DefaultSimilarityThreshold is the cosine similarity above which a
	// report counts as corroborating.
	DefaultSimilarityThreshold float32 = 0.78
)

// CrossValidationService tallies corroboration for a claim against the
// corpus of indexed source reports. It implements ports.CrossValidator.
type CrossValidationService struct {
	embedder  ports.Embedder
	vectorDB  ports.VectorDB
	threshold float32
	limit     int
}

// NewCrossValidationService creates a cross-validation service with default
// threshold and limit.
func NewCrossValidationService(embedder ports.Embedder, vectorDB ports.VectorDB) *CrossValidationService {
	return &CrossValidationService{
		embedder:  embedder,
		vectorDB:  vectorDB,
		threshold: DefaultSimilarityThreshold,
		limit:     DefaultCorroborationLimit,
	}
}

// Corroborate embeds the claim, searches the corpus and counts how many of
// the checked reports are similar enough to corroborate it. An empty corpus
// yields a zero tally, not an error.
func (s *CrossValidationService) Corroborate(ctx context.Context, claim string) (*entities.CrossValidation, error) {
	embedding, err := s.embedder.Embed(ctx, claim)
	if err != nil {
		return nil, fmt.Errorf("embedding claim: %w", err)
	}

	matches, err := s.vectorDB.Search(ctx, embedding, s.limit)
	if err != nil {
		return nil, fmt.Errorf("searching corpus: %w", err)
	}

	cv := &entities.CrossValidation{SourcesChecked: len(matches)}
	for _, m := range matches {
		if m.Similarity >= s.threshold {
			cv.SourcesCorroborating++
		}
	}
	return cv, nil
}
