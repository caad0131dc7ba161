package ports

import (
	"context"

	"github.com/trustlens/trustlens/internal/domain/entities"
)

// ScoredReport is a source report returned from a similarity search,
// annotated with its cosine similarity to the query.
type ScoredReport struct {
	Report     entities.SourceReport `json:"report"`
	Similarity float32               `json:"similarity"`
}

// VectorDB defines the interface for the corroboration corpus.
type VectorDB interface {
	// Save stores a source report with its embedding.
	Save(ctx context.Context, report entities.SourceReport) error

	// SaveBatch stores multiple source reports.
	SaveBatch(ctx context.Context, reports []entities.SourceReport) error

	// FindByID retrieves a source report by its ID.
	FindByID(ctx context.Context, id string) (entities.SourceReport, error)

	// Search returns the reports most similar to the given embedding.
	Search(ctx context.Context, embedding []float32, limit int) ([]ScoredReport, error)

	// List returns stored reports with pagination.
	List(ctx context.Context, limit int, offset uint64) ([]entities.SourceReport, error)

	// Delete removes a source report by its ID.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored reports.
	Count(ctx context.Context) (uint64, error)
}
