package entities

import "time"

// SourceReport is an independent source's coverage of a piece of content,
// stored in the corroboration corpus with its embedding. Cross-validation
// counts how many reports semantically corroborate a claim.
type SourceReport struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Summary     string    `json:"summary"`
	Embedding   []float32 `json:"embedding,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
}
