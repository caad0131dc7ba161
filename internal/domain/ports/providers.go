// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/trustlens/trustlens/internal/domain/entities"
)

// CredentialProvider resolves content credentials for a content URL.
type CredentialProvider interface {
	// Verify resolves the credential attached to the given content URL.
	// On failure the caller degrades to StatusUnknown rather than
	// propagating the error into the aggregator.
	Verify(ctx context.Context, contentURL string) (entities.CredentialVerificationResult, error)
}

// MediaAnalyzer estimates the probability that media content was manipulated.
type MediaAnalyzer interface {
	// Analyze inspects the media at the given URL.
	Analyze(ctx context.Context, mediaURL string) (*entities.MediaAnalysis, error)
}

// TextAnalyzer estimates the probability that a text contains misinformation.
type TextAnalyzer interface {
	// Analyze inspects the given text.
	Analyze(ctx context.Context, text string) (*entities.TextAnalysis, error)
}

// AIContentDetector estimates how likely content is AI-generated. Detection
// is typically slower than the other signals; its result is merged into an
// already-published VerificationResult.
type AIContentDetector interface {
	// Detect scores the content at the given URL. The text, when available,
	// gives the detector more to work with.
	Detect(ctx context.Context, contentURL, text string) (*entities.AIContentAnalysis, error)
}

// CrossValidator tallies corroboration for a claim among independent sources.
type CrossValidator interface {
	// Corroborate returns how many known sources were checked and how many
	// corroborate the claim.
	Corroborate(ctx context.Context, claim string) (*entities.CrossValidation, error)
}
