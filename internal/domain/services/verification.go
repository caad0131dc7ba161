package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/trustlens/trustlens/internal/domain/entities"
	"github.com/trustlens/trustlens/internal/domain/ports"
)

// VerifyRequest describes one content verification.
type VerifyRequest struct {
	ContentURL string
	Text       string // extracted content text, optional
	MediaURL   string // optional
	SkipAI     bool   // skip AI-content detection
}

// VerificationService orchestrates the signal providers around the
// aggregator. Provider failures degrade to omitting the corresponding
// signal; only persistence failures propagate. Writes against the same
// content URL are serialized with a per-URL lock since the aggregator's
// merge path is a plain read-modify-write.
type VerificationService struct {
	aggregator     *Aggregator
	credentials    ports.CredentialProvider
	media          ports.MediaAnalyzer
	text           ports.TextAnalyzer
	crossValidator ports.CrossValidator
	detector       ports.AIContentDetector
	store          ports.RelationalDB

	urlLocks sync.Map // contentURL -> *sync.Mutex
}

// NewVerificationService creates a verification service. Any provider may be
// nil; the corresponding signal is then omitted (a nil credential provider
// yields StatusUnknown).
func NewVerificationService(
	aggregator *Aggregator,
	credentials ports.CredentialProvider,
	media ports.MediaAnalyzer,
	text ports.TextAnalyzer,
	crossValidator ports.CrossValidator,
	detector ports.AIContentDetector,
	store ports.RelationalDB,
) *VerificationService {
	return &VerificationService{
		aggregator:     aggregator,
		credentials:    credentials,
		media:          media,
		text:           text,
		crossValidator: crossValidator,
		detector:       detector,
		store:          store,
	}
}

// Aggregator exposes the underlying aggregator for configuration.
func (s *VerificationService) Aggregator() *Aggregator {
	return s.aggregator
}

func (s *VerificationService) lockFor(contentURL string) *sync.Mutex {
	mu, _ := s.urlLocks.LoadOrStore(contentURL, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Verify runs the full verification pipeline for one content URL: resolve
// all available signals, compute the initial result, persist it, then merge
// the late AI-content signal and re-persist.
func (s *VerificationService) Verify(ctx context.Context, req VerifyRequest) (*entities.VerificationResult, error) {
	mu := s.lockFor(req.ContentURL)
	mu.Lock()
	defer mu.Unlock()

	// Unresolvable credentials degrade to unknown, never to a failure.
	credential := entities.CredentialVerificationResult{Status: entities.StatusUnknown}
	if s.credentials != nil {
		if resolved, err := s.credentials.Verify(ctx, req.ContentURL); err == nil {
			credential = resolved
		}
	}

	input := ComputeInput{
		ContentURL: req.ContentURL,
		Credential: credential,
	}

	if s.media != nil && req.MediaURL != "" {
		if analysis, err := s.media.Analyze(ctx, req.MediaURL); err == nil {
			input.Media = analysis
		}
	}

	if s.text != nil && req.Text != "" {
		if analysis, err := s.text.Analyze(ctx, req.Text); err == nil {
			input.Text = analysis
		}
	}

	if s.crossValidator != nil && req.Text != "" {
		if cv, err := s.crossValidator.Corroborate(ctx, req.Text); err == nil {
			input.CrossValidation = cv
		}
	}

	if rating, err := s.store.FindCommunityRating(ctx, req.ContentURL); err == nil && rating != nil {
		input.CommunityRating = rating
	}

	result := s.aggregator.Compute(input)
	if err := s.store.SaveResult(ctx, result); err != nil {
		return nil, fmt.Errorf("saving verification result: %w", err)
	}

	if !req.SkipAI && s.detector != nil {
		if analysis, err := s.detector.Detect(ctx, req.ContentURL, req.Text); err == nil {
			result.AIContentAnalysis = analysis
			s.aggregator.MergeFactor(result, s.aggregator.AIContentFactor(analysis))
			if err := s.store.SaveResult(ctx, result); err != nil {
				return nil, fmt.Errorf("saving merged result: %w", err)
			}
		}
	}

	if err := s.store.LogAction(ctx, "verify", req.ContentURL, map[string]any{
		"trust_score": result.TrustScore,
	}); err != nil {
		return nil, fmt.Errorf("logging verification: %w", err)
	}

	return result, nil
}

// SubmitSignal merges a late-arriving factor into the stored result for the
// given content URL and re-persists it. Any factor may be submitted at any
// time; a same-named factor is replaced in place.
func (s *VerificationService) SubmitSignal(ctx context.Context, contentURL string, factor entities.Factor) (*entities.VerificationResult, error) {
	mu := s.lockFor(contentURL)
	mu.Lock()
	defer mu.Unlock()

	result, err := s.store.FindResultByURL(ctx, contentURL)
	if err != nil {
		return nil, fmt.Errorf("loading verification result: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("no verification result for %s", contentURL)
	}

	s.aggregator.MergeFactor(result, factor)
	if err := s.store.SaveResult(ctx, result); err != nil {
		return nil, fmt.Errorf("saving merged result: %w", err)
	}

	return result, nil
}

// Rate stores a community rating and, when a result already exists for the
// URL, refreshes its Community Rating factor from the new mean.
func (s *VerificationService) Rate(ctx context.Context, rating *entities.CommunityRating) (*entities.VerificationResult, error) {
	if rating.Rating < 0 || rating.Rating > 100 {
		return nil, fmt.Errorf("rating must be in [0, 100], got %v", rating.Rating)
	}

	mu := s.lockFor(rating.ContentURL)
	mu.Lock()
	defer mu.Unlock()

	if err := s.store.SaveCommunityRating(ctx, rating); err != nil {
		return nil, fmt.Errorf("saving community rating: %w", err)
	}

	if err := s.store.LogAction(ctx, "rate", rating.ContentURL, map[string]any{
		"rating": rating.Rating,
	}); err != nil {
		return nil, fmt.Errorf("logging rating: %w", err)
	}

	result, err := s.store.FindResultByURL(ctx, rating.ContentURL)
	if err != nil {
		return nil, fmt.Errorf("loading verification result: %w", err)
	}
	if result == nil {
		return nil, nil
	}

	mean, err := s.store.FindCommunityRating(ctx, rating.ContentURL)
	if err != nil {
		return nil, fmt.Errorf("computing community mean: %w", err)
	}
	if mean == nil {
		return result, nil
	}

	result.CommunityRating = mean
	s.aggregator.MergeFactor(result, entities.Factor{
		Name:        entities.FactorCommunityRating,
		Description: "Aggregate rating submitted by the community",
		Score:       *mean,
		Weight:      s.aggregator.Weights().CommunityRating,
	})
	if err := s.store.SaveResult(ctx, result); err != nil {
		return nil, fmt.Errorf("saving merged result: %w", err)
	}

	return result, nil
}

// History returns stored verification results, most recent first.
func (s *VerificationService) History(ctx context.Context, limit, offset int) ([]*entities.VerificationResult, error) {
	return s.store.ListResults(ctx, limit, offset)
}
