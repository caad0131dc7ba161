// Package services contains the domain services, including the trust
// aggregation engine.
package services

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/trustlens/trustlens/internal/domain/entities"
)

// ErrInvalidConfiguration is returned when a weight update is malformed.
// The prior configuration remains active after a rejected update.
var ErrInvalidConfiguration = errors.New("invalid weight configuration")

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

const (
	// temporalDecayDays controls the freshness decay. Score halves roughly
	// every ln(2)*30 ≈ 20.8 days.
	temporalDecayDays = 30.0

	// mediaBlendWeight and textBlendWeight blend the technical sub-scores.
	// Media is weighted higher: visual manipulation is a stronger trust
	// signal than textual framing.
	mediaBlendWeight = 0.6
	textBlendWeight  = 0.4

	// defaultTechnicalScore is the informational sub-score when neither
	// media nor text analysis ran. The Technical Analysis factor itself is
	// omitted in that case; only the display sub-score defaults.
	defaultTechnicalScore = 50.0

	maxScore = 100.0
)

// credentialScores maps credential status to a source-verification score.
// Revoked sits deliberately below unknown: a found-and-revoked credential is
// more suspicious than no credential at all.
var credentialScores = map[entities.CredentialStatus]float64{
	entities.StatusValid:   100,
	entities.StatusInvalid: 0,
	entities.StatusRevoked: 10,
	entities.StatusExpired: 50,
	entities.StatusUnknown: 30,
}

// ComputeInput carries the signals available at computation time. Every
// signal except the credential is optional; absent signals are omitted from
// the factor list.
type ComputeInput struct {
	ContentURL      string
	Credential      entities.CredentialVerificationResult
	Media           *entities.MediaAnalysis
	Text            *entities.TextAnalysis
	CrossValidation *entities.CrossValidation
	CommunityRating *float64
}

// Aggregator combines heterogeneous verification signals into one bounded
// trust score. It owns an explicit weight configuration; computation itself
// is pure and performs no I/O.
//
// Compute and MergeFactor may be called from concurrent flows as long as
// each flow owns a distinct VerificationResult: MergeFactor performs a
// read-modify-write on the factor list without atomicity guarantees, so
// writes against the same result must be serialized by the caller.
type Aggregator struct {
	mu      sync.RWMutex
	weights entities.WeightConfig
}

// NewAggregator creates an aggregator with the given weight configuration.
func NewAggregator(weights entities.WeightConfig) (*Aggregator, error) {
	for key, w := range weights.AsMap() {
		if err := validateWeight(key, w); err != nil {
			return nil, err
		}
	}
	return &Aggregator{weights: weights}, nil
}

// Weights returns a copy of the current weight configuration.
func (a *Aggregator) Weights() entities.WeightConfig {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.weights
}

// Configure merges the given updates into the current configuration,
// key-wise. Unknown keys, negative weights and non-finite weights are
// rejected with ErrInvalidConfiguration; the prior configuration stays
// active and no partial update is applied. Mutation affects only
// subsequently computed scores.
func (a *Aggregator) Configure(updates map[string]float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := a.weights
	for key, w := range updates {
		if err := validateWeight(key, w); err != nil {
			return err
		}
		switch key {
		case entities.WeightKeySourceVerification:
			next.SourceVerification = w
		case entities.WeightKeyTechnicalAnalysis:
			next.TechnicalAnalysis = w
		case entities.WeightKeyCommunityRating:
			next.CommunityRating = w
		case entities.WeightKeyTemporalFreshness:
			next.TemporalFreshness = w
		case entities.WeightKeyCrossValidation:
			next.CrossValidation = w
		case entities.WeightKeyAIContentAnalysis:
			next.AIContentAnalysis = w
		default:
			return fmt.Errorf("%w: unknown weight key %q", ErrInvalidConfiguration, key)
		}
	}

	a.weights = next
	return nil
}

func validateWeight(key string, w float64) error {
	if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return fmt.Errorf("%w: weight %q must be a non-negative finite number, got %v", ErrInvalidConfiguration, key, w)
	}
	return nil
}

// Compute converts the available signals into a fresh VerificationResult.
// It never fails for missing optional signals.
func (a *Aggregator) Compute(input ComputeInput) *entities.VerificationResult {
	weights := a.Weights()
	now := timeNow()

	result := &entities.VerificationResult{
		ContentURL:             input.ContentURL,
		SourceVerified:         input.Credential.Status == entities.StatusValid,
		CredentialIssuanceDate: input.Credential.IssuanceDate,
		CrossValidation:        input.CrossValidation,
		CommunityRating:        input.CommunityRating,
		VerificationTimestamp:  now,
	}

	result.Factors = append(result.Factors, sourceFactor(input.Credential, weights.SourceVerification))

	if input.Media != nil || input.Text != nil {
		result.Factors = append(result.Factors, entities.Factor{
			Name:        entities.FactorTechnicalAnalysis,
			Description: "Media and text analysis for signs of manipulation",
			Score:       technicalScore(input.Media, input.Text),
			Weight:      weights.TechnicalAnalysis,
			Details:     technicalDetails(input.Media, input.Text),
		})
	}

	result.Factors = append(result.Factors, entities.Factor{
		Name:        entities.FactorTemporalFreshness,
		Description: "How recently the content credential was issued",
		Score:       temporalScore(input.Credential.IssuanceDate, now),
		Weight:      weights.TemporalFreshness,
		Details:     temporalDetails(input.Credential.IssuanceDate),
	})

	if input.CrossValidation != nil {
		cv := input.CrossValidation
		result.Factors = append(result.Factors, entities.Factor{
			Name:        entities.FactorCrossValidation,
			Description: "Agreement among independent corroborating sources",
			Score:       crossValidationScore(cv),
			Weight:      weights.CrossValidation,
			Details:     fmt.Sprintf("%d of %d sources corroborate", cv.SourcesCorroborating, cv.SourcesChecked),
		})
	}

	if input.CommunityRating != nil {
		result.Factors = append(result.Factors, entities.Factor{
			Name:        entities.FactorCommunityRating,
			Description: "Aggregate rating submitted by the community",
			Score:       clamp(*input.CommunityRating, 0, maxScore),
			Weight:      weights.CommunityRating,
		})
	}

	// The sub-score is informational display data and defaults when no
	// analysis ran; the factor list alone drives the trust score.
	result.TechnicalAnalysisScore = technicalSubScore(input.Media, input.Text)
	result.TrustScore = weightedScore(result.Factors)

	return result
}

// MergeFactor inserts the factor into the result's factor list, replacing an
// existing same-named factor in place (position preserved) or appending, and
// recomputes the trust score. This is the incremental path for signals that
// arrive after the initial result was published.
func (a *Aggregator) MergeFactor(result *entities.VerificationResult, factor entities.Factor) {
	replaced := false
	for i := range result.Factors {
		if result.Factors[i].Name == factor.Name {
			result.Factors[i] = factor
			replaced = true
			break
		}
	}
	if !replaced {
		result.Factors = append(result.Factors, factor)
	}

	result.TrustScore = weightedScore(result.Factors)
	result.VerificationTimestamp = timeNow()
}

// AIContentFactor builds the AI-content factor for a detection result using
// the configured aiContentAnalysis weight. The factor stores the raw
// AI-generation score; the inversion happens at aggregation time.
func (a *Aggregator) AIContentFactor(analysis *entities.AIContentAnalysis) entities.Factor {
	return entities.Factor{
		Name:        entities.FactorAIContent,
		Description: "Likelihood that the content was AI-generated",
		Score:       clamp(analysis.Score, 0, maxScore),
		Weight:      a.Weights().AIContentAnalysis,
		Details:     analysis.Details,
	}
}

// weightedScore computes the trust score over the factor list. The AI-content
// factor contributes its inverted score to the numerator (lower AI-generation
// likelihood means higher trust) while its stored score stays raw for display.
func weightedScore(factors []entities.Factor) float64 {
	var sum, weightSum float64
	for _, f := range factors {
		score := f.Score
		if f.Name == entities.FactorAIContent {
			score = maxScore - f.Score
		}
		sum += score * f.Weight
		weightSum += f.Weight
	}
	if weightSum == 0 {
		return 0
	}
	return clamp(sum/weightSum, 0, maxScore)
}

// sourceFactor maps the credential status to a score via a fixed policy
// table. A status outside the table (only possible when credential
// resolution failed past the caller's own fallback) still yields an
// explanatory factor so presentation layers always have something to render.
func sourceFactor(credential entities.CredentialVerificationResult, weight float64) entities.Factor {
	factor := entities.Factor{
		Name:        entities.FactorSourceVerification,
		Description: "Content credential status from the source registry",
		Weight:      weight,
		Details:     fmt.Sprintf("credential status: %s", credential.Status),
	}

	score, ok := credentialScores[credential.Status]
	if !ok {
		factor.Score = 0
		factor.Details = "credential status unavailable"
		return factor
	}
	factor.Score = score
	return factor
}

// technicalScore blends media and text analysis. At least one of the two
// must be present.
func technicalScore(media *entities.MediaAnalysis, text *entities.TextAnalysis) float64 {
	switch {
	case media != nil && text != nil:
		return mediaBlendWeight*(maxScore-media.ManipulationProbability*maxScore) +
			textBlendWeight*(maxScore-text.MisinformationProbability*maxScore)
	case media != nil:
		return maxScore - media.ManipulationProbability*maxScore
	default:
		return maxScore - text.MisinformationProbability*maxScore
	}
}

// technicalSubScore is the informational sub-aggregate: same blend as the
// factor, defaulting to 50 when neither analysis is present.
func technicalSubScore(media *entities.MediaAnalysis, text *entities.TextAnalysis) float64 {
	if media == nil && text == nil {
		return defaultTechnicalScore
	}
	return technicalScore(media, text)
}

func technicalDetails(media *entities.MediaAnalysis, text *entities.TextAnalysis) string {
	switch {
	case media != nil && text != nil:
		return fmt.Sprintf("media manipulation %.0f%%, text misinformation %.0f%%",
			media.ManipulationProbability*100, text.MisinformationProbability*100)
	case media != nil:
		return fmt.Sprintf("media manipulation %.0f%%", media.ManipulationProbability*100)
	default:
		return fmt.Sprintf("text misinformation %.0f%%", text.MisinformationProbability*100)
	}
}

// temporalScore applies exponential decay to the credential issuance date.
// No issuance date means maximally stale, not neutral: unverifiable implies
// untrusted.
func temporalScore(issued *time.Time, now time.Time) float64 {
	if issued == nil {
		return 0
	}
	ageDays := now.Sub(*issued).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return clamp(math.Exp(-ageDays/temporalDecayDays)*maxScore, 0, maxScore)
}

func temporalDetails(issued *time.Time) string {
	if issued == nil {
		return "no credential issuance date"
	}
	return fmt.Sprintf("credential issued %s", issued.Format("2006-01-02"))
}

// crossValidationScore is the corroboration ratio scaled to [0, 100].
// Zero sources checked yields 0.
func crossValidationScore(cv *entities.CrossValidation) float64 {
	if cv.SourcesChecked <= 0 {
		return 0
	}
	return clamp(float64(cv.SourcesCorroborating)/float64(cv.SourcesChecked)*maxScore, 0, maxScore)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
