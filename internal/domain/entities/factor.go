// Package entities contains core domain data structures.
package entities

// Canonical factor names. A factor name is unique within one
// VerificationResult's factor list.
const (
	FactorSourceVerification = "Source Verification"
	FactorTechnicalAnalysis  = "Technical Analysis"
	FactorTemporalFreshness  = "Temporal Freshness"
	FactorCrossValidation    = "Cross Validation"
	FactorCommunityRating    = "Community Rating"
	FactorAIContent          = "AI Content Analysis"
)

// Factor is one named, weighted dimension of trust. Score is always in
// [0, 100]; Weight is the weight that was in effect when the factor was
// computed.
type Factor struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	Weight      float64 `json:"weight"`
	Details     string  `json:"details,omitempty"`
	Icon        string  `json:"icon,omitempty"`
}
