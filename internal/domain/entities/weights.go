package entities

// Weight configuration keys accepted by Aggregator.Configure.
const (
	WeightKeySourceVerification = "sourceVerification"
	WeightKeyTechnicalAnalysis  = "technicalAnalysis"
	WeightKeyCommunityRating    = "communityRating"
	WeightKeyTemporalFreshness  = "temporalFreshness"
	WeightKeyCrossValidation    = "crossValidation"
	WeightKeyAIContentAnalysis  = "aiContentAnalysis"
)

// WeightConfig maps each factor to its aggregation weight. Weights need not
// sum to 1: the aggregator normalizes by the sum of the weights actually
// used. Every weight must be non-negative and finite.
type WeightConfig struct {
	SourceVerification float64 `json:"sourceVerification"`
	TechnicalAnalysis  float64 `json:"technicalAnalysis"`
	CommunityRating    float64 `json:"communityRating"`
	TemporalFreshness  float64 `json:"temporalFreshness"`
	CrossValidation    float64 `json:"crossValidation"`
	AIContentAnalysis  float64 `json:"aiContentAnalysis"`
}

// DefaultWeights returns the standard weight distribution. AIContentAnalysis
// only applies when an AI-content factor is merged into a result.
func DefaultWeights() WeightConfig {
	return WeightConfig{
		SourceVerification: 0.35,
		TechnicalAnalysis:  0.25,
		CommunityRating:    0.15,
		TemporalFreshness:  0.15,
		CrossValidation:    0.10,
		AIContentAnalysis:  0.25,
	}
}

// AsMap returns the configuration keyed by the canonical weight keys.
func (w WeightConfig) AsMap() map[string]float64 {
	return map[string]float64{
		WeightKeySourceVerification: w.SourceVerification,
		WeightKeyTechnicalAnalysis:  w.TechnicalAnalysis,
		WeightKeyCommunityRating:    w.CommunityRating,
		WeightKeyTemporalFreshness:  w.TemporalFreshness,
		WeightKeyCrossValidation:    w.CrossValidation,
		WeightKeyAIContentAnalysis:  w.AIContentAnalysis,
	}
}
