package entities

import "time"

// VerificationResult is the aggregate trust assessment for one content URL.
// TrustScore is derived from the factor list and is never set directly;
// it always equals the weighted average of Factors clamped to [0, 100].
type VerificationResult struct {
	ContentURL             string             `json:"content_url"`
	TrustScore             float64            `json:"trust_score"`
	SourceVerified         bool               `json:"source_verified"`
	TechnicalAnalysisScore float64            `json:"technical_analysis_score"`
	CommunityRating        *float64           `json:"community_rating,omitempty"`
	CredentialIssuanceDate *time.Time         `json:"credential_issuance_date,omitempty"`
	CrossValidation        *CrossValidation   `json:"cross_validation,omitempty"`
	Factors                []Factor           `json:"factors"`
	AIContentAnalysis      *AIContentAnalysis `json:"ai_content_analysis,omitempty"`
	VerificationTimestamp  time.Time          `json:"verification_timestamp"`
}

// FindFactor returns a pointer to the factor with the given name, or nil.
func (r *VerificationResult) FindFactor(name string) *Factor {
	for i := range r.Factors {
		if r.Factors[i].Name == name {
			return &r.Factors[i]
		}
	}
	return nil
}
