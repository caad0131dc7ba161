package entities

// MediaAnalysis is a media-forensics estimate for a piece of content.
// ManipulationProbability is in [0, 1].
type MediaAnalysis struct {
	ManipulationProbability float64 `json:"manipulation_probability"`
	Confidence              float64 `json:"confidence"`
	ManipulationType        string  `json:"manipulation_type,omitempty"`
}

// TextAnalysis is a text-misinformation estimate for a piece of content.
// MisinformationProbability is in [0, 1].
type TextAnalysis struct {
	MisinformationProbability float64  `json:"misinformation_probability"`
	Confidence                float64  `json:"confidence"`
	Indicators                []string `json:"indicators,omitempty"`
}

// CrossValidation is the corroboration tally among independent sources.
type CrossValidation struct {
	SourcesChecked       int `json:"sources_checked"`
	SourcesCorroborating int `json:"sources_corroborating"`
}

// AIContentAnalysis is the AI-content-generation estimate. Score is in
// [0, 100] where higher means more likely AI-generated.
type AIContentAnalysis struct {
	Score        float64  `json:"score"`
	ContentTypes []string `json:"content_types,omitempty"`
	Details      string   `json:"details,omitempty"`
}
