package services

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustlens/trustlens/internal/domain/entities"
)

func newTestAggregator(t *testing.T) *Aggregator {
	t.Helper()
	agg, err := NewAggregator(entities.DefaultWeights())
	require.NoError(t, err)
	return agg
}

// fixedNow pins timeNow for the duration of a test.
func fixedNow(t *testing.T, now time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = orig })
}

func credentialWith(status entities.CredentialStatus, issued *time.Time) entities.CredentialVerificationResult {
	return entities.CredentialVerificationResult{Status: status, IssuanceDate: issued}
}

func TestNewAggregator(t *testing.T) {
	t.Run("default weights", func(t *testing.T) {
		agg, err := NewAggregator(entities.DefaultWeights())
		require.NoError(t, err)
		assert.NotNil(t, agg)
	})

	t.Run("negative weight rejected", func(t *testing.T) {
		weights := entities.DefaultWeights()
		weights.CrossValidation = -0.1
		_, err := NewAggregator(weights)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})
}

func TestAggregator_Configure(t *testing.T) {
	tests := []struct {
		name    string
		updates map[string]float64
		wantErr bool
	}{
		{
			name:    "single key update",
			updates: map[string]float64{entities.WeightKeySourceVerification: 0.5},
		},
		{
			name: "full update",
			updates: map[string]float64{
				entities.WeightKeySourceVerification: 0.4,
				entities.WeightKeyTechnicalAnalysis:  0.2,
				entities.WeightKeyCommunityRating:    0.1,
				entities.WeightKeyTemporalFreshness:  0.1,
				entities.WeightKeyCrossValidation:    0.1,
				entities.WeightKeyAIContentAnalysis:  0.1,
			},
		},
		{
			name:    "zero weight allowed",
			updates: map[string]float64{entities.WeightKeyCommunityRating: 0},
		},
		{
			name:    "weights need not sum to one",
			updates: map[string]float64{entities.WeightKeySourceVerification: 3.5},
		},
		{
			name:    "negative weight rejected",
			updates: map[string]float64{entities.WeightKeyTechnicalAnalysis: -0.2},
			wantErr: true,
		},
		{
			name:    "NaN rejected",
			updates: map[string]float64{entities.WeightKeyTemporalFreshness: math.NaN()},
			wantErr: true,
		},
		{
			name:    "infinity rejected",
			updates: map[string]float64{entities.WeightKeyCrossValidation: math.Inf(1)},
			wantErr: true,
		},
		{
			name:    "unknown key rejected",
			updates: map[string]float64{"reputationScore": 0.2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := newTestAggregator(t)
			err := agg.Configure(tt.updates)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
				// Prior configuration stays active.
				assert.Equal(t, entities.DefaultWeights(), agg.Weights())
				return
			}

			require.NoError(t, err)
			got := agg.Weights().AsMap()
			for key, want := range tt.updates {
				assert.Equal(t, want, got[key], "key %s", key)
			}
		})
	}

	t.Run("rejected update applies nothing", func(t *testing.T) {
		agg := newTestAggregator(t)
		err := agg.Configure(map[string]float64{
			entities.WeightKeySourceVerification: 0.9,
			entities.WeightKeyTechnicalAnalysis:  -1,
		})
		require.Error(t, err)
		assert.Equal(t, entities.DefaultWeights(), agg.Weights())
	})

	t.Run("unspecified keys retain prior value", func(t *testing.T) {
		agg := newTestAggregator(t)
		require.NoError(t, agg.Configure(map[string]float64{entities.WeightKeyCommunityRating: 0.3}))

		got := agg.Weights()
		assert.Equal(t, 0.3, got.CommunityRating)
		assert.Equal(t, entities.DefaultWeights().SourceVerification, got.SourceVerification)
	})
}

func TestCredentialStatusMapping(t *testing.T) {
	tests := []struct {
		status entities.CredentialStatus
		score  float64
	}{
		{entities.StatusValid, 100},
		{entities.StatusExpired, 50},
		{entities.StatusUnknown, 30},
		{entities.StatusRevoked, 10},
		{entities.StatusInvalid, 0},
	}

	agg := newTestAggregator(t)
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			result := agg.Compute(ComputeInput{
				ContentURL: "https://example.com/article",
				Credential: credentialWith(tt.status, nil),
			})

			factor := result.FindFactor(entities.FactorSourceVerification)
			require.NotNil(t, factor)
			assert.Equal(t, tt.score, factor.Score)
		})
	}
}

func TestCompute_UnrecognizedStatusStillRenders(t *testing.T) {
	agg := newTestAggregator(t)
	result := agg.Compute(ComputeInput{
		ContentURL: "https://example.com/a",
		Credential: credentialWith(entities.CredentialStatus(""), nil),
	})

	factor := result.FindFactor(entities.FactorSourceVerification)
	require.NotNil(t, factor)
	assert.Equal(t, float64(0), factor.Score)
	assert.Equal(t, "credential status unavailable", factor.Details)
	assert.False(t, result.SourceVerified)
}

func TestTemporalScore(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("issued now scores about 100", func(t *testing.T) {
		issued := now
		assert.InDelta(t, 100, temporalScore(&issued, now), 0.01)
	})

	t.Run("issued 30 days ago scores about 36.8", func(t *testing.T) {
		issued := now.AddDate(0, 0, -30)
		assert.InDelta(t, 100*math.Exp(-1), temporalScore(&issued, now), 0.01)
	})

	t.Run("no issuance date scores zero", func(t *testing.T) {
		assert.Equal(t, float64(0), temporalScore(nil, now))
	})

	t.Run("future issuance date clamps to 100", func(t *testing.T) {
		issued := now.AddDate(0, 0, 5)
		assert.Equal(t, float64(100), temporalScore(&issued, now))
	})
}

func TestTechnicalScoreBlending(t *testing.T) {
	media := &entities.MediaAnalysis{ManipulationProbability: 0.2}
	text := &entities.TextAnalysis{MisinformationProbability: 0.4}

	t.Run("both present blends 60/40", func(t *testing.T) {
		// 0.6*80 + 0.4*60 = 72
		assert.InDelta(t, 72, technicalScore(media, text), 1e-9)
	})

	t.Run("media only inverts probability", func(t *testing.T) {
		assert.InDelta(t, 80, technicalScore(media, nil), 1e-9)
	})

	t.Run("text only inverts probability", func(t *testing.T) {
		assert.InDelta(t, 60, technicalScore(nil, text), 1e-9)
	})
}

func TestCompute_TechnicalFactorVsSubScore(t *testing.T) {
	agg := newTestAggregator(t)

	t.Run("factor omitted but sub-score defaults to 50 when no analysis", func(t *testing.T) {
		result := agg.Compute(ComputeInput{
			ContentURL: "https://example.com/a",
			Credential: credentialWith(entities.StatusValid, nil),
		})

		assert.Nil(t, result.FindFactor(entities.FactorTechnicalAnalysis))
		assert.Equal(t, 50.0, result.TechnicalAnalysisScore)
	})

	t.Run("factor present and sub-score match when analysis ran", func(t *testing.T) {
		result := agg.Compute(ComputeInput{
			ContentURL: "https://example.com/a",
			Credential: credentialWith(entities.StatusValid, nil),
			Media:      &entities.MediaAnalysis{ManipulationProbability: 0.2},
			Text:       &entities.TextAnalysis{MisinformationProbability: 0.4},
		})

		factor := result.FindFactor(entities.FactorTechnicalAnalysis)
		require.NotNil(t, factor)
		assert.InDelta(t, 72, factor.Score, 1e-9)
		assert.InDelta(t, 72, result.TechnicalAnalysisScore, 1e-9)
	})
}

func TestCrossValidationScore(t *testing.T) {
	tests := []struct {
		name     string
		cv       entities.CrossValidation
		expected float64
	}{
		{
			name:     "three of four corroborate",
			cv:       entities.CrossValidation{SourcesChecked: 4, SourcesCorroborating: 3},
			expected: 75,
		},
		{
			name:     "none corroborate",
			cv:       entities.CrossValidation{SourcesChecked: 5, SourcesCorroborating: 0},
			expected: 0,
		},
		{
			name:     "zero sources checked avoids division by zero",
			cv:       entities.CrossValidation{SourcesChecked: 0, SourcesCorroborating: 0},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, crossValidationScore(&tt.cv))
		})
	}
}

func TestCompute_CommunityRating(t *testing.T) {
	agg := newTestAggregator(t)

	t.Run("zero rating still produces a factor", func(t *testing.T) {
		rating := 0.0
		result := agg.Compute(ComputeInput{
			ContentURL:      "https://example.com/a",
			Credential:      credentialWith(entities.StatusValid, nil),
			CommunityRating: &rating,
		})

		factor := result.FindFactor(entities.FactorCommunityRating)
		require.NotNil(t, factor)
		assert.Equal(t, 0.0, factor.Score)
	})

	t.Run("absent rating omits the factor", func(t *testing.T) {
		result := agg.Compute(ComputeInput{
			ContentURL: "https://example.com/a",
			Credential: credentialWith(entities.StatusValid, nil),
		})
		assert.Nil(t, result.FindFactor(entities.FactorCommunityRating))
	})
}

func TestWeightedScore(t *testing.T) {
	t.Run("matches the weighted average of factors", func(t *testing.T) {
		factors := []entities.Factor{
			{Name: "a", Score: 80, Weight: 0.5},
			{Name: "b", Score: 40, Weight: 0.25},
			{Name: "c", Score: 100, Weight: 0.25},
		}
		// (80*0.5 + 40*0.25 + 100*0.25) / 1.0 = 75
		assert.InDelta(t, 75, weightedScore(factors), 1e-9)
	})

	t.Run("normalizes by the sum of weights used", func(t *testing.T) {
		factors := []entities.Factor{
			{Name: "a", Score: 80, Weight: 0.35},
			{Name: "b", Score: 40, Weight: 0.15},
		}
		want := (80*0.35 + 40*0.15) / 0.5
		assert.InDelta(t, want, weightedScore(factors), 1e-9)
	})

	t.Run("zero total weight yields zero", func(t *testing.T) {
		factors := []entities.Factor{
			{Name: "a", Score: 80, Weight: 0},
			{Name: "b", Score: 40, Weight: 0},
		}
		assert.Equal(t, float64(0), weightedScore(factors))
	})

	t.Run("stays in bounds for arbitrary non-negative weights", func(t *testing.T) {
		weightSets := [][]float64{
			{0.1, 0.1, 0.1},
			{5, 0.001, 2},
			{0, 0, 1},
			{100, 100, 100},
		}
		for _, ws := range weightSets {
			factors := []entities.Factor{
				{Name: "a", Score: 0, Weight: ws[0]},
				{Name: "b", Score: 100, Weight: ws[1]},
				{Name: "c", Score: 55, Weight: ws[2]},
			}
			score := weightedScore(factors)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 100.0)
		}
	})
}

func TestMergeFactor(t *testing.T) {
	agg := newTestAggregator(t)

	t.Run("appends when name not present", func(t *testing.T) {
		result := agg.Compute(ComputeInput{
			ContentURL: "https://example.com/a",
			Credential: credentialWith(entities.StatusValid, nil),
		})
		before := len(result.Factors)

		agg.MergeFactor(result, entities.Factor{Name: entities.FactorAIContent, Score: 40, Weight: 0.25})
		assert.Len(t, result.Factors, before+1)
		assert.Equal(t, entities.FactorAIContent, result.Factors[len(result.Factors)-1].Name)
	})

	t.Run("replaces in place preserving position", func(t *testing.T) {
		result := agg.Compute(ComputeInput{
			ContentURL: "https://example.com/a",
			Credential: credentialWith(entities.StatusValid, nil),
		})

		agg.MergeFactor(result, entities.Factor{Name: entities.FactorAIContent, Score: 40, Weight: 0.25})
		length := len(result.Factors)
		position := -1
		for i, f := range result.Factors {
			if f.Name == entities.FactorAIContent {
				position = i
			}
		}

		agg.MergeFactor(result, entities.Factor{Name: entities.FactorAIContent, Score: 90, Weight: 0.25})
		assert.Len(t, result.Factors, length)
		assert.Equal(t, 90.0, result.Factors[position].Score)
	})

	t.Run("recomputes trust score", func(t *testing.T) {
		result := agg.Compute(ComputeInput{
			ContentURL: "https://example.com/a",
			Credential: credentialWith(entities.StatusValid, nil),
		})
		before := result.TrustScore

		agg.MergeFactor(result, entities.Factor{Name: entities.FactorAIContent, Score: 100, Weight: 0.25})
		assert.NotEqual(t, before, result.TrustScore)
	})
}

func TestMergeFactor_AIContentInversion(t *testing.T) {
	agg := newTestAggregator(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fixedNow(t, now)

	result := agg.Compute(ComputeInput{
		ContentURL: "https://example.com/a",
		Credential: credentialWith(entities.StatusValid, nil),
	})

	// Raw AI score 20 (likely human-made) must display as 20 but contribute
	// 80 to the weighted numerator.
	aiScore := 20.0
	agg.MergeFactor(result, entities.Factor{Name: entities.FactorAIContent, Score: aiScore, Weight: 0.25})

	factor := result.FindFactor(entities.FactorAIContent)
	require.NotNil(t, factor)
	assert.Equal(t, aiScore, factor.Score)

	weights := entities.DefaultWeights()
	// source=100 w0.35, temporal=0 w0.15, ai contributes (100-20) w0.25.
	want := (100*weights.SourceVerification + 0*weights.TemporalFreshness + (100-aiScore)*0.25) /
		(weights.SourceVerification + weights.TemporalFreshness + 0.25)
	assert.InDelta(t, want, result.TrustScore, 1e-9)
}

func TestAIContentFactor_UsesConfiguredWeight(t *testing.T) {
	agg := newTestAggregator(t)
	require.NoError(t, agg.Configure(map[string]float64{entities.WeightKeyAIContentAnalysis: 0.4}))

	factor := agg.AIContentFactor(&entities.AIContentAnalysis{Score: 145, Details: "synthetic voice markers"})
	assert.Equal(t, 0.4, factor.Weight)
	assert.Equal(t, 100.0, factor.Score) // clamped into range
	assert.Equal(t, "synthetic voice markers", factor.Details)
}

func TestCompute_EndToEndDefaultWeights(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fixedNow(t, now)

	agg := newTestAggregator(t)
	issued := now.AddDate(0, 0, -10)
	rating := 70.0

	result := agg.Compute(ComputeInput{
		ContentURL:      "https://example.com/article",
		Credential:      credentialWith(entities.StatusValid, &issued),
		CommunityRating: &rating,
	})

	// Only three factors: source, temporal, community.
	require.Len(t, result.Factors, 3)
	assert.Equal(t, entities.FactorSourceVerification, result.Factors[0].Name)
	assert.Equal(t, entities.FactorTemporalFreshness, result.Factors[1].Name)
	assert.Equal(t, entities.FactorCommunityRating, result.Factors[2].Name)

	temporal := 100 * math.Exp(-10.0/30.0)
	// Weight sum is 0.65, not 1.0.
	want := (100*0.35 + temporal*0.15 + 70*0.15) / 0.65
	assert.InDelta(t, want, result.TrustScore, 1e-9)

	assert.True(t, result.SourceVerified)
	assert.Equal(t, now, result.VerificationTimestamp)
	assert.Equal(t, &issued, result.CredentialIssuanceDate)
}

func TestCompute_TrustScoreAlwaysBounded(t *testing.T) {
	weightSets := []entities.WeightConfig{
		entities.DefaultWeights(),
		{SourceVerification: 10, TechnicalAnalysis: 0.01, TemporalFreshness: 3},
		{},
	}

	issued := time.Now().AddDate(0, 0, -3)
	rating := 100.0
	for _, weights := range weightSets {
		agg, err := NewAggregator(weights)
		require.NoError(t, err)

		result := agg.Compute(ComputeInput{
			ContentURL:      "https://example.com/a",
			Credential:      credentialWith(entities.StatusValid, &issued),
			Media:           &entities.MediaAnalysis{ManipulationProbability: 0.9},
			Text:            &entities.TextAnalysis{MisinformationProbability: 1},
			CrossValidation: &entities.CrossValidation{SourcesChecked: 3, SourcesCorroborating: 3},
			CommunityRating: &rating,
		})

		assert.GreaterOrEqual(t, result.TrustScore, 0.0)
		assert.LessOrEqual(t, result.TrustScore, 100.0)
	}
}

func TestCompute_AllWeightsZeroYieldsZeroScore(t *testing.T) {
	agg, err := NewAggregator(entities.WeightConfig{})
	require.NoError(t, err)

	result := agg.Compute(ComputeInput{
		ContentURL: "https://example.com/a",
		Credential: credentialWith(entities.StatusValid, nil),
	})
	assert.Equal(t, float64(0), result.TrustScore)
}
