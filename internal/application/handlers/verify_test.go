package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustlens/trustlens/internal/domain/entities"
	"github.com/trustlens/trustlens/internal/domain/mocks"
	"github.com/trustlens/trustlens/internal/domain/services"
)

func newTestService(t *testing.T, store *mocks.RelationalDB) *services.VerificationService {
	t.Helper()

	aggregator, err := services.NewAggregator(entities.DefaultWeights())
	require.NoError(t, err)

	credentials := &mocks.CredentialProvider{
		Result: entities.CredentialVerificationResult{Status: entities.StatusValid},
	}

	return services.NewVerificationService(aggregator, credentials, nil, nil, nil, nil, store)
}

func TestVerifyHandler_Handle(t *testing.T) {
	store := &mocks.RelationalDB{}
	handler := NewVerifyHandler(newTestService(t, store))

	result, err := handler.Handle(context.Background(), "https://example.com/article", VerifyOptions{SkipAI: true})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "https://example.com/article", result.ContentURL)
	assert.True(t, result.SourceVerified)
	assert.Len(t, store.Results, 1)
}

func TestVerifyHandler_Handle_TrimsURL(t *testing.T) {
	store := &mocks.RelationalDB{}
	handler := NewVerifyHandler(newTestService(t, store))

	result, err := handler.Handle(context.Background(), "  https://example.com/article  ", VerifyOptions{SkipAI: true})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/article", result.ContentURL)
}

func TestVerifyHandler_Handle_EmptyURL(t *testing.T) {
	handler := NewVerifyHandler(newTestService(t, &mocks.RelationalDB{}))

	_, err := handler.Handle(context.Background(), "   ", VerifyOptions{})
	assert.Error(t, err)
}

func TestVerifyHandler_Rate(t *testing.T) {
	store := &mocks.RelationalDB{}
	handler := NewVerifyHandler(newTestService(t, store))

	_, err := handler.Handle(context.Background(), "https://example.com/article", VerifyOptions{SkipAI: true})
	require.NoError(t, err)

	result, err := handler.Rate(context.Background(), "https://example.com/article", 85, "rater-1")
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, result.CommunityRating)
	assert.Equal(t, float64(85), *result.CommunityRating)
	assert.Len(t, store.Ratings, 1)
}

func TestVerifyHandler_Rate_UnverifiedURL(t *testing.T) {
	store := &mocks.RelationalDB{}
	handler := NewVerifyHandler(newTestService(t, store))

	result, err := handler.Rate(context.Background(), "https://example.com/unseen", 60, "")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Len(t, store.Ratings, 1)
}

func TestVerifyHandler_SubmitSignal(t *testing.T) {
	store := &mocks.RelationalDB{}
	handler := NewVerifyHandler(newTestService(t, store))

	_, err := handler.Handle(context.Background(), "https://example.com/article", VerifyOptions{SkipAI: true})
	require.NoError(t, err)

	result, err := handler.SubmitSignal(context.Background(), "https://example.com/article", entities.Factor{
		Name:   entities.FactorCrossValidation,
		Score:  40,
		Weight: 0.10,
	})
	require.NoError(t, err)
	require.NotNil(t, result.FindFactor(entities.FactorCrossValidation))
}

func TestVerifyHandler_SubmitSignal_RequiresName(t *testing.T) {
	handler := NewVerifyHandler(newTestService(t, &mocks.RelationalDB{}))

	_, err := handler.SubmitSignal(context.Background(), "https://example.com/article", entities.Factor{Score: 40})
	assert.Error(t, err)
}

func TestHistoryHandler_Handle(t *testing.T) {
	store := &mocks.RelationalDB{}
	service := newTestService(t, store)
	verify := NewVerifyHandler(service)
	history := NewHistoryHandler(service)

	for _, url := range []string{"https://example.com/1", "https://example.com/2"} {
		_, err := verify.Handle(context.Background(), url, VerifyOptions{SkipAI: true})
		require.NoError(t, err)
	}

	results, err := history.Handle(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "https://example.com/2", results[0].ContentURL)
	assert.Equal(t, "https://example.com/1", results[1].ContentURL)
}
