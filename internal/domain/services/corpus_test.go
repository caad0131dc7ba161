package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustlens/trustlens/internal/domain/entities"
	"github.com/trustlens/trustlens/internal/domain/mocks"
	"github.com/trustlens/trustlens/internal/infrastructure/parsers"
)

func TestCorpusService_Import(t *testing.T) {
	ctx := context.Background()
	embedder := &mocks.Embedder{Embedding: []float32{0.5, 0.5}}

	t.Run("valid reports imported with embeddings", func(t *testing.T) {
		vectorDB := &mocks.VectorDB{}
		svc := NewCorpusService(embedder, vectorDB)

		result, err := svc.Import(ctx, []parsers.RawReport{
			{Source: "reuters", Summary: "the bridge reopened", URL: "https://reuters.example/a", PublishedAt: "2026-02-01T00:00:00Z"},
			{Source: "apnews", Summary: "bridge back in service"},
		}, false)
		require.NoError(t, err)

		assert.Equal(t, 2, result.Imported)
		assert.Empty(t, result.Errors)
		require.Len(t, vectorDB.Saved, 2)
		assert.NotEmpty(t, vectorDB.Saved[0].ID)
		assert.Equal(t, []float32{0.5, 0.5}, vectorDB.Saved[0].Embedding)
	})

	t.Run("invalid reports collected as errors", func(t *testing.T) {
		vectorDB := &mocks.VectorDB{}
		svc := NewCorpusService(embedder, vectorDB)

		result, err := svc.Import(ctx, []parsers.RawReport{
			{Source: "", Summary: "missing source", LineNum: 2},
			{Source: "reuters", Summary: "", LineNum: 3},
			{Source: "reuters", Summary: "bad timestamp", PublishedAt: "yesterday", LineNum: 4},
			{Source: "reuters", Summary: "fine"},
		}, false)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Imported)
		require.Len(t, result.Errors, 3)
		assert.Equal(t, 2, result.Errors[0].Line)
		assert.Equal(t, "source", result.Errors[0].Field)
	})

	t.Run("dry run validates without saving", func(t *testing.T) {
		vectorDB := &mocks.VectorDB{}
		svc := NewCorpusService(embedder, vectorDB)

		result, err := svc.Import(ctx, []parsers.RawReport{
			{Source: "reuters", Summary: "the bridge reopened"},
		}, true)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Imported)
		assert.Empty(t, vectorDB.Saved)
	})

	t.Run("embedder failure aborts", func(t *testing.T) {
		svc := NewCorpusService(&mocks.Embedder{Err: errors.New("quota exceeded")}, &mocks.VectorDB{})
		_, err := svc.Import(ctx, []parsers.RawReport{{Source: "reuters", Summary: "x"}}, false)
		require.Error(t, err)
	})
}

func testReport(source, summary string) entities.SourceReport {
	return entities.SourceReport{Source: source, Summary: summary}
}

func TestCorpusService_AddReport(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and embedding", func(t *testing.T) {
		vectorDB := &mocks.VectorDB{}
		svc := NewCorpusService(&mocks.Embedder{Embedding: []float32{1, 2}}, vectorDB)

		report, err := svc.AddReport(ctx, testReport("reuters", "the bridge reopened"))
		require.NoError(t, err)

		assert.NotEmpty(t, report.ID)
		assert.Equal(t, []float32{1, 2}, report.Embedding)
		assert.Len(t, vectorDB.Saved, 1)
	})

	t.Run("empty summary rejected", func(t *testing.T) {
		svc := NewCorpusService(&mocks.Embedder{}, &mocks.VectorDB{})
		_, err := svc.AddReport(ctx, testReport("reuters", ""))
		require.Error(t, err)
	})
}
