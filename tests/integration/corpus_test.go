package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustlens/trustlens/internal/domain/entities"
	embedder "github.com/trustlens/trustlens/internal/infrastructure/embedder/openai"
)

// testVector returns a vector with the first component set; cosine
// similarity between two such vectors is fully controlled by the angle
// between their leading components.
func testVector(x, y float32) []float32 {
	v := make([]float32, embedder.VectorSize)
	v[0] = x
	v[1] = y
	return v
}

func testReport(source, summary string, vec []float32) entities.SourceReport {
	return entities.SourceReport{
		ID:          uuid.New().String(),
		Source:      source,
		Title:       source + " coverage",
		URL:         "https://example.com/" + uuid.New().String(),
		Summary:     summary,
		Embedding:   vec,
		PublishedAt: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:   time.Now().UTC(),
	}
}

func TestCollectionLifecycle(t *testing.T) {
	ctx := context.Background()

	// Collection should already exist from TestMain
	count, err := testRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)

	// Ensure idempotent - calling EnsureCollection again should not fail
	err = testRepo.EnsureCollection(ctx, uint64(embedder.VectorSize))
	require.NoError(t, err)
}

func TestSaveAndFindByID(t *testing.T) {
	ctx := context.Background()
	t.Cleanup(func() { cleanupReports(t) })

	report := testReport("Example Wire", "Flooding reported downtown.", testVector(1, 0))

	err := testRepo.Save(ctx, report)
	require.NoError(t, err)

	retrieved, err := testRepo.FindByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, retrieved.ID)
	assert.Equal(t, report.Source, retrieved.Source)
	assert.Equal(t, report.Title, retrieved.Title)
	assert.Equal(t, report.URL, retrieved.URL)
	assert.Equal(t, report.Summary, retrieved.Summary)
	assert.True(t, report.PublishedAt.Equal(retrieved.PublishedAt))
}

func TestSaveBatchAndCount(t *testing.T) {
	ctx := context.Background()
	t.Cleanup(func() { cleanupReports(t) })

	reports := []entities.SourceReport{
		testReport("Example Wire", "Flooding reported downtown.", testVector(1, 0)),
		testReport("Local Post", "Downtown streets under water.", testVector(0.9, 0.1)),
		testReport("Daily Node", "Mayor announces budget for parks.", testVector(0, 1)),
	}

	err := testRepo.SaveBatch(ctx, reports)
	require.NoError(t, err)

	count, err := testRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestSearchOrdersBySimilarity(t *testing.T) {
	ctx := context.Background()
	t.Cleanup(func() { cleanupReports(t) })

	near := testReport("Example Wire", "Flooding reported downtown.", testVector(1, 0))
	mid := testReport("Local Post", "Downtown streets under water.", testVector(0.9, 0.3))
	far := testReport("Daily Node", "Mayor announces budget for parks.", testVector(0, 1))

	require.NoError(t, testRepo.SaveBatch(ctx, []entities.SourceReport{far, mid, near}))

	matches, err := testRepo.Search(ctx, testVector(1, 0), 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, near.ID, matches[0].Report.ID)
	assert.Equal(t, mid.ID, matches[1].Report.ID)
	assert.Equal(t, far.ID, matches[2].Report.ID)

	assert.InDelta(t, 1.0, float64(matches[0].Similarity), 0.001)
	assert.Greater(t, matches[1].Similarity, matches[2].Similarity)
	assert.InDelta(t, 0.0, float64(matches[2].Similarity), 0.001)
}

func TestSaveAndDelete(t *testing.T) {
	ctx := context.Background()
	t.Cleanup(func() { cleanupReports(t) })

	report := testReport("Example Wire", "Flooding reported downtown.", testVector(1, 0))
	require.NoError(t, testRepo.Save(ctx, report))

	require.NoError(t, testRepo.Delete(ctx, report.ID))

	count, err := testRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	t.Cleanup(func() { cleanupReports(t) })

	reports := []entities.SourceReport{
		testReport("Example Wire", "Flooding reported downtown.", testVector(1, 0)),
		testReport("Local Post", "Downtown streets under water.", testVector(0.9, 0.1)),
	}
	require.NoError(t, testRepo.SaveBatch(ctx, reports))

	listed, err := testRepo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}
