package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trustlens/trustlens/internal/domain/entities"
	"github.com/trustlens/trustlens/internal/domain/ports"
	"github.com/trustlens/trustlens/internal/infrastructure/parsers"
)

// ImportError represents an error for a specific report during import.
type ImportError struct {
	Line    int    // Line number (1-indexed, 0 if unknown)
	Field   string // Which field has the error
	Message string // Human-readable error message
}

func (e ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported int
	Errors   []ImportError
}

// CorpusService manages the corroboration corpus of source reports.
type CorpusService struct {
	embedder ports.Embedder
	vectorDB ports.VectorDB
}

// NewCorpusService creates a new corpus service.
func NewCorpusService(embedder ports.Embedder, vectorDB ports.VectorDB) *CorpusService {
	return &CorpusService{
		embedder: embedder,
		vectorDB: vectorDB,
	}
}

// AddReport embeds and stores a single source report.
func (s *CorpusService) AddReport(ctx context.Context, report entities.SourceReport) (entities.SourceReport, error) {
	if report.Summary == "" {
		return entities.SourceReport{}, fmt.Errorf("report summary is required")
	}

	embedding, err := s.embedder.Embed(ctx, report.Summary)
	if err != nil {
		return entities.SourceReport{}, fmt.Errorf("embedding report: %w", err)
	}

	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	report.Embedding = embedding
	report.CreatedAt = timeNow()

	if err := s.vectorDB.Save(ctx, report); err != nil {
		return entities.SourceReport{}, fmt.Errorf("saving report: %w", err)
	}

	return report, nil
}

// Import validates and imports parsed raw reports into the corpus.
func (s *CorpusService) Import(ctx context.Context, rawReports []parsers.RawReport, dryRun bool) (*ImportResult, error) {
	result := &ImportResult{}

	valid := make([]entities.SourceReport, 0, len(rawReports))
	for i := range rawReports {
		raw := &rawReports[i]
		lineNum := raw.LineNum
		if lineNum == 0 {
			lineNum = i + 1
		}

		report, importErr := convertRawReport(raw, lineNum)
		if importErr != nil {
			result.Errors = append(result.Errors, *importErr)
			continue
		}
		valid = append(valid, report)
	}

	if len(valid) == 0 {
		return result, nil
	}

	summaries := make([]string, len(valid))
	for i := range valid {
		summaries[i] = valid[i].Summary
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, summaries)
	if err != nil {
		return nil, fmt.Errorf("generating embeddings: %w", err)
	}
	if len(embeddings) != len(valid) {
		return nil, fmt.Errorf("embedding count mismatch: got %d for %d reports", len(embeddings), len(valid))
	}
	for i := range valid {
		valid[i].Embedding = embeddings[i]
	}

	if dryRun {
		result.Imported = len(valid)
		return result, nil
	}

	if err := s.vectorDB.SaveBatch(ctx, valid); err != nil {
		return nil, fmt.Errorf("saving reports: %w", err)
	}

	result.Imported = len(valid)
	return result, nil
}

// Count returns the number of reports in the corpus.
func (s *CorpusService) Count(ctx context.Context) (uint64, error) {
	return s.vectorDB.Count(ctx)
}

// List returns stored reports with pagination.
func (s *CorpusService) List(ctx context.Context, limit int, offset uint64) ([]entities.SourceReport, error) {
	return s.vectorDB.List(ctx, limit, offset)
}

func convertRawReport(raw *parsers.RawReport, lineNum int) (entities.SourceReport, *ImportError) {
	if strings.TrimSpace(raw.Source) == "" {
		return entities.SourceReport{}, &ImportError{Line: lineNum, Field: "source", Message: "source is required"}
	}
	if strings.TrimSpace(raw.Summary) == "" {
		return entities.SourceReport{}, &ImportError{Line: lineNum, Field: "summary", Message: "summary is required"}
	}
	if raw.URL != "" {
		if _, err := url.ParseRequestURI(raw.URL); err != nil {
			return entities.SourceReport{}, &ImportError{Line: lineNum, Field: "url", Message: fmt.Sprintf("invalid url: %v", err)}
		}
	}

	report := entities.SourceReport{
		ID:        raw.ID,
		Source:    raw.Source,
		Title:     raw.Title,
		URL:       raw.URL,
		Summary:   raw.Summary,
		CreatedAt: timeNow(),
	}
	if report.ID == "" {
		report.ID = uuid.New().String()
	}

	if raw.PublishedAt != "" {
		published, err := time.Parse(time.RFC3339, raw.PublishedAt)
		if err != nil {
			return entities.SourceReport{}, &ImportError{Line: lineNum, Field: "published_at", Message: fmt.Sprintf("invalid timestamp: %v", err)}
		}
		report.PublishedAt = published
	}

	return report, nil
}
