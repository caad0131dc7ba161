package mocks

import (
	"context"
	"fmt"

	"github.com/trustlens/trustlens/internal/domain/entities"
	"github.com/trustlens/trustlens/internal/domain/ports"
)

// VectorDB is a mock implementation of ports.VectorDB backed by a slice.
type VectorDB struct {
	Reports []ports.ScoredReport
	Err     error

	Saved []entities.SourceReport
}

// Save records the report.
func (m *VectorDB) Save(ctx context.Context, report entities.SourceReport) error {
	if m.Err != nil {
		return m.Err
	}
	m.Saved = append(m.Saved, report)
	return nil
}

// SaveBatch records all reports.
func (m *VectorDB) SaveBatch(ctx context.Context, reports []entities.SourceReport) error {
	if m.Err != nil {
		return m.Err
	}
	m.Saved = append(m.Saved, reports...)
	return nil
}

// FindByID returns the configured report with the given ID.
func (m *VectorDB) FindByID(ctx context.Context, id string) (entities.SourceReport, error) {
	if m.Err != nil {
		return entities.SourceReport{}, m.Err
	}
	for _, r := range m.Reports {
		if r.Report.ID == id {
			return r.Report, nil
		}
	}
	return entities.SourceReport{}, fmt.Errorf("report not found: %s", id)
}

// Search returns up to limit configured scored reports.
func (m *VectorDB) Search(ctx context.Context, embedding []float32, limit int) ([]ports.ScoredReport, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if limit > len(m.Reports) {
		return m.Reports, nil
	}
	return m.Reports[:limit], nil
}

// List returns the configured reports.
func (m *VectorDB) List(ctx context.Context, limit int, offset uint64) ([]entities.SourceReport, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	reports := make([]entities.SourceReport, 0, len(m.Reports))
	for _, r := range m.Reports {
		reports = append(reports, r.Report)
	}
	return reports, nil
}

// Delete is a no-op returning the configured error.
func (m *VectorDB) Delete(ctx context.Context, id string) error {
	return m.Err
}

// Count returns the number of configured reports.
func (m *VectorDB) Count(ctx context.Context) (uint64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return uint64(len(m.Reports)), nil
}
