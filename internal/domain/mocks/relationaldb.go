package mocks

import (
	"context"

	"github.com/trustlens/trustlens/internal/domain/entities"
)

// RelationalDB is an in-memory mock implementation of ports.RelationalDB.
// Results keep insertion/update order, most recent last.
type RelationalDB struct {
	Err error

	Results []*entities.VerificationResult
	Ratings []*entities.CommunityRating
	Audit   []entities.AuditEntry
}

// EnsureSchema is a no-op.
func (m *RelationalDB) EnsureSchema(ctx context.Context) error { return m.Err }

// Close is a no-op.
func (m *RelationalDB) Close() error { return nil }

// SaveResult stores a copy of the result, replacing an existing entry for
// the same URL.
func (m *RelationalDB) SaveResult(ctx context.Context, result *entities.VerificationResult) error {
	if m.Err != nil {
		return m.Err
	}
	clone := *result
	clone.Factors = append([]entities.Factor(nil), result.Factors...)
	for i, r := range m.Results {
		if r.ContentURL == result.ContentURL {
			m.Results = append(m.Results[:i], m.Results[i+1:]...)
			break
		}
	}
	m.Results = append(m.Results, &clone)
	return nil
}

// FindResultByURL returns the stored result for a content URL, or nil.
func (m *RelationalDB) FindResultByURL(ctx context.Context, contentURL string) (*entities.VerificationResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, r := range m.Results {
		if r.ContentURL == contentURL {
			clone := *r
			clone.Factors = append([]entities.Factor(nil), r.Factors...)
			return &clone, nil
		}
	}
	return nil, nil
}

// ListResults returns stored results most recent first.
func (m *RelationalDB) ListResults(ctx context.Context, limit, offset int) ([]*entities.VerificationResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []*entities.VerificationResult
	for i := len(m.Results) - 1; i >= 0; i-- {
		out = append(out, m.Results[i])
	}
	if offset < len(out) {
		out = out[offset:]
	} else {
		out = nil
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// CountResults returns the number of stored results.
func (m *RelationalDB) CountResults(ctx context.Context) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.Results), nil
}

// DeleteResult removes the stored result for a content URL.
func (m *RelationalDB) DeleteResult(ctx context.Context, contentURL string) error {
	if m.Err != nil {
		return m.Err
	}
	for i, r := range m.Results {
		if r.ContentURL == contentURL {
			m.Results = append(m.Results[:i], m.Results[i+1:]...)
			return nil
		}
	}
	return nil
}

// SaveCommunityRating stores the rating.
func (m *RelationalDB) SaveCommunityRating(ctx context.Context, rating *entities.CommunityRating) error {
	if m.Err != nil {
		return m.Err
	}
	m.Ratings = append(m.Ratings, rating)
	return nil
}

// FindCommunityRating returns the mean rating for a content URL, or nil.
func (m *RelationalDB) FindCommunityRating(ctx context.Context, contentURL string) (*float64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var sum float64
	var n int
	for _, r := range m.Ratings {
		if r.ContentURL == contentURL {
			sum += r.Rating
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	mean := sum / float64(n)
	return &mean, nil
}

// CountCommunityRatings returns the number of ratings for a content URL.
func (m *RelationalDB) CountCommunityRatings(ctx context.Context, contentURL string) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	var n int
	for _, r := range m.Ratings {
		if r.ContentURL == contentURL {
			n++
		}
	}
	return n, nil
}

// LogAction records an audit entry.
func (m *RelationalDB) LogAction(ctx context.Context, action string, contentURL string, details map[string]any) error {
	if m.Err != nil {
		return m.Err
	}
	m.Audit = append(m.Audit, entities.AuditEntry{
		ID:         int64(len(m.Audit) + 1),
		Action:     action,
		ContentURL: contentURL,
		Details:    details,
	})
	return nil
}

// FindAuditLog returns audit entries for a content URL.
func (m *RelationalDB) FindAuditLog(ctx context.Context, contentURL string) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []entities.AuditEntry
	for _, e := range m.Audit {
		if e.ContentURL == contentURL {
			out = append(out, e)
		}
	}
	return out, nil
}

// FindAuditLogByAction returns audit entries by action type.
func (m *RelationalDB) FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []entities.AuditEntry
	for _, e := range m.Audit {
		if e.Action == action {
			out = append(out, e)
		}
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
