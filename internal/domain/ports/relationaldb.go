package ports

import (
	"context"

	"github.com/trustlens/trustlens/internal/domain/entities"
)

// RelationalDB defines the interface for relational database operations:
// verification history, community ratings and the audit log.
type RelationalDB interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// Verification history

	// SaveResult saves a verification result, replacing any prior result for
	// the same content URL. History is bounded: once the cap is reached the
	// oldest result is evicted.
	SaveResult(ctx context.Context, result *entities.VerificationResult) error

	// FindResultByURL finds the stored result for a content URL.
	// Returns nil if none exists.
	FindResultByURL(ctx context.Context, contentURL string) (*entities.VerificationResult, error)

	// ListResults lists stored results, most recent first.
	ListResults(ctx context.Context, limit, offset int) ([]*entities.VerificationResult, error)

	// CountResults returns the number of stored results.
	CountResults(ctx context.Context) (int, error)

	// DeleteResult removes the stored result for a content URL.
	DeleteResult(ctx context.Context, contentURL string) error

	// Community ratings

	// SaveCommunityRating stores one user rating for a content URL.
	SaveCommunityRating(ctx context.Context, rating *entities.CommunityRating) error

	// FindCommunityRating returns the mean rating for a content URL.
	// Returns nil if no ratings exist.
	FindCommunityRating(ctx context.Context, contentURL string) (*float64, error)

	// CountCommunityRatings returns the number of ratings for a content URL.
	CountCommunityRatings(ctx context.Context, contentURL string) (int, error)

	// Audit log

	// LogAction logs an action to the audit log.
	LogAction(ctx context.Context, action string, contentURL string, details map[string]any) error

	// FindAuditLog finds audit log entries for a specific content URL.
	FindAuditLog(ctx context.Context, contentURL string) ([]entities.AuditEntry, error)

	// FindAuditLogByAction finds audit log entries by action type.
	FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error)
}
