// Package sqlite provides a SQLite implementation of the RelationalDB
// interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/trustlens/trustlens/internal/domain/entities"
	"github.com/trustlens/trustlens/internal/infrastructure/config"
)

// HistoryLimit caps the verification history. Saving past the cap evicts the
// oldest result.
const HistoryLimit = 20

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.RelationalDB using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Verification history (one row per content URL, bounded)
	CREATE TABLE IF NOT EXISTS verification_results (
		content_url TEXT PRIMARY KEY,
		trust_score REAL NOT NULL,
		source_verified INTEGER NOT NULL,
		technical_score REAL NOT NULL,
		community_rating REAL,
		credential_issued_at TEXT,
		cross_validation TEXT,
		factors TEXT NOT NULL,
		ai_analysis TEXT,
		verified_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_results_verified ON verification_results(verified_at);

	-- Community ratings (many per content URL; the mean feeds the aggregator)
	CREATE TABLE IF NOT EXISTS community_ratings (
		id TEXT PRIMARY KEY,
		content_url TEXT NOT NULL,
		rating REAL NOT NULL,
		rater_id TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_ratings_url ON community_ratings(content_url);

	-- Audit log (tracks all actions)
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		content_url TEXT,
		details TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_url ON audit_log(content_url);
	CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
	CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log(created_at);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SaveResult saves a verification result, replacing any prior result for the
// same content URL, then prunes history beyond HistoryLimit (oldest first).
func (r *Repository) SaveResult(ctx context.Context, result *entities.VerificationResult) error {
	factors, err := json.Marshal(result.Factors)
	if err != nil {
		return fmt.Errorf("marshaling factors: %w", err)
	}

	var crossValidation sql.NullString
	if result.CrossValidation != nil {
		data, err := json.Marshal(result.CrossValidation)
		if err != nil {
			return fmt.Errorf("marshaling cross validation: %w", err)
		}
		crossValidation = sql.NullString{String: string(data), Valid: true}
	}

	var aiAnalysis sql.NullString
	if result.AIContentAnalysis != nil {
		data, err := json.Marshal(result.AIContentAnalysis)
		if err != nil {
			return fmt.Errorf("marshaling ai analysis: %w", err)
		}
		aiAnalysis = sql.NullString{String: string(data), Valid: true}
	}

	var communityRating sql.NullFloat64
	if result.CommunityRating != nil {
		communityRating = sql.NullFloat64{Float64: *result.CommunityRating, Valid: true}
	}

	var issuedAt sql.NullString
	if result.CredentialIssuanceDate != nil {
		issuedAt = sql.NullString{String: result.CredentialIssuanceDate.UTC().Format(time.RFC3339Nano), Valid: true}
	}

	query := `
		INSERT INTO verification_results (
			content_url, trust_score, source_verified, technical_score,
			community_rating, credential_issued_at, cross_validation,
			factors, ai_analysis, verified_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(content_url) DO UPDATE SET
			trust_score = excluded.trust_score,
			source_verified = excluded.source_verified,
			technical_score = excluded.technical_score,
			community_rating = excluded.community_rating,
			credential_issued_at = excluded.credential_issued_at,
			cross_validation = excluded.cross_validation,
			factors = excluded.factors,
			ai_analysis = excluded.ai_analysis,
			verified_at = excluded.verified_at
	`
	_, err = r.db.ExecContext(ctx, query,
		result.ContentURL,
		result.TrustScore,
		result.SourceVerified,
		result.TechnicalAnalysisScore,
		communityRating,
		issuedAt,
		crossValidation,
		string(factors),
		aiAnalysis,
		result.VerificationTimestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving verification result: %w", err)
	}

	return r.pruneHistory(ctx)
}

// pruneHistory evicts the oldest results beyond HistoryLimit.
func (r *Repository) pruneHistory(ctx context.Context) error {
	query := `
		DELETE FROM verification_results
		WHERE content_url NOT IN (
			SELECT content_url FROM verification_results
			ORDER BY verified_at DESC, rowid DESC
			LIMIT ?
		)
	`
	if _, err := r.db.ExecContext(ctx, query, HistoryLimit); err != nil {
		return fmt.Errorf("pruning history: %w", err)
	}
	return nil
}

// FindResultByURL finds the stored result for a content URL.
// Returns nil if none exists.
func (r *Repository) FindResultByURL(ctx context.Context, contentURL string) (*entities.VerificationResult, error) {
	query := `
		SELECT content_url, trust_score, source_verified, technical_score,
		       community_rating, credential_issued_at, cross_validation,
		       factors, ai_analysis, verified_at
		FROM verification_results
		WHERE content_url = ?
	`
	row := r.db.QueryRowContext(ctx, query, contentURL)

	result, err := scanResult(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListResults lists stored results, most recent first.
func (r *Repository) ListResults(ctx context.Context, limit, offset int) ([]*entities.VerificationResult, error) {
	if limit <= 0 {
		limit = HistoryLimit
	}

	query := `
		SELECT content_url, trust_score, source_verified, technical_score,
		       community_rating, credential_issued_at, cross_validation,
		       factors, ai_analysis, verified_at
		FROM verification_results
		ORDER BY verified_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing verification results: %w", err)
	}
	defer rows.Close()

	var results []*entities.VerificationResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating verification results: %w", err)
	}
	return results, nil
}

// CountResults returns the number of stored results.
func (r *Repository) CountResults(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM verification_results`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting verification results: %w", err)
	}
	return count, nil
}

// DeleteResult removes the stored result for a content URL.
func (r *Repository) DeleteResult(ctx context.Context, contentURL string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM verification_results WHERE content_url = ?`, contentURL)
	if err != nil {
		return fmt.Errorf("deleting verification result: %w", err)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanResult.
type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*entities.VerificationResult, error) {
	var (
		result          entities.VerificationResult
		communityRating sql.NullFloat64
		issuedAt        sql.NullString
		crossValidation sql.NullString
		factors         string
		aiAnalysis      sql.NullString
		verifiedAt      string
	)

	err := row.Scan(
		&result.ContentURL,
		&result.TrustScore,
		&result.SourceVerified,
		&result.TechnicalAnalysisScore,
		&communityRating,
		&issuedAt,
		&crossValidation,
		&factors,
		&aiAnalysis,
		&verifiedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning verification result: %w", err)
	}

	if err := json.Unmarshal([]byte(factors), &result.Factors); err != nil {
		return nil, fmt.Errorf("unmarshaling factors: %w", err)
	}

	if communityRating.Valid {
		rating := communityRating.Float64
		result.CommunityRating = &rating
	}

	if issuedAt.Valid {
		issued, err := time.Parse(time.RFC3339Nano, issuedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing issuance date: %w", err)
		}
		result.CredentialIssuanceDate = &issued
	}

	if crossValidation.Valid {
		var cv entities.CrossValidation
		if err := json.Unmarshal([]byte(crossValidation.String), &cv); err != nil {
			return nil, fmt.Errorf("unmarshaling cross validation: %w", err)
		}
		result.CrossValidation = &cv
	}

	if aiAnalysis.Valid {
		var analysis entities.AIContentAnalysis
		if err := json.Unmarshal([]byte(aiAnalysis.String), &analysis); err != nil {
			return nil, fmt.Errorf("unmarshaling ai analysis: %w", err)
		}
		result.AIContentAnalysis = &analysis
	}

	verified, err := time.Parse(time.RFC3339Nano, verifiedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing verification timestamp: %w", err)
	}
	result.VerificationTimestamp = verified

	return &result, nil
}

// SaveCommunityRating stores one user rating for a content URL.
func (r *Repository) SaveCommunityRating(ctx context.Context, rating *entities.CommunityRating) error {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = timeNow()
	}

	query := `
		INSERT INTO community_ratings (id, content_url, rating, rater_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		rating.ID,
		rating.ContentURL,
		rating.Rating,
		rating.RaterID,
		rating.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving community rating: %w", err)
	}
	return nil
}

// FindCommunityRating returns the mean rating for a content URL, or nil if
// no ratings exist.
func (r *Repository) FindCommunityRating(ctx context.Context, contentURL string) (*float64, error) {
	var mean sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT AVG(rating) FROM community_ratings WHERE content_url = ?`, contentURL,
	).Scan(&mean)
	if err != nil {
		return nil, fmt.Errorf("averaging community ratings: %w", err)
	}
	if !mean.Valid {
		return nil, nil
	}
	value := mean.Float64
	return &value, nil
}

// CountCommunityRatings returns the number of ratings for a content URL.
func (r *Repository) CountCommunityRatings(ctx context.Context, contentURL string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM community_ratings WHERE content_url = ?`, contentURL,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting community ratings: %w", err)
	}
	return count, nil
}

// LogAction logs an action to the audit log.
func (r *Repository) LogAction(ctx context.Context, action string, contentURL string, details map[string]any) error {
	var detailsJSON sql.NullString
	if len(details) > 0 {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling audit details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	query := `INSERT INTO audit_log (action, content_url, details, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, action, contentURL, detailsJSON, timeNow())
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

// FindAuditLog finds audit log entries for a specific content URL.
func (r *Repository) FindAuditLog(ctx context.Context, contentURL string) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, action, content_url, details, created_at
		FROM audit_log
		WHERE content_url = ?
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, contentURL)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

// FindAuditLogByAction finds audit log entries by action type.
func (r *Repository) FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, action, content_url, details, created_at
		FROM audit_log
		WHERE action = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, action, limit)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

func scanAuditEntries(rows *sql.Rows) ([]entities.AuditEntry, error) {
	var entries []entities.AuditEntry
	for rows.Next() {
		var (
			entry      entities.AuditEntry
			contentURL sql.NullString
			details    sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.Action, &contentURL, &details, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		entry.ContentURL = contentURL.String
		if details.Valid {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling audit details: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}
	return entries, nil
}
