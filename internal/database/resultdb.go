package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/veiltext/internal/model"
)

// ResultDB provides SQLite-based storage for transform run results.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all documents rather
// than one file per document. This makes cross-document queries (history
// listings, most-recent runs) trivial and simplifies backup/restore.
type ResultDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ResultDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ResultDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ResultDB, error) {
	dbPath := filepath.Join(dbDir, "veiltext.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY under concurrent batch runs.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &ResultDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *ResultDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *ResultDB) createTables() error {
	schema := `
	-- Transform runs store one record per pipeline execution
	CREATE TABLE IF NOT EXISTS transform_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		fingerprint TEXT NOT NULL,
		source TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		words_substituted INTEGER DEFAULT 0,
		chars_substituted INTEGER DEFAULT 0,
		invisible_inserted INTEGER DEFAULT 0,
		synonym_replacements INTEGER DEFAULT 0,
		phrase_rewrites INTEGER DEFAULT 0,
		overall_risk REAL,
		risk_level TEXT,
		invisibility_score REAL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON transform_runs(fingerprint);
	CREATE INDEX IF NOT EXISTS idx_runs_source ON transform_runs(source);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON transform_runs(timestamp);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a completed transform run. The full report is stored as
// JSON alongside the indexed summary columns.
func (rdb *ResultDB) SaveRun(ctx context.Context, report *model.TransformReport) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	var overallRisk, invisibility float64
	var riskLevel string
	if report.Assessment != nil {
		overallRisk = report.Assessment.OverallRisk
		riskLevel = report.Assessment.LevelText
		invisibility = report.Assessment.InvisibilityScore
	}

	query := `
	INSERT INTO transform_runs (
		fingerprint, source,
		words_substituted, chars_substituted, invisible_inserted,
		synonym_replacements, phrase_rewrites,
		overall_risk, risk_level, invisibility_score, report_json
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := rdb.db.ExecContext(ctx, query,
		report.Fingerprint,
		report.Source,
		report.Stats.WordsSubstituted,
		report.Stats.CharsSubstituted,
		report.Stats.InvisibleInserted,
		report.Stats.SynonymReplacements,
		report.Stats.PhraseRewrites,
		overallRisk,
		riskLevel,
		invisibility,
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save transform run: %w", err)
	}

	return result.LastInsertId()
}

// GetLatestRun retrieves the most recent run for a document fingerprint.
// Returns nil without error when the document has no stored runs.
func (rdb *ResultDB) GetLatestRun(ctx context.Context, fingerprint string) (*model.TransformReport, error) {
	query := `
	SELECT report_json FROM transform_runs
	WHERE fingerprint = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var reportJSON string
	err := rdb.db.QueryRowContext(ctx, query, fingerprint).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transform run: %w", err)
	}

	var report model.TransformReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// GetRunByID retrieves a run by its database ID.
// Returns nil without error when no run has the ID.
func (rdb *ResultDB) GetRunByID(ctx context.Context, id int64) (*model.TransformReport, error) {
	query := `
	SELECT report_json FROM transform_runs
	WHERE id = ?
	`

	var reportJSON string
	err := rdb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transform run: %w", err)
	}

	var report model.TransformReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// RunMetadata contains summary information about a stored run.
// This is used for history listings without loading the full report.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// Fingerprint is the document content fingerprint.
	Fingerprint string

	// Source is the document path or label at the time of the run.
	Source string

	// Timestamp is when the run started.
	Timestamp time.Time

	// Stats are the change counts of the run.
	Stats model.Stats

	// OverallRisk is the weighted risk score of the run.
	OverallRisk float64

	// RiskLevel is the bucketed risk level text.
	RiskLevel string

	// InvisibilityScore is the invisibility fraction of the run.
	InvisibilityScore float64
}

// GetRunHistory retrieves run metadata for a document fingerprint, most
// recent first. This is more efficient than loading full reports when
// only the history listing is needed.
func (rdb *ResultDB) GetRunHistory(ctx context.Context, fingerprint string) ([]RunMetadata, error) {
	query := `
	SELECT id, fingerprint, source, timestamp,
	       words_substituted, chars_substituted, invisible_inserted,
	       synonym_replacements, phrase_rewrites,
	       overall_risk, risk_level, invisibility_score
	FROM transform_runs
	WHERE fingerprint = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := rdb.db.QueryContext(ctx, query, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to get run history: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp string
		var riskLevel sql.NullString

		if err := rows.Scan(
			&meta.ID,
			&meta.Fingerprint,
			&meta.Source,
			&timestamp,
			&meta.Stats.WordsSubstituted,
			&meta.Stats.CharsSubstituted,
			&meta.Stats.InvisibleInserted,
			&meta.Stats.SynonymReplacements,
			&meta.Stats.PhraseRewrites,
			&meta.OverallRisk,
			&riskLevel,
			&meta.InvisibilityScore,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		if riskLevel.Valid {
			meta.RiskLevel = riskLevel.String
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// ListDocuments returns the distinct document fingerprints in the
// database together with the source label of their most recent run.
func (rdb *ResultDB) ListDocuments(ctx context.Context) (map[string]string, error) {
	query := `
	SELECT fingerprint, source FROM transform_runs
	WHERE id IN (
		SELECT MAX(id) FROM transform_runs GROUP BY fingerprint
	)
	ORDER BY fingerprint
	`

	rows, err := rdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	documents := make(map[string]string)
	for rows.Next() {
		var fingerprint, source string
		if err := rows.Scan(&fingerprint, &source); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		documents[fingerprint] = source
	}

	return documents, rows.Err()
}

// HasRecentRun checks if a document was transformed within the specified
// duration. Used to skip re-processing unchanged documents in batch mode.
func (rdb *ResultDB) HasRecentRun(ctx context.Context, fingerprint string, duration time.Duration) (bool, error) {
	query := `
	SELECT COUNT(*) FROM transform_runs
	WHERE fingerprint = ? AND timestamp > datetime('now', ?)
	`

	// SQLite datetime modifier format
	modifier := fmt.Sprintf("-%d seconds", int(duration.Seconds()))

	var count int
	err := rdb.db.QueryRowContext(ctx, query, fingerprint, modifier).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check recent run: %w", err)
	}

	return count > 0, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
