package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/colorcarbon/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "colorcarbon.db"

var (
	// ErrNotFound is returned when no stored report matches the query.
	ErrNotFound = errors.New("report not found")

	// ErrNoReport is returned when saving an analysis without a report.
	ErrNoReport = errors.New("analysis has no report to save")
)

// HistoryDB provides SQLite-based storage for analysis reports.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error
// is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s: %w", dbPath, ErrNotFound)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		kind TEXT NOT NULL,
		analyzed_at TEXT NOT NULL,
		total_score REAL NOT NULL,
		rating TEXT NOT NULL,
		color_count INTEGER NOT NULL,
		fingerprint TEXT NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_source ON reports(source);
	CREATE INDEX IF NOT EXISTS idx_reports_fingerprint ON reports(fingerprint);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// Record is one stored report.
type Record struct {
	// ID is the unique identifier of the row.
	ID int64 `json:"id"`

	// Source is the analyzed URL or image path.
	Source string `json:"source"`

	// Kind is website or image.
	Kind model.Kind `json:"kind"`

	// AnalyzedAt is when the analysis ran.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Report is the stored scoring result.
	Report *model.Report `json:"report"`
}

// SaveReport stores the report of a finished analysis and returns its ID.
func (h *HistoryDB) SaveReport(ctx context.Context, analysis *model.Analysis) (int64, error) {
	if analysis == nil || analysis.Report == nil {
		return 0, ErrNoReport
	}

	reportJSON, err := json.Marshal(analysis.Report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO reports (source, kind, analyzed_at, total_score, rating, color_count, fingerprint, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := h.db.ExecContext(ctx, query,
		analysis.Source,
		string(analysis.Kind),
		analysis.DateAnalyzed.UTC().Format(time.RFC3339Nano),
		analysis.Report.TotalScore,
		analysis.Report.Rating.String(),
		analysis.Report.ColorCount(),
		analysis.Report.Fingerprint,
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save report: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read report id: %w", err)
	}
	return id, nil
}

// ListSources returns every source with stored reports, alphabetically.
func (h *HistoryDB) ListSources(ctx context.Context) ([]string, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT DISTINCT source FROM reports ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	sources := make([]string, 0)
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// History returns every stored report of source, newest first.
func (h *HistoryDB) History(ctx context.Context, source string) ([]*Record, error) {
	return h.query(ctx, `
	SELECT id, source, kind, analyzed_at, report_json FROM reports
	WHERE source = ?
	ORDER BY analyzed_at DESC, id DESC
	`, source)
}

// Latest returns up to n most recent reports of source, newest first.
func (h *HistoryDB) Latest(ctx context.Context, source string, n int) ([]*Record, error) {
	if n <= 0 {
		return []*Record{}, nil
	}
	return h.query(ctx, `
	SELECT id, source, kind, analyzed_at, report_json FROM reports
	WHERE source = ?
	ORDER BY analyzed_at DESC, id DESC
	LIMIT ?
	`, source, n)
}

// GetByID returns the report stored under id.
func (h *HistoryDB) GetByID(ctx context.Context, id int64) (*Record, error) {
	records, err := h.query(ctx, `
	SELECT id, source, kind, analyzed_at, report_json FROM reports
	WHERE id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return records[0], nil
}

func (h *HistoryDB) query(ctx context.Context, query string, args ...any) ([]*Record, error) {
	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	records := make([]*Record, 0)
	for rows.Next() {
		var (
			rec        Record
			kind       string
			analyzedAt string
			reportJSON string
		)
		if err := rows.Scan(&rec.ID, &rec.Source, &kind, &analyzedAt, &reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		rec.Kind = model.Kind(kind)
		rec.AnalyzedAt = parseTimestamp(analyzedAt)

		var report model.Report
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			return nil, fmt.Errorf("failed to parse report %d: %w", rec.ID, err)
		}
		rec.Report = &report

		records = append(records, &rec)
	}

	return records, rows.Err()
}

// timestampFormats contains the timestamp formats accepted from the database.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// parseTimestamp parses a stored timestamp; unknown formats yield zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
