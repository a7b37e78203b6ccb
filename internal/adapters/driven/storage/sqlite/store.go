package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/bunker-stack/bunkerctl/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/bunker-stack/bunkerctl/internal/core/domain"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.BenchStore = (*Store)(nil)

// Store is the SQLite-backed benchmark history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a store at the specified data directory.
// If dataDir is empty, defaults to ~/.bunkerctl/data/bench.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".bunkerctl", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "bench.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Record stores one benchmark result.
func (s *Store) Record(ctx context.Context, result *domain.BenchResult) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bench_runs
			(id, kind, model, prompt_tokens, completion_tokens, ttft_ns, duration_ns, tokens_per_second, ran_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID,
		string(result.Kind),
		result.Model,
		result.PromptTokens,
		result.CompletionTokens,
		result.TTFT.Nanoseconds(),
		result.Duration.Nanoseconds(),
		result.TokensPerSecond,
		result.RanAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording bench run: %w", err)
	}
	return nil
}

// List returns the most recent results, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]domain.BenchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, model, prompt_tokens, completion_tokens, ttft_ns, duration_ns, tokens_per_second, ran_at
		FROM bench_runs
		ORDER BY ran_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing bench runs: %w", err)
	}
	defer rows.Close()

	var results []domain.BenchResult
	for rows.Next() {
		var (
			r          domain.BenchResult
			kind       string
			ttftNs     int64
			durationNs int64
			ranAt      time.Time
		)
		if err := rows.Scan(&r.ID, &kind, &r.Model, &r.PromptTokens, &r.CompletionTokens,
			&ttftNs, &durationNs, &r.TokensPerSecond, &ranAt); err != nil {
			return nil, fmt.Errorf("scanning bench run: %w", err)
		}
		r.Kind = domain.BenchKind(kind)
		r.TTFT = time.Duration(ttftNs)
		r.Duration = time.Duration(durationNs)
		r.RanAt = ranAt
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bench runs: %w", err)
	}
	return results, nil
}

// migrate applies pending up migrations in version order.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue
		}

		script, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(script)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}
