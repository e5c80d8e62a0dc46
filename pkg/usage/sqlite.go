package usage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore implements Store using SQLite. It suits single-instance
// deployments that need usage to survive restarts.
//
// The database runs in WAL mode with a single writer connection.
type SQLiteStore struct {
	db        *sql.DB
	closeOnce sync.Once

	addStmt     *sql.Stmt
	loadStmt    *sql.Stmt
	cleanupStmt *sql.Stmt
}

// SQLiteStoreConfig configures the SQLite store.
type SQLiteStoreConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteStore opens (creating if needed) the usage database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	return NewSQLiteStoreWithConfig(SQLiteStoreConfig{DBPath: path})
}

// NewSQLiteStoreWithConfig opens the usage database with custom settings.
func NewSQLiteStoreWithConfig(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		cfg.DBPath, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{db: db}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS provider_usage (
		day TEXT NOT NULL,
		provider TEXT NOT NULL,
		tokens INTEGER NOT NULL DEFAULT 0,
		cost REAL NOT NULL DEFAULT 0,
		requests INTEGER NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (day, provider)
	);

	CREATE INDEX IF NOT EXISTS idx_provider_usage_day ON provider_usage(day);
	`)
	return err
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.addStmt, err = s.db.Prepare(`
		INSERT INTO provider_usage (day, provider, tokens, cost, requests, updated_at)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT (day, provider) DO UPDATE SET
			tokens = tokens + excluded.tokens,
			cost = cost + excluded.cost,
			requests = requests + 1,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare add statement: %w", err)
	}

	s.loadStmt, err = s.db.Prepare(`
		SELECT provider, tokens, cost FROM provider_usage WHERE day = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare load statement: %w", err)
	}

	s.cleanupStmt, err = s.db.Prepare(`
		DELETE FROM provider_usage WHERE day < ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare cleanup statement: %w", err)
	}
	return nil
}

// Add implements Store.
func (s *SQLiteStore) Add(ctx context.Context, day, provider string, tokens int64, cost float64) error {
	if day == "" || provider == "" {
		return fmt.Errorf("day and provider cannot be empty")
	}
	if _, err := s.addStmt.ExecContext(ctx, day, provider, tokens, cost, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to add usage: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context, day string) (map[string]DailyUsage, error) {
	rows, err := s.loadStmt.QueryContext(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load usage: %w", err)
	}
	defer rows.Close()

	out := make(map[string]DailyUsage)
	for rows.Next() {
		var (
			provider string
			u        DailyUsage
		)
		if err := rows.Scan(&provider, &u.Tokens, &u.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out[provider] = u
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// Cleanup implements Store.
func (s *SQLiteStore) Cleanup(ctx context.Context, olderThan time.Time) (int, error) {
	result, err := s.cleanupStmt.ExecContext(ctx, DayKey(olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(deleted), nil
}

// Close implements Store. It is idempotent.
func (s *SQLiteStore) Close() error {
	var closeErr error
	s.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{s.addStmt, s.loadStmt, s.cleanupStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}
		closeErr = s.db.Close()
	})
	return closeErr
}
