package traderpro

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Options controls Core initialization.
type Options struct {
	DBPath       string
	Logger       *slog.Logger
	GoogleAPIKey string
	GeminiModel  string
	HTTPTimeout  time.Duration
	HTTPClient   HTTPDoer // Optional: inject custom client for testing
	ChartBaseURL string   // Optional: override market data endpoint
}

// Core provides access to Trader Pro business logic and storage.
type Core struct {
	db      *sql.DB
	logger  *slog.Logger
	market  *marketFetcher
	analyst *analyst
	dbPath  string
}

// Open initializes a Core using the provided database path.
func Open(dbPath string) (*Core, error) {
	return OpenWithOptions(Options{DBPath: dbPath})
}

// OpenWithOptions initializes a Core using the provided options.
func OpenWithOptions(opts Options) (*Core, error) {
	if opts.DBPath == "" {
		return nil, errors.New("db path is required")
	}
	cleanPath := filepath.Clean(opts.DBPath)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", cleanPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite performs best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logger.Warn("pragma busy_timeout failed", "err", err)
	}

	if err := initDatabase(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}

	market := newMarketFetcher(marketFetcherOptions{
		Logger:      logger,
		HTTPTimeout: defaultDuration(opts.HTTPTimeout, 15*time.Second),
		HTTPClient:  opts.HTTPClient,
		BaseURL:     opts.ChartBaseURL,
	})
	an := newAnalyst(analystOptions{
		Logger: logger,
		APIKey: opts.GoogleAPIKey,
		Model:  opts.GeminiModel,
	})

	return &Core{
		db:      db,
		logger:  logger,
		market:  market,
		analyst: an,
		dbPath:  cleanPath,
	}, nil
}

// Close releases database resources.
func (c *Core) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// DBPath returns the underlying database path.
func (c *Core) DBPath() string {
	return c.dbPath
}

// Logger returns the core's logger.
func (c *Core) Logger() *slog.Logger {
	return c.logger
}

func defaultDuration(v time.Duration, fallback time.Duration) time.Duration {
	if v <= 0 {
		return fallback
	}
	return v
}
