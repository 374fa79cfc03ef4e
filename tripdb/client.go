// Package tripdb resolves (year, month) reporting periods to queryable
// datasets backed by an embedded DuckDB instance. One client is shared for
// the lifetime of the process; resolved datasets are immutable, read-only
// handles that are safe for concurrent queries.
package tripdb

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/duckdb/duckdb-go/v2" // CGo-based DuckDB driver
)

// Client is the main entry point for dataset access.
type Client struct {
	config Config
	DB     *sql.DB

	mu       sync.RWMutex
	datasets map[Period]*Dataset
}

// Dataset is an immutable handle to one resolved monthly snapshot.
type Dataset struct {
	Period   Period
	RowCount int64
	relation string
	db       *sql.DB
}

// Relation returns the identifier of the per-period view. It is derived only
// from the validated period integers.
func (d *Dataset) Relation() string {
	return d.relation
}

// DB returns the shared database handle the dataset is served from.
func (d *Dataset) DB() *sql.DB {
	return d.db
}

// NewClient opens the embedded database and, for remote snapshot locations,
// enables HTTP reads. The expensive extension setup happens exactly once per
// process, here.
func NewClient(config Config) (*Client, error) {
	config = config.withDefaults()

	db, err := sql.Open("duckdb", config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if config.remote() {
		for _, stmt := range []string{"INSTALL httpfs", "LOAD httpfs"} {
			if _, err := db.Exec(stmt); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("unable to enable remote snapshot reads (%q): %w", stmt, err)
			}
		}
	}

	if config.Verbose && config.Logger != nil {
		config.Logger.Info("trip database ready",
			"remote", config.remote(),
			"years", fmt.Sprintf("%d-%d", config.MinYear, config.MaxYear))
	}

	return &Client{
		config:   config,
		DB:       db,
		datasets: make(map[Period]*Dataset),
	}, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}

// Ping reports connectivity of the underlying database.
func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Validate checks that the period falls within the configured bounds.
func (c *Client) Validate(p Period) error {
	if p.Year < c.config.MinYear || p.Year > c.config.MaxYear {
		return fmt.Errorf("%w: year %d outside %d-%d", ErrInvalidPeriod, p.Year, c.config.MinYear, c.config.MaxYear)
	}
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidPeriod, p.Month)
	}
	return nil
}

// Resolve maps a period to a dataset handle, creating the per-period view on
// first use and probing it so a missing or unreachable snapshot surfaces as
// ErrDatasetUnavailable instead of failing later inside a widget query.
// Resolve is idempotent: repeated calls for the same period return the same
// handle.
func (c *Client) Resolve(ctx context.Context, p Period) (*Dataset, error) {
	if err := c.Validate(p); err != nil {
		return nil, err
	}

	c.mu.RLock()
	ds, ok := c.datasets[p]
	c.mu.RUnlock()
	if ok {
		return ds, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ds, ok := c.datasets[p]; ok {
		return ds, nil
	}

	source := c.sourceFor(p)
	relation := p.viewName()

	// The relation name comes from validated integers and the source from
	// operator configuration; user input never reaches this statement.
	createStmt := fmt.Sprintf(
		`CREATE OR REPLACE VIEW %s AS SELECT time, delay_in_min, is_canceled, train_type FROM read_parquet('%s')`,
		relation, strings.ReplaceAll(source, "'", "''"),
	)
	if _, err := c.DB.ExecContext(ctx, createStmt); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDatasetUnavailable, p, err)
	}

	// The view is lazy, so creation succeeds even for a snapshot that does
	// not exist. Probe it with a bounded timeout.
	probeCtx, cancel := context.WithTimeout(ctx, c.config.ResolveTimeout)
	defer cancel()

	var count int64
	if err := c.DB.QueryRowContext(probeCtx, "SELECT COUNT(*) FROM "+relation).Scan(&count); err != nil {
		_, _ = c.DB.Exec("DROP VIEW IF EXISTS " + relation)
		return nil, fmt.Errorf("%w: %s: %v", ErrDatasetUnavailable, p, err)
	}

	ds = &Dataset{
		Period:   p,
		RowCount: count,
		relation: relation,
		db:       c.DB,
	}
	c.datasets[p] = ds

	if c.config.Verbose && c.config.Logger != nil {
		c.config.Logger.Info("resolved dataset", "period", p.String(), "rows", count, "source", source)
	}
	return ds, nil
}

func (c *Client) sourceFor(p Period) string {
	if c.config.DataDir != "" {
		return filepath.Join(c.config.DataDir, p.SnapshotName())
	}
	return strings.TrimRight(c.config.BaseURL, "/") + "/" + p.SnapshotName()
}
