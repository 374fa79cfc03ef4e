package tripdb

import (
	"log/slog"
	"time"
)

const defaultBaseURL = "https://huggingface.co/datasets/piebro/deutsche-bahn-data/resolve/main/monthly_processed_data"

// Config controls where the client finds monthly snapshots and how long it
// waits for them.
type Config struct {
	// DBPath is the DuckDB database location. Empty runs in memory, which
	// is all the dashboard needs since the data lives in external snapshot
	// files.
	DBPath string

	// BaseURL is the remote directory holding one parquet file per period.
	BaseURL string

	// DataDir, when set, takes precedence over BaseURL and serves snapshots
	// from the local filesystem. No remote-read extension is loaded in that
	// case.
	DataDir string

	// MinYear and MaxYear bound the periods Resolve accepts.
	MinYear int
	MaxYear int

	// ResolveTimeout bounds the availability probe of a snapshot so an
	// unreachable remote fails fast instead of hanging.
	ResolveTimeout time.Duration

	Logger  *slog.Logger
	Verbose bool
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.MinYear == 0 {
		c.MinYear = 2022
	}
	if c.MaxYear == 0 {
		c.MaxYear = 2024
	}
	if c.ResolveTimeout <= 0 {
		c.ResolveTimeout = 30 * time.Second
	}
	return c
}

// remote reports whether snapshots are read over HTTP.
func (c Config) remote() bool {
	return c.DataDir == ""
}
