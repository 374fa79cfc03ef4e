package app

import (
	"log/slog"

	"bahnboard.morphos.dev/internal/appconf"
	"bahnboard.morphos.dev/internal/clock"
	"bahnboard.morphos.dev/internal/metrics"
	"bahnboard.morphos.dev/internal/stats"
	"bahnboard.morphos.dev/tripdb"
)

// Application holds the dependencies for our HTTP handlers, helpers, and
// middleware: the shared trip database client, the aggregation engine, and
// the ambient services around them.
type Application struct {
	Config  appconf.Config
	Logger  *slog.Logger
	Trips   *tripdb.Client
	Engine  *stats.Engine
	Clock   clock.Clock
	Metrics *metrics.Metrics
}
