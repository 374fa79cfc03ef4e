package stats

import (
	"context"
	"fmt"
	"time"

	"bahnboard.morphos.dev/internal/models"
	"bahnboard.morphos.dev/tripdb"
)

// RushHour compares the two rush-hour windows against normal hours. Each
// filtered row falls into exactly one window, classified by the hour of the
// snapshot timestamp as stored. Rows come back sorted by average delay,
// worst first.
func (e *Engine) RushHour(ctx context.Context, ds *tripdb.Dataset) ([]models.RushHourWindow, error) {
	key := cacheKey(ds.Period, "rush_hour")
	if v, ok := e.cache.get(key); ok {
		e.metrics.ObserveCache(true)
		return v.([]models.RushHourWindow), nil
	}
	e.metrics.ObserveCache(false)

	start := time.Now()
	windows, err := queryRushHour(ctx, ds)
	e.metrics.ObserveQuery("rush_hour", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	e.cache.put(key, windows)
	return windows, nil
}

func queryRushHour(ctx context.Context, ds *tripdb.Dataset) ([]models.RushHourWindow, error) {
	query := fmt.Sprintf(`
		SELECT
			CASE
				WHEN hour(time) BETWEEN 7 AND 9 THEN 'Morning Rush (7-9)'
				WHEN hour(time) BETWEEN 16 AND 19 THEN 'Evening Rush (16-19)'
				ELSE 'Normal'
			END AS time_window,
			COUNT(*) AS total_trips,
			ROUND(AVG(delay_in_min), 2) AS avg_delay,
			ROUND(SUM(CASE WHEN delay_in_min > 15 THEN 1 ELSE 0 END) * 100.0 / COUNT(*), 2) AS delayed_pct,
			ROUND(SUM(CASE WHEN is_canceled THEN 1 ELSE 0 END) * 100.0 / COUNT(*), 2) AS canceled_pct
		FROM %s
		WHERE delay_in_min IS NOT NULL
		GROUP BY 1
		ORDER BY avg_delay DESC`, ds.Relation())

	rows, err := ds.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rush hour stats for %s: %w", ds.Period, err)
	}
	defer func() { _ = rows.Close() }()

	windows := make([]models.RushHourWindow, 0, 3)
	for rows.Next() {
		var w models.RushHourWindow
		if err := rows.Scan(&w.Window, &w.TotalTrips, &w.AvgDelayMin, &w.DelayedPct, &w.CanceledPct); err != nil {
			return nil, fmt.Errorf("failed to scan rush hour row: %w", err)
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rush hour rows: %w", err)
	}
	return windows, nil
}
