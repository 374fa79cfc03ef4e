package stats

import (
	"context"
	"fmt"
	"time"

	"bahnboard.morphos.dev/internal/models"
	"bahnboard.morphos.dev/tripdb"
)

// Weekdays breaks the filtered dataset down by day of week, ordered by the
// 0=Sunday..6=Saturday ordinal of the snapshot timestamps. Days without data
// are simply absent.
func (e *Engine) Weekdays(ctx context.Context, ds *tripdb.Dataset) ([]models.WeekdayStats, error) {
	key := cacheKey(ds.Period, "weekdays")
	if v, ok := e.cache.get(key); ok {
		e.metrics.ObserveCache(true)
		return v.([]models.WeekdayStats), nil
	}
	e.metrics.ObserveCache(false)

	start := time.Now()
	days, err := queryWeekdays(ctx, ds)
	e.metrics.ObserveQuery("weekdays", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	e.cache.put(key, days)
	return days, nil
}

func queryWeekdays(ctx context.Context, ds *tripdb.Dataset) ([]models.WeekdayStats, error) {
	query := fmt.Sprintf(`
		SELECT
			CASE dayofweek(time)
				WHEN 0 THEN 'Sunday'
				WHEN 1 THEN 'Monday'
				WHEN 2 THEN 'Tuesday'
				WHEN 3 THEN 'Wednesday'
				WHEN 4 THEN 'Thursday'
				WHEN 5 THEN 'Friday'
				WHEN 6 THEN 'Saturday'
				ELSE 'Unknown'
			END AS weekday,
			dayofweek(time) AS day_number,
			COUNT(*) AS total_trips,
			ROUND(AVG(delay_in_min), 2) AS avg_delay,
			ROUND(SUM(CASE WHEN is_canceled THEN 1 ELSE 0 END) * 100.0 / COUNT(*), 2) AS canceled_pct
		FROM %s
		WHERE delay_in_min IS NOT NULL
		GROUP BY dayofweek(time)
		ORDER BY dayofweek(time)`, ds.Relation())

	rows, err := ds.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekday stats for %s: %w", ds.Period, err)
	}
	defer func() { _ = rows.Close() }()

	days := make([]models.WeekdayStats, 0, 7)
	for rows.Next() {
		var d models.WeekdayStats
		if err := rows.Scan(&d.Weekday, &d.DayNumber, &d.TotalTrips, &d.AvgDelayMin, &d.CanceledPct); err != nil {
			return nil, fmt.Errorf("failed to scan weekday row: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating weekday rows: %w", err)
	}
	return days, nil
}

// BestAndWorstWeekday picks the days with the lowest and highest average
// delay. Ties go to the earliest ordinal, which is the order the rows arrive
// in. Both results are nil when days is empty.
func BestAndWorstWeekday(days []models.WeekdayStats) (best, worst *models.WeekdayStats) {
	for i := range days {
		if best == nil || days[i].AvgDelayMin < best.AvgDelayMin {
			best = &days[i]
		}
		if worst == nil || days[i].AvgDelayMin > worst.AvgDelayMin {
			worst = &days[i]
		}
	}
	return best, worst
}
