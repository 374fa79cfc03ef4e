package stats

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bahnboard.morphos.dev/internal/models"
	"bahnboard.morphos.dev/tripdb"
)

// KPIs computes the single-row headline summary for the dataset's period.
// An empty filtered set yields zero metrics with HasData unset; no division
// artifact reaches the caller.
func (e *Engine) KPIs(ctx context.Context, ds *tripdb.Dataset) (models.KPISummary, error) {
	key := cacheKey(ds.Period, "kpis")
	if v, ok := e.cache.get(key); ok {
		e.metrics.ObserveCache(true)
		return v.(models.KPISummary), nil
	}
	e.metrics.ObserveCache(false)

	start := time.Now()
	summary, err := queryKPIs(ctx, ds)
	e.metrics.ObserveQuery("kpis", time.Since(start), err)
	if err != nil {
		return models.KPISummary{}, err
	}

	e.cache.put(key, summary)
	return summary, nil
}

func queryKPIs(ctx context.Context, ds *tripdb.Dataset) (models.KPISummary, error) {
	query := fmt.Sprintf(`
		SELECT
			COUNT(*) AS total_trips,
			ROUND(AVG(delay_in_min), 2) AS avg_delay,
			ROUND(SUM(CASE WHEN delay_in_min <= 5 THEN 1 ELSE 0 END) * 100.0 / COUNT(*), 1) AS punctuality_pct,
			ROUND(SUM(CASE WHEN is_canceled THEN 1 ELSE 0 END) * 100.0 / COUNT(*), 2) AS canceled_pct,
			MIN(time) AS start_date,
			MAX(time) AS end_date
		FROM %s
		WHERE delay_in_min IS NOT NULL`, ds.Relation())

	var (
		total                     int64
		avg, punctuality, cancels sql.NullFloat64
		startDate, endDate        sql.NullTime
	)
	err := ds.DB().QueryRowContext(ctx, query).Scan(&total, &avg, &punctuality, &cancels, &startDate, &endDate)
	if err != nil {
		return models.KPISummary{}, fmt.Errorf("failed to query KPIs for %s: %w", ds.Period, err)
	}

	// With no measurable rows every aggregate scans as NULL; the Null types
	// collapse those to zero values.
	return models.KPISummary{
		TotalTrips:     total,
		AvgDelayMin:    avg.Float64,
		PunctualityPct: punctuality.Float64,
		CanceledPct:    cancels.Float64,
		StartDate:      startDate.Time,
		EndDate:        endDate.Time,
		HasData:        total > 0,
	}, nil
}
