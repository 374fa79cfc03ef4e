package stats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bahnboard.morphos.dev/internal/models"
	"bahnboard.morphos.dev/tripdb"
)

// ErrNoTrainTypes is returned when TrainTypes is invoked with an empty
// selection. Callers own the empty-selection state and must not reach the
// engine with it.
var ErrNoTrainTypes = errors.New("train type selection must not be empty")

// TrainTypes compares performance across the selected train types, worst
// average delay first. The labels are bound as query parameters, so they are
// inert data regardless of content; unknown labels simply match no rows.
func (e *Engine) TrainTypes(ctx context.Context, ds *tripdb.Dataset, types []string) ([]models.TrainTypeStats, error) {
	if len(types) == 0 {
		return nil, ErrNoTrainTypes
	}

	key := cacheKey(ds.Period, "train_types", types...)
	if v, ok := e.cache.get(key); ok {
		e.metrics.ObserveCache(true)
		return v.([]models.TrainTypeStats), nil
	}
	e.metrics.ObserveCache(false)

	start := time.Now()
	result, err := queryTrainTypes(ctx, ds, types)
	e.metrics.ObserveQuery("train_types", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	e.cache.put(key, result)
	return result, nil
}

func queryTrainTypes(ctx context.Context, ds *tripdb.Dataset, types []string) ([]models.TrainTypeStats, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(types)), ",")
	args := make([]any, len(types))
	for i, t := range types {
		args[i] = t
	}

	query := fmt.Sprintf(`
		SELECT
			train_type,
			COUNT(*) AS total_trips,
			ROUND(AVG(delay_in_min), 2) AS avg_delay,
			ROUND(SUM(CASE WHEN delay_in_min <= 5 THEN 1 ELSE 0 END) * 100.0 / COUNT(*), 1) AS punctuality_pct,
			ROUND(SUM(CASE WHEN is_canceled THEN 1 ELSE 0 END) * 100.0 / COUNT(*), 2) AS canceled_pct
		FROM %s
		WHERE train_type IN (%s)
		  AND delay_in_min IS NOT NULL
		GROUP BY train_type
		ORDER BY avg_delay DESC`, ds.Relation(), placeholders)

	rows, err := ds.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query train type stats for %s: %w", ds.Period, err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]models.TrainTypeStats, 0, len(types))
	for rows.Next() {
		var s models.TrainTypeStats
		if err := rows.Scan(&s.TrainType, &s.TotalTrips, &s.AvgDelayMin, &s.PunctualityPct, &s.CanceledPct); err != nil {
			return nil, fmt.Errorf("failed to scan train type row: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating train type rows: %w", err)
	}
	return result, nil
}

// ListTrainTypes returns the distinct train types present in the dataset,
// sorted alphabetically. The dashboard uses this to populate its filter.
func (e *Engine) ListTrainTypes(ctx context.Context, ds *tripdb.Dataset) ([]string, error) {
	key := cacheKey(ds.Period, "train_type_list")
	if v, ok := e.cache.get(key); ok {
		e.metrics.ObserveCache(true)
		return v.([]string), nil
	}
	e.metrics.ObserveCache(false)

	start := time.Now()
	list, err := queryTrainTypeList(ctx, ds)
	e.metrics.ObserveQuery("train_type_list", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	e.cache.put(key, list)
	return list, nil
}

func queryTrainTypeList(ctx context.Context, ds *tripdb.Dataset) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT train_type
		FROM %s
		WHERE train_type IS NOT NULL
		ORDER BY train_type`, ds.Relation())

	rows, err := ds.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list train types for %s: %w", ds.Period, err)
	}
	defer func() { _ = rows.Close() }()

	var list []string
	for rows.Next() {
		var trainType string
		if err := rows.Scan(&trainType); err != nil {
			return nil, fmt.Errorf("failed to scan train type: %w", err)
		}
		list = append(list, trainType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating train types: %w", err)
	}
	return list, nil
}
