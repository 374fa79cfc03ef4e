package stats

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"bahnboard.morphos.dev/internal/models"
	"bahnboard.morphos.dev/tripdb"
)

const (
	// DefaultSampleLimit is the number of raw rows served when the caller
	// does not ask for a specific amount.
	DefaultSampleLimit = 100
	// MaxSampleLimit caps raw-row requests; the sample exists for eyeballing
	// the data, not for exports.
	MaxSampleLimit = 1000
)

// Sample returns up to limit raw trip records for inspection. The limit is
// clamped to 1..MaxSampleLimit; zero or negative values fall back to the
// default.
func (e *Engine) Sample(ctx context.Context, ds *tripdb.Dataset, limit int) ([]models.TripRecord, error) {
	if limit <= 0 {
		limit = DefaultSampleLimit
	}
	if limit > MaxSampleLimit {
		limit = MaxSampleLimit
	}

	key := cacheKey(ds.Period, "sample", strconv.Itoa(limit))
	if v, ok := e.cache.get(key); ok {
		e.metrics.ObserveCache(true)
		return v.([]models.TripRecord), nil
	}
	e.metrics.ObserveCache(false)

	start := time.Now()
	records, err := querySample(ctx, ds, limit)
	e.metrics.ObserveQuery("sample", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	e.cache.put(key, records)
	return records, nil
}

func querySample(ctx context.Context, ds *tripdb.Dataset, limit int) ([]models.TripRecord, error) {
	query := fmt.Sprintf(`
		SELECT time, delay_in_min, is_canceled, train_type
		FROM %s
		LIMIT ?`, ds.Relation())

	rows, err := ds.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to sample %s: %w", ds.Period, err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]models.TripRecord, 0, limit)
	for rows.Next() {
		var (
			record    models.TripRecord
			delay     sql.NullFloat64
			trainType sql.NullString
		)
		if err := rows.Scan(&record.Time, &delay, &record.IsCanceled, &trainType); err != nil {
			return nil, fmt.Errorf("failed to scan trip record: %w", err)
		}
		if delay.Valid {
			v := delay.Float64
			record.DelayInMin = &v
		}
		record.TrainType = trainType.String
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trip records: %w", err)
	}
	return records, nil
}
