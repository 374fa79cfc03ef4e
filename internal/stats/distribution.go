package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bahnboard.morphos.dev/internal/models"
	"bahnboard.morphos.dev/tripdb"
)

// DelayDistribution bins every filtered row into one of six fixed delay
// buckets. The buckets are contiguous with inclusive upper bounds, so
// together they cover any measured delay exactly once. Buckets with no rows
// are absent from the result.
func (e *Engine) DelayDistribution(ctx context.Context, ds *tripdb.Dataset) ([]models.DelayBucket, error) {
	key := cacheKey(ds.Period, "delay_distribution")
	if v, ok := e.cache.get(key); ok {
		e.metrics.ObserveCache(true)
		return v.([]models.DelayBucket), nil
	}
	e.metrics.ObserveCache(false)

	start := time.Now()
	buckets, err := queryDelayDistribution(ctx, ds)
	e.metrics.ObserveQuery("delay_distribution", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	e.cache.put(key, buckets)
	return buckets, nil
}

func queryDelayDistribution(ctx context.Context, ds *tripdb.Dataset) ([]models.DelayBucket, error) {
	// The numeric prefix exists only to give the buckets a stable sort
	// order inside SQL; it is stripped before the rows leave this package.
	query := fmt.Sprintf(`
		SELECT
			CASE
				WHEN delay_in_min <= 0 THEN '0. Early/On-Time'
				WHEN delay_in_min <= 5 THEN '1. 1-5 min'
				WHEN delay_in_min <= 15 THEN '2. 6-15 min'
				WHEN delay_in_min <= 30 THEN '3. 16-30 min'
				WHEN delay_in_min <= 60 THEN '4. 31-60 min'
				ELSE '5. 60+ min'
			END AS delay_bucket,
			COUNT(*) AS trip_count,
			ROUND(COUNT(*) * 100.0 / SUM(COUNT(*)) OVER (), 1) AS percentage
		FROM %s
		WHERE delay_in_min IS NOT NULL
		GROUP BY 1
		ORDER BY 1`, ds.Relation())

	rows, err := ds.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query delay distribution for %s: %w", ds.Period, err)
	}
	defer func() { _ = rows.Close() }()

	buckets := make([]models.DelayBucket, 0, 6)
	for rows.Next() {
		var b models.DelayBucket
		if err := rows.Scan(&b.Bucket, &b.TripCount, &b.Percentage); err != nil {
			return nil, fmt.Errorf("failed to scan delay bucket row: %w", err)
		}
		b.Bucket = stripSortPrefix(b.Bucket)
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delay bucket rows: %w", err)
	}
	return buckets, nil
}

// stripSortPrefix removes the "N. " ordering marker from a bucket label.
func stripSortPrefix(label string) string {
	if _, rest, found := strings.Cut(label, ". "); found {
		return rest
	}
	return label
}
