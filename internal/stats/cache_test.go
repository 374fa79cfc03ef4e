package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bahnboard.morphos.dev/tripdb"
)

func TestCacheKeyIsOrderInsensitive(t *testing.T) {
	p := tripdb.Period{Year: 2024, Month: 10}

	a := cacheKey(p, "train_types", "ICE", "RE", "RB")
	b := cacheKey(p, "train_types", "RB", "ICE", "RE")

	assert.Equal(t, a, b)
}

func TestCacheKeySeparatesPeriods(t *testing.T) {
	october := cacheKey(tripdb.Period{Year: 2024, Month: 10}, "kpis")
	november := cacheKey(tripdb.Period{Year: 2024, Month: 11}, "kpis")

	assert.NotEqual(t, october, november)
}

func TestCacheKeySeparatesWidgetsAndFilters(t *testing.T) {
	p := tripdb.Period{Year: 2024, Month: 10}

	assert.NotEqual(t, cacheKey(p, "kpis"), cacheKey(p, "rush_hour"))
	assert.NotEqual(t, cacheKey(p, "train_types", "ICE"), cacheKey(p, "train_types", "RE"))
	assert.NotEqual(t, cacheKey(p, "train_types", "ICE"), cacheKey(p, "train_types", "ICE", "RE"))
}

func TestCacheKeySeparatesLabelContainingJoinBytes(t *testing.T) {
	p := tripdb.Period{Year: 2024, Month: 10}

	// A single label carrying separator bytes must never alias the key of
	// a multi-label set.
	assert.NotEqual(t,
		cacheKey(p, "train_types", "ICE\x1fRE"),
		cacheKey(p, "train_types", "ICE", "RE"))
	assert.NotEqual(t,
		cacheKey(p, "train_types", "ICE,RE"),
		cacheKey(p, "train_types", "ICE", "RE"))
	assert.NotEqual(t,
		cacheKey(p, "train_types", `ICE","RE`),
		cacheKey(p, "train_types", "ICE", "RE"))
}

func TestResultCacheRoundTrip(t *testing.T) {
	c := newResultCache()

	_, ok := c.get("missing")
	assert.False(t, ok)

	c.put("key", 42)
	v, ok := c.get("key")
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}
