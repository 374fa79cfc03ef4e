package restapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bahnboard.morphos.dev/internal/app"
	"bahnboard.morphos.dev/internal/appconf"
	"bahnboard.morphos.dev/internal/clock"
	"bahnboard.morphos.dev/internal/metrics"
	"bahnboard.morphos.dev/internal/models"
	"bahnboard.morphos.dev/internal/stats"
	"bahnboard.morphos.dev/tripdb"
)

var testPeriod = tripdb.Period{Year: 2024, Month: 10}

type seedTrip struct {
	ts        time.Time
	delay     *float64
	canceled  bool
	trainType string
}

func delayOf(v float64) *float64 {
	return &v
}

func octoberTrip(day, hour int) time.Time {
	return time.Date(2024, 10, day, hour, 0, 0, 0, time.UTC)
}

// defaultSeedTrips is the snapshot most handler tests run against: three
// measured trips across two train types, plus one canceled trip without a
// recorded delay.
func defaultSeedTrips() []seedTrip {
	return []seedTrip{
		{ts: octoberTrip(6, 8), delay: delayOf(0), trainType: "ICE"},
		{ts: octoberTrip(7, 12), delay: delayOf(3), trainType: "RE"},
		{ts: octoberTrip(8, 18), delay: delayOf(20), trainType: "RE"},
		{ts: octoberTrip(9, 9), canceled: true, trainType: "IC"},
	}
}

// createTestApi builds a RestAPI over a local trip database seeded with
// defaultSeedTrips for the test period.
func createTestApi(t *testing.T) *RestAPI {
	t.Helper()
	return createTestApiWithClock(t, clock.RealClock{})
}

func createTestApiWithClock(t *testing.T, cl clock.Clock) *RestAPI {
	t.Helper()
	return createTestApiWithTrips(t, cl, defaultSeedTrips())
}

func createTestApiWithTrips(t *testing.T, cl clock.Clock, trips []seedTrip) *RestAPI {
	t.Helper()

	cfg := appconf.Config{
		Env:               appconf.Test,
		MinYear:           2022,
		MaxYear:           2025,
		DefaultTrainTypes: []string{"ICE", "IC", "RE", "RB", "S"},
		RateLimit:         100,
	}

	dir := t.TempDir()
	client, err := tripdb.NewClient(tripdb.Config{
		DataDir: dir,
		MinYear: cfg.MinYear,
		MaxYear: cfg.MaxYear,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	seedSnapshot(t, client, dir, testPeriod, trips)

	m := metrics.New()
	application := &app.Application{
		Config:  cfg,
		Trips:   client,
		Engine:  stats.NewEngine(m),
		Clock:   cl,
		Metrics: m,
	}

	return New(application)
}

// seedSnapshot materializes trips as the parquet snapshot the resolver
// expects for the given period.
func seedSnapshot(t *testing.T, client *tripdb.Client, dir string, p tripdb.Period, trips []seedTrip) {
	t.Helper()

	_, err := client.DB.Exec(`CREATE OR REPLACE TABLE seed ("time" TIMESTAMP, delay_in_min DOUBLE, is_canceled BOOLEAN, train_type VARCHAR)`)
	require.NoError(t, err)
	for _, trip := range trips {
		var delay any
		if trip.delay != nil {
			delay = *trip.delay
		}
		_, err = client.DB.Exec(`INSERT INTO seed VALUES (?, ?, ?, ?)`, trip.ts, delay, trip.canceled, trip.trainType)
		require.NoError(t, err)
	}
	path := filepath.Join(dir, p.SnapshotName())
	_, err = client.DB.Exec(fmt.Sprintf(`COPY seed TO '%s' (FORMAT PARQUET)`, path))
	require.NoError(t, err)
	_, err = client.DB.Exec(`DROP TABLE seed`)
	require.NoError(t, err)
}

// serveApiAndRetrieveEndpoint performs a GET against a test server wrapping
// api and decodes the standard response envelope.
func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, path string) (*http.Response, models.ResponseModel) {
	t.Helper()

	mux := http.NewServeMux()
	api.SetRoutes(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	resp, err := http.Get(server.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var model models.ResponseModel
	if resp.Header.Get("Content-Type") == "application/json" {
		err = json.NewDecoder(resp.Body).Decode(&model)
		require.NoError(t, err)
	}

	return resp, model
}

func serveAndRetrieveEndpoint(t *testing.T, path string) (*http.Response, models.ResponseModel) {
	t.Helper()
	return serveApiAndRetrieveEndpoint(t, createTestApi(t), path)
}

// dataAsMap casts the envelope's data field for structural assertions.
func dataAsMap(t *testing.T, model models.ResponseModel) map[string]any {
	t.Helper()
	data, ok := model.Data.(map[string]any)
	require.True(t, ok, "could not cast data to expected type")
	return data
}

// dataAsSlice casts the envelope's data field when the endpoint returns a
// list.
func dataAsSlice(t *testing.T, model models.ResponseModel) []any {
	t.Helper()
	data, ok := model.Data.([]any)
	require.True(t, ok, "could not cast data to expected type")
	return data
}
