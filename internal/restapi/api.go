// Package restapi exposes the aggregation engine's derived tables as JSON
// endpoints for the dashboard frontend.
package restapi

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bahnboard.morphos.dev/internal/app"
	"bahnboard.morphos.dev/internal/utils"
	"bahnboard.morphos.dev/tripdb"
)

// RestAPI carries the application dependencies into the handlers.
type RestAPI struct {
	*app.Application
}

func New(application *app.Application) *RestAPI {
	return &RestAPI{Application: application}
}

// SetRoutes registers all endpoints on the mux. Monthly snapshots are
// immutable, so dashboard responses get a long client cache; health stays
// uncached.
func (api *RestAPI) SetRoutes(mux *http.ServeMux) {
	dashboard := func(handler http.HandlerFunc) http.Handler {
		return CacheControlMiddleware(3600, handler)
	}

	mux.Handle("GET /api/dashboard/kpis", dashboard(api.kpisHandler))
	mux.Handle("GET /api/dashboard/rush-hour", dashboard(api.rushHourHandler))
	mux.Handle("GET /api/dashboard/weekdays", dashboard(api.weekdaysHandler))
	mux.Handle("GET /api/dashboard/delay-distribution", dashboard(api.delayDistributionHandler))
	mux.Handle("GET /api/dashboard/train-types", dashboard(api.trainTypesHandler))
	mux.Handle("GET /api/dashboard/train-types/list", dashboard(api.trainTypeListHandler))
	mux.Handle("GET /api/dashboard/sample", dashboard(api.sampleHandler))

	mux.Handle("GET /health", CacheControlMiddleware(0, http.HandlerFunc(api.healthHandler)))

	if api.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(api.Metrics.Registry, promhttp.HandlerOpts{}))
	}
}

// resolveDataset parses the period parameters and resolves the dataset,
// writing the appropriate error response itself. The second return value is
// false when a response has already been sent.
func (api *RestAPI) resolveDataset(w http.ResponseWriter, r *http.Request) (*tripdb.Dataset, bool) {
	year, month, fieldErrors := utils.PeriodFromRequest(r)
	if fieldErrors != nil {
		api.validationErrorResponse(w, r, fieldErrors)
		return nil, false
	}

	ds, err := api.Trips.Resolve(r.Context(), tripdb.Period{Year: year, Month: month})
	switch {
	case errors.Is(err, tripdb.ErrInvalidPeriod):
		api.validationErrorResponse(w, r, map[string][]string{
			"period": {err.Error()},
		})
		return nil, false
	case errors.Is(err, tripdb.ErrDatasetUnavailable):
		api.datasetUnavailableResponse(w, r, err)
		return nil, false
	case err != nil:
		api.serverErrorResponse(w, r, err)
		return nil, false
	}
	return ds, true
}
