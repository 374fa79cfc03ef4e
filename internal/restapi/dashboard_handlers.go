package restapi

import (
	"errors"
	"net/http"

	"bahnboard.morphos.dev/internal/models"
	"bahnboard.morphos.dev/internal/stats"
	"bahnboard.morphos.dev/internal/utils"
)

// kpisHandler serves the single-row headline summary for one period.
func (api *RestAPI) kpisHandler(w http.ResponseWriter, r *http.Request) {
	ds, ok := api.resolveDataset(w, r)
	if !ok {
		return
	}

	kpis, err := api.Engine.KPIs(r.Context(), ds)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(kpis, api.Clock))
}

func (api *RestAPI) rushHourHandler(w http.ResponseWriter, r *http.Request) {
	ds, ok := api.resolveDataset(w, r)
	if !ok {
		return
	}

	windows, err := api.Engine.RushHour(r.Context(), ds)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(windows, api.Clock))
}

// weekdaysHandler serves the weekday breakdown together with the best and
// worst day by average delay.
func (api *RestAPI) weekdaysHandler(w http.ResponseWriter, r *http.Request) {
	ds, ok := api.resolveDataset(w, r)
	if !ok {
		return
	}

	days, err := api.Engine.Weekdays(r.Context(), ds)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	best, worst := stats.BestAndWorstWeekday(days)
	report := models.WeekdayReport{Days: days, Best: best, Worst: worst}

	api.sendResponse(w, r, models.NewOKResponse(report, api.Clock))
}

func (api *RestAPI) delayDistributionHandler(w http.ResponseWriter, r *http.Request) {
	ds, ok := api.resolveDataset(w, r)
	if !ok {
		return
	}

	buckets, err := api.Engine.DelayDistribution(r.Context(), ds)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(buckets, api.Clock))
}

// trainTypesHandler compares the selected train types. Without a "types"
// parameter the configured default selection applies; an explicitly empty
// selection is a validation error, the engine is never invoked with one.
func (api *RestAPI) trainTypesHandler(w http.ResponseWriter, r *http.Request) {
	ds, ok := api.resolveDataset(w, r)
	if !ok {
		return
	}

	types := utils.TrainTypesFromRequest(r, api.Config.DefaultTrainTypes)
	if len(types) == 0 {
		api.validationErrorResponse(w, r, map[string][]string{
			"types": {"at least one train type must be selected"},
		})
		return
	}

	result, err := api.Engine.TrainTypes(r.Context(), ds, types)
	if err != nil {
		if errors.Is(err, stats.ErrNoTrainTypes) {
			api.validationErrorResponse(w, r, map[string][]string{
				"types": {"at least one train type must be selected"},
			})
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(result, api.Clock))
}

func (api *RestAPI) trainTypeListHandler(w http.ResponseWriter, r *http.Request) {
	ds, ok := api.resolveDataset(w, r)
	if !ok {
		return
	}

	list, err := api.Engine.ListTrainTypes(r.Context(), ds)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(list, api.Clock))
}

// sampleHandler serves raw trip records for the "show raw data" view.
func (api *RestAPI) sampleHandler(w http.ResponseWriter, r *http.Request) {
	ds, ok := api.resolveDataset(w, r)
	if !ok {
		return
	}

	limit := utils.LimitFromRequest(r, stats.DefaultSampleLimit)
	records, err := api.Engine.Sample(r.Context(), ds, limit)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewOKResponse(records, api.Clock))
}
