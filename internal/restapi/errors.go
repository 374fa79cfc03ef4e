package restapi

import (
	"encoding/json"
	"net/http"

	"bahnboard.morphos.dev/internal/logging"
	"bahnboard.morphos.dev/internal/models"
)

// serverErrorResponse logs the unexpected error and sends a generic 500
// envelope without leaking internals.
func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(api.Logger, "internal server error", err)
	api.sendError(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

// validationErrorResponse reports bad request parameters, field by field.
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	setJSONResponseType(&w)
	w.WriteHeader(http.StatusBadRequest)

	response := models.ResponseModel{
		Code:        http.StatusBadRequest,
		CurrentTime: models.ResponseCurrentTime(api.Clock),
		Data:        map[string]any{"fieldErrors": fieldErrors},
		Text:        "invalid request",
		Version:     2,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		api.serverErrorResponse(w, r, err)
	}
}

// datasetUnavailableResponse reports a valid period whose snapshot could not
// be located or opened. This is a distinct user-visible condition, not a
// server failure.
func (api *RestAPI) datasetUnavailableResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(api.Logger, "dataset unavailable", err)
	api.sendError(w, r, http.StatusNotFound, "no dataset is available for the requested period")
}
