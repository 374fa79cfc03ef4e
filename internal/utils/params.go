// Package utils contains request parameter extraction helpers shared by the
// REST handlers.
package utils

import (
	"net/http"
	"strconv"
	"strings"
)

// PeriodFromRequest extracts the year and month query parameters. It returns
// nil fieldErrors on success; bounds beyond basic month validity are checked
// by the dataset resolver, which owns the supported year range.
func PeriodFromRequest(r *http.Request) (year, month int, fieldErrors map[string][]string) {
	errs := make(map[string][]string)

	year = intParam(r, "year", errs)
	month = intParam(r, "month", errs)

	if _, bad := errs["month"]; !bad && (month < 1 || month > 12) {
		errs["month"] = append(errs["month"], "must be between 1 and 12")
	}

	if len(errs) > 0 {
		return 0, 0, errs
	}
	return year, month, nil
}

func intParam(r *http.Request, name string, errs map[string][]string) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		errs[name] = append(errs[name], "is required")
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		errs[name] = append(errs[name], "must be an integer")
		return 0
	}
	return value
}

// TrainTypesFromRequest parses the comma-separated "types" parameter into a
// deduplicated label list. A request without the parameter gets the default
// selection; a present-but-empty parameter yields an empty list, which the
// handler must reject before invoking the comparator.
func TrainTypesFromRequest(r *http.Request, defaults []string) []string {
	query := r.URL.Query()
	if !query.Has("types") {
		return defaults
	}

	seen := make(map[string]bool)
	types := []string{}
	for _, part := range strings.Split(query.Get("types"), ",") {
		label := strings.TrimSpace(part)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		types = append(types, label)
	}
	return types
}

// LimitFromRequest parses the "limit" parameter, falling back to fallback
// when absent or unparsable. Clamping happens in the engine.
func LimitFromRequest(r *http.Request, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
