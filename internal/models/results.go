package models

import "time"

// TripRecord is one scheduled train service from a monthly snapshot.
// DelayInMin is nil when the delay was never measured, for example when the
// service was canceled before departure; such rows are excluded from every
// delay-based aggregate.
type TripRecord struct {
	Time       time.Time `json:"time"`
	DelayInMin *float64  `json:"delayInMin"`
	IsCanceled bool      `json:"isCanceled"`
	TrainType  string    `json:"trainType"`
}

// KPISummary is the single-row headline table for one reporting period.
// All percentages use the count of rows with a measured delay as denominator.
// HasData is false when the filtered set was empty; the numeric fields are
// zero in that case rather than undefined.
type KPISummary struct {
	TotalTrips     int64     `json:"totalTrips"`
	AvgDelayMin    float64   `json:"avgDelayMin"`
	PunctualityPct float64   `json:"punctualityPct"`
	CanceledPct    float64   `json:"canceledPct"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	HasData        bool      `json:"hasData"`
}

// RushHourWindow is one row of the rush-hour comparison table.
type RushHourWindow struct {
	Window      string  `json:"window"`
	TotalTrips  int64   `json:"totalTrips"`
	AvgDelayMin float64 `json:"avgDelayMin"`
	DelayedPct  float64 `json:"delayedPct"`
	CanceledPct float64 `json:"canceledPct"`
}

// WeekdayStats is one row of the weekday breakdown. DayNumber follows the
// 0=Sunday..6=Saturday convention of the snapshot timestamps.
type WeekdayStats struct {
	Weekday     string  `json:"weekday"`
	DayNumber   int     `json:"dayNumber"`
	TotalTrips  int64   `json:"totalTrips"`
	AvgDelayMin float64 `json:"avgDelayMin"`
	CanceledPct float64 `json:"canceledPct"`
}

// WeekdayReport bundles the per-day rows with the best and worst day by
// average delay. Best and Worst are nil when no day had data.
type WeekdayReport struct {
	Days  []WeekdayStats `json:"days"`
	Best  *WeekdayStats  `json:"best,omitempty"`
	Worst *WeekdayStats  `json:"worst,omitempty"`
}

// DelayBucket is one row of the six-bucket delay histogram.
type DelayBucket struct {
	Bucket     string  `json:"bucket"`
	TripCount  int64   `json:"tripCount"`
	Percentage float64 `json:"percentage"`
}

// TrainTypeStats is one row of the per-train-type comparison table.
type TrainTypeStats struct {
	TrainType      string  `json:"trainType"`
	TotalTrips     int64   `json:"totalTrips"`
	AvgDelayMin    float64 `json:"avgDelayMin"`
	PunctualityPct float64 `json:"punctualityPct"`
	CanceledPct    float64 `json:"canceledPct"`
}
