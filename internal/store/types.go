package store

// Stats aggregates the event log for the reporting endpoint. Alerts are
// events of type "forced" or "unauthorized"; the average duration is the mean
// of all non-null duration_seconds values, rounded to the nearest integer.
type Stats struct {
	TotalEvents int            `json:"total_events"`
	ByType      map[string]int `json:"by_type"`
	ByLocation  map[string]int `json:"by_location"`
	AvgDuration int            `json:"avg_duration"`
	TotalAlerts int            `json:"total_alerts"`
}
