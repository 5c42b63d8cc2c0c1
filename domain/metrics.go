package domain

// OverallMetrics aggregates completion counts across all of a user's activities.
type OverallMetrics struct {
	Total          int     `json:"total_activities"`
	Completed      int     `json:"completed_activities"`
	Missing        int     `json:"missed_activities"`
	Incomplete     int     `json:"pending_activities"`
	CompletionRate float64 `json:"completion_rate"`
}

// DailyMetric counts activities for a single calendar day.
type DailyMetric struct {
	Day       string `json:"day"`
	Total     int    `json:"total_activities"`
	Completed int    `json:"completed_activities"`
}

// LabelMetric counts occurrences of a single activity label.
type LabelMetric struct {
	Label     string `json:"activity"`
	Total     int    `json:"count"`
	Completed int    `json:"completed_count"`
}

// MetricsReport is the dashboard payload assembled by the metrics use case.
type MetricsReport struct {
	Overall   OverallMetrics `json:"overall_stats"`
	Weekly    []DailyMetric  `json:"weekly_stats"`
	TopLabels []LabelMetric  `json:"activity_types"`
}
