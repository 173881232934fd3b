package dto

import (
	"encoding/json"
	"time"
)

// HeatmapPoint is one activity-calendar bucket: a UTC day and how many
// sessions were logged on it.
type HeatmapPoint struct {
	Day   string `json:"day"`
	Value int    `json:"value"`
}

// TrendPoint carries the per-metric score averages for one practice day.
// Only metrics actually observed that day are present.
type TrendPoint struct {
	Date   string
	Scores map[string]int
}

// MarshalJSON flattens the point into the chart-friendly shape the UI
// consumes: {"date": "Jan 2", "clarity": 80, ...}.
func (p TrendPoint) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(p.Scores)+1)
	flat["date"] = p.Date
	for name, score := range p.Scores {
		flat[name] = score
	}
	return json.Marshal(flat)
}

// UnmarshalJSON restores a point from its flat form, needed when the
// dashboard payload is read back from cache.
func (p *TrendPoint) UnmarshalJSON(data []byte) error {
	var flat map[string]interface{}
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	p.Scores = make(map[string]int, len(flat))
	for name, value := range flat {
		switch v := value.(type) {
		case string:
			if name == "date" {
				p.Date = v
			}
		case float64:
			p.Scores[name] = int(v)
		}
	}
	return nil
}

// MetricArea names a metric together with its rounded all-time average.
type MetricArea struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// ScoreAnalysis reports the caller's strongest and weakest metrics.
type ScoreAnalysis struct {
	StrongestArea MetricArea `json:"strongestArea"`
	WeakestArea   MetricArea `json:"weakestArea"`
}

// RecentActivity is one of the latest sessions, reduced for display.
type RecentActivity struct {
	Module string `json:"module"`
	Date   string `json:"date"`
}

// DashboardResponse is the aggregate computed over all of a user's
// practice sessions.
type DashboardResponse struct {
	TotalSessions     int              `json:"totalSessions"`
	FirstPracticeDate time.Time        `json:"firstPracticeDate"`
	HeatmapData       []HeatmapPoint   `json:"heatmapData"`
	ModuleCounts      map[string]int   `json:"moduleCounts"`
	ScoreTrends       []TrendPoint     `json:"scoreTrends"`
	Analysis          ScoreAnalysis    `json:"analysis"`
	RecentActivity    []RecentActivity `json:"recentActivity"`
}
