// Package types contains the JSON shapes returned by the HTTP API.
package types

import "time"

// ScoreResponse is the body returned for a synchronous scoring call.
type ScoreResponse struct {
	Scorer     string    `json:"scorer"`
	Confidence []float64 `json:"confidence"`
	Labels     []int     `json:"labels"`
}

// JobEntry is the read shape of a scoring job.
type JobEntry struct {
	JobID       string     `json:"job_id"`
	Scorer      string     `json:"scorer"`
	Status      string     `json:"status"`
	Rows        int        `json:"rows"`
	Classes     int        `json:"classes"`
	Confidence  []float64  `json:"confidence,omitempty"`
	Labels      []int      `json:"labels,omitempty"`
	Error       string     `json:"error,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ScorersResponse lists the registered scorers.
type ScorersResponse struct {
	Default string   `json:"default"`
	Scorers []string `json:"scorers"`
}
