package timelog

import "time"

// Action represents the worker action that produced a time-log entry
type Action string

const (
	ActionPause  Action = "pause"
	ActionFinish Action = "finish"
)

// Entry is one append-only audit record of time spent on a batch.
type Entry struct {
	ID              string    `json:"id"`
	ProjectID       string    `json:"project_id"`
	ProjectName     string    `json:"project_name"`
	BatchNumber     int       `json:"batch_number"`
	Worker          string    `json:"worker"`
	Action          Action    `json:"action"`
	Date            string    `json:"date"` // YYYY-MM-DD of the session start
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	DurationSeconds int       `json:"duration_seconds"`
	Summary         string    `json:"summary"` // "<action> (<filled>/<total>)"
}

// ListOptions provides filtering options for listing entries.
type ListOptions struct {
	ProjectID string
	Worker    string
	Limit     int
}
