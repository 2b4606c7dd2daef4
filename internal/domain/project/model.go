package project

import "time"

// Status represents the visibility status of a project
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Project is a container for batches created from one upload. BatchCount is
// fixed at creation.
type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Status     Status    `json:"status"`
	BatchCount int       `json:"batch_count"`
	CreatedAt  time.Time `json:"created_at"`
}
