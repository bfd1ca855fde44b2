package domain

import "time"

type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
)

// Job tracks an asynchronous extraction submitted through the job queue.
type Job struct {
	ID        string            `json:"id"`
	Status    JobStatus         `json:"status"`
	Request   ExtractionRequest `json:"request"`
	Result    *ExtractionResult `json:"result,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
