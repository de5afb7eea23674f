package model

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a processing job.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Job tracks one uploaded file through the standardization pipeline.
// Progress is the completed fraction of the run, in [0, 1]. Result is
// populated only once Status is JobCompleted.
type Job struct {
	ID               uuid.UUID
	Status           JobStatus
	Progress         float64
	TotalCases       int
	ProcessedCases   int
	OriginalFilename string
	FilePath         string
	OutputPath       string
	Error            string
	Result           []CaseRecord
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
