package backfill

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/fortuna/athena/internal/ingest/torvik"
)

// JobType enumerates the supported backfill job variants.
type JobType string

const (
	JobTypeSeason    JobType = "season"
	JobTypeYearRange JobType = "year_range"
)

// JobStatus represents the lifecycle state for a job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Job models the database representation of a backfill job.
type Job struct {
	JobID           string
	JobType         JobType
	StartYear       int
	EndYear         int
	Teams           pq.StringArray
	DryRun          bool
	Status          JobStatus
	StatusMessage   sql.NullString
	ProgressCurrent int
	ProgressTotal   int
	LastError       sql.NullString
	RetryCount      int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	StartedAt       sql.NullTime
	CompletedAt     sql.NullTime
}

// Spec builds the runner work description for a stored job. Every field the
// caller queued, including the dry-run flag, survives the round trip through
// the jobs table.
func (j *Job) Spec() JobSpec {
	return JobSpec{
		Type:      j.JobType,
		StartYear: j.StartYear,
		EndYear:   j.EndYear,
		Teams:     j.Teams,
		DryRun:    j.DryRun,
	}
}

// JobSpec describes the work to be performed by the runner.
type JobSpec struct {
	Type      JobType
	StartYear int
	EndYear   int
	Teams     []string
	DryRun    bool
}

// Years returns the seasons covered by the spec in ascending order.
func (s JobSpec) Years() []int {
	start, end := s.StartYear, s.EndYear
	if end < start {
		start, end = end, start
	}

	years := make([]int, 0, end-start+1)
	for y := start; y <= end; y++ {
		years = append(years, y)
	}
	return years
}

// Reporter receives lifecycle callbacks from the runner.
type Reporter interface {
	OnJobStart(spec JobSpec)
	OnYearStart(year int, index int, total int)
	OnYearComplete(year int, summary torvik.IngestSummary)
	OnProgress(message string, current int, total int)
	OnJobComplete()
	OnJobError(err error)
}

// StatusSummary is returned to API callers.
type StatusSummary struct {
	ActiveJob *Job   `json:"active_job,omitempty"`
	History   []*Job `json:"recent_jobs,omitempty"`
}
