package backfill

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fortuna/athena/internal/ingest/torvik"
	"github.com/fortuna/athena/internal/store"
)

// Torvik has advanced game data back to the 2008 season.
const minBackfillYear = 2008

const maxJobRetries = 2

// Request represents a backfill invocation request.
type Request struct {
	StartYear int
	EndYear   int
	Teams     []string
	DryRun    bool
}

// Normalize validates the request and fills defaults.
func (r *Request) Normalize() error {
	if r.StartYear == 0 {
		return fmt.Errorf("start_year is required")
	}
	if r.EndYear == 0 {
		r.EndYear = r.StartYear
	}
	if r.StartYear < minBackfillYear || r.EndYear < minBackfillYear {
		return fmt.Errorf("seasons before %d are not available", minBackfillYear)
	}
	if r.EndYear < r.StartYear {
		return fmt.Errorf("end_year %d precedes start_year %d", r.EndYear, r.StartYear)
	}
	return nil
}

// DeriveType infers the job type based on the season span.
func (r Request) DeriveType() JobType {
	if r.EndYear > r.StartYear {
		return JobTypeYearRange
	}
	return JobTypeSeason
}

// Service coordinates job persistence, execution, and status reporting.
type Service struct {
	repo   *Repository
	runner *Runner

	historyLimit int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *log.Logger
}

// NewService constructs a Service. Call Start to launch the worker.
func NewService(db *store.Database, ingester *torvik.Ingester, logger *log.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	if logger == nil {
		logger = log.New(log.Writer(), "[backfill] ", log.LstdFlags)
	}

	return &Service{
		repo:         NewRepository(db),
		runner:       NewRunner(ingester),
		historyLimit: 10,
		ctx:          ctx,
		cancel:       cancel,
		logger:       logger,
	}
}

// Start launches the background worker loop.
func (s *Service) Start() {
	if err := s.repo.ResetStuckJobs(s.ctx); err != nil {
		s.logger.Printf("failed to reset jobs: %v", err)
	}

	s.wg.Add(1)
	go s.worker()
}

// Shutdown stops workers and waits for completion.
func (s *Service) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.wg.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Enqueue creates a new job from the provided request.
func (s *Service) Enqueue(ctx context.Context, req Request) (*Job, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	job := &Job{
		JobType:         req.DeriveType(),
		StartYear:       req.StartYear,
		EndYear:         req.EndYear,
		Teams:           req.Teams,
		DryRun:          req.DryRun,
		Status:          JobStatusQueued,
		StatusMessage:   sql.NullString{String: "Queued", Valid: true},
		ProgressCurrent: 0,
		ProgressTotal:   req.EndYear - req.StartYear + 1,
	}

	stored, err := s.repo.CreateJob(ctx, job)
	if err != nil {
		return nil, err
	}

	s.logger.Printf("queued %s job %s (%d-%d)", stored.JobType, stored.JobID, stored.StartYear, stored.EndYear)
	return stored, nil
}

// GetStatus returns the currently running job plus recent history.
func (s *Service) GetStatus(ctx context.Context) (*StatusSummary, error) {
	active, err := s.repo.GetActiveJob(ctx)
	if err != nil {
		return nil, err
	}

	history, err := s.repo.ListRecentJobs(ctx, s.historyLimit)
	if err != nil {
		return nil, err
	}

	return &StatusSummary{
		ActiveJob: active,
		History:   history,
	}, nil
}

func (s *Service) worker() {
	defer s.wg.Done()

	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
			job, err := s.repo.MarkNextJobRunning(s.ctx)
			if err != nil {
				s.logger.Printf("claim job error: %v", err)
				time.Sleep(time.Second)
				continue
			}
			if job == nil {
				select {
				case <-s.ctx.Done():
					return
				case <-ticker.C:
					continue
				}
			}

			s.executeJob(job)
		}
	}
}

func (s *Service) executeJob(job *Job) {
	spec := job.Spec()

	reporter := &jobReporter{
		ctx:    s.ctx,
		repo:   s.repo,
		jobID:  job.JobID,
		total:  job.ProgressTotal,
		logger: s.logger,
	}

	if err := s.runner.Run(s.ctx, spec, reporter); err != nil {
		if s.ctx.Err() != nil {
			// Shutdown, not a job failure; the restart reset requeues it.
			return
		}
		if job.RetryCount < maxJobRetries {
			s.logger.Printf("job %s failed, retry %d/%d: %v", job.JobID, job.RetryCount+1, maxJobRetries, err)
			_ = s.repo.RequeueForRetry(s.ctx, job.JobID, err)
			return
		}
		_ = s.repo.UpdateStatus(s.ctx, job.JobID, JobStatusFailed, "Job failed", err)
		return
	}

	_ = s.repo.UpdateStatus(s.ctx, job.JobID, JobStatusCompleted, "Job completed", nil)
}

type jobReporter struct {
	ctx    context.Context
	repo   *Repository
	jobID  string
	total  int
	logger *log.Logger
}

func (r *jobReporter) OnJobStart(spec JobSpec) {
	if r.total == 0 {
		r.total = len(spec.Years())
	}
	_ = r.repo.UpdateProgress(r.ctx, r.jobID, 0, r.total, "Job starting")
}

func (r *jobReporter) OnYearStart(year int, index int, total int) {
	msg := fmt.Sprintf("Ingesting season %d (%d/%d)", year, index+1, total)
	_ = r.repo.UpdateProgress(r.ctx, r.jobID, index, valueOr(total, r.total), msg)
}

func (r *jobReporter) OnYearComplete(year int, summary torvik.IngestSummary) {
	r.logger.Printf("job %s season %d: %d game lines, %d season lines, %d team results",
		r.jobID, year, summary.GameLines, summary.SeasonLines, summary.TeamResults)
}

func (r *jobReporter) OnProgress(message string, current int, total int) {
	_ = r.repo.UpdateProgress(r.ctx, r.jobID, current, valueOr(total, r.total), message)
}

func (r *jobReporter) OnJobComplete() {
	_ = r.repo.UpdateProgress(r.ctx, r.jobID, r.total, r.total, "Job complete")
}

func (r *jobReporter) OnJobError(err error) {
	r.logger.Printf("job %s error: %v", r.jobID, err)
}

func valueOr(val, fallback int) int {
	if val > 0 {
		return val
	}
	return fallback
}
