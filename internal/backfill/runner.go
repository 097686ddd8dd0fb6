package backfill

import (
	"context"
	"fmt"

	"github.com/fortuna/athena/internal/ingest/torvik"
)

// Runner executes backfill specs against the torvik ingester.
type Runner struct {
	ingester *torvik.Ingester
}

// NewRunner constructs a runner around an ingester.
func NewRunner(ingester *torvik.Ingester) *Runner {
	return &Runner{ingester: ingester}
}

// Run executes the job spec, reporting progress via the Reporter if provided.
// Each season is fetched and landed before the next one starts, so a failure
// partway through leaves earlier seasons committed.
func (r *Runner) Run(ctx context.Context, spec JobSpec, reporter Reporter) error {
	if reporter != nil {
		reporter.OnJobStart(spec)
	}

	years := spec.Years()
	if len(years) == 0 {
		return fmt.Errorf("no seasons to process")
	}

	if spec.DryRun {
		if reporter != nil {
			reporter.OnProgress(fmt.Sprintf("Dry-run: would ingest %d season(s)", len(years)), 0, len(years))
			reporter.OnJobComplete()
		}
		return nil
	}

	total := len(years)
	for idx, year := range years {
		if err := ctx.Err(); err != nil {
			return err
		}

		if reporter != nil {
			reporter.OnYearStart(year, idx, total)
		}

		summary, err := r.ingester.IngestYearTeams(ctx, year, spec.Teams)
		if err != nil {
			if reporter != nil {
				reporter.OnJobError(err)
			}
			return err
		}

		if reporter != nil {
			reporter.OnYearComplete(year, summary)
			reporter.OnProgress(fmt.Sprintf("Season %d complete", year), idx+1, total)
		}
	}

	if reporter != nil {
		reporter.OnJobComplete()
	}

	return nil
}
