package backfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestNormalizeDefaultsEndYear(t *testing.T) {
	req := Request{StartYear: 2024}
	require.NoError(t, req.Normalize())
	assert.Equal(t, 2024, req.EndYear)
}

func TestRequestNormalizeRejectsBadRanges(t *testing.T) {
	assert.Error(t, (&Request{}).Normalize())
	assert.Error(t, (&Request{StartYear: 2007}).Normalize())
	assert.Error(t, (&Request{StartYear: 2024, EndYear: 2022}).Normalize())
}

func TestRequestDeriveType(t *testing.T) {
	assert.Equal(t, JobTypeSeason, Request{StartYear: 2024, EndYear: 2024}.DeriveType())
	assert.Equal(t, JobTypeYearRange, Request{StartYear: 2022, EndYear: 2024}.DeriveType())
}

func TestJobSpecKeepsDryRunAndTeams(t *testing.T) {
	job := &Job{
		JobType:   JobTypeYearRange,
		StartYear: 2022,
		EndYear:   2024,
		Teams:     []string{"Duke", "Houston"},
		DryRun:    true,
	}

	spec := job.Spec()
	assert.Equal(t, JobTypeYearRange, spec.Type)
	assert.Equal(t, 2022, spec.StartYear)
	assert.Equal(t, 2024, spec.EndYear)
	assert.Equal(t, []string{"Duke", "Houston"}, spec.Teams)
	assert.True(t, spec.DryRun, "a queued dry run must stay a dry run when the worker claims it")
}

func TestJobSpecYears(t *testing.T) {
	assert.Equal(t, []int{2022, 2023, 2024}, JobSpec{StartYear: 2022, EndYear: 2024}.Years())
	assert.Equal(t, []int{2024}, JobSpec{StartYear: 2024, EndYear: 2024}.Years())

	// A reversed span still enumerates ascending.
	assert.Equal(t, []int{2022, 2023}, JobSpec{StartYear: 2023, EndYear: 2022}.Years())
}
