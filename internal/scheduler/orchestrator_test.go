package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextRunAt(t *testing.T) {
	loc := time.UTC

	// Before today's run hour: runs today.
	now := time.Date(2025, time.January, 15, 2, 30, 0, 0, loc)
	next := nextRunAt(now, 5)
	assert.Equal(t, time.Date(2025, time.January, 15, 5, 0, 0, 0, loc), next)

	// After today's run hour: runs tomorrow.
	now = time.Date(2025, time.January, 15, 9, 0, 0, 0, loc)
	next = nextRunAt(now, 5)
	assert.Equal(t, time.Date(2025, time.January, 16, 5, 0, 0, 0, loc), next)

	// Month boundary carries over.
	now = time.Date(2025, time.January, 31, 23, 0, 0, 0, loc)
	next = nextRunAt(now, 5)
	assert.Equal(t, time.Date(2025, time.February, 1, 5, 0, 0, 0, loc), next)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.EnableDailyRefresh)
	assert.Equal(t, 5, cfg.DailyRefreshHour)
	assert.Equal(t, 3, cfg.MaxRetries)
}
