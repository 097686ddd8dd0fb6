package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aggWithPts(pid int, avg float64) SeasonAggregate {
	return SeasonAggregate{PlayerID: pid, AvgPts: Float(avg)}
}

func TestPercentileDistinctValues(t *testing.T) {
	aggs := []SeasonAggregate{
		aggWithPts(1, 10),
		aggWithPts(2, 20),
		aggWithPts(3, 30),
	}
	table := BuildTable(aggs, nil, ModeSeason)

	low := table.Percentile("pts", 1)
	mid := table.Percentile("pts", 2)
	high := table.Percentile("pts", 3)
	require.NotNil(t, low)
	require.NotNil(t, mid)
	require.NotNil(t, high)
	assert.InDelta(t, 0, *low, 1e-9)
	assert.InDelta(t, 50, *mid, 1e-9)
	assert.InDelta(t, 100, *high, 1e-9)
}

func TestPercentileAllEqual(t *testing.T) {
	aggs := []SeasonAggregate{
		aggWithPts(1, 12),
		aggWithPts(2, 12),
		aggWithPts(3, 12),
		aggWithPts(4, 12),
	}
	table := BuildTable(aggs, nil, ModeSeason)

	for pid := 1; pid <= 4; pid++ {
		p := table.Percentile("pts", pid)
		require.NotNil(t, p, "player %d", pid)
		assert.InDelta(t, 50, *p, 1e-9, "player %d", pid)
	}
}

func TestPercentileTiesShareRank(t *testing.T) {
	aggs := []SeasonAggregate{
		aggWithPts(1, 10),
		aggWithPts(2, 20),
		aggWithPts(3, 20),
		aggWithPts(4, 30),
	}
	table := BuildTable(aggs, nil, ModeSeason)

	p2 := table.Percentile("pts", 2)
	p3 := table.Percentile("pts", 3)
	require.NotNil(t, p2)
	require.NotNil(t, p3)
	assert.Equal(t, *p2, *p3)
	// below=1, equal=2, n=4: (1 + 0.5) / 3 * 100
	assert.InDelta(t, 50, *p2, 1e-9)
}

func TestPercentileInversion(t *testing.T) {
	aggs := []SeasonAggregate{
		{PlayerID: 1, AvgTOPct: Float(10)},
		{PlayerID: 2, AvgTOPct: Float(20)},
		{PlayerID: 3, AvgTOPct: Float(30)},
	}
	table := BuildTable(aggs, nil, ModeSeason)

	// Lower turnover rate is better, so the lowest value ranks at 100.
	low := table.Percentile("to_per", 1)
	high := table.Percentile("to_per", 3)
	require.NotNil(t, low)
	require.NotNil(t, high)
	assert.InDelta(t, 100, *low, 1e-9)
	assert.InDelta(t, 0, *high, 1e-9)
}

func TestPercentileSmallPopulation(t *testing.T) {
	table := BuildTable([]SeasonAggregate{aggWithPts(1, 10)}, nil, ModeSeason)
	assert.Nil(t, table.Percentile("pts", 1))
}

func TestPercentileMissingValueExcludedFromPopulation(t *testing.T) {
	aggs := []SeasonAggregate{
		aggWithPts(1, 10),
		{PlayerID: 2}, // no pts on file
		aggWithPts(3, 30),
	}
	table := BuildTable(aggs, nil, ModeSeason)

	assert.Nil(t, table.Percentile("pts", 2))

	// Player 2 must not count toward anyone's n: population is [10, 30].
	high := table.Percentile("pts", 3)
	require.NotNil(t, high)
	assert.InDelta(t, 100, *high, 1e-9)
}

func TestRollingTableRanksConstants(t *testing.T) {
	aggs := []SeasonAggregate{aggWithPts(1, 10), aggWithPts(2, 20)}
	constants := map[int]*SeasonConstants{
		1: {PlayerID: 1, Drtg: Float(95), Porpag: Float(2.1)},
		2: {PlayerID: 2, Drtg: Float(105), Porpag: Float(1.4)},
	}
	table := BuildTable(aggs, constants, ModeRolling)

	// drtg is inverted: the lower defensive rating ranks at 100.
	p := table.Percentile("drtg", 1)
	require.NotNil(t, p)
	assert.InDelta(t, 100, *p, 1e-9)

	p = table.Percentile("porpag", 1)
	require.NotNil(t, p)
	assert.InDelta(t, 100, *p, 1e-9)
}

func TestRollingTableSkipsSeasonOnlyMetrics(t *testing.T) {
	aggs := []SeasonAggregate{
		{PlayerID: 1, FTPct: Float(0.8), AvgPts: Float(10)},
		{PlayerID: 2, FTPct: Float(0.6), AvgPts: Float(20)},
	}
	table := BuildTable(aggs, nil, ModeRolling)

	assert.False(t, table.Ranked("ft_pct"))
	assert.True(t, table.Ranked("pts"))
}

func TestSeasonTableSkipsConstants(t *testing.T) {
	aggs := []SeasonAggregate{aggWithPts(1, 10), aggWithPts(2, 20)}
	table := BuildTable(aggs, nil, ModeSeason)
	assert.False(t, table.Ranked("porpag"))
}
