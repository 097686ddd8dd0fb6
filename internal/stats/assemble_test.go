package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleRankedSeasonShape(t *testing.T) {
	aggs := []SeasonAggregate{
		{PlayerID: 1, PlayerName: "A", AvgPts: Float(10)},
		{PlayerID: 2, PlayerName: "B", AvgPts: Float(20)},
	}
	table := BuildTable(aggs, nil, ModeSeason)

	obj, err := AssembleRanked(&aggs[1], nil, table)
	require.NoError(t, err)

	assert.Equal(t, "B", obj["player_name"])
	assert.InDelta(t, 20, obj["avg_pts"].(float64), 1e-9)
	assert.InDelta(t, 100, obj["pct_pts"].(float64), 1e-9)

	// Every ranked metric gets a pct_ key even when unrankable.
	for _, name := range RankedNames(ModeSeason) {
		_, ok := obj["pct_"+name]
		assert.True(t, ok, "missing pct_%s", name)
	}
	assert.Nil(t, obj["pct_o_rtg"], "no o_rtg population, key still present as null")

	// Season mode carries no constants.
	_, ok := obj["pct_porpag"]
	assert.False(t, ok)
	_, ok = obj["porpag"]
	assert.False(t, ok)
}

func TestAssembleRankedRollingMergesConstants(t *testing.T) {
	aggs := []SeasonAggregate{
		{PlayerID: 1, AvgPts: Float(10)},
		{PlayerID: 2, AvgPts: Float(20)},
	}
	constants := map[int]*SeasonConstants{
		1: {PlayerID: 1, Porpag: Float(2.5), Conf: strPtr("B10")},
		2: {PlayerID: 2, Porpag: Float(1.5)},
	}
	table := BuildTable(aggs, constants, ModeRolling)

	obj, err := AssembleRanked(&aggs[0], constants[1], table)
	require.NoError(t, err)

	assert.Equal(t, "B10", obj["conf"])
	assert.InDelta(t, 2.5, obj["porpag"].(float64), 1e-9)
	assert.InDelta(t, 100, obj["pct_porpag"].(float64), 1e-9)

	// Season-only metrics get no pct_ key in rolling mode.
	_, ok := obj["pct_ft_pct"]
	assert.False(t, ok)
}

func TestAssembleRankedRollingNilConstants(t *testing.T) {
	aggs := []SeasonAggregate{
		{PlayerID: 1, AvgPts: Float(10)},
		{PlayerID: 2, AvgPts: Float(20)},
	}
	table := BuildTable(aggs, nil, ModeRolling)

	obj, err := AssembleRanked(&aggs[0], nil, table)
	require.NoError(t, err)

	// A player with no season line still has the full key set, as nulls.
	for _, key := range []string{"conf", "role", "porpag", "drtg", "pct_porpag", "pct_drtg"} {
		v, ok := obj[key]
		require.True(t, ok, "missing %s", key)
		assert.Nil(t, v, key)
	}
}

func strPtr(s string) *string { return &s }
