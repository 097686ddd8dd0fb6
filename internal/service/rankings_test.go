package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/athena/internal/stats"
	"github.com/fortuna/athena/internal/store"
)

func line(pid int, team string, day, pts int) store.GameLine {
	return store.GameLine{
		PlayerID:   pid,
		PlayerName: "Player",
		Team:       team,
		Year:       2025,
		GameDate:   time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC),
		Opponent:   "Opponent",
		Pts:        sql.NullFloat64{Float64: float64(pts), Valid: true},
	}
}

func TestParseScope(t *testing.T) {
	scope, err := ParseScope("")
	require.NoError(t, err)
	assert.Equal(t, ScopeTeam, scope)

	scope, err = ParseScope("team")
	require.NoError(t, err)
	assert.Equal(t, ScopeTeam, scope)

	scope, err = ParseScope("national")
	require.NoError(t, err)
	assert.Equal(t, ScopeNational, scope)

	_, err = ParseScope("conference")
	assert.Error(t, err)
}

func TestGroupByPlayerPreservesStoredOrder(t *testing.T) {
	lines := []store.GameLine{
		line(1, "Purdue", 2, 10),
		line(2, "Purdue", 2, 8),
		line(1, "Purdue", 5, 20),
	}

	grouped := groupByPlayer(lines)
	require.Len(t, grouped, 2)
	require.Len(t, grouped[1], 2)
	assert.Equal(t, 2, grouped[1][0].GameDate.Day())
	assert.Equal(t, 5, grouped[1][1].GameDate.Day())
	require.Len(t, grouped[2], 1)
}

func TestAggregateSeasonSortedByPlayer(t *testing.T) {
	grouped := groupByPlayer([]store.GameLine{
		line(9, "Purdue", 2, 12),
		line(3, "Purdue", 2, 18),
		line(3, "Purdue", 4, 22),
	})

	aggs, err := aggregateSeason(grouped)
	require.NoError(t, err)
	require.Len(t, aggs, 2)

	assert.Equal(t, 3, aggs[0].PlayerID)
	assert.Equal(t, 9, aggs[1].PlayerID)
	assert.Equal(t, 2, aggs[0].GamesPlayed)
	require.NotNil(t, aggs[0].AvgPts)
	assert.InDelta(t, 20.0, *aggs[0].AvgPts, 1e-9)
}

func TestAggregateRollingWindowsEachPlayer(t *testing.T) {
	// Player 1's games are 40 days apart; a 30-day window keeps only the
	// later one. Player 2 has a single game, trivially in window.
	grouped := groupByPlayer([]store.GameLine{
		line(1, "Purdue", 1, 10),
		{
			PlayerID: 1, PlayerName: "Player", Team: "Purdue", Year: 2025,
			GameDate: time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
			Opponent: "Opponent",
			Pts:      sql.NullFloat64{Float64: 30, Valid: true},
		},
		line(2, "Purdue", 3, 6),
	})

	aggs, err := aggregateRolling(grouped, 30)
	require.NoError(t, err)
	require.Len(t, aggs, 2)

	assert.Equal(t, 1, aggs[0].GamesPlayed)
	require.NotNil(t, aggs[0].AvgPts)
	assert.InDelta(t, 30.0, *aggs[0].AvgPts, 1e-9)

	assert.Equal(t, 1, aggs[1].GamesPlayed)
	require.NotNil(t, aggs[1].AvgPts)
	assert.InDelta(t, 6.0, *aggs[1].AvgPts, 1e-9)
}

func TestConstantsByPlayer(t *testing.T) {
	lines := []store.SeasonLine{
		{
			PlayerID: 7, PlayerName: "Player", Team: "Purdue", Year: 2025,
			Conf:   sql.NullString{String: "B10", Valid: true},
			Porpag: sql.NullFloat64{Float64: 4.2, Valid: true},
		},
	}

	constants := constantsByPlayer(lines)
	require.Contains(t, constants, 7)
	require.NotNil(t, constants[7].Conf)
	assert.Equal(t, "B10", *constants[7].Conf)
	require.NotNil(t, constants[7].Porpag)
	assert.InDelta(t, 4.2, *constants[7].Porpag, 1e-9)
	assert.Nil(t, constants[7].Drtg)
}

func TestKeepTeamOnlyFiltersNationalScope(t *testing.T) {
	assert.Nil(t, keepTeam("Purdue", ScopeTeam))

	keep := keepTeam("Purdue", ScopeNational)
	require.NotNil(t, keep)
	assert.True(t, keep(&stats.SeasonAggregate{Team: "Purdue"}))
	assert.False(t, keep(&stats.SeasonAggregate{Team: "Kansas"}))
}

func TestAssembleAllAppliesKeepFilter(t *testing.T) {
	grouped := groupByPlayer([]store.GameLine{
		line(1, "Purdue", 2, 10),
		line(2, "Kansas", 2, 20),
	})
	aggs, err := aggregateSeason(grouped)
	require.NoError(t, err)

	table := stats.BuildTable(aggs, nil, stats.ModeSeason)
	out, err := assembleAll(aggs, nil, table, keepTeam("Purdue", ScopeNational))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Purdue", out[0]["team"])

	// Percentiles still rank against the full two-player population.
	require.Contains(t, out[0], "pct_pts")
	require.IsType(t, float64(0), out[0]["pct_pts"])
	assert.InDelta(t, 0.0, out[0]["pct_pts"].(float64), 1e-9)
}
