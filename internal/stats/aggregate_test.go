package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func game(day int, mutate func(*GameRecord)) GameRecord {
	g := GameRecord{
		PlayerID:   77,
		PlayerName: "Test Player",
		Team:       "Purdue",
		Year:       2025,
		GameDate:   time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
	}
	if mutate != nil {
		mutate(&g)
	}
	return g
}

func TestAggregateEmptyInput(t *testing.T) {
	_, err := Aggregate(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestAggregateIdentityAndGamesPlayed(t *testing.T) {
	agg, err := Aggregate([]GameRecord{game(1, nil), game(2, nil), game(3, nil)})
	require.NoError(t, err)
	assert.Equal(t, 77, agg.PlayerID)
	assert.Equal(t, "Test Player", agg.PlayerName)
	assert.Equal(t, "Purdue", agg.Team)
	assert.Equal(t, 2025, agg.Year)
	assert.Equal(t, 3, agg.GamesPlayed)
}

func TestAggregateSkipsMissingGamesPerMetric(t *testing.T) {
	records := []GameRecord{
		game(1, func(g *GameRecord) { g.ORtg = Float(100) }),
		game(2, nil), // o_rtg missing this game
		game(3, func(g *GameRecord) { g.ORtg = Float(120) }),
	}
	agg, err := Aggregate(records)
	require.NoError(t, err)

	// Mean over the two games that have the value, not over all three.
	require.NotNil(t, agg.AvgORtg)
	assert.InDelta(t, 110, *agg.AvgORtg, 1e-9)
	assert.Equal(t, 3, agg.GamesPlayed)
}

func TestAggregateAllMissingStaysNil(t *testing.T) {
	agg, err := Aggregate([]GameRecord{game(1, nil), game(2, nil)})
	require.NoError(t, err)
	assert.Nil(t, agg.AvgORtg)
	assert.Nil(t, agg.TotPts)
	assert.Nil(t, agg.AvgPts)
	assert.Nil(t, agg.FTPct)
}

func TestAggregateCountingTotalsAndMeans(t *testing.T) {
	records := []GameRecord{
		game(1, func(g *GameRecord) { g.Pts, g.AST = Float(20), Float(5) }),
		game(2, func(g *GameRecord) { g.Pts, g.AST = Float(10), Float(3) }),
	}
	agg, err := Aggregate(records)
	require.NoError(t, err)

	require.NotNil(t, agg.TotPts)
	require.NotNil(t, agg.AvgPts)
	assert.InDelta(t, 30, *agg.TotPts, 1e-9)
	assert.InDelta(t, 15, *agg.AvgPts, 1e-9)
	assert.InDelta(t, 8, *agg.TotAST, 1e-9)
	assert.InDelta(t, 4, *agg.AvgAST, 1e-9)
}

func TestAggregateShootingSplitsFromTotals(t *testing.T) {
	// 3/4 then 1/4 from the line: 4/8 overall, not the mean of 75% and 25%
	// weighted per game.
	records := []GameRecord{
		game(1, func(g *GameRecord) { g.FTM, g.FTA = Float(3), Float(4) }),
		game(2, func(g *GameRecord) { g.FTM, g.FTA = Float(1), Float(4) }),
	}
	agg, err := Aggregate(records)
	require.NoError(t, err)

	require.NotNil(t, agg.FTPct)
	assert.InDelta(t, 0.5, *agg.FTPct, 1e-9)
}

func TestAggregateZeroAttemptsUndefined(t *testing.T) {
	records := []GameRecord{
		game(1, func(g *GameRecord) { g.FTM, g.FTA = Float(0), Float(0) }),
	}
	agg, err := Aggregate(records)
	require.NoError(t, err)
	assert.Nil(t, agg.FTPct)
}

func TestAggregateAstTov(t *testing.T) {
	records := []GameRecord{
		game(1, func(g *GameRecord) { g.AST, g.TOV = Float(6), Float(2) }),
		game(2, func(g *GameRecord) { g.AST, g.TOV = Float(2), Float(2) }),
	}
	agg, err := Aggregate(records)
	require.NoError(t, err)

	require.NotNil(t, agg.AstTov)
	assert.InDelta(t, 2, *agg.AstTov, 1e-9)
}

func TestAggregateAstTovZeroTurnovers(t *testing.T) {
	records := []GameRecord{
		game(1, func(g *GameRecord) { g.AST, g.TOV = Float(6), Float(0) }),
	}
	agg, err := Aggregate(records)
	require.NoError(t, err)
	assert.Nil(t, agg.AstTov)
}

func TestAggregateThreeRate(t *testing.T) {
	records := []GameRecord{
		game(1, func(g *GameRecord) { g.TPA, g.TwoPA = Float(6), Float(4) }),
		game(2, func(g *GameRecord) { g.TPA, g.TwoPA = Float(2), Float(8) }),
	}
	agg, err := Aggregate(records)
	require.NoError(t, err)

	// 8 threes attempted out of 20 field goal attempts.
	require.NotNil(t, agg.ThreeRate)
	assert.InDelta(t, 0.4, *agg.ThreeRate, 1e-9)
}

func TestAggregateThreePer100(t *testing.T) {
	records := []GameRecord{
		game(1, func(g *GameRecord) { g.TPM, g.Possessions = Float(3), Float(60) }),
		game(2, func(g *GameRecord) { g.TPM, g.Possessions = Float(1), Float(40) }),
	}
	agg, err := Aggregate(records)
	require.NoError(t, err)

	// 4 makes over 100 possessions.
	require.NotNil(t, agg.ThreePer100)
	assert.InDelta(t, 4, *agg.ThreePer100, 1e-9)
}

func TestAggregateFoulsPer40(t *testing.T) {
	records := []GameRecord{
		game(1, func(g *GameRecord) { g.PF, g.MinPct = Float(3), Float(100) }), // full game
		game(2, func(g *GameRecord) { g.PF, g.MinPct = Float(1), Float(50) }),  // half game
	}
	agg, err := Aggregate(records)
	require.NoError(t, err)

	// 4 fouls across 1.5 full-game equivalents.
	require.NotNil(t, agg.FoulsPer40)
	assert.InDelta(t, 4.0/1.5, *agg.FoulsPer40, 1e-9)
}

func TestAggregateFoulsPer40NeedsBothColumns(t *testing.T) {
	records := []GameRecord{
		game(1, func(g *GameRecord) { g.PF = Float(3) }), // minutes missing
	}
	agg, err := Aggregate(records)
	require.NoError(t, err)
	assert.Nil(t, agg.FoulsPer40)
}
