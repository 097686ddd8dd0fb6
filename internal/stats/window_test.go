package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gameOn(date time.Time, pts float64) GameRecord {
	return GameRecord{
		PlayerID:   5,
		PlayerName: "Window Player",
		Team:       "Gonzaga",
		Year:       2025,
		GameDate:   date,
		Pts:        Float(pts),
	}
}

func TestSelectWindowInvalidDays(t *testing.T) {
	_, _, err := SelectWindow([]GameRecord{gameOn(time.Now(), 10)}, 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, _, err = SelectWindow(nil, -7)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestSelectWindowAnchorsAtLatestGame(t *testing.T) {
	latest := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []GameRecord{
		gameOn(latest.AddDate(0, 0, -40), 8), // outside
		gameOn(latest.AddDate(0, 0, -20), 12),
		gameOn(latest, 18),
	}
	windowed, span, err := SelectWindow(records, 30)
	require.NoError(t, err)

	assert.Len(t, windowed, 2)
	assert.Equal(t, latest, span.To)
	assert.Equal(t, latest.AddDate(0, 0, -30), span.From)
}

func TestSelectWindowBoundsInclusive(t *testing.T) {
	latest := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	edge := latest.AddDate(0, 0, -30)
	records := []GameRecord{gameOn(edge, 6), gameOn(latest, 9)}

	windowed, _, err := SelectWindow(records, 30)
	require.NoError(t, err)
	assert.Len(t, windowed, 2, "both boundary dates belong to the window")
}

func TestSelectWindowUnorderedInput(t *testing.T) {
	latest := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)
	records := []GameRecord{
		gameOn(latest, 10),
		gameOn(latest.AddDate(0, 0, -45), 7),
		gameOn(latest.AddDate(0, 0, -10), 14),
	}
	_, span, err := SelectWindow(records, 30)
	require.NoError(t, err)
	assert.Equal(t, latest, span.To, "anchor is the max date regardless of input order")
}

func TestAggregateWindowEmptyWindowZeroValue(t *testing.T) {
	latest := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []GameRecord{gameOn(latest, 10)}

	// With the window anchored at the latest game, the only empty case is
	// having no games at all.
	agg, _, err := AggregateWindow(nil, 30)
	require.NoError(t, err)
	assert.Equal(t, 0, agg.GamesPlayed)
	assert.Nil(t, agg.AvgPts)

	// And the populated case keeps identity.
	agg, span, err := AggregateWindow(records, 30)
	require.NoError(t, err)
	assert.Equal(t, 5, agg.PlayerID)
	assert.Equal(t, 1, agg.GamesPlayed)
	assert.Equal(t, latest, span.To)
}

func TestAggregateWindowAggregatesOnlyWindowGames(t *testing.T) {
	latest := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []GameRecord{
		gameOn(latest.AddDate(0, 0, -60), 30), // outside, would inflate the mean
		gameOn(latest.AddDate(0, 0, -5), 10),
		gameOn(latest, 20),
	}
	agg, _, err := AggregateWindow(records, 30)
	require.NoError(t, err)

	assert.Equal(t, 2, agg.GamesPlayed)
	require.NotNil(t, agg.AvgPts)
	assert.InDelta(t, 15, *agg.AvgPts, 1e-9)
}

func TestAggregateWindowCoveringSpanMatchesSeason(t *testing.T) {
	latest := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []GameRecord{
		gameOn(latest.AddDate(0, 0, -50), 8),
		gameOn(latest.AddDate(0, 0, -20), 12),
		gameOn(latest, 16),
	}

	season, err := Aggregate(records)
	require.NoError(t, err)

	windowed, _, err := AggregateWindow(records, 60)
	require.NoError(t, err)

	assert.Equal(t, season.GamesPlayed, windowed.GamesPlayed)
	require.NotNil(t, windowed.AvgPts)
	assert.InDelta(t, *season.AvgPts, *windowed.AvgPts, 1e-9)
	require.NotNil(t, windowed.TotPts)
	assert.InDelta(t, *season.TotPts, *windowed.TotPts, 1e-9)
}
