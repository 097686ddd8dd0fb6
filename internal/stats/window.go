package stats

import "time"

// WindowSpan is the inclusive date range a rolling aggregate covered.
type WindowSpan struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// SelectWindow filters records to the trailing lastNDays window. The window
// is anchored at the most recent game date present in records, not the wall
// clock, so off-season queries still rank the end of the schedule. Bounds
// are inclusive on both ends.
//
// Returns ErrInvalidWindow when lastNDays < 1. An empty input or a window
// that no game falls into yields an empty slice, not an error.
func SelectWindow(records []GameRecord, lastNDays int) ([]GameRecord, WindowSpan, error) {
	if lastNDays < 1 {
		return nil, WindowSpan{}, ErrInvalidWindow
	}
	if len(records) == 0 {
		return nil, WindowSpan{}, nil
	}

	anchor := records[0].GameDate
	for i := range records[1:] {
		if records[i+1].GameDate.After(anchor) {
			anchor = records[i+1].GameDate
		}
	}
	from := anchor.AddDate(0, 0, -lastNDays)

	span := WindowSpan{From: from, To: anchor}
	var out []GameRecord
	for i := range records {
		d := records[i].GameDate
		if !d.Before(from) && !d.After(anchor) {
			out = append(out, records[i])
		}
	}
	return out, span, nil
}

// AggregateWindow aggregates only the games inside the trailing window. A
// player with no games in the window gets a zero-value aggregate (identity
// filled in, GamesPlayed 0, every metric nil) rather than an error, so a
// roster response can still list them.
func AggregateWindow(records []GameRecord, lastNDays int) (SeasonAggregate, WindowSpan, error) {
	windowed, span, err := SelectWindow(records, lastNDays)
	if err != nil {
		return SeasonAggregate{}, WindowSpan{}, err
	}
	if len(windowed) == 0 {
		agg := SeasonAggregate{}
		if len(records) > 0 {
			agg.PlayerID = records[0].PlayerID
			agg.PlayerName = records[0].PlayerName
			agg.Team = records[0].Team
			agg.Year = records[0].Year
		}
		return agg, span, nil
	}
	agg, err := Aggregate(windowed)
	if err != nil {
		return SeasonAggregate{}, WindowSpan{}, err
	}
	return agg, span, nil
}
