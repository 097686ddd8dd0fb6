// Package service composes repositories, the aggregation core, and the cache
// into the operations the API exposes.
package service

import (
	"fmt"
	"sort"

	"github.com/fortuna/athena/internal/stats"
	"github.com/fortuna/athena/internal/store"
)

// Scope selects the population a player is ranked against.
type Scope string

const (
	// ScopeTeam ranks players against their own roster.
	ScopeTeam Scope = "team"
	// ScopeNational ranks players against every player in the year.
	ScopeNational Scope = "national"
)

// ParseScope validates a scope query parameter, defaulting empty to team.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeTeam:
		return ScopeTeam, nil
	case ScopeNational:
		return ScopeNational, nil
	default:
		return "", fmt.Errorf("unknown scope %q (want team or national)", s)
	}
}

// groupByPlayer splits stored lines into per-player record slices, each
// ordered as stored (oldest game first).
func groupByPlayer(lines []store.GameLine) map[int][]stats.GameRecord {
	grouped := make(map[int][]stats.GameRecord)
	for i := range lines {
		rec := lines[i].ToRecord()
		grouped[rec.PlayerID] = append(grouped[rec.PlayerID], rec)
	}
	return grouped
}

// aggregateSeason folds each player's records into a season aggregate.
func aggregateSeason(grouped map[int][]stats.GameRecord) ([]stats.SeasonAggregate, error) {
	aggs := make([]stats.SeasonAggregate, 0, len(grouped))
	for pid, records := range grouped {
		agg, err := stats.Aggregate(records)
		if err != nil {
			return nil, fmt.Errorf("aggregating player %d: %w", pid, err)
		}
		aggs = append(aggs, agg)
	}
	sortAggregates(aggs)
	return aggs, nil
}

// aggregateRolling folds each player's records over the trailing window.
// Players with no games in their window still get a zero-value entry.
func aggregateRolling(grouped map[int][]stats.GameRecord, days int) ([]stats.SeasonAggregate, error) {
	aggs := make([]stats.SeasonAggregate, 0, len(grouped))
	for pid, records := range grouped {
		agg, _, err := stats.AggregateWindow(records, days)
		if err != nil {
			return nil, fmt.Errorf("windowing player %d: %w", pid, err)
		}
		aggs = append(aggs, agg)
	}
	sortAggregates(aggs)
	return aggs, nil
}

func sortAggregates(aggs []stats.SeasonAggregate) {
	sort.Slice(aggs, func(i, j int) bool { return aggs[i].PlayerID < aggs[j].PlayerID })
}

// constantsByPlayer indexes season lines for rolling-mode ranking.
func constantsByPlayer(lines []store.SeasonLine) map[int]*stats.SeasonConstants {
	out := make(map[int]*stats.SeasonConstants, len(lines))
	for i := range lines {
		c := lines[i].ToConstants()
		out[c.PlayerID] = &c
	}
	return out
}

// assembleAll ranks and flattens a subset of aggregates against a table
// built from the full population. keep filters output to a roster when the
// population is wider than the response; nil keeps everyone.
func assembleAll(aggs []stats.SeasonAggregate, constants map[int]*stats.SeasonConstants, table *stats.Table, keep func(*stats.SeasonAggregate) bool) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(aggs))
	for i := range aggs {
		if keep != nil && !keep(&aggs[i]) {
			continue
		}
		obj, err := stats.AssembleRanked(&aggs[i], constants[aggs[i].PlayerID], table)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}
