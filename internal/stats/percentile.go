package stats

import "sort"

// Table holds, per metric, the population of values a player is ranked
// against. Players with a nil value for a metric are excluded from that
// metric's population entirely; they get a nil percentile, and they do not
// deflate anyone else's rank.
type Table struct {
	mode   Mode
	values map[string]map[int]float64 // metric -> player -> value
	sorted map[string][]float64
}

// BuildTable ranks every aggregate in aggs against each other. The slice is
// the comparison population: pass a roster for team scope or every player in
// the year for national scope. constants supplies the season-long values
// ranked in rolling mode, keyed by player; nil is fine for season mode.
func BuildTable(aggs []SeasonAggregate, constants map[int]*SeasonConstants, mode Mode) *Table {
	t := &Table{
		mode:   mode,
		values: make(map[string]map[int]float64),
		sorted: make(map[string][]float64),
	}

	for _, m := range Registry {
		if !m.RankedIn(mode) {
			continue
		}
		pop := make(map[int]float64)
		for i := range aggs {
			if v := m.FromAggregate(&aggs[i]); v != nil {
				pop[aggs[i].PlayerID] = *v
			}
		}
		t.add(m.Name, pop)
	}

	if mode == ModeRolling {
		for _, cm := range ConstantMetrics {
			pop := make(map[int]float64)
			for pid, c := range constants {
				if c == nil {
					continue
				}
				if v := cm.From(c); v != nil {
					pop[pid] = *v
				}
			}
			t.add(cm.Name, pop)
		}
	}
	return t
}

func (t *Table) add(metric string, pop map[int]float64) {
	vals := make([]float64, 0, len(pop))
	for _, v := range pop {
		vals = append(vals, v)
	}
	sort.Float64s(vals)
	t.values[metric] = pop
	t.sorted[metric] = vals
}

// Percentile returns the player's midpoint-rank percentile for a metric, or
// nil when the player has no value for it or the population is too small to
// rank (n <= 1). Ties share a rank: with values below and equal counted
// against the player's own value v,
//
//	p = 100 * (below + 0.5*(equal-1)) / (n-1)
//
// so every member of an all-equal population lands at 50. Metrics in the
// Inversion Set come back flipped (100 - p).
func (t *Table) Percentile(metric string, playerID int) *float64 {
	pop, ok := t.values[metric]
	if !ok {
		return nil
	}
	v, ok := pop[playerID]
	if !ok {
		return nil
	}
	vals := t.sorted[metric]
	n := len(vals)
	if n <= 1 {
		return nil
	}

	below := sort.SearchFloat64s(vals, v)
	equal := 0
	for i := below; i < n && vals[i] == v; i++ {
		equal++
	}

	p := 100 * (float64(below) + 0.5*float64(equal-1)) / float64(n-1)
	if Inverted(metric) {
		p = 100 - p
	}
	return Float(p)
}

// Ranked reports whether the table carries a population for the metric,
// i.e. whether the metric is ranked in this table's mode.
func (t *Table) Ranked(metric string) bool {
	_, ok := t.values[metric]
	return ok
}

// Mode returns the mode the table was built for.
func (t *Table) Mode() Mode { return t.mode }
