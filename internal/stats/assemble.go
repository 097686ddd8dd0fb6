package stats

import (
	"encoding/json"
	"fmt"
)

// AssembleRanked flattens an aggregate into the wire object, attaching a
// pct_<metric> key for every metric the table's mode ranks. Unrankable
// metrics (small population, player missing from population) come through
// as explicit nulls so every record in a response has the same keys.
//
// constants is merged in for rolling tables and ignored otherwise; pass nil
// for season mode.
func AssembleRanked(agg *SeasonAggregate, constants *SeasonConstants, table *Table) (map[string]any, error) {
	out, err := flatten(agg)
	if err != nil {
		return nil, fmt.Errorf("flattening aggregate for player %d: %w", agg.PlayerID, err)
	}

	if table.Mode() == ModeRolling {
		var merged map[string]any
		if constants != nil {
			merged, err = flatten(constants)
			if err != nil {
				return nil, fmt.Errorf("flattening season constants for player %d: %w", agg.PlayerID, err)
			}
		} else {
			// No season line on file: emit the keys anyway, as nulls.
			merged = map[string]any{
				"conf": nil, "role": nil, "class": nil, "height": nil,
				"porpag": nil, "dporpag": nil, "drtg": nil, "adjoe": nil,
			}
		}
		for k, v := range merged {
			out[k] = v
		}
	}

	for _, name := range RankedNames(table.Mode()) {
		key := "pct_" + name
		if p := table.Percentile(name, agg.PlayerID); p != nil {
			out[key] = *p
		} else {
			out[key] = nil
		}
	}
	return out, nil
}

func flatten(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
