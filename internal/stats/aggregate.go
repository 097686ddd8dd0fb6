package stats

// Aggregate folds a player's game records into a season (or window) line.
// Each metric's mean divides by the number of games where that metric was
// present, not by total games played, so a missing box-score column never
// drags an average toward zero. A metric absent from every game stays nil.
//
// Records must belong to a single player; identity fields are taken from the
// first record. Returns ErrEmptyInput when records is empty.
func Aggregate(records []GameRecord) (SeasonAggregate, error) {
	if len(records) == 0 {
		return SeasonAggregate{}, ErrEmptyInput
	}

	agg := SeasonAggregate{
		PlayerID:    records[0].PlayerID,
		PlayerName:  records[0].PlayerName,
		Team:        records[0].Team,
		Year:        records[0].Year,
		GamesPlayed: len(records),
	}

	for _, m := range Registry {
		if m.Derived {
			continue
		}
		var sum float64
		var n int
		for i := range records {
			if v := m.FromGame(&records[i]); v != nil {
				sum += *v
				n++
			}
		}
		if n == 0 {
			continue
		}
		avg := Float(sum / float64(n))
		if m.Counting {
			m.assign(&agg, Float(sum), avg)
		} else {
			m.assign(&agg, nil, avg)
		}
	}

	agg.FTPct = ratio(agg.TotFTM, agg.TotFTA)
	agg.TwoPct = ratio(agg.TotTwoPM, agg.TotTwoPA)
	agg.ThreePct = ratio(agg.TotTPM, agg.TotTPA)
	agg.RimPct = ratio(agg.TotRimMade, agg.TotRimAtt)
	agg.MidPct = ratio(agg.TotMidMade, agg.TotMidAtt)
	agg.DunkPct = ratio(agg.TotDunksMade, agg.TotDunksAtt)
	agg.AstTov = ratio(agg.TotAST, agg.TotTOV)
	agg.ThreeRate = ratio(agg.TotTPA, addTotals(agg.TotTPA, agg.TotTwoPA))
	agg.ThreePer100 = scale(100, ratio(agg.TotTPM, agg.TotPossessions))
	agg.FoulsPer40 = foulsPer40(records)

	return agg, nil
}

// ratio is num/den, nil when either total is missing or den is zero. A
// zero-attempt shooting split is undefined, never 0%.
func ratio(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	return Float(*num / *den)
}

func addTotals(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	return Float(*a + *b)
}

func scale(k float64, v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Float(k * *v)
}

// foulsPer40 computes fouls per 40 minutes from game-level fouls and minutes
// share. min_per is a percentage of a 40-minute game, so minutes = min_per/100
// * 40 and pfr = Σpf / Σ(min_per/100). Games missing either column drop out
// of both sums.
func foulsPer40(records []GameRecord) *float64 {
	var fouls, shares float64
	var n int
	for i := range records {
		g := &records[i]
		if g.PF == nil || g.MinPct == nil {
			continue
		}
		fouls += *g.PF
		shares += *g.MinPct / 100
		n++
	}
	if n == 0 || shares == 0 {
		return nil
	}
	return Float(fouls / shares)
}
