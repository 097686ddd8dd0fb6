package stats

// Mode selects which metrics get percentile-ranked in a response. Season mode
// ranks every registry metric; rolling mode ranks the per-game subset the
// rolling view exposes, plus the four season-long constants.
type Mode int

const (
	ModeSeason Mode = iota
	ModeRolling
)

// Metric is one entry of the registry: the single place that defines a
// metric's wire name, how it is read from a game record and from an
// aggregate, whether it carries a total, and in which modes it is ranked.
type Metric struct {
	Name     string
	Counting bool // summed counting stat (total + per-game mean)
	Derived  bool // computed from aggregated totals, not per-game values
	Rolling  bool // ranked in rolling mode as well as season mode

	FromGame      func(*GameRecord) *float64
	FromAggregate func(*SeasonAggregate) *float64
	assign        func(a *SeasonAggregate, tot, avg *float64)
}

// invertedMetrics is the Inversion Set: metrics where a smaller raw value is
// better, so the percentile is flipped (100 - p). This table is a visible
// contract with clients that re-derive color bands from percentiles; change
// it only in lockstep with them.
var invertedMetrics = map[string]bool{
	"to_per": true, // turnover rate
	"pfr":    true, // fouls committed per 40 minutes
	"drtg":   true, // defensive rating (season constant, rolling mode only)
}

// Inverted reports whether a lower raw value ranks higher for the metric.
func Inverted(name string) bool { return invertedMetrics[name] }

// Registry defines every ranked metric over a SeasonAggregate, in response
// field order. Counting metrics rank on their per-game mean.
var Registry = []Metric{
	{Name: "min_per", Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.MinPct },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgMinPct },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgMinPct = avg }},
	{Name: "o_rtg", Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.ORtg },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgORtg },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgORtg = avg }},
	{Name: "usg", Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.Usage },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgUsage },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgUsage = avg }},
	{Name: "e_fg", Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.EFGPct },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgEFGPct },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgEFGPct = avg }},
	{Name: "ts_per", Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.TSPct },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgTSPct },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgTSPct = avg }},
	{Name: "orb_per", Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.ORBPct },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgORBPct },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgORBPct = avg }},
	{Name: "drb_per", Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.DRBPct },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgDRBPct },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgDRBPct = avg }},
	{Name: "ast_per", Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.ASTPct },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgASTPct },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgASTPct = avg }},
	{Name: "to_per", Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.TOPct },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgTOPct },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgTOPct = avg }},
	{Name: "stl_per", Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.STLPct },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgSTLPct },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgSTLPct = avg }},
	{Name: "blk_per", Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.BLKPct },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgBLKPct },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgBLKPct = avg }},
	{Name: "dunks_made", Counting: true, Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.DunksMade },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgDunksMade },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotDunksMade, a.AvgDunksMade = tot, avg }},
	{Name: "dunks_att", Counting: true, Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.DunksAtt },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgDunksAtt },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotDunksAtt, a.AvgDunksAtt = tot, avg }},
	{Name: "rim_made", Counting: true, Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.RimMade },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgRimMade },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotRimMade, a.AvgRimMade = tot, avg }},
	{Name: "rim_att", Counting: true, Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.RimAtt },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgRimAtt },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotRimAtt, a.AvgRimAtt = tot, avg }},
	{Name: "mid_made", Counting: true, Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.MidMade },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgMidMade },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotMidMade, a.AvgMidMade = tot, avg }},
	{Name: "mid_att", Counting: true, Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.MidAtt },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgMidAtt },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotMidAtt, a.AvgMidAtt = tot, avg }},
	{Name: "two_pm", Counting: true, Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.TwoPM },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgTwoPM },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotTwoPM, a.AvgTwoPM = tot, avg }},
	{Name: "two_pa", Counting: true, Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.TwoPA },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgTwoPA },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotTwoPA, a.AvgTwoPA = tot, avg }},
	{Name: "tpm", Counting: true, Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.TPM },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgTPM },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotTPM, a.AvgTPM = tot, avg }},
	{Name: "tpa", Counting: true, Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.TPA },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgTPA },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotTPA, a.AvgTPA = tot, avg }},
	{Name: "ftm", Counting: true, Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.FTM },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgFTM },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotFTM, a.AvgFTM = tot, avg }},
	{Name: "fta", Counting: true, Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.FTA },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgFTA },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotFTA, a.AvgFTA = tot, avg }},
	{Name: "pts", Counting: true, Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.Pts },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgPts },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotPts, a.AvgPts = tot, avg }},
	{Name: "orb", Counting: true, Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.ORB },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgORB },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotORB, a.AvgORB = tot, avg }},
	{Name: "drb", Counting: true, Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.DRB },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgDRB },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotDRB, a.AvgDRB = tot, avg }},
	{Name: "ast", Counting: true, Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.AST },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgAST },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotAST, a.AvgAST = tot, avg }},
	{Name: "tov", Counting: true, Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.TOV },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgTOV },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotTOV, a.AvgTOV = tot, avg }},
	{Name: "stl", Counting: true, Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.STL },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgSTL },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotSTL, a.AvgSTL = tot, avg }},
	{Name: "blk", Counting: true, Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.BLK },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgBLK },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotBLK, a.AvgBLK = tot, avg }},
	{Name: "pf", Counting: true, Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.PF },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgPF },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotPF, a.AvgPF = tot, avg }},
	{Name: "possessions", Counting: true,
		FromGame:      func(g *GameRecord) *float64 { return g.Possessions },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgPossessions },
		assign:        func(a *SeasonAggregate, tot, avg *float64) { a.TotPossessions, a.AvgPossessions = tot, avg }},
	{Name: "bpm_rd",
		FromGame:      func(g *GameRecord) *float64 { return g.BPMRd },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgBPMRd },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgBPMRd = avg }},
	{Name: "obpm", Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.OBPM },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgOBPM },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgOBPM = avg }},
	{Name: "dbpm", Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.DBPM },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgDBPM },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgDBPM = avg }},
	{Name: "bpm_net",
		FromGame:      func(g *GameRecord) *float64 { return g.BPMNet },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgBPMNet },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgBPMNet = avg }},
	{Name: "bpm", Rolling: true,
		FromGame:      func(g *GameRecord) *float64 { return g.BPM },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgBPM },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgBPM = avg }},
	{Name: "sbpm",
		FromGame:      func(g *GameRecord) *float64 { return g.SBPM },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgSBPM },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgSBPM = avg }},
	{Name: "inches",
		FromGame:      func(g *GameRecord) *float64 { return g.Inches },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgInches },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgInches = avg }},
	{Name: "opstyle",
		FromGame:      func(g *GameRecord) *float64 { return g.OpStyle },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgOpStyle },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgOpStyle = avg }},
	{Name: "quality",
		FromGame:      func(g *GameRecord) *float64 { return g.Quality },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgQuality },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgQuality = avg }},
	{Name: "win1",
		FromGame:      func(g *GameRecord) *float64 { return g.Win1 },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgWin1 },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgWin1 = avg }},
	{Name: "win2",
		FromGame:      func(g *GameRecord) *float64 { return g.Win2 },
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AvgWin2 },
		assign:        func(a *SeasonAggregate, _, avg *float64) { a.AvgWin2 = avg }},

	// Ratios derived from totals.
	{Name: "ft_pct", Derived: true,
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.FTPct }},
	{Name: "two_pct", Derived: true,
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.TwoPct }},
	{Name: "tp_pct", Derived: true,
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.ThreePct }},
	{Name: "rim_pct", Derived: true,
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.RimPct }},
	{Name: "mid_pct", Derived: true,
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.MidPct }},
	{Name: "dunk_pct", Derived: true,
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.DunkPct }},
	{Name: "ast_tov", Derived: true,
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.AstTov }},
	{Name: "pfr", Derived: true,
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.FoulsPer40 }},
	{Name: "three_rate", Derived: true,
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.ThreeRate }},
	{Name: "tpm_per_100", Derived: true,
		FromAggregate: func(a *SeasonAggregate) *float64 { return a.ThreePer100 }},
}

// ConstantMetrics are season-long values ranked only in rolling mode, read
// from SeasonConstants rather than the aggregate.
var ConstantMetrics = []struct {
	Name string
	From func(*SeasonConstants) *float64
}{
	{"porpag", func(c *SeasonConstants) *float64 { return c.Porpag }},
	{"dporpag", func(c *SeasonConstants) *float64 { return c.Dporpag }},
	{"drtg", func(c *SeasonConstants) *float64 { return c.Drtg }},
	{"adjoe", func(c *SeasonConstants) *float64 { return c.Adjoe }},
}

// RankedIn reports whether the metric is percentile-ranked in the given mode.
func (m Metric) RankedIn(mode Mode) bool {
	if mode == ModeSeason {
		return true
	}
	return m.Rolling
}

// RankedNames returns the ordered pct_ field set for a mode, constants
// included for rolling. Used to keep every record in a response uniform.
func RankedNames(mode Mode) []string {
	var names []string
	for _, m := range Registry {
		if m.RankedIn(mode) {
			names = append(names, m.Name)
		}
	}
	if mode == ModeRolling {
		for _, c := range ConstantMetrics {
			names = append(names, c.Name)
		}
	}
	return names
}
