// Package stats implements the aggregation and ranking core: season and
// rolling-window aggregates over per-game player records, and percentile
// scores of each metric against a comparison population. Everything in this
// package is a pure function of its inputs; no I/O, no shared state.
package stats

import (
	"errors"
	"time"
)

var (
	// ErrEmptyInput is returned by Aggregate when no game records were supplied.
	// "No games played" is a valid domain state; callers decide whether to
	// surface it as an empty result instead.
	ErrEmptyInput = errors.New("stats: no game records")

	// ErrInvalidWindow is returned for a non-positive trailing-window size.
	ErrInvalidWindow = errors.New("stats: window must be at least 1 day")
)

// GameRecord is one player's line for one game. Metric fields are pointers:
// nil means the value was absent upstream (e.g. no attempts recorded), which
// is distinct from zero and excluded from averages and percentile populations.
type GameRecord struct {
	PlayerID   int       `json:"pid"`
	PlayerName string    `json:"player_name"`
	Team       string    `json:"team"`
	Year       int       `json:"year"`
	GameDate   time.Time `json:"game_date"`
	Opponent   string    `json:"opponent"`
	Location   string    `json:"loc"`
	Class      string    `json:"class"`
	MatchupID  string    `json:"muid"`

	MinPct      *float64 `json:"min_per"`
	ORtg        *float64 `json:"o_rtg"`
	Usage       *float64 `json:"usg"`
	EFGPct      *float64 `json:"e_fg"`
	TSPct       *float64 `json:"ts_per"`
	ORBPct      *float64 `json:"orb_per"`
	DRBPct      *float64 `json:"drb_per"`
	ASTPct      *float64 `json:"ast_per"`
	TOPct       *float64 `json:"to_per"`
	DunksMade   *float64 `json:"dunks_made"`
	DunksAtt    *float64 `json:"dunks_att"`
	RimMade     *float64 `json:"rim_made"`
	RimAtt      *float64 `json:"rim_att"`
	MidMade     *float64 `json:"mid_made"`
	MidAtt      *float64 `json:"mid_att"`
	TwoPM       *float64 `json:"two_pm"`
	TwoPA       *float64 `json:"two_pa"`
	TPM         *float64 `json:"tpm"`
	TPA         *float64 `json:"tpa"`
	FTM         *float64 `json:"ftm"`
	FTA         *float64 `json:"fta"`
	BPMRd       *float64 `json:"bpm_rd"`
	OBPM        *float64 `json:"obpm"`
	DBPM        *float64 `json:"dbpm"`
	BPMNet      *float64 `json:"bpm_net"`
	Pts         *float64 `json:"pts"`
	ORB         *float64 `json:"orb"`
	DRB         *float64 `json:"drb"`
	AST         *float64 `json:"ast"`
	TOV         *float64 `json:"tov"`
	STL         *float64 `json:"stl"`
	BLK         *float64 `json:"blk"`
	STLPct      *float64 `json:"stl_per"`
	BLKPct      *float64 `json:"blk_per"`
	PF          *float64 `json:"pf"`
	Possessions *float64 `json:"possessions"`
	BPM         *float64 `json:"bpm"`
	SBPM        *float64 `json:"sbpm"`
	Inches      *float64 `json:"inches"`
	OpStyle     *float64 `json:"opstyle"`
	Quality     *float64 `json:"quality"`
	Win1        *float64 `json:"win1"`
	Win2        *float64 `json:"win2"`
}

// SeasonAggregate holds one player's aggregate over a set of game records:
// games played, summed counting stats, per-game means, and derived ratios.
// A rolling (trailing-window) aggregate uses the same shape. nil fields mean
// the metric was never present in the window (or a ratio's denominator was
// zero) — never coerced to zero.
type SeasonAggregate struct {
	PlayerID    int    `json:"pid"`
	PlayerName  string `json:"player_name"`
	Team        string `json:"team"`
	Year        int    `json:"year"`
	GamesPlayed int    `json:"games_played"`

	// Counting stats: totals plus per-game means.
	TotDunksMade   *float64 `json:"tot_dunks_made"`
	TotDunksAtt    *float64 `json:"tot_dunks_att"`
	TotRimMade     *float64 `json:"tot_rim_made"`
	TotRimAtt      *float64 `json:"tot_rim_att"`
	TotMidMade     *float64 `json:"tot_mid_made"`
	TotMidAtt      *float64 `json:"tot_mid_att"`
	TotTwoPM       *float64 `json:"tot_two_pm"`
	TotTwoPA       *float64 `json:"tot_two_pa"`
	TotTPM         *float64 `json:"tot_tpm"`
	TotTPA         *float64 `json:"tot_tpa"`
	TotFTM         *float64 `json:"tot_ftm"`
	TotFTA         *float64 `json:"tot_fta"`
	TotPts         *float64 `json:"tot_pts"`
	TotORB         *float64 `json:"tot_orb"`
	TotDRB         *float64 `json:"tot_drb"`
	TotAST         *float64 `json:"tot_ast"`
	TotTOV         *float64 `json:"tot_tov"`
	TotSTL         *float64 `json:"tot_stl"`
	TotBLK         *float64 `json:"tot_blk"`
	TotPF          *float64 `json:"tot_pf"`
	TotPossessions *float64 `json:"tot_possessions"`

	AvgDunksMade   *float64 `json:"avg_dunks_made"`
	AvgDunksAtt    *float64 `json:"avg_dunks_att"`
	AvgRimMade     *float64 `json:"avg_rim_made"`
	AvgRimAtt      *float64 `json:"avg_rim_att"`
	AvgMidMade     *float64 `json:"avg_mid_made"`
	AvgMidAtt      *float64 `json:"avg_mid_att"`
	AvgTwoPM       *float64 `json:"avg_two_pm"`
	AvgTwoPA       *float64 `json:"avg_two_pa"`
	AvgTPM         *float64 `json:"avg_tpm"`
	AvgTPA         *float64 `json:"avg_tpa"`
	AvgFTM         *float64 `json:"avg_ftm"`
	AvgFTA         *float64 `json:"avg_fta"`
	AvgPts         *float64 `json:"avg_pts"`
	AvgORB         *float64 `json:"avg_orb"`
	AvgDRB         *float64 `json:"avg_drb"`
	AvgAST         *float64 `json:"avg_ast"`
	AvgTOV         *float64 `json:"avg_tov"`
	AvgSTL         *float64 `json:"avg_stl"`
	AvgBLK         *float64 `json:"avg_blk"`
	AvgPF          *float64 `json:"avg_pf"`
	AvgPossessions *float64 `json:"avg_possessions"`

	// Rate metrics: per-game means over games where the value was present.
	AvgMinPct  *float64 `json:"avg_min_per"`
	AvgORtg    *float64 `json:"avg_o_rtg"`
	AvgUsage   *float64 `json:"avg_usg"`
	AvgEFGPct  *float64 `json:"avg_e_fg"`
	AvgTSPct   *float64 `json:"avg_ts_per"`
	AvgORBPct  *float64 `json:"avg_orb_per"`
	AvgDRBPct  *float64 `json:"avg_drb_per"`
	AvgASTPct  *float64 `json:"avg_ast_per"`
	AvgTOPct   *float64 `json:"avg_to_per"`
	AvgSTLPct  *float64 `json:"avg_stl_per"`
	AvgBLKPct  *float64 `json:"avg_blk_per"`
	AvgBPMRd   *float64 `json:"avg_bpm_rd"`
	AvgOBPM    *float64 `json:"avg_obpm"`
	AvgDBPM    *float64 `json:"avg_dbpm"`
	AvgBPMNet  *float64 `json:"avg_bpm_net"`
	AvgBPM     *float64 `json:"avg_bpm"`
	AvgSBPM    *float64 `json:"avg_sbpm"`
	AvgInches  *float64 `json:"avg_inches"`
	AvgOpStyle *float64 `json:"avg_opstyle"`
	AvgQuality *float64 `json:"avg_quality"`
	AvgWin1    *float64 `json:"avg_win1"`
	AvgWin2    *float64 `json:"avg_win2"`

	// Ratios derived from aggregated totals; nil when the denominator is zero.
	FTPct      *float64 `json:"ft_pct"`
	TwoPct     *float64 `json:"two_pct"`
	ThreePct   *float64 `json:"tp_pct"`
	RimPct     *float64 `json:"rim_pct"`
	MidPct     *float64 `json:"mid_pct"`
	DunkPct    *float64 `json:"dunk_pct"`
	AstTov     *float64 `json:"ast_tov"`
	FoulsPer40 *float64 `json:"pfr"`
	ThreeRate  *float64 `json:"three_rate"`
	ThreePer100 *float64 `json:"tpm_per_100"`
}

// SeasonConstants are season-long attributes that accompany a rolling
// aggregate: they come from the player's season row, not from game logs,
// and four of them are themselves ranked in rolling mode.
type SeasonConstants struct {
	PlayerID int      `json:"-"`
	Conf     *string  `json:"conf"`
	Role     *string  `json:"role"`
	Class    *string  `json:"class"`
	Height   *string  `json:"height"`
	Porpag   *float64 `json:"porpag"`
	Dporpag  *float64 `json:"dporpag"`
	Drtg     *float64 `json:"drtg"`
	Adjoe    *float64 `json:"adjoe"`
}

// Float returns a pointer to v. Convenience for building records and tests.
func Float(v float64) *float64 { return &v }
