package store

import (
	"database/sql"
	"time"

	"github.com/fortuna/athena/internal/stats"
)

// GameLine is one player box-score row as stored in player_games. Every
// metric column is nullable: upstream feeds omit columns for some games and
// a missing value must survive the trip through Postgres as NULL, never 0.
type GameLine struct {
	ID         int            `db:"id"`
	PlayerID   int            `db:"pid"`
	PlayerName string         `db:"player_name"`
	Team       string         `db:"team"`
	Year       int            `db:"year"`
	GameDate   time.Time      `db:"game_date"`
	Opponent   string         `db:"opponent"`
	Location   sql.NullString `db:"loc"`
	Class      sql.NullString `db:"class"`
	MatchupID  sql.NullString `db:"muid"`

	MinPct      sql.NullFloat64 `db:"min_per"`
	ORtg        sql.NullFloat64 `db:"o_rtg"`
	Usage       sql.NullFloat64 `db:"usg"`
	EFGPct      sql.NullFloat64 `db:"e_fg"`
	TSPct       sql.NullFloat64 `db:"ts_per"`
	ORBPct      sql.NullFloat64 `db:"orb_per"`
	DRBPct      sql.NullFloat64 `db:"drb_per"`
	ASTPct      sql.NullFloat64 `db:"ast_per"`
	TOPct       sql.NullFloat64 `db:"to_per"`
	DunksMade   sql.NullFloat64 `db:"dunks_made"`
	DunksAtt    sql.NullFloat64 `db:"dunks_att"`
	RimMade     sql.NullFloat64 `db:"rim_made"`
	RimAtt      sql.NullFloat64 `db:"rim_att"`
	MidMade     sql.NullFloat64 `db:"mid_made"`
	MidAtt      sql.NullFloat64 `db:"mid_att"`
	TwoPM       sql.NullFloat64 `db:"two_pm"`
	TwoPA       sql.NullFloat64 `db:"two_pa"`
	TPM         sql.NullFloat64 `db:"tpm"`
	TPA         sql.NullFloat64 `db:"tpa"`
	FTM         sql.NullFloat64 `db:"ftm"`
	FTA         sql.NullFloat64 `db:"fta"`
	BPMRd       sql.NullFloat64 `db:"bpm_rd"`
	OBPM        sql.NullFloat64 `db:"obpm"`
	DBPM        sql.NullFloat64 `db:"dbpm"`
	BPMNet      sql.NullFloat64 `db:"bpm_net"`
	Pts         sql.NullFloat64 `db:"pts"`
	ORB         sql.NullFloat64 `db:"orb"`
	DRB         sql.NullFloat64 `db:"drb"`
	AST         sql.NullFloat64 `db:"ast"`
	TOV         sql.NullFloat64 `db:"tov"`
	STL         sql.NullFloat64 `db:"stl"`
	BLK         sql.NullFloat64 `db:"blk"`
	STLPct      sql.NullFloat64 `db:"stl_per"`
	BLKPct      sql.NullFloat64 `db:"blk_per"`
	PF          sql.NullFloat64 `db:"pf"`
	Possessions sql.NullFloat64 `db:"possessions"`
	BPM         sql.NullFloat64 `db:"bpm"`
	SBPM        sql.NullFloat64 `db:"sbpm"`
	Inches      sql.NullFloat64 `db:"inches"`
	OpStyle     sql.NullFloat64 `db:"opstyle"`
	Quality     sql.NullFloat64 `db:"quality"`
	Win1        sql.NullFloat64 `db:"win1"`
	Win2        sql.NullFloat64 `db:"win2"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ToRecord converts a stored row into the pointer-based record the
// aggregation layer works on. NULL columns become nil pointers here and
// nowhere else.
func (g *GameLine) ToRecord() stats.GameRecord {
	return stats.GameRecord{
		PlayerID:   g.PlayerID,
		PlayerName: g.PlayerName,
		Team:       g.Team,
		Year:       g.Year,
		GameDate:   g.GameDate,
		Opponent:   g.Opponent,
		Location:   g.Location.String,
		Class:      g.Class.String,
		MatchupID:  g.MatchupID.String,

		MinPct:      nullFloat(g.MinPct),
		ORtg:        nullFloat(g.ORtg),
		Usage:       nullFloat(g.Usage),
		EFGPct:      nullFloat(g.EFGPct),
		TSPct:       nullFloat(g.TSPct),
		ORBPct:      nullFloat(g.ORBPct),
		DRBPct:      nullFloat(g.DRBPct),
		ASTPct:      nullFloat(g.ASTPct),
		TOPct:       nullFloat(g.TOPct),
		DunksMade:   nullFloat(g.DunksMade),
		DunksAtt:    nullFloat(g.DunksAtt),
		RimMade:     nullFloat(g.RimMade),
		RimAtt:      nullFloat(g.RimAtt),
		MidMade:     nullFloat(g.MidMade),
		MidAtt:      nullFloat(g.MidAtt),
		TwoPM:       nullFloat(g.TwoPM),
		TwoPA:       nullFloat(g.TwoPA),
		TPM:         nullFloat(g.TPM),
		TPA:         nullFloat(g.TPA),
		FTM:         nullFloat(g.FTM),
		FTA:         nullFloat(g.FTA),
		BPMRd:       nullFloat(g.BPMRd),
		OBPM:        nullFloat(g.OBPM),
		DBPM:        nullFloat(g.DBPM),
		BPMNet:      nullFloat(g.BPMNet),
		Pts:         nullFloat(g.Pts),
		ORB:         nullFloat(g.ORB),
		DRB:         nullFloat(g.DRB),
		AST:         nullFloat(g.AST),
		TOV:         nullFloat(g.TOV),
		STL:         nullFloat(g.STL),
		BLK:         nullFloat(g.BLK),
		STLPct:      nullFloat(g.STLPct),
		BLKPct:      nullFloat(g.BLKPct),
		PF:          nullFloat(g.PF),
		Possessions: nullFloat(g.Possessions),
		BPM:         nullFloat(g.BPM),
		SBPM:        nullFloat(g.SBPM),
		Inches:      nullFloat(g.Inches),
		OpStyle:     nullFloat(g.OpStyle),
		Quality:     nullFloat(g.Quality),
		Win1:        nullFloat(g.Win1),
		Win2:        nullFloat(g.Win2),
	}
}

// SeasonLine is a player's season row from the advanced-stats feed, stored
// in player_seasons. It carries the identity and the season-long values that
// have no per-game counterpart.
type SeasonLine struct {
	ID         int            `db:"id"`
	PlayerID   int            `db:"pid"`
	PlayerName string         `db:"player_name"`
	Team       string         `db:"team"`
	Year       int            `db:"year"`
	Conf       sql.NullString `db:"conf"`
	Role       sql.NullString `db:"role"`
	Class      sql.NullString `db:"class"`
	Height     sql.NullString `db:"height"`
	Number     sql.NullString `db:"number"`
	GP         sql.NullInt32  `db:"gp"`

	Porpag   sql.NullFloat64 `db:"porpag"`
	Dporpag  sql.NullFloat64 `db:"dporpag"`
	Drtg     sql.NullFloat64 `db:"drtg"`
	Adrtg    sql.NullFloat64 `db:"adrtg"`
	Adjoe    sql.NullFloat64 `db:"adjoe"`
	Stops    sql.NullFloat64 `db:"stops"`
	Minutes  sql.NullFloat64 `db:"minutes"`
	RecRank  sql.NullFloat64 `db:"rec_rank"`
	DraftPick sql.NullFloat64 `db:"draft_pick"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ToConstants extracts the values ranked alongside rolling averages.
func (s *SeasonLine) ToConstants() stats.SeasonConstants {
	return stats.SeasonConstants{
		PlayerID: s.PlayerID,
		Conf:     nullString(s.Conf),
		Role:     nullString(s.Role),
		Class:    nullString(s.Class),
		Height:   nullString(s.Height),
		Porpag:   nullFloat(s.Porpag),
		Dporpag:  nullFloat(s.Dporpag),
		Drtg:     nullFloat(s.Drtg),
		Adjoe:    nullFloat(s.Adjoe),
	}
}

// TeamResult is one team's season summary row, stored in team_results.
type TeamResult struct {
	ID         int       `json:"-" db:"id"`
	Year       int       `json:"year" db:"year"`
	Rank       int       `json:"rank" db:"rank"`
	Team       string    `json:"team" db:"team"`
	Conf       string    `json:"conf" db:"conf"`
	Record     string    `json:"record" db:"record"`
	ConfRecord string    `json:"conf_record" db:"conf_record"`
	AdjOE      float64   `json:"adjoe" db:"adjoe"`
	AdjOERank  int       `json:"adjoe_rank" db:"adjoe_rank"`
	AdjDE      float64   `json:"adjde" db:"adjde"`
	AdjDERank  int       `json:"adjde_rank" db:"adjde_rank"`
	Barthag    float64   `json:"barthag" db:"barthag"`
	BarthagRank int      `json:"barthag_rank" db:"barthag_rank"`
	ProjWins   int       `json:"proj_wins" db:"proj_wins"`
	ProjLosses int       `json:"proj_losses" db:"proj_losses"`
	SOS        float64   `json:"sos" db:"sos"`
	WAB        float64   `json:"wab" db:"wab"`
	WABRank    int       `json:"wab_rank" db:"wab_rank"`
	AdjTempo   float64   `json:"adj_tempo" db:"adj_tempo"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// NullFloat wraps an optional value for inserts.
func NullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

// NullString wraps an optional string for inserts.
func NullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
