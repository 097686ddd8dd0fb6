package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fortuna/athena/internal/store"
)

// gameColumns is the insert/select column order for player_games. gameArgs
// and gameScanDest below must stay in sync with it.
var gameColumns = []string{
	"pid", "player_name", "team", "year", "game_date", "opponent", "loc", "class", "muid",
	"min_per", "o_rtg", "usg", "e_fg", "ts_per", "orb_per", "drb_per", "ast_per", "to_per",
	"dunks_made", "dunks_att", "rim_made", "rim_att", "mid_made", "mid_att",
	"two_pm", "two_pa", "tpm", "tpa", "ftm", "fta",
	"bpm_rd", "obpm", "dbpm", "bpm_net",
	"pts", "orb", "drb", "ast", "tov", "stl", "blk", "stl_per", "blk_per", "pf",
	"possessions", "bpm", "sbpm", "inches", "opstyle", "quality", "win1", "win2",
}

// GameRepository handles per-game box score rows.
type GameRepository struct {
	db *store.Database
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *store.Database) *GameRepository {
	return &GameRepository{db: db}
}

// UpsertBatch inserts or refreshes game lines in a single transaction.
// Conflicts on (pid, year, game_date, opponent) overwrite the stat columns,
// so re-ingesting a feed is idempotent.
func (r *GameRepository) UpsertBatch(ctx context.Context, lines []store.GameLine) (int, error) {
	if len(lines) == 0 {
		return 0, nil
	}

	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertGamesQuery())
	if err != nil {
		return 0, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for i := range lines {
		if _, err := stmt.ExecContext(ctx, gameArgs(&lines[i])...); err != nil {
			return count, fmt.Errorf("upserting game line for player %d: %w", lines[i].PlayerID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return count, fmt.Errorf("committing game lines: %w", err)
	}
	return count, nil
}

// ListByPlayer returns a player's game lines for a year, oldest first.
func (r *GameRepository) ListByPlayer(ctx context.Context, playerID, year int) ([]store.GameLine, error) {
	query := fmt.Sprintf(`
		SELECT id, %s, created_at, updated_at
		FROM player_games
		WHERE pid = $1 AND year = $2
		ORDER BY game_date ASC
	`, strings.Join(gameColumns, ", "))

	return r.queryLines(ctx, query, playerID, year)
}

// ListByTeam returns every game line for a team's roster in a year.
func (r *GameRepository) ListByTeam(ctx context.Context, team string, year int) ([]store.GameLine, error) {
	query := fmt.Sprintf(`
		SELECT id, %s, created_at, updated_at
		FROM player_games
		WHERE team = $1 AND year = $2
		ORDER BY pid, game_date ASC
	`, strings.Join(gameColumns, ", "))

	return r.queryLines(ctx, query, team, year)
}

// ListByYear returns every game line for a year. National-scope rankings
// aggregate over this set.
func (r *GameRepository) ListByYear(ctx context.Context, year int) ([]store.GameLine, error) {
	query := fmt.Sprintf(`
		SELECT id, %s, created_at, updated_at
		FROM player_games
		WHERE year = $1
		ORDER BY pid, game_date ASC
	`, strings.Join(gameColumns, ", "))

	return r.queryLines(ctx, query, year)
}

func (r *GameRepository) queryLines(ctx context.Context, query string, args ...any) ([]store.GameLine, error) {
	rows, err := r.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying game lines: %w", err)
	}
	defer rows.Close()

	var lines []store.GameLine
	for rows.Next() {
		var g store.GameLine
		dest := append([]any{&g.ID}, gameScanDest(&g)...)
		dest = append(dest, &g.CreatedAt, &g.UpdatedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning game line: %w", err)
		}
		lines = append(lines, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating game lines: %w", err)
	}
	return lines, nil
}

func upsertGamesQuery() string {
	placeholders := make([]string, len(gameColumns))
	for i := range gameColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	// Identity columns (pid, year, game_date, opponent) stay as inserted;
	// everything else takes the incoming value.
	updates := []string{"player_name = EXCLUDED.player_name", "loc = EXCLUDED.loc",
		"class = EXCLUDED.class", "muid = EXCLUDED.muid"}
	for _, col := range gameColumns[9:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	updates = append(updates, "updated_at = NOW()")

	return fmt.Sprintf(`
		INSERT INTO player_games (%s)
		VALUES (%s)
		ON CONFLICT (pid, year, game_date, opponent)
		DO UPDATE SET %s
	`, strings.Join(gameColumns, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "))
}

func gameArgs(g *store.GameLine) []any {
	return []any{
		g.PlayerID, g.PlayerName, g.Team, g.Year, g.GameDate, g.Opponent, g.Location, g.Class, g.MatchupID,
		g.MinPct, g.ORtg, g.Usage, g.EFGPct, g.TSPct, g.ORBPct, g.DRBPct, g.ASTPct, g.TOPct,
		g.DunksMade, g.DunksAtt, g.RimMade, g.RimAtt, g.MidMade, g.MidAtt,
		g.TwoPM, g.TwoPA, g.TPM, g.TPA, g.FTM, g.FTA,
		g.BPMRd, g.OBPM, g.DBPM, g.BPMNet,
		g.Pts, g.ORB, g.DRB, g.AST, g.TOV, g.STL, g.BLK, g.STLPct, g.BLKPct, g.PF,
		g.Possessions, g.BPM, g.SBPM, g.Inches, g.OpStyle, g.Quality, g.Win1, g.Win2,
	}
}

func gameScanDest(g *store.GameLine) []any {
	return []any{
		&g.PlayerID, &g.PlayerName, &g.Team, &g.Year, &g.GameDate, &g.Opponent, &g.Location, &g.Class, &g.MatchupID,
		&g.MinPct, &g.ORtg, &g.Usage, &g.EFGPct, &g.TSPct, &g.ORBPct, &g.DRBPct, &g.ASTPct, &g.TOPct,
		&g.DunksMade, &g.DunksAtt, &g.RimMade, &g.RimAtt, &g.MidMade, &g.MidAtt,
		&g.TwoPM, &g.TwoPA, &g.TPM, &g.TPA, &g.FTM, &g.FTA,
		&g.BPMRd, &g.OBPM, &g.DBPM, &g.BPMNet,
		&g.Pts, &g.ORB, &g.DRB, &g.AST, &g.TOV, &g.STL, &g.BLK, &g.STLPct, &g.BLKPct, &g.PF,
		&g.Possessions, &g.BPM, &g.SBPM, &g.Inches, &g.OpStyle, &g.Quality, &g.Win1, &g.Win2,
	}
}
