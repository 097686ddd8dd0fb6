package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/athena/internal/store"
)

const seasonColumns = `pid, player_name, team, year, conf, role, class, height, number, gp,
	porpag, dporpag, drtg, adrtg, adjoe, stops, minutes, rec_rank, draft_pick`

// SeasonRepository handles season-long player rows.
type SeasonRepository struct {
	db *store.Database
}

// NewSeasonRepository creates a new season repository
func NewSeasonRepository(db *store.Database) *SeasonRepository {
	return &SeasonRepository{db: db}
}

// UpsertBatch inserts or refreshes season lines, one row per (pid, year).
func (r *SeasonRepository) UpsertBatch(ctx context.Context, lines []store.SeasonLine) (int, error) {
	if len(lines) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		INSERT INTO player_seasons (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (pid, year) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			team = EXCLUDED.team,
			conf = EXCLUDED.conf,
			role = EXCLUDED.role,
			class = EXCLUDED.class,
			height = EXCLUDED.height,
			number = EXCLUDED.number,
			gp = EXCLUDED.gp,
			porpag = EXCLUDED.porpag,
			dporpag = EXCLUDED.dporpag,
			drtg = EXCLUDED.drtg,
			adrtg = EXCLUDED.adrtg,
			adjoe = EXCLUDED.adjoe,
			stops = EXCLUDED.stops,
			minutes = EXCLUDED.minutes,
			rec_rank = EXCLUDED.rec_rank,
			draft_pick = EXCLUDED.draft_pick,
			updated_at = NOW()
	`, seasonColumns)

	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for i := range lines {
		s := &lines[i]
		_, err := stmt.ExecContext(ctx,
			s.PlayerID, s.PlayerName, s.Team, s.Year, s.Conf, s.Role, s.Class, s.Height, s.Number, s.GP,
			s.Porpag, s.Dporpag, s.Drtg, s.Adrtg, s.Adjoe, s.Stops, s.Minutes, s.RecRank, s.DraftPick,
		)
		if err != nil {
			return count, fmt.Errorf("upserting season line for player %d: %w", s.PlayerID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return count, fmt.Errorf("committing season lines: %w", err)
	}
	return count, nil
}

// GetByPlayer returns a player's season line for a year, or nil when absent.
func (r *SeasonRepository) GetByPlayer(ctx context.Context, playerID, year int) (*store.SeasonLine, error) {
	query := fmt.Sprintf(`
		SELECT id, %s, created_at, updated_at
		FROM player_seasons
		WHERE pid = $1 AND year = $2
	`, seasonColumns)

	s := &store.SeasonLine{}
	err := r.db.DB().QueryRowContext(ctx, query, playerID, year).Scan(seasonScanDest(s)...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying season line: %w", err)
	}
	return s, nil
}

// ListByTeam returns the season lines for a team's roster.
func (r *SeasonRepository) ListByTeam(ctx context.Context, team string, year int) ([]store.SeasonLine, error) {
	query := fmt.Sprintf(`
		SELECT id, %s, created_at, updated_at
		FROM player_seasons
		WHERE team = $1 AND year = $2
		ORDER BY player_name
	`, seasonColumns)

	return r.queryLines(ctx, query, team, year)
}

// ListByYear returns every season line for a year.
func (r *SeasonRepository) ListByYear(ctx context.Context, year int) ([]store.SeasonLine, error) {
	query := fmt.Sprintf(`
		SELECT id, %s, created_at, updated_at
		FROM player_seasons
		WHERE year = $1
		ORDER BY pid
	`, seasonColumns)

	return r.queryLines(ctx, query, year)
}

func (r *SeasonRepository) queryLines(ctx context.Context, query string, args ...any) ([]store.SeasonLine, error) {
	rows, err := r.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying season lines: %w", err)
	}
	defer rows.Close()

	var lines []store.SeasonLine
	for rows.Next() {
		var s store.SeasonLine
		if err := rows.Scan(seasonScanDest(&s)...); err != nil {
			return nil, fmt.Errorf("scanning season line: %w", err)
		}
		lines = append(lines, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating season lines: %w", err)
	}
	return lines, nil
}

func seasonScanDest(s *store.SeasonLine) []any {
	return []any{
		&s.ID, &s.PlayerID, &s.PlayerName, &s.Team, &s.Year, &s.Conf, &s.Role, &s.Class, &s.Height, &s.Number, &s.GP,
		&s.Porpag, &s.Dporpag, &s.Drtg, &s.Adrtg, &s.Adjoe, &s.Stops, &s.Minutes, &s.RecRank, &s.DraftPick,
		&s.CreatedAt, &s.UpdatedAt,
	}
}
