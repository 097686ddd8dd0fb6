package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/athena/internal/store"
)

const teamColumns = `year, rank, team, conf, record, conf_record,
	adjoe, adjoe_rank, adjde, adjde_rank, barthag, barthag_rank,
	proj_wins, proj_losses, sos, wab, wab_rank, adj_tempo`

// TeamRepository handles team season summary rows.
type TeamRepository struct {
	db *store.Database
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *store.Database) *TeamRepository {
	return &TeamRepository{db: db}
}

// UpsertBatch inserts or refreshes team results, one row per (team, year).
func (r *TeamRepository) UpsertBatch(ctx context.Context, results []store.TeamResult) (int, error) {
	if len(results) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		INSERT INTO team_results (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (team, year) DO UPDATE SET
			rank = EXCLUDED.rank,
			conf = EXCLUDED.conf,
			record = EXCLUDED.record,
			conf_record = EXCLUDED.conf_record,
			adjoe = EXCLUDED.adjoe,
			adjoe_rank = EXCLUDED.adjoe_rank,
			adjde = EXCLUDED.adjde,
			adjde_rank = EXCLUDED.adjde_rank,
			barthag = EXCLUDED.barthag,
			barthag_rank = EXCLUDED.barthag_rank,
			proj_wins = EXCLUDED.proj_wins,
			proj_losses = EXCLUDED.proj_losses,
			sos = EXCLUDED.sos,
			wab = EXCLUDED.wab,
			wab_rank = EXCLUDED.wab_rank,
			adj_tempo = EXCLUDED.adj_tempo,
			updated_at = NOW()
	`, teamColumns)

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
	for i := range results {
		t := &results[i]
		_, err := stmt.ExecContext(ctx,
			t.Year, t.Rank, t.Team, t.Conf, t.Record, t.ConfRecord,
			t.AdjOE, t.AdjOERank, t.AdjDE, t.AdjDERank, t.Barthag, t.BarthagRank,
			t.ProjWins, t.ProjLosses, t.SOS, t.WAB, t.WABRank, t.AdjTempo,
		)
		if err != nil {
			return count, fmt.Errorf("upserting team result for %s: %w", t.Team, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return count, fmt.Errorf("committing team results: %w", err)
	}
	return count, nil
}

// GetResult returns one team's season summary, or nil when absent.
func (r *TeamRepository) GetResult(ctx context.Context, team string, year int) (*store.TeamResult, error) {
	query := fmt.Sprintf(`
		SELECT id, %s, updated_at
		FROM team_results
		WHERE team = $1 AND year = $2
	`, teamColumns)

	t := &store.TeamResult{}
	err := r.db.DB().QueryRowContext(ctx, query, team, year).Scan(teamScanDest(t)...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying team result: %w", err)
	}
	return t, nil
}

// ListByYear returns all team results for a year, best rank first.
func (r *TeamRepository) ListByYear(ctx context.Context, year int) ([]store.TeamResult, error) {
	query := fmt.Sprintf(`
		SELECT id, %s, updated_at
		FROM team_results
		WHERE year = $1
		ORDER BY rank ASC
	`, teamColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("querying team results: %w", err)
	}
	defer rows.Close()

	var results []store.TeamResult
	for rows.Next() {
		var t store.TeamResult
		if err := rows.Scan(teamScanDest(&t)...); err != nil {
			return nil, fmt.Errorf("scanning team result: %w", err)
		}
		results = append(results, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team results: %w", err)
	}
	return results, nil
}

// ListNames returns the team names present for a year, alphabetical.
func (r *TeamRepository) ListNames(ctx context.Context, year int) ([]string, error) {
	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT team FROM team_results WHERE year = $1 ORDER BY team ASC`, year)
	if err != nil {
		return nil, fmt.Errorf("querying team names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning team name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team names: %w", err)
	}
	return names, nil
}

func teamScanDest(t *store.TeamResult) []any {
	return []any{
		&t.ID, &t.Year, &t.Rank, &t.Team, &t.Conf, &t.Record, &t.ConfRecord,
		&t.AdjOE, &t.AdjOERank, &t.AdjDE, &t.AdjDERank, &t.Barthag, &t.BarthagRank,
		&t.ProjWins, &t.ProjLosses, &t.SOS, &t.WAB, &t.WABRank, &t.AdjTempo,
		&t.UpdatedAt,
	}
}
