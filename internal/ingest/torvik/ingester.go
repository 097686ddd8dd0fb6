package torvik

import (
	"context"
	"fmt"
	"log"

	"github.com/fortuna/athena/internal/store/repository"
)

// Ingester pulls a season's feeds and lands them in Postgres.
type Ingester struct {
	client  *Client
	games   *repository.GameRepository
	seasons *repository.SeasonRepository
	teams   *repository.TeamRepository
}

// NewIngester wires the client to the repositories.
func NewIngester(client *Client, games *repository.GameRepository, seasons *repository.SeasonRepository, teams *repository.TeamRepository) *Ingester {
	return &Ingester{
		client:  client,
		games:   games,
		seasons: seasons,
		teams:   teams,
	}
}

// IngestSummary reports what a refresh landed.
type IngestSummary struct {
	Year        int `json:"year"`
	GameLines   int `json:"game_lines"`
	SeasonLines int `json:"season_lines"`
	TeamResults int `json:"team_results"`
}

// IngestYear refreshes all three feeds for a year. Feeds are fetched and
// landed one at a time; the first failure aborts, leaving earlier feeds
// committed. Re-running is safe since every write is an upsert.
func (in *Ingester) IngestYear(ctx context.Context, year int) (IngestSummary, error) {
	return in.IngestYearTeams(ctx, year, nil)
}

// IngestYearTeams is IngestYear restricted to the named teams. The feeds are
// year-scoped upstream, so the restriction is applied after parsing. An empty
// team list means no restriction.
func (in *Ingester) IngestYearTeams(ctx context.Context, year int, teams []string) (IngestSummary, error) {
	summary := IngestSummary{Year: year}
	keep := teamSet(teams)

	n, err := in.ingestGames(ctx, year, keep)
	if err != nil {
		return summary, fmt.Errorf("ingesting game log for %d: %w", year, err)
	}
	summary.GameLines = n

	n, err = in.ingestSeasons(ctx, year, keep)
	if err != nil {
		return summary, fmt.Errorf("ingesting season stats for %d: %w", year, err)
	}
	summary.SeasonLines = n

	n, err = in.ingestTeamResults(ctx, year, keep)
	if err != nil {
		return summary, fmt.Errorf("ingesting team results for %d: %w", year, err)
	}
	summary.TeamResults = n

	log.Printf("[torvik-ingester] ✓ year %d: %d game lines, %d season lines, %d team results",
		year, summary.GameLines, summary.SeasonLines, summary.TeamResults)
	return summary, nil
}

func (in *Ingester) ingestGames(ctx context.Context, year int, keep map[string]bool) (int, error) {
	body, err := in.client.FetchGameLog(ctx, year)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	lines, err := ParseGameLog(body)
	if err != nil {
		return 0, err
	}
	if keep != nil {
		kept := lines[:0]
		for _, line := range lines {
			if keep[line.Team] {
				kept = append(kept, line)
			}
		}
		lines = kept
	}
	return in.games.UpsertBatch(ctx, lines)
}

func (in *Ingester) ingestSeasons(ctx context.Context, year int, keep map[string]bool) (int, error) {
	body, err := in.client.FetchSeasonCSV(ctx, year)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	lines, err := ParseSeasonCSV(body)
	if err != nil {
		return 0, err
	}
	if keep != nil {
		kept := lines[:0]
		for _, line := range lines {
			if keep[line.Team] {
				kept = append(kept, line)
			}
		}
		lines = kept
	}
	return in.seasons.UpsertBatch(ctx, lines)
}

func (in *Ingester) ingestTeamResults(ctx context.Context, year int, keep map[string]bool) (int, error) {
	body, err := in.client.FetchTeamResults(ctx, year)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	results, err := ParseTeamResults(body, year)
	if err != nil {
		return 0, err
	}
	if keep != nil {
		kept := results[:0]
		for _, res := range results {
			if keep[res.Team] {
				kept = append(kept, res)
			}
		}
		results = kept
	}
	return in.teams.UpsertBatch(ctx, results)
}

func teamSet(teams []string) map[string]bool {
	if len(teams) == 0 {
		return nil
	}
	set := make(map[string]bool, len(teams))
	for _, t := range teams {
		set[t] = true
	}
	return set
}

// ListTeams scrapes the team directory for a year. Used to sanity-check a
// backfill target before fetching full feeds.
func (in *Ingester) ListTeams(ctx context.Context, year int) ([]string, error) {
	body, err := in.client.FetchTeamDirectory(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("fetching team directory for %d: %w", year, err)
	}
	defer body.Close()

	return ParseTeamDirectory(body)
}
