package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/fortuna/athena/internal/cache"
	"github.com/fortuna/athena/internal/stats"
	"github.com/fortuna/athena/internal/store"
	"github.com/fortuna/athena/internal/store/repository"
)

// ErrNotFound marks lookups with no data behind them; handlers map it to 404.
var ErrNotFound = errors.New("not found")

// PlayerService serves individual player game logs and ranked lines.
type PlayerService struct {
	games   *repository.GameRepository
	seasons *repository.SeasonRepository
	cache   *cache.RedisCache
}

// NewPlayerService creates a player service. cache may be nil.
func NewPlayerService(db *store.Database, c *cache.RedisCache) *PlayerService {
	return &PlayerService{
		games:   repository.NewGameRepository(db),
		seasons: repository.NewSeasonRepository(db),
		cache:   c,
	}
}

// Games returns a player's game log for a year, oldest first.
func (s *PlayerService) Games(ctx context.Context, playerID, year int) ([]stats.GameRecord, error) {
	lines, err := s.games.ListByPlayer(ctx, playerID, year)
	if err != nil {
		return nil, fmt.Errorf("loading games for player %d: %w", playerID, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no games for player %d in %d", ErrNotFound, playerID, year)
	}

	records := make([]stats.GameRecord, len(lines))
	for i := range lines {
		records[i] = lines[i].ToRecord()
	}
	sort.Slice(records, func(i, j int) bool { return records[i].GameDate.Before(records[j].GameDate) })
	return records, nil
}

// Season returns a player's season aggregate with percentile ranks against
// the scope population. team picks the comparison roster for team scope;
// empty defaults to the player's most recent team.
func (s *PlayerService) Season(ctx context.Context, playerID, year int, scope Scope, team string) (map[string]any, error) {
	own, err := s.Games(ctx, playerID, year)
	if err != nil {
		return nil, err
	}
	if team == "" {
		team = own[len(own)-1].Team // rank transfers against the current roster
	}

	population, err := s.loadPopulation(ctx, team, year, scope)
	if err != nil {
		return nil, err
	}

	grouped := groupByPlayer(population)
	grouped[playerID] = own // the player always joins the population
	aggs, err := aggregateSeason(grouped)
	if err != nil {
		return nil, err
	}

	table := stats.BuildTable(aggs, nil, stats.ModeSeason)
	for i := range aggs {
		if aggs[i].PlayerID == playerID {
			return stats.AssembleRanked(&aggs[i], nil, table)
		}
	}
	return nil, fmt.Errorf("%w: player %d missing from population", ErrNotFound, playerID)
}

// Rolling returns a player's trailing-window aggregate with rolling-mode
// ranks and season constants merged in.
func (s *PlayerService) Rolling(ctx context.Context, playerID, year, days int, scope Scope, team string) (map[string]any, error) {
	own, err := s.Games(ctx, playerID, year)
	if err != nil {
		return nil, err
	}
	if team == "" {
		team = own[len(own)-1].Team
	}

	population, err := s.loadPopulation(ctx, team, year, scope)
	if err != nil {
		return nil, err
	}

	grouped := groupByPlayer(population)
	grouped[playerID] = own
	aggs, err := aggregateRolling(grouped, days)
	if err != nil {
		return nil, err
	}

	seasonLines, err := s.loadSeasonLines(ctx, team, year, scope)
	if err != nil {
		return nil, err
	}
	constants := constantsByPlayer(seasonLines)
	if constants[playerID] == nil {
		// Mid-season transfer: the roster query misses the player's season
		// line, so fetch it directly.
		line, err := s.seasons.GetByPlayer(ctx, playerID, year)
		if err != nil {
			return nil, fmt.Errorf("loading season line for player %d: %w", playerID, err)
		}
		if line != nil {
			c := line.ToConstants()
			constants[playerID] = &c
		}
	}

	table := stats.BuildTable(aggs, constants, stats.ModeRolling)
	for i := range aggs {
		if aggs[i].PlayerID == playerID {
			return stats.AssembleRanked(&aggs[i], constants[playerID], table)
		}
	}
	return nil, fmt.Errorf("%w: player %d missing from population", ErrNotFound, playerID)
}

func (s *PlayerService) loadPopulation(ctx context.Context, team string, year int, scope Scope) ([]store.GameLine, error) {
	if scope == ScopeNational {
		lines, err := s.games.ListByYear(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("loading national population for %d: %w", year, err)
		}
		return lines, nil
	}
	lines, err := s.games.ListByTeam(ctx, team, year)
	if err != nil {
		return nil, fmt.Errorf("loading team population for %s %d: %w", team, year, err)
	}
	return lines, nil
}

func (s *PlayerService) loadSeasonLines(ctx context.Context, team string, year int, scope Scope) ([]store.SeasonLine, error) {
	if scope == ScopeNational {
		lines, err := s.seasons.ListByYear(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("loading national season lines for %d: %w", year, err)
		}
		return lines, nil
	}
	lines, err := s.seasons.ListByTeam(ctx, team, year)
	if err != nil {
		return nil, fmt.Errorf("loading season lines for %s %d: %w", team, year, err)
	}
	return lines, nil
}
