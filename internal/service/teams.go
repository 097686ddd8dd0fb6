package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fortuna/athena/internal/cache"
	"github.com/fortuna/athena/internal/stats"
	"github.com/fortuna/athena/internal/store"
	"github.com/fortuna/athena/internal/store/repository"
)

const (
	rosterCacheTTL = 10 * time.Minute
	// CachePrefix namespaces every key this package writes.
	CachePrefix = "athena:"
	// LastRefreshKey records when a feed refresh last landed. Written by the
	// scheduler, read by the scheduler status endpoint.
	LastRefreshKey = CachePrefix + "last_refresh"
)

// TeamService serves team summaries and ranked rosters.
type TeamService struct {
	games   *repository.GameRepository
	seasons *repository.SeasonRepository
	teams   *repository.TeamRepository
	cache   *cache.RedisCache
}

// NewTeamService creates a team service. cache may be nil; lookups then go
// straight to Postgres.
func NewTeamService(db *store.Database, c *cache.RedisCache) *TeamService {
	return &TeamService{
		games:   repository.NewGameRepository(db),
		seasons: repository.NewSeasonRepository(db),
		teams:   repository.NewTeamRepository(db),
		cache:   c,
	}
}

// ListTeams returns all team results for a year, best rank first.
func (s *TeamService) ListTeams(ctx context.Context, year int) ([]store.TeamResult, error) {
	key := fmt.Sprintf("%steams:%d", CachePrefix, year)
	var cached []store.TeamResult
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	results, err := s.teams.ListByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("listing teams for %d: %w", year, err)
	}
	s.cacheSet(ctx, key, results)
	return results, nil
}

// GetTeamResult returns one team's season summary.
func (s *TeamService) GetTeamResult(ctx context.Context, team string, year int) (*store.TeamResult, error) {
	result, err := s.teams.GetResult(ctx, team, year)
	if err != nil {
		return nil, fmt.Errorf("fetching result for %s %d: %w", team, year, err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: team %s in %d", ErrNotFound, team, year)
	}
	return result, nil
}

// SeasonRoster returns a team's players with season aggregates and
// percentile ranks. The comparison population follows scope: the roster
// itself, or every player in the year.
func (s *TeamService) SeasonRoster(ctx context.Context, team string, year int, scope Scope) ([]map[string]any, error) {
	key := fmt.Sprintf("%sroster:season:%s:%d:%s", CachePrefix, team, year, scope)
	var cached []map[string]any
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	population, err := s.populationLines(ctx, team, year, scope)
	if err != nil {
		return nil, err
	}

	grouped := groupByPlayer(population)
	if len(grouped) == 0 {
		return nil, fmt.Errorf("%w: no games for team %s in %d", ErrNotFound, team, year)
	}
	aggs, err := aggregateSeason(grouped)
	if err != nil {
		return nil, err
	}

	table := stats.BuildTable(aggs, nil, stats.ModeSeason)
	roster, err := assembleAll(aggs, nil, table, keepTeam(team, scope))
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, roster)
	return roster, nil
}

// RollingRoster returns a team's players aggregated over the trailing
// window, rolling-mode ranked against the scope population with season
// constants merged in.
func (s *TeamService) RollingRoster(ctx context.Context, team string, year, days int, scope Scope) ([]map[string]any, error) {
	key := fmt.Sprintf("%sroster:rolling:%s:%d:%d:%s", CachePrefix, team, year, days, scope)
	var cached []map[string]any
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	population, err := s.populationLines(ctx, team, year, scope)
	if err != nil {
		return nil, err
	}

	grouped := groupByPlayer(population)
	if len(grouped) == 0 {
		return nil, fmt.Errorf("%w: no games for team %s in %d", ErrNotFound, team, year)
	}
	aggs, err := aggregateRolling(grouped, days)
	if err != nil {
		return nil, err
	}

	seasonLines, err := s.seasonLines(ctx, team, year, scope)
	if err != nil {
		return nil, err
	}
	constants := constantsByPlayer(seasonLines)

	table := stats.BuildTable(aggs, constants, stats.ModeRolling)
	roster, err := assembleAll(aggs, constants, table, keepTeam(team, scope))
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, roster)
	return roster, nil
}

func (s *TeamService) populationLines(ctx context.Context, team string, year int, scope Scope) ([]store.GameLine, error) {
	if scope == ScopeNational {
		lines, err := s.games.ListByYear(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("loading national population for %d: %w", year, err)
		}
		return lines, nil
	}
	lines, err := s.games.ListByTeam(ctx, team, year)
	if err != nil {
		return nil, fmt.Errorf("loading roster games for %s %d: %w", team, year, err)
	}
	return lines, nil
}

func (s *TeamService) seasonLines(ctx context.Context, team string, year int, scope Scope) ([]store.SeasonLine, error) {
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

// keepTeam limits national-population responses to the requested roster.
func keepTeam(team string, scope Scope) func(*stats.SeasonAggregate) bool {
	if scope != ScopeNational {
		return nil
	}
	return func(a *stats.SeasonAggregate) bool { return a.Team == team }
}

func (s *TeamService) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.GetJSON(ctx, key, dest)
	if err != nil {
		log.Printf("[team-service] ⚠️ cache read %s: %v", key, err)
		return false
	}
	return hit
}

func (s *TeamService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, rosterCacheTTL); err != nil {
		log.Printf("[team-service] ⚠️ cache write %s: %v", key, err)
	}
}
