package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/fortuna/athena/internal/cache"
	"github.com/fortuna/athena/internal/ingest/torvik"
	"github.com/fortuna/athena/internal/service"
	"github.com/fortuna/athena/internal/stats"
	"github.com/fortuna/athena/internal/store"
)

// defaultWindowDays is the trailing window applied when ?days is omitted.
const defaultWindowDays = 30

// Handler contains dependencies for HTTP handlers
type Handler struct {
	db            *store.Database
	teamService   *service.TeamService
	playerService *service.PlayerService
}

// NewHandler creates a new handler
func NewHandler(db *store.Database, c *cache.RedisCache) *Handler {
	return &Handler{
		db:            db,
		teamService:   service.NewTeamService(db, c),
		playerService: service.NewPlayerService(db, c),
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if err := h.db.HealthCheck(); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  status,
		"service": "athena",
		"version": "1.0.0",
	})
}

// GetTeams returns team results for a year, best rank first.
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	teams, err := h.teamService.ListTeams(r.Context(), year)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch teams", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"year":  year,
		"teams": teams,
		"count": len(teams),
	})
}

// GetTeamResult returns one team's season summary.
func (h *Handler) GetTeamResult(w http.ResponseWriter, r *http.Request) {
	team := mux.Vars(r)["team"]
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	result, err := h.teamService.GetTeamResult(r.Context(), team, year)
	if err != nil {
		h.respondServiceError(w, "Failed to fetch team result", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetTeamPlayers returns a team's roster with season aggregates and
// percentile ranks.
func (h *Handler) GetTeamPlayers(w http.ResponseWriter, r *http.Request) {
	team := mux.Vars(r)["team"]
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	scope, err := service.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid scope", err)
		return
	}

	roster, err := h.teamService.SeasonRoster(r.Context(), team, year, scope)
	if err != nil {
		h.respondServiceError(w, "Failed to build roster", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"team":    team,
		"year":    year,
		"scope":   scope,
		"players": roster,
		"count":   len(roster),
	})
}

// GetTeamPlayersRolling returns the roster aggregated over a trailing
// window, with rolling-mode percentile ranks.
func (h *Handler) GetTeamPlayersRolling(w http.ResponseWriter, r *http.Request) {
	team := mux.Vars(r)["team"]
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	days, ok := daysParam(w, r)
	if !ok {
		return
	}
	scope, err := service.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid scope", err)
		return
	}

	roster, err := h.teamService.RollingRoster(r.Context(), team, year, days, scope)
	if err != nil {
		h.respondServiceError(w, "Failed to build rolling roster", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"team":    team,
		"year":    year,
		"days":    days,
		"scope":   scope,
		"players": roster,
		"count":   len(roster),
	})
}

// GetPlayerGames returns a player's game log for a year.
func (h *Handler) GetPlayerGames(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerParam(w, r)
	if !ok {
		return
	}
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	games, err := h.playerService.Games(r.Context(), playerID, year)
	if err != nil {
		h.respondServiceError(w, "Failed to fetch player games", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"pid":   playerID,
		"year":  year,
		"games": games,
		"count": len(games),
	})
}

// GetPlayerSeason returns a player's ranked season line.
func (h *Handler) GetPlayerSeason(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerParam(w, r)
	if !ok {
		return
	}
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	scope, err := service.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid scope", err)
		return
	}

	season, err := h.playerService.Season(r.Context(), playerID, year, scope, r.URL.Query().Get("team"))
	if err != nil {
		h.respondServiceError(w, "Failed to build season line", err)
		return
	}

	respondJSON(w, http.StatusOK, season)
}

// GetPlayerRolling returns a player's ranked trailing-window line.
func (h *Handler) GetPlayerRolling(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerParam(w, r)
	if !ok {
		return
	}
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	days, ok := daysParam(w, r)
	if !ok {
		return
	}
	scope, err := service.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid scope", err)
		return
	}

	rolling, err := h.playerService.Rolling(r.Context(), playerID, year, days, scope, r.URL.Query().Get("team"))
	if err != nil {
		h.respondServiceError(w, "Failed to build rolling line", err)
		return
	}

	respondJSON(w, http.StatusOK, rolling)
}

// yearParam reads ?year, defaulting to the current season.
func yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	yearStr := r.URL.Query().Get("year")
	if yearStr == "" {
		return torvik.CurrentSeasonYear(time.Now()), true
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2008 || year > 2100 {
		respondError(w, http.StatusBadRequest, "Invalid year", err)
		return 0, false
	}
	return year, true
}

// daysParam reads ?days, defaulting to defaultWindowDays. Zero and negative
// windows are rejected here so the aggregation core never sees them.
func daysParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	daysStr := r.URL.Query().Get("days")
	if daysStr == "" {
		return defaultWindowDays, true
	}
	days, err := strconv.Atoi(daysStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid days", err)
		return 0, false
	}
	if days < 1 {
		respondError(w, http.StatusBadRequest, "Invalid days", stats.ErrInvalidWindow)
		return 0, false
	}
	return days, true
}

func playerParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	playerID, err := strconv.Atoi(mux.Vars(r)["playerID"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid player ID", err)
		return 0, false
	}
	return playerID, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, message, err)
	case errors.Is(err, stats.ErrInvalidWindow):
		respondError(w, http.StatusBadRequest, message, err)
	default:
		respondError(w, http.StatusInternalServerError, message, err)
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
