package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fortuna/athena/internal/backfill"
	"github.com/fortuna/athena/internal/cache"
	"github.com/fortuna/athena/internal/ingest/torvik"
	"github.com/fortuna/athena/internal/store"
)

// Refresher triggers an on-demand feed refresh and reports scheduler state;
// the scheduler orchestrator implements it.
type Refresher interface {
	RefreshNow(ctx context.Context, year int) (torvik.IngestSummary, error)
	GetStatus() map[string]interface{}
}

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server
func NewServer(port string, db *store.Database, c *cache.RedisCache, refresher Refresher, backfillSvc *backfill.Service) *Server {
	handler := NewHandler(db, c)
	refreshHandler := NewRefreshHandler(refresher, c)
	backfillHandler := NewBackfillHandler(backfillSvc)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Teams
	api.HandleFunc("/teams", handler.GetTeams).Methods("GET")
	api.HandleFunc("/teams/{team}/results", handler.GetTeamResult).Methods("GET")
	api.HandleFunc("/teams/{team}/players", handler.GetTeamPlayers).Methods("GET")
	api.HandleFunc("/teams/{team}/players/rolling", handler.GetTeamPlayersRolling).Methods("GET")

	// Players
	api.HandleFunc("/players/{playerID}/games", handler.GetPlayerGames).Methods("GET")
	api.HandleFunc("/players/{playerID}/season", handler.GetPlayerSeason).Methods("GET")
	api.HandleFunc("/players/{playerID}/rolling", handler.GetPlayerRolling).Methods("GET")

	// Ingest operations
	api.HandleFunc("/refresh", refreshHandler.HandleRefresh).Methods("POST")
	api.HandleFunc("/scheduler/status", refreshHandler.HandleSchedulerStatus).Methods("GET")
	api.HandleFunc("/backfill", backfillHandler.HandleBackfillRequest).Methods("POST")
	api.HandleFunc("/backfill/status", backfillHandler.HandleBackfillStatus).Methods("GET")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
