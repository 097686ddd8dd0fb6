package websocket

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/fortuna/athena/internal/cache"
	"github.com/fortuna/athena/internal/publisher"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development (TODO: restrict in production)
	},
}

// Server pushes refresh notifications to websocket subscribers. Events arrive
// on the publisher's Redis stream, so every replica fans out the same updates.
type Server struct {
	port   string
	server *http.Server
	hub    *Hub
	cache  *cache.RedisCache
	cancel context.CancelFunc
}

// NewServer creates a new WebSocket server
func NewServer(c *cache.RedisCache) *Server {
	return &Server{
		hub:   NewHub(),
		cache: c,
	}
}

// Start starts the WebSocket server
func (s *Server) Start(port string) error {
	s.port = port

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.hub.Run(ctx)
	if s.cache != nil {
		go s.consumeRefreshStream(ctx)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/refresh", s.handleRefresh)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	log.Printf("WebSocket server listening on :%s", port)
	return s.server.ListenAndServe()
}

// handleRefresh handles WebSocket connections for refresh notifications
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// consumeRefreshStream tails the refresh stream and broadcasts each event
// until ctx is cancelled.
func (s *Server) consumeRefreshStream(ctx context.Context) {
	client := s.cache.Client()
	lastID := "$"

	for ctx.Err() == nil {
		streams, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{publisher.RefreshStream, lastID},
			Block:   5 * time.Second,
			Count:   10,
		}).Result()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if err != redis.Nil {
				log.Printf("[ws] ⚠️ stream read error: %v", err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Second):
				}
			}
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				if data, ok := msg.Values["data"].(string); ok {
					s.BroadcastRefresh([]byte(data))
				}
			}
		}
	}
}

// BroadcastRefresh sends a refresh payload to all connected clients.
func (s *Server) BroadcastRefresh(data []byte) {
	s.hub.Broadcast(data)
}

// Shutdown stops the stream reader and hub, then drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
