package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/gifcast/gifcast/internal/export"
	"github.com/gifcast/gifcast/internal/logger"
)

// StatsProvider is the part of the exporter the status server reads.
type StatsProvider interface {
	Stats() export.Stats
	Err() error
}

// Server exposes the state of a recording in flight over HTTP.
type Server struct {
	router   *mux.Router
	exporter StatsProvider
	upgrader websocket.Upgrader
}

// NewServer creates a status server for the given exporter.
func NewServer(exporter StatsProvider) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		exporter: exporter,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins, the server binds locally
			},
		},
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/stats", s.handleGetStats).Methods("GET")
	api.HandleFunc("/stats/stream", s.handleStatsStream)
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Start starts the HTTP server
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logger.WithComponent("api").Info().
		Str("addr", addr).
		Msg("Status server listening")
	return http.ListenAndServe(addr, s.enableCORS(s.router))
}

// Handler returns the router for mounting in tests or another server.
func (s *Server) Handler() http.Handler {
	return s.enableCORS(s.router)
}

// enableCORS adds CORS headers
func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statsResponse struct {
	export.Stats
	Error string `json:"error,omitempty"`
}

func (s *Server) currentStats() statsResponse {
	resp := statsResponse{Stats: s.exporter.Stats()}
	if err := s.exporter.Err(); err != nil {
		resp.Error = err.Error()
	}
	return resp
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.currentStats())
}

// handleStatsStream pushes counter snapshots over a WebSocket until the
// client disconnects.
func (s *Server) handleStatsStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithComponent("api").Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteJSON(s.currentStats()); err != nil {
			return
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
