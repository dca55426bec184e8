package contractmock

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/shardmesh/shardmesh/pkg/types"
)

// Server exposes a Registry over the three routes a validator's
// contractclient talks to.
type Server struct {
	registry *Registry
	logger   zerolog.Logger
	http     *http.Server
}

// NewServer wires registry behind an HTTP handler listening on addr.
func NewServer(addr string, registry *Registry, logger zerolog.Logger) *Server {
	s := &Server{registry: registry, logger: logger}
	s.http = &http.Server{Addr: addr, Handler: s.router()}
	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/info", s.handleInfo)
	r.Post("/clusters", s.handleCreateCluster)
	r.Get("/clusters/{cluster_id}", s.handleGetCluster)
	return r
}

// Start runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.http.Shutdown(context.Background())
	}
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) handleCreateCluster(w http.ResponseWriter, r *http.Request) {
	var req types.ClusterCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	id, err := s.registry.Create(req.OwnerPK, req.Commit)
	if err != nil {
		s.logger.Error().Err(err).Msg("create cluster")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, types.ClusterCreateResponse{ClusterID: id})
}

func (s *Server) handleGetCluster(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "cluster_id")
	id, err := types.ParseClusterID(raw)
	if err != nil {
		http.Error(w, "invalid cluster id", http.StatusBadRequest)
		return
	}

	info, ok := s.registry.Get(id)
	if !ok {
		http.Error(w, "cluster not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
