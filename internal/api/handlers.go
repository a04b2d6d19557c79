// Package api exposes the engine's read surface and the driver configuration
// endpoints on a small gorilla/mux router.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/biraj16/TPBK-V8/internal/driverstore"
	"github.com/biraj16/TPBK-V8/internal/engine"
	"github.com/biraj16/TPBK-V8/internal/models"
)

// Server is the REST API server
type Server struct {
	router  *mux.Router
	drivers driverstore.Store
	engine  *engine.Engine
}

// NewServer creates a new API server and registers routes
func NewServer(drivers driverstore.Store, eng *engine.Engine) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		drivers: drivers,
		engine:  eng,
	}
	s.routes()
	return s
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	chain := ChainMiddleware(
		RecoveryMiddleware(),
		LoggingMiddleware(),
		CORSMiddleware(),
	)
	return chain(s.router)
}

func (s *Server) routes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := s.router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/drivers", s.handleGetDrivers).Methods(http.MethodGet)
	v1.HandleFunc("/drivers/{list}", s.handleGetDriverList).Methods(http.MethodGet)
	v1.HandleFunc("/drivers/{list}", s.handlePutDriverList).Methods(http.MethodPut)
	v1.HandleFunc("/state/{instrument}", s.handleGetState).Methods(http.MethodGet)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetDrivers(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.drivers.GetConfig(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load driver config")
		return
	}
	respondWithJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleGetDriverList(w http.ResponseWriter, r *http.Request) {
	list := mux.Vars(r)["list"]
	if !models.IsDriverList(list) {
		respondWithError(w, http.StatusNotFound, "unknown driver list")
		return
	}

	drivers, err := s.drivers.GetList(r.Context(), list)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load driver list")
		return
	}
	respondWithJSON(w, http.StatusOK, drivers)
}

func (s *Server) handlePutDriverList(w http.ResponseWriter, r *http.Request) {
	list := mux.Vars(r)["list"]
	if !models.IsDriverList(list) {
		respondWithError(w, http.StatusNotFound, "unknown driver list")
		return
	}

	var drivers []models.Driver
	if err := json.NewDecoder(r.Body).Decode(&drivers); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.drivers.PutList(r.Context(), list, drivers); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	instrument := mux.Vars(r)["instrument"]

	result, ok := s.engine.LastResult(instrument)
	if !ok {
		respondWithError(w, http.StatusNotFound, "instrument not evaluated yet")
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}
