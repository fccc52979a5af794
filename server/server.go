// Package server exposes battles over HTTP: JSON endpoints to create
// and inspect rooms, a websocket endpoint to play in them, and battle
// report reads. Rooms pair two websocket seats, or one seat against
// the random bot.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"skirmish/scenario"
	"skirmish/storage"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Server wires the room manager, the scenario catalog, and an optional
// battle store behind one router.
type Server struct {
	manager   *Manager
	store     *storage.Store
	scenarios map[string]*scenario.Scenario
}

// New builds a server with the standard scenario registered. A nil
// store disables battle reports but not play.
func New(store *storage.Store) *Server {
	s := &Server{
		manager:   NewManager(),
		store:     store,
		scenarios: make(map[string]*scenario.Scenario),
	}
	s.AddScenario(scenario.Standard())
	return s
}

// AddScenario registers a scenario under its name, replacing any
// previous holder of that name.
func (s *Server) AddScenario(scn *scenario.Scenario) {
	s.scenarios[scn.Name] = scn
}

// Router returns the HTTP surface.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/scenarios", s.handleScenarios).Methods(http.MethodGet)
	r.HandleFunc("/rooms", s.handleListRooms).Methods(http.MethodGet)
	r.HandleFunc("/rooms", s.handleCreateRoom).Methods(http.MethodPost)
	r.HandleFunc("/rooms/{id}", s.handleRemoveRoom).Methods(http.MethodDelete)
	r.HandleFunc("/ws/{id}", s.handleWS).Methods(http.MethodGet)
	r.HandleFunc("/battles", s.handleBattles).Methods(http.MethodGet)
	r.HandleFunc("/battles/{id}/events", s.handleBattleEvents).Methods(http.MethodGet)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScenarios(w http.ResponseWriter, _ *http.Request) {
	type entry struct {
		Name     string `json:"name"`
		MaxTurns int    `json:"max_turns"`
		Units    int    `json:"units"`
	}
	names := maps.Keys(s.scenarios)
	slices.Sort(names)
	out := make([]entry, 0, len(names))
	for _, n := range names {
		scn := s.scenarios[n]
		out = append(out, entry{Name: scn.Name, MaxTurns: scn.MaxTurns, Units: len(scn.Units)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListRooms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"rooms": s.manager.List()})
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Scenario string `json:"scenario"`
		Seed     int64  `json:"seed"`
		VsBot    bool   `json:"vs_bot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "bad request body")
		return
	}
	if req.Scenario == "" {
		req.Scenario = "standard"
	}
	scn, ok := s.scenarios[req.Scenario]
	if !ok {
		httpError(w, http.StatusNotFound, "unknown scenario "+req.Scenario)
		return
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}
	room, err := s.manager.Create(scn, req.VsBot, req.Seed, s.store)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	log.Info().Str("room", room.ID).Str("scenario", scn.Name).Bool("vs_bot", req.VsBot).Msg("room created")
	writeJSON(w, http.StatusCreated, map[string]string{"room": room.ID, "scenario": scn.Name})
}

func (s *Server) handleRemoveRoom(w http.ResponseWriter, r *http.Request) {
	s.manager.Remove(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	room := s.manager.Get(mux.Vars(r)["id"])
	if room == nil {
		httpError(w, http.StatusNotFound, "unknown room")
		return
	}
	serveWs(room, w, r)
}

func (s *Server) handleBattles(w http.ResponseWriter, _ *http.Request) {
	if s.store == nil {
		httpError(w, http.StatusNotFound, "no battle store configured")
		return
	}
	reports, err := s.store.Reports(50)
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleBattleEvents(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		httpError(w, http.StatusNotFound, "no battle store configured")
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		httpError(w, http.StatusBadRequest, "bad battle id")
		return
	}
	events, err := s.store.Events(id)
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("response encode failed")
	}
}

func httpError(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, map[string]string{"error": reason})
}
