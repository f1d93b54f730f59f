package main

import (
	"encoding/json"
	"math"
	"net/http"

	"atmos-ca/internal/sims/atmos"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// GET /state
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
	}
}

// POST /tick
// Body: { "count": 1 }
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	req := struct {
		Count int `json:"count"`
	}{Count: 1}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.Count < 1 || req.Count > 10_000 {
		http.Error(w, "count out of range", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	for i := 0; i < req.Count; i++ {
		s.world.Step()
	}
	tick := s.world.Tick()
	s.mu.Unlock()

	s.logger.Debugf("stepped %d ticks (now %d)", req.Count, tick)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ticked"))
}

// POST /wall
// Body: { "x": 0, "y": 0, "wall": true }
func (s *Server) handleWall(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req struct {
		X    int  `json:"x"`
		Y    int  `json:"y"`
		Wall bool `json:"wall"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	known := s.world.HasTile(req.X, req.Y)
	changed := known && s.world.SetWall(req.X, req.Y, req.Wall)
	s.mu.Unlock()

	if !known {
		http.Error(w, "no such tile", http.StatusBadRequest)
		return
	}
	if !changed {
		// Idempotent repeat: the wall is already in the requested state.
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("unchanged"))
		return
	}
	s.logger.Infof("wall at (%d,%d) set to %v", req.X, req.Y, req.Wall)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// POST /inject
// Body: { "x": 0, "y": 0, "gas": "plasma", "micromoles": 1000000 }
func (s *Server) handleInject(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req struct {
		X          int    `json:"x"`
		Y          int    `json:"y"`
		Gas        string `json:"gas"`
		Micromoles uint64 `json:"micromoles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	gas, ok := parseGasType(req.Gas)
	if !ok {
		http.Error(w, "unknown gas "+req.Gas, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	ok = s.world.InjectGas(req.X, req.Y, gas, req.Micromoles)
	s.mu.Unlock()

	if !ok {
		http.Error(w, "no such tile, or tile is a wall", http.StatusBadRequest)
		return
	}
	s.logger.Infof("injected %d μmol %s at (%d,%d)", req.Micromoles, gas, req.X, req.Y)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// GET /parameters
func (s *Server) handleParameters(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	snap := s.world.Parameters()
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
	}
}

// GET /controls
func (s *Server) handleControls(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	controls := s.world.ParameterControls()
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(controls); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
	}
}

// POST /parameter
// Body: { "key": "pressure_epsilon", "value": 50000 }
func (s *Server) handleSetParameter(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req struct {
		Key   string  `json:"key"`
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	ok := s.world.SetFloatParameter(req.Key, req.Value)
	if !ok && req.Value == math.Trunc(req.Value) {
		ok = s.world.SetIntParameter(req.Key, int(req.Value))
	}
	s.mu.Unlock()

	if !ok {
		http.Error(w, "unknown parameter or rejected value", http.StatusBadRequest)
		return
	}
	s.logger.Infof("parameter %s set to %v", req.Key, req.Value)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// POST /pause and POST /resume
func (s *Server) handlePause(paused bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.paused = paused
		s.mu.Unlock()
		s.logger.Infof("paused=%v", paused)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// GET /ws upgrades to a websocket that receives a grid snapshot after every
// tick.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("websocket upgrade failed: %v", err)
		return
	}
	s.subscribe(conn)

	// Drain client frames until the connection dies.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.unsubscribe(conn)
				return
			}
		}
	}()
}

func parseGasType(name string) (atmos.GasType, bool) {
	for g := atmos.GasType(0); g < atmos.GasTypeCount; g++ {
		if g.String() == name {
			return g, true
		}
	}
	return 0, false
}
