package main

import (
	"sync"
	"time"

	"atmos-ca/internal/core"
	"atmos-ca/internal/sims/atmos"

	"github.com/gorilla/websocket"
)

// tileState is the wire form of one tile for inspection clients.
type tileState struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Pressure    uint64 `json:"pressure_ukpa"`
	Temperature uint64 `json:"temperature_mk"`
	Moles       uint64 `json:"total_micromoles"`
	Wall        bool   `json:"wall"`
	Active      bool   `json:"active"`
}

// gridSnapshot is one consistent read of the whole grid.
type gridSnapshot struct {
	Tick        int         `json:"tick"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	ActiveTiles int         `json:"active_tiles"`
	Tiles       []tileState `json:"tiles"`
}

// Server owns the world, the tick loop, and the websocket subscribers. All
// world access goes through mu; mixtures are only ever mutated on the tick
// goroutine or inside a write-locked handler.
type Server struct {
	mu     sync.RWMutex
	world  *atmos.World
	paused bool

	logger   *Logger
	upgrader websocket.Upgrader

	subMu sync.Mutex
	subs  map[*websocket.Conn]bool
}

// NewServer wraps a world for HTTP/websocket inspection.
func NewServer(world *atmos.World, logger *Logger) *Server {
	return &Server{
		world:  world,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		subs: make(map[*websocket.Conn]bool),
	}
}

// snapshot reads the full grid under the read lock.
func (s *Server) snapshot() gridSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	size := s.world.Size()
	snap := gridSnapshot{
		Tick:        s.world.Tick(),
		Width:       size.W,
		Height:      size.H,
		ActiveTiles: s.world.ActiveTiles(),
		Tiles:       make([]tileState, 0, size.W*size.H),
	}
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			snap.Tiles = append(snap.Tiles, tileState{
				X:           x,
				Y:           y,
				Pressure:    s.world.PressureAt(x, y),
				Temperature: s.world.TemperatureAt(x, y),
				Moles:       s.world.TotalMolesAt(x, y),
				Wall:        s.world.IsWall(x, y),
				Active:      s.world.IsActive(x, y),
			})
		}
	}
	return snap
}

// tickLoop advances the world at a steady rate and pushes a snapshot to all
// websocket subscribers after each tick.
func (s *Server) tickLoop(tps int) {
	fs := core.NewFixedStep(tps)
	for {
		if !fs.ShouldStep() {
			time.Sleep(time.Millisecond)
			continue
		}
		s.mu.Lock()
		paused := s.paused
		if !paused {
			s.world.Step()
		}
		s.mu.Unlock()
		if !paused {
			s.broadcast()
		}
	}
}

// broadcast pushes the current snapshot to every subscriber, dropping any
// connection that fails to accept the write.
func (s *Server) broadcast() {
	s.subMu.Lock()
	n := len(s.subs)
	s.subMu.Unlock()
	if n == 0 {
		return
	}

	snap := s.snapshot()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for conn := range s.subs {
		if err := conn.WriteJSON(snap); err != nil {
			s.logger.Debugf("dropping subscriber: %v", err)
			delete(s.subs, conn)
			_ = conn.Close()
		}
	}
}

func (s *Server) subscribe(conn *websocket.Conn) {
	s.subMu.Lock()
	s.subs[conn] = true
	s.subMu.Unlock()
	s.logger.Infof("websocket subscriber connected (%s)", conn.RemoteAddr())
}

func (s *Server) unsubscribe(conn *websocket.Conn) {
	s.subMu.Lock()
	if _, ok := s.subs[conn]; ok {
		delete(s.subs, conn)
		_ = conn.Close()
	}
	s.subMu.Unlock()
}
