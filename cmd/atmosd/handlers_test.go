package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"atmos-ca/internal/sims/atmos"
)

func newTestServer() *Server {
	cfg := atmos.DefaultConfig()
	cfg.Width = 4
	cfg.Height = 4
	cfg.Params.WallChance = 0
	cfg.Params.VacuumRadius = 0
	world := atmos.NewWithConfig(cfg)
	world.Reset(1)
	return NewServer(world, NewLogger("error"))
}

func postWall(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/wall", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleWall(rec, req)
	return rec
}

func TestHandleWallDistinguishesNoOpFromMissingTile(t *testing.T) {
	s := newTestServer()

	rec := postWall(t, s, `{"x":1,"y":1,"wall":true}`)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("toggle: code %d body %q", rec.Code, rec.Body.String())
	}

	// Repeating the request is idempotent, not a client error.
	rec = postWall(t, s, `{"x":1,"y":1,"wall":true}`)
	if rec.Code != http.StatusOK || rec.Body.String() != "unchanged" {
		t.Fatalf("no-op repeat: code %d body %q", rec.Code, rec.Body.String())
	}

	rec = postWall(t, s, `{"x":40,"y":40,"wall":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing tile: code %d", rec.Code)
	}

	rec = postWall(t, s, `{"x":1,"y":1,"wall":false}`)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unseal: code %d body %q", rec.Code, rec.Body.String())
	}
}
