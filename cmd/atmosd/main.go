package main

import (
	"flag"
	"net/http"

	"atmos-ca/internal/app"
	"atmos-ca/internal/sims/atmos"
)

func main() {
	addr := flag.String("addr", ":8077", "listen address")
	tps := flag.Int("tps", 20, "simulation ticks per second")
	seed := flag.Int64("seed", 42, "seed for the initial scenario")
	logLevel := flag.String("log-level", "info", "log level (debug|info|warn|error)")
	params := app.ParamMap{}
	flag.Var(params, "p", "simulation parameter key=value (repeatable)")
	flag.Parse()

	logger := NewLogger(*logLevel)

	world := atmos.NewWithConfig(atmos.FromMap(params))
	world.Reset(*seed)
	size := world.Size()
	logger.Infof("atmos world %dx%d seeded (%d tiles active)", size.W, size.H, world.ActiveTiles())

	server := NewServer(world, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", server.handleHealth)
	mux.HandleFunc("GET /state", server.handleState)
	mux.HandleFunc("POST /tick", server.handleTick)
	mux.HandleFunc("POST /wall", server.handleWall)
	mux.HandleFunc("POST /inject", server.handleInject)
	mux.HandleFunc("GET /parameters", server.handleParameters)
	mux.HandleFunc("GET /controls", server.handleControls)
	mux.HandleFunc("POST /parameter", server.handleSetParameter)
	mux.HandleFunc("POST /pause", server.handlePause(true))
	mux.HandleFunc("POST /resume", server.handlePause(false))
	mux.HandleFunc("GET /ws", server.handleWS)

	go server.tickLoop(*tps)

	logger.Infof("listening on %s (%d tps)", *addr, *tps)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
