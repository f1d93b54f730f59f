package atmos

import (
	"atmos-ca/internal/core"
)

// World owns the tile arena, the activation set, and the scenario
// configuration. Tiles are addressed by arena index; neighbor links hold
// index pairs, so the graph has no pointer cycles.
//
// A World is stepped by a single goroutine. Collaborators (rendering, input,
// the inspection server) read tile state or request wall toggles between
// ticks; they never mutate mixtures directly.
type World struct {
	cfg  Config
	grid core.Grid

	tiles    []Tile
	posIndex map[Position]int

	// active marks tiles scheduled for re-evaluation this tick. nextActive
	// collects the set for the following tick while the current one runs.
	active     []bool
	nextActive []bool

	// pressures is the per-tick snapshot all transfer decisions read from,
	// so processing order cannot bias who gives or receives first.
	pressures []uint64
	pending   []transfer

	topoDirty bool
	tick      int

	display    []uint8
	activeMask []uint8
	tempMask   []uint8
	rng        *core.RNG
}

// transfer is one scheduled equalization between an unordered tile pair,
// oriented from the higher-pressure side at snapshot time.
type transfer struct {
	src, dst int
}

// New returns an atmos world of the given dimensions using defaults.
func New(w, h int) *World {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns an atmos world configured from the provided options.
// The grid is empty until Reset builds the scenario.
func NewWithConfig(cfg Config) *World {
	g := core.NewGrid(cfg.Width, cfg.Height)
	return &World{
		cfg:        cfg,
		grid:       g,
		posIndex:   make(map[Position]int, g.Len()),
		display:    make([]uint8, g.Len()),
		activeMask: make([]uint8, g.Len()),
		tempMask:   make([]uint8, g.Len()),
		rng:        core.NewRNG(cfg.Seed),
	}
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "atmos" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.grid.W, H: w.grid.H} }

// Cells exposes the current display buffer.
func (w *World) Cells() []uint8 { return w.display }

// Tick reports how many steps have run since the last Reset.
func (w *World) Tick() int { return w.tick }

// Reset rebuilds the configured scenario deterministically: air at standard
// pressure everywhere, an evacuated region at the center, and randomly
// scattered walls. Every tile starts active. A seed of 0 is a sentinel for
// "use the configured seed"; pass any non-zero value to override it.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.rng = core.NewRNG(effective)

	w.tiles = w.tiles[:0]
	w.active = w.active[:0]
	w.nextActive = w.nextActive[:0]
	w.pressures = w.pressures[:0]
	w.pending = w.pending[:0]
	clear(w.posIndex)

	p := w.cfg.Params
	cx, cy := w.grid.W/2, w.grid.H/2
	for y := 0; y < w.grid.H; y++ {
		for x := 0; x < w.grid.W; x++ {
			pos := Position{X: x, Y: y}
			inVacuum := p.VacuumRadius > 0 &&
				chebyshev(x-cx, y-cy) <= p.VacuumRadius
			switch {
			case inVacuum:
				w.AddTile(pos, NewVacuum(p.TileVolume), false)
			case w.rng.Chance(p.WallChance):
				w.AddTile(pos, NewVacuum(p.TileVolume), true)
			default:
				w.AddTile(pos, NewAir(p.TileVolume, p.AirTemp), false)
			}
		}
	}

	w.rebuildConnectivity()
	w.tick = 0
	w.refreshDisplay()
}

// AddTile appends a tile to the arena, marks the topology dirty, and seeds
// the tile active. It returns the tile's arena index.
func (w *World) AddTile(pos Position, mix GasMixture, wall bool) int {
	idx := len(w.tiles)
	w.tiles = append(w.tiles, newTile(pos, mix, wall))
	w.posIndex[pos] = idx
	w.active = append(w.active, true)
	w.nextActive = append(w.nextActive, false)
	w.pressures = append(w.pressures, 0)
	w.topoDirty = true
	return idx
}

// Step advances the simulation by one tick: rebuild connectivity if the
// topology changed, snapshot every tile's pressure, scan the active set for
// threshold-crossing differentials, then apply the scheduled transfers.
//
// Each unordered neighbor pair is scheduled at most once per tick, owned by
// the lower-index side when both tiles are active. Transfers are applied
// sequentially after the scan; ShareGasWith re-checks the live differential,
// so a pair already equalized by an earlier transfer degrades to a no-op.
func (w *World) Step() {
	if len(w.tiles) == 0 {
		return
	}
	if w.topoDirty {
		w.rebuildConnectivity()
	}

	for i := range w.tiles {
		w.pressures[i] = w.tiles[i].Mix.Pressure()
	}
	for i := range w.nextActive {
		w.nextActive[i] = false
	}

	eps := w.cfg.Params.Transfer.PressureEpsilon
	for i := range w.tiles {
		if !w.active[i] {
			continue
		}
		t := &w.tiles[i]
		if t.Wall {
			continue
		}
		settled := true
		for _, link := range t.Neighbors {
			if link.Tile == noTile || !link.Open {
				continue
			}
			j := link.Tile
			if absDiff(w.pressures[i], w.pressures[j]) < eps {
				continue
			}
			// Disturbance spreads outward: the neighbor wakes even if it
			// was settled before this tick.
			settled = false
			w.nextActive[j] = true
			if w.active[j] && j < i {
				continue
			}
			src, dst := i, j
			if w.pressures[j] > w.pressures[i] {
				src, dst = j, i
			}
			w.pending = append(w.pending, transfer{src: src, dst: dst})
		}
		if !settled {
			w.nextActive[i] = true
		}
	}

	for _, tr := range w.pending {
		w.tiles[tr.src].Mix.ShareGasWith(&w.tiles[tr.dst].Mix, w.cfg.Params.Transfer)
	}
	w.pending = w.pending[:0]

	w.active, w.nextActive = w.nextActive, w.active
	w.tick++
	w.refreshDisplay()
}

// SetWall changes a tile's wall state. Turning a tile into a wall inerts its
// mixture before the neighbor links close, so stale contents cannot leak
// into transfer math. The toggled tile and its 4-neighborhood are re-seeded
// active; the next Step rebuilds connectivity first.
func (w *World) SetWall(x, y int, wall bool) bool {
	i, ok := w.tileAt(x, y)
	if !ok {
		return false
	}
	t := &w.tiles[i]
	if t.Wall == wall {
		return false
	}
	t.Wall = wall
	if wall {
		t.Mix = NewVacuum(t.Mix.Volume)
	}
	w.topoDirty = true
	w.active[i] = true
	for _, pos := range t.Pos.Neighbors() {
		if j, ok := w.posIndex[pos]; ok {
			w.active[j] = true
		}
	}
	w.refreshDisplay()
	return true
}

// ToggleWall flips the wall state of the tile at (x, y).
func (w *World) ToggleWall(x, y int) bool {
	i, ok := w.tileAt(x, y)
	if !ok {
		return false
	}
	return w.SetWall(x, y, !w.tiles[i].Wall)
}

// InjectGas adds moles of one species to the tile at (x, y) and wakes it.
// Walls reject injection.
func (w *World) InjectGas(x, y int, gas GasType, micromoles uint64) bool {
	i, ok := w.tileAt(x, y)
	if !ok || w.tiles[i].Wall {
		return false
	}
	w.tiles[i].Mix.AddMoles(gas, micromoles)
	w.active[i] = true
	w.refreshDisplay()
	return true
}

// VentBurstMicromoles is the plasma quantity one Vent call releases.
const VentBurstMicromoles = 20_000_000

// Vent releases a fixed burst of plasma at (x, y). Convenience entry point
// for input handling.
func (w *World) Vent(x, y int) bool {
	return w.InjectGas(x, y, Plasma, VentBurstMicromoles)
}

// PressureAt reports the pressure in μkPa at (x, y), zero out of bounds.
func (w *World) PressureAt(x, y int) uint64 {
	if i, ok := w.tileAt(x, y); ok {
		return w.tiles[i].Mix.Pressure()
	}
	return 0
}

// TemperatureAt reports the temperature in mK at (x, y), zero out of bounds.
func (w *World) TemperatureAt(x, y int) uint64 {
	if i, ok := w.tileAt(x, y); ok {
		return w.tiles[i].Mix.Temperature
	}
	return 0
}

// TotalMolesAt reports the total micro-moles at (x, y), zero out of bounds.
func (w *World) TotalMolesAt(x, y int) uint64 {
	if i, ok := w.tileAt(x, y); ok {
		return w.tiles[i].Mix.TotalMoles()
	}
	return 0
}

// HasTile reports whether a tile exists at (x, y).
func (w *World) HasTile(x, y int) bool {
	_, ok := w.tileAt(x, y)
	return ok
}

// IsWall reports whether the tile at (x, y) is a sealed wall.
func (w *World) IsWall(x, y int) bool {
	if i, ok := w.tileAt(x, y); ok {
		return w.tiles[i].Wall
	}
	return false
}

// IsActive reports whether the tile at (x, y) is scheduled for the next tick.
func (w *World) IsActive(x, y int) bool {
	if i, ok := w.tileAt(x, y); ok {
		return w.active[i]
	}
	return false
}

// ActiveTiles counts the tiles currently scheduled for re-evaluation.
func (w *World) ActiveTiles() int {
	n := 0
	for _, a := range w.active {
		if a {
			n++
		}
	}
	return n
}

func (w *World) tileAt(x, y int) (int, bool) {
	i, ok := w.posIndex[Position{X: x, Y: y}]
	return i, ok
}

func chebyshev(dx, dy int) int {
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

func init() {
	core.Register("atmos", func(cfg map[string]string) core.Sim {
		return NewWithConfig(FromMap(cfg))
	})
}
