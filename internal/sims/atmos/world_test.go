package atmos

import (
	"slices"
	"testing"
)

func flatConfig(w, h int) Config {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	cfg.Params.WallChance = 0
	cfg.Params.VacuumRadius = 0
	return cfg
}

func TestConnectivitySymmetry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 16
	cfg.Height = 12
	cfg.Seed = 5
	cfg.Params.WallChance = 0.3
	cfg.Params.VacuumRadius = 2

	world := NewWithConfig(cfg)
	world.Reset(0)

	for i := range world.tiles {
		tile := &world.tiles[i]
		for d := range tile.Neighbors {
			link := tile.Neighbors[d]
			if link.Tile == noTile {
				continue
			}
			back := world.tiles[link.Tile].Neighbors[Direction(d).Opposite()]
			if back.Tile != i {
				t.Fatalf("tile %d dir %d: neighbor %d does not link back (got %d)",
					i, d, link.Tile, back.Tile)
			}
			if back.Open != link.Open {
				t.Fatalf("tile %d dir %d: asymmetric open flags (%v vs %v)",
					i, d, link.Open, back.Open)
			}
		}
	}
}

func TestWallGating(t *testing.T) {
	world := NewWithConfig(flatConfig(3, 3))
	world.Reset(0)

	// Seal the ring around the center tile.
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if x == 1 && y == 1 {
				continue
			}
			if !world.SetWall(x, y, true) {
				t.Fatalf("SetWall(%d,%d) failed", x, y)
			}
		}
	}

	world.Step()
	if n := world.ActiveTiles(); n != 0 {
		t.Fatalf("fully sealed center should settle immediately, %d tiles active", n)
	}

	centerBefore := world.PressureAt(1, 1)
	if centerBefore == 0 {
		t.Fatal("center must hold air before the breach")
	}

	// Breach one wall segment.
	if !world.SetWall(1, 0, false) {
		t.Fatal("SetWall breach failed")
	}
	world.Step()

	if world.TotalMolesAt(1, 0) == 0 {
		t.Fatal("gas should flow into the breached tile")
	}
	if got := world.PressureAt(1, 1); got >= centerBefore {
		t.Fatalf("center pressure should drop after the breach: %d -> %d", centerBefore, got)
	}
	if !world.IsActive(1, 0) || !world.IsActive(1, 1) {
		t.Fatal("breached tile and center should stay active while equalizing")
	}

	// Tiles behind the remaining wall segments stay sealed and untouched.
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if (x == 1 && y == 1) || (x == 1 && y == 0) {
				continue
			}
			if !world.IsWall(x, y) {
				t.Fatalf("(%d,%d) should still be a wall", x, y)
			}
			if world.IsActive(x, y) {
				t.Fatalf("wall (%d,%d) should be passive", x, y)
			}
			if p := world.PressureAt(x, y); p != 0 {
				t.Fatalf("wall (%d,%d) pressure changed: %d", x, y, p)
			}
		}
	}
}

func TestVacuumCenterEqualization(t *testing.T) {
	world := NewWithConfig(flatConfig(5, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			pos := Position{X: x, Y: y}
			if x == 2 && y == 2 {
				world.AddTile(pos, NewVacuum(StandardVolumeMicroM3), false)
				continue
			}
			world.AddTile(pos, NewAir(StandardVolumeMicroM3, StandardTempMilliK), false)
		}
	}

	var before uint64
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			before += world.TotalMolesAt(x, y)
		}
	}

	eps := world.cfg.Params.Transfer.PressureEpsilon
	center := world.PressureAt(2, 2)
	settledAt := -1
	for tick := 0; tick < 500; tick++ {
		centerActive := world.IsActive(2, 2)
		preDiff := maxNeighborDiff(world, 2, 2)
		world.Step()
		next := world.PressureAt(2, 2)
		if next < center {
			t.Fatalf("center pressure decreased at tick %d: %d -> %d", tick, center, next)
		}
		if centerActive && preDiff >= eps && next <= center {
			t.Fatalf("center pressure should rise while equalizing at tick %d", tick)
		}
		center = next
		if world.ActiveTiles() == 0 {
			settledAt = tick
			break
		}
	}
	if settledAt < 0 {
		t.Fatal("grid did not reach equilibrium within 500 ticks")
	}

	// All pairwise differentials are below threshold at equilibrium.
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if d := maxNeighborDiff(world, x, y); d >= eps {
				t.Fatalf("(%d,%d) still has differential %d at equilibrium", x, y, d)
			}
		}
	}

	var after uint64
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			after += world.TotalMolesAt(x, y)
		}
	}
	if before != after {
		t.Fatalf("moles not conserved across the run: %d -> %d", before, after)
	}

	// Equilibrium is stable: further ticks keep everything passive.
	snapshot := append([]uint8(nil), world.Cells()...)
	for i := 0; i < 10; i++ {
		world.Step()
		if n := world.ActiveTiles(); n != 0 {
			t.Fatalf("grid woke up after settling: %d active", n)
		}
	}
	if !slices.Equal(snapshot, world.Cells()) {
		t.Fatal("display changed after equilibrium")
	}
}

func maxNeighborDiff(w *World, x, y int) uint64 {
	i, ok := w.tileAt(x, y)
	if !ok {
		return 0
	}
	p := w.tiles[i].Mix.Pressure()
	var maxDiff uint64
	for _, link := range w.tiles[i].Neighbors {
		if link.Tile == noTile || !link.Open {
			continue
		}
		if d := absDiff(p, w.tiles[link.Tile].Mix.Pressure()); d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff
}

func TestResetDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 24
	cfg.Height = 18
	cfg.Seed = 99
	cfg.Params.WallChance = 0.25

	world := NewWithConfig(cfg)
	world.Reset(0)
	initial := append([]uint8(nil), world.Cells()...)
	if len(initial) == 0 {
		t.Fatal("world must allocate a display buffer")
	}

	// Disturb the state, then Reset must rebuild from scratch.
	world.Step()
	world.SetWall(3, 3, true)
	world.InjectGas(5, 5, Plasma, 10_000_000)
	world.Reset(0)

	if !slices.Equal(initial, world.Cells()) {
		t.Fatal("Reset with config seed not deterministic")
	}

	world.Reset(777)
	other := append([]uint8(nil), world.Cells()...)
	world.Reset(777)
	if !slices.Equal(other, world.Cells()) {
		t.Fatal("Reset with explicit seed not deterministic")
	}
	if slices.Equal(initial, other) {
		t.Fatal("different seeds should scatter walls differently")
	}
}

func TestSetWallInertsMixture(t *testing.T) {
	world := NewWithConfig(flatConfig(4, 4))
	world.Reset(0)

	if world.TotalMolesAt(1, 1) == 0 {
		t.Fatal("test setup: tile should start with air")
	}
	world.SetWall(1, 1, true)

	if !world.IsWall(1, 1) {
		t.Fatal("tile should be sealed")
	}
	if got := world.TotalMolesAt(1, 1); got != 0 {
		t.Fatalf("wall mixture should be inert, has %d μmol", got)
	}
	if got := world.TemperatureAt(1, 1); got != VacuumTempMilliK {
		t.Fatalf("wall temperature = %d, want %d", got, VacuumTempMilliK)
	}

	// The next step closes the links on both sides.
	world.Step()
	i, _ := world.tileAt(1, 1)
	for d, link := range world.tiles[i].Neighbors {
		if link.Open {
			t.Fatalf("wall link %d still open after rebuild", d)
		}
		back := world.tiles[link.Tile].Neighbors[Direction(d).Opposite()]
		if back.Open {
			t.Fatalf("neighbor link %d still open toward the wall", d)
		}
	}
}

func TestInjectGasWakesTile(t *testing.T) {
	world := NewWithConfig(flatConfig(2, 1))
	world.Reset(0)

	world.Step()
	if n := world.ActiveTiles(); n != 0 {
		t.Fatalf("uniform grid should settle in one tick, %d active", n)
	}

	if !world.InjectGas(0, 0, Plasma, 50_000_000) {
		t.Fatal("injection into an open tile must succeed")
	}
	if !world.IsActive(0, 0) {
		t.Fatal("injection must wake the target tile")
	}

	neighborBefore := world.TotalMolesAt(1, 0)
	world.Step()
	if !world.IsActive(1, 0) {
		t.Fatal("disturbance should propagate to the neighbor")
	}
	if world.TotalMolesAt(1, 0) <= neighborBefore {
		t.Fatal("gas should flow toward the undisturbed neighbor")
	}

	// Walls reject injection.
	world.SetWall(1, 0, true)
	if world.InjectGas(1, 0, Plasma, 1) {
		t.Fatal("injection into a wall must fail")
	}
}

func TestParameterSetters(t *testing.T) {
	world := NewWithConfig(DefaultConfig())

	if !world.SetFloatParameter("wall_chance", 0.5) {
		t.Fatal("wall_chance should be adjustable")
	}
	if got := world.cfg.Params.WallChance; got != 0.5 {
		t.Fatalf("wall_chance = %f, want 0.5", got)
	}
	if world.SetFloatParameter("wall_chance", 1.5) {
		t.Fatal("wall_chance above 1 must be rejected")
	}

	if !world.SetIntParameter("mole_clamp_div", 5) {
		t.Fatal("mole_clamp_div should be adjustable")
	}
	if got := world.cfg.Params.Transfer.MoleClampDiv; got != 5 {
		t.Fatalf("mole_clamp_div = %d, want 5", got)
	}
	if world.SetIntParameter("mole_clamp_div", 0) {
		t.Fatal("zero divisor must be rejected")
	}
	if world.SetIntParameter("no_such_key", 1) {
		t.Fatal("unknown keys must be rejected")
	}

	if len(world.ParameterControls()) == 0 {
		t.Fatal("controls must not be empty")
	}
	if len(world.Parameters().Groups) == 0 {
		t.Fatal("parameter snapshot must not be empty")
	}
}
