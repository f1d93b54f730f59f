//go:build ebiten

package app

import (
	"fmt"
	"image/color"
	"time"

	"atmos-ca/internal/core"
	"atmos-ca/internal/render"
	"atmos-ca/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type paletteProvider interface {
	Palette() []color.RGBA
}

type wallToggler interface {
	ToggleWall(x, y int) bool
}

type venter interface {
	Vent(x, y int) bool
}

type activityReporter interface {
	ActiveTiles() int
	Tick() int
}

// Game adapts a core simulation to the ebiten.Game interface. Left click
// toggles a wall under the cursor, right click vents gas into the tile.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay

	palette []color.RGBA

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, scale int, seed int64) *Game {
	size := sim.Size()
	g := &Game{
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H),
		overlay: ui.NewOverlay(sim, scale),
		scale:   scale,
		seed:    seed,
	}
	if provider, ok := sim.(paletteProvider); ok {
		g.palette = provider.Palette()
	} else {
		g.palette = []color.RGBA{{0, 0, 0, 255}, {255, 255, 255, 255}}
	}
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame input and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if toggler, ok := g.sim.(wallToggler); ok {
			x, y := g.cursorTile()
			toggler.ToggleWall(x, y)
		}
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		if v, ok := g.sim.(venter); ok {
			x, y := g.cursorTile()
			v.Vent(x, y)
		}
	}

	if g.overlay != nil {
		g.overlay.Update()
	}

	if !g.paused || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.palette, g.scale)
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}

	info := fmt.Sprintf("FPS: %0.4g\n", ebiten.ActualFPS())
	if reporter, ok := g.sim.(activityReporter); ok {
		info += fmt.Sprintf("Tick: %d\nActive tiles: %d\n", reporter.Tick(), reporter.ActiveTiles())
	}
	ebitenutil.DebugPrint(screen, info)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W * g.scale, s.H * g.scale
}

func (g *Game) cursorTile() (int, int) {
	x, y := ebiten.CursorPosition()
	return x / g.scale, y / g.scale
}
