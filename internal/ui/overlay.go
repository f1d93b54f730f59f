//go:build ebiten

package ui

import (
	"image/color"

	"atmos-ca/internal/core"
	"atmos-ca/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type activeMaskProvider interface {
	ActiveCells() []uint8
}

type temperatureProvider interface {
	TemperatureCells() []uint8
}

// Overlay draws optional debugging visuals on top of the base simulation:
// the activation set and the temperature field.
type Overlay struct {
	sim      core.Sim
	scale    int
	showHeat bool
	showWake bool

	painter *render.GridPainter
	heatPal []color.RGBA
}

// NewOverlay constructs an overlay for the provided simulation.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	size := sim.Size()
	return &Overlay{
		sim:     sim,
		scale:   scale,
		painter: render.NewGridPainter(size.W, size.H),
		heatPal: buildHeatPalette(),
	}
}

// Update handles the overlay toggle keys.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showWake = !o.showWake
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showHeat = !o.showHeat
	}
}

// Draw renders the enabled overlays.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o.showHeat {
		if provider, ok := o.sim.(temperatureProvider); ok {
			o.painter.Blit(screen, provider.TemperatureCells(), o.heatPal, o.scale)
		}
	}
	if o.showWake {
		if provider, ok := o.sim.(activeMaskProvider); ok {
			// Premultiplied-alpha yellow.
			tint := color.RGBA{R: 90, G: 85, B: 21, A: 90}
			o.painter.BlitMask(screen, provider.ActiveCells(), tint, o.scale)
		}
	}
}

// buildHeatPalette ramps from translucent blue (cold) to translucent red
// (hot) so the pressure view stays visible underneath. Channels are
// premultiplied by the alpha.
func buildHeatPalette() []color.RGBA {
	palette := make([]color.RGBA, 251)
	for i := range palette {
		frac := float64(i) / 250
		palette[i] = color.RGBA{
			R: uint8(110 * frac),
			G: 0,
			B: uint8(110 * (1 - frac)),
			A: 110,
		}
	}
	return palette
}
