package atmos

import (
	"image/color"

	"github.com/crazy3lf/colorconv"
)

const (
	// displayMaxBucket is the highest pressure bucket; pressures at or above
	// twice standard all render the same.
	displayMaxBucket = 250
	// displayWall marks sealed tiles.
	displayWall = 255
)

var atmosPalette = buildAtmosPalette()

// Palette exposes the color palette used for rendering the pressure field.
func (w *World) Palette() []color.RGBA {
	return atmosPalette
}

// ActiveCells exposes a display-ordered 0/1 mask of scheduled tiles, for
// overlay rendering.
func (w *World) ActiveCells() []uint8 { return w.activeMask }

// TemperatureCells exposes display-ordered temperature buckets (0 to 500 K
// linear), for overlay rendering.
func (w *World) TemperatureCells() []uint8 { return w.tempMask }

// refreshDisplay re-encodes per-tile state into the display buffers. Tiles
// outside the configured grid rectangle have no pixel and are skipped.
func (w *World) refreshDisplay() {
	for i := range w.tiles {
		t := &w.tiles[i]
		if !w.grid.InBounds(t.Pos.X, t.Pos.Y) {
			continue
		}
		di := w.grid.Index(t.Pos.X, t.Pos.Y)
		if t.Wall {
			w.display[di] = displayWall
		} else {
			w.display[di] = pressureBucket(t.Mix.Pressure())
		}
		if w.active[i] {
			w.activeMask[di] = 1
		} else {
			w.activeMask[di] = 0
		}
		w.tempMask[di] = temperatureBucket(t.Mix.Temperature)
	}
}

// temperatureBucket quantizes a temperature into 0..250 over 0..500 K.
func temperatureBucket(t uint64) uint8 {
	const bucket = 500_000 / displayMaxBucket
	b := t / bucket
	if b > displayMaxBucket {
		b = displayMaxBucket
	}
	return uint8(b)
}

// pressureBucket quantizes a pressure into a palette index. The scale is
// linear from vacuum to twice standard pressure.
func pressureBucket(p uint64) uint8 {
	const bucket = 2 * StandardPressureMicroKPa / displayMaxBucket
	b := p / bucket
	if b > displayMaxBucket {
		b = displayMaxBucket
	}
	return uint8(b)
}

// buildAtmosPalette maps pressure buckets onto a cold-to-hot hue ramp: deep
// blue near vacuum through green at standard pressure to red at the top of
// the scale. The wall entry is flat gray.
func buildAtmosPalette() []color.RGBA {
	palette := make([]color.RGBA, 256)
	for i := 0; i <= displayMaxBucket; i++ {
		frac := float64(i) / displayMaxBucket
		hue := 240 - 240*frac
		value := 0.25 + 0.75*frac
		r, g, b, _ := colorconv.HSVToRGB(hue, 1, value)
		palette[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	for i := displayMaxBucket + 1; i < displayWall; i++ {
		palette[i] = palette[displayMaxBucket]
	}
	palette[displayWall] = color.RGBA{R: 96, G: 96, B: 96, A: 255}
	return palette
}
