package atmos

import "strconv"

// Params holds the scenario and transfer tunables for the atmos sim.
type Params struct {
	// WallChance is the probability that a tile is seeded as a sealed wall.
	WallChance float64
	// VacuumRadius is the Chebyshev radius of the evacuated region at the
	// grid center. Zero disables it.
	VacuumRadius int

	// TileVolume is the volume of every tile in micro-m³.
	TileVolume uint64
	// AirTemp is the initial air temperature in milli-Kelvin.
	AirTemp uint64

	Transfer Tunables
}

// Config controls the atmos simulation dimensions and scenario.
type Config struct {
	Width  int
	Height int

	Seed int64

	Params Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  64,
		Height: 64,
		Seed:   1337,
		Params: Params{
			WallChance:   0.12,
			VacuumRadius: 3,
			TileVolume:   StandardVolumeMicroM3,
			AirTemp:      StandardTempMilliK,
			Transfer:     DefaultTunables(),
		},
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["wall_chance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Params.WallChance = parsed
		}
	}
	if v, ok := cfg["vacuum_radius"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.VacuumRadius = parsed
		}
	}
	if v, ok := cfg["tile_volume"]; ok {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil && parsed > 0 {
			c.Params.TileVolume = parsed
		}
	}
	if v, ok := cfg["air_temp"]; ok {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil && parsed > 0 {
			c.Params.AirTemp = parsed
		}
	}
	if v, ok := cfg["pressure_epsilon"]; ok {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Params.Transfer.PressureEpsilon = parsed
		}
	}
	if v, ok := cfg["temp_epsilon"]; ok {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Params.Transfer.TempEpsilon = parsed
		}
	}
	if v, ok := cfg["mole_clamp_div"]; ok {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil && parsed > 0 {
			c.Params.Transfer.MoleClampDiv = parsed
		}
	}
	if v, ok := cfg["heat_relax_div"]; ok {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil && parsed > 0 {
			c.Params.Transfer.HeatRelaxDiv = parsed
		}
	}
	return c
}
