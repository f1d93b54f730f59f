package atmos

import (
	"strconv"

	"atmos-ca/internal/core"
)

// Parameters reports the current configuration as a grouped snapshot.
func (w *World) Parameters() core.ParameterSnapshot {
	p := w.cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				int64Param("seed", "Seed", w.cfg.Seed),
			},
		},
		{
			Name: "Scenario",
			Params: []core.Parameter{
				floatParam("wall_chance", "Wall chance", p.WallChance),
				intParam("vacuum_radius", "Vacuum radius", p.VacuumRadius),
				uintParam("tile_volume", "Tile volume (μm³)", p.TileVolume),
				uintParam("air_temp", "Air temperature (mK)", p.AirTemp),
			},
		},
		{
			Name: "Transfer",
			Params: []core.Parameter{
				uintParam("pressure_epsilon", "Pressure epsilon (μkPa)", p.Transfer.PressureEpsilon),
				uintParam("temp_epsilon", "Temperature epsilon (mK)", p.Transfer.TempEpsilon),
				uintParam("mole_clamp_div", "Mole clamp divisor", p.Transfer.MoleClampDiv),
				uintParam("heat_relax_div", "Heat relax divisor", p.Transfer.HeatRelaxDiv),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the parameters that may be adjusted while the
// simulation runs. Grid size and seed are excluded: they only take effect
// through a Reset.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "wall_chance", Label: "Wall chance", Type: core.ParamTypeFloat,
			Step: 0.01, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "vacuum_radius", Label: "Vacuum radius", Type: core.ParamTypeInt,
			Step: 1, Min: 0, HasMin: true},
		{Key: "pressure_epsilon", Label: "Pressure epsilon", Type: core.ParamTypeInt,
			Step: 10_000, Min: 0, HasMin: true},
		{Key: "temp_epsilon", Label: "Temperature epsilon", Type: core.ParamTypeInt,
			Step: 10, Min: 0, HasMin: true},
		{Key: "mole_clamp_div", Label: "Mole clamp divisor", Type: core.ParamTypeInt,
			Step: 1, Min: 1, HasMin: true},
		{Key: "heat_relax_div", Label: "Heat relax divisor", Type: core.ParamTypeInt,
			Step: 1, Min: 1, HasMin: true},
	}
}

// SetIntParameter updates an integer tunable. It reports whether the key was
// recognized and the value accepted.
func (w *World) SetIntParameter(key string, value int) bool {
	if value < 0 {
		return false
	}
	switch key {
	case "vacuum_radius":
		w.cfg.Params.VacuumRadius = value
	case "pressure_epsilon":
		w.cfg.Params.Transfer.PressureEpsilon = uint64(value)
	case "temp_epsilon":
		w.cfg.Params.Transfer.TempEpsilon = uint64(value)
	case "mole_clamp_div":
		if value == 0 {
			return false
		}
		w.cfg.Params.Transfer.MoleClampDiv = uint64(value)
	case "heat_relax_div":
		if value == 0 {
			return false
		}
		w.cfg.Params.Transfer.HeatRelaxDiv = uint64(value)
	default:
		return false
	}
	return true
}

// SetFloatParameter updates a floating-point tunable. It reports whether the
// key was recognized and the value accepted.
func (w *World) SetFloatParameter(key string, value float64) bool {
	switch key {
	case "wall_chance":
		if value < 0 || value > 1 {
			return false
		}
		w.cfg.Params.WallChance = value
	default:
		return false
	}
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func uintParam(key, label string, value uint64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatUint(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
