package atmos

import (
	"math"
	"math/bits"
)

// GasType enumerates the species tracked per mixture. The order is fixed;
// mole arrays are indexed by it.
type GasType uint8

const (
	Oxygen GasType = iota
	Nitrogen
	CarbonDioxide
	Plasma
	NitrousOxide
	WaterVapor
	Tritium
)

// GasTypeCount is the number of tracked species.
const GasTypeCount = 7

// String returns the species name.
func (g GasType) String() string {
	switch g {
	case Oxygen:
		return "oxygen"
	case Nitrogen:
		return "nitrogen"
	case CarbonDioxide:
		return "carbon_dioxide"
	case Plasma:
		return "plasma"
	case NitrousOxide:
		return "nitrous_oxide"
	case WaterVapor:
		return "water_vapor"
	case Tritium:
		return "tritium"
	default:
		return "unknown"
	}
}

// All quantities are stored as scaled integers to keep the simulation free of
// floating-point drift: moles in micro-moles, temperature in milli-Kelvin,
// volume in micro-m³, pressure in micro-kPa.
const (
	// gasConstantScaled is the ideal gas constant scaled so that
	// pressure = n·R·T / (1000·V) holds in the integer units above.
	gasConstantScaled = 8314

	// StandardPressureMicroKPa is 101.325 kPa.
	StandardPressureMicroKPa = 101_325_000
	// StandardTempMilliK is 20°C.
	StandardTempMilliK = 293_150
	// StandardVolumeMicroM3 is 2.5 m³, the volume of one tile.
	StandardVolumeMicroM3 = 2_500_000
	// VacuumTempMilliK is the cosmic background, near enough.
	VacuumTempMilliK = 2_700
)

// Tunables holds the transfer constants of the equalization algorithm. They
// were tuned for stable convergence under repeated small-step calls, not
// derived from physical law, so they stay configurable.
type Tunables struct {
	// PressureEpsilon is the differential in μkPa below which no gas moves.
	PressureEpsilon uint64
	// TempEpsilon is the differential in mK below which no heat moves.
	TempEpsilon uint64
	// MoleClampDiv bounds a single transfer to 1/MoleClampDiv of the
	// source's total moles.
	MoleClampDiv uint64
	// HeatRelaxDiv moves 1/HeatRelaxDiv of the temperature gap per call.
	HeatRelaxDiv uint64
}

// DefaultTunables returns the standard transfer constants: 0.1 kPa and 0.1 K
// thresholds, 10% mole clamp, 1/10 heat relaxation.
func DefaultTunables() Tunables {
	return Tunables{
		PressureEpsilon: 100_000,
		TempEpsilon:     100,
		MoleClampDiv:    10,
		HeatRelaxDiv:    10,
	}
}

// GasMixture is the air content of one tile: per-species mole counts plus
// temperature, in a fixed volume. All arithmetic on it saturates instead of
// wrapping, so stored quantities never go negative.
type GasMixture struct {
	Moles       [GasTypeCount]uint64
	Temperature uint64
	Volume      uint64
}

// NewMixture returns an empty mixture with the given volume and temperature.
func NewMixture(volume, temperature uint64) GasMixture {
	return GasMixture{Volume: volume, Temperature: temperature}
}

// NewAir returns a mixture filled to standard pressure (101.325 kPa) at the
// given volume and temperature, split 78/21/1 across N₂/O₂/CO₂. Each split
// truncates, so the realized total may fall short of the computed total by a
// few micro-moles; that loss is accepted.
func NewAir(volume, temperature uint64) GasMixture {
	m := NewMixture(volume, temperature)
	if temperature == 0 || temperature > math.MaxUint64/gasConstantScaled {
		return m
	}
	// n = P·V·1000 / (R·T)
	total := mulDiv(StandardPressureMicroKPa*1000, volume, gasConstantScaled*temperature)
	m.Moles[Nitrogen] = mulDiv(total, 78, 100)
	m.Moles[Oxygen] = mulDiv(total, 21, 100)
	m.Moles[CarbonDioxide] = mulDiv(total, 1, 100)
	return m
}

// NewVacuum returns a cold, empty mixture of one tile volume.
func NewVacuum(volume uint64) GasMixture {
	return NewMixture(volume, VacuumTempMilliK)
}

// TotalMoles sums the species mole counts, saturating at the type maximum.
func (m *GasMixture) TotalMoles() uint64 {
	var total uint64
	for _, n := range m.Moles {
		total = satAdd(total, n)
	}
	return total
}

// Pressure computes n·R·T / (1000·V) in μkPa using 128-bit intermediates. A
// zero-volume mixture reports zero pressure rather than dividing by zero.
func (m *GasMixture) Pressure() uint64 {
	if m.Volume == 0 || m.Volume > math.MaxUint64/1000 {
		return 0
	}
	div := 1000 * m.Volume
	hi, lo := bits.Mul64(m.TotalMoles(), m.Temperature)
	if hi > math.MaxUint64/gasConstantScaled {
		return math.MaxUint64
	}
	carry, lo := bits.Mul64(lo, gasConstantScaled)
	hi = satAdd(hi*gasConstantScaled, carry)
	if hi >= div {
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, div)
	return q
}

// GetMoles returns the mole count of one species.
func (m *GasMixture) GetMoles(gas GasType) uint64 {
	return m.Moles[gas]
}

// AddMoles adds the given amount of one species, saturating at the maximum.
func (m *GasMixture) AddMoles(gas GasType, amount uint64) {
	m.Moles[gas] = satAdd(m.Moles[gas], amount)
}

// RemoveMoles removes up to the given amount of one species, saturating at
// zero.
func (m *GasMixture) RemoveMoles(gas GasType, amount uint64) {
	if amount > m.Moles[gas] {
		m.Moles[gas] = 0
		return
	}
	m.Moles[gas] -= amount
}

// ShareGasWith runs one equalization step between two mixtures. Below a
// 0.1 kPa differential nothing moves; otherwise a quantity proportional to
// the differential and the source volume, clamped to a fraction of the
// source's total moles, flows from the higher-pressure side to the lower,
// distributed across species in proportion to the source's composition.
// Moved gas carries its temperature: the destination ends at the
// mole-weighted average of its own temperature and the source's, so a cold
// vacuum adopts the incoming gas's temperature instead of holding its
// pressure down. Heat is then shared as a secondary effect of the same call.
//
// Moles are conserved exactly across the pair: every micro-mole subtracted
// from the source is added to the destination. Truncation in the per-species
// split only reduces how much moves, never where it ends up.
func (m *GasMixture) ShareGasWith(other *GasMixture, tun Tunables) {
	pa := m.Pressure()
	pb := other.Pressure()
	diff := absDiff(pa, pb)
	if diff < tun.PressureEpsilon {
		return
	}

	src, dst := m, other
	if pb > pa {
		src, dst = other, m
	}
	total := src.TotalMoles()
	if total == 0 {
		return
	}

	temp := src.Temperature
	if temp == 0 {
		temp = 1
	}
	transfer := uint64(math.MaxUint64)
	if temp <= math.MaxUint64/gasConstantScaled {
		denom := gasConstantScaled * temp / 100
		if denom == 0 {
			denom = 1
		}
		transfer = mulDiv(diff, src.Volume, denom)
	}

	clampDiv := tun.MoleClampDiv
	if clampDiv == 0 {
		clampDiv = 10
	}
	maxTransfer := total / clampDiv
	if maxTransfer == 0 {
		maxTransfer = 1
	}
	if transfer > maxTransfer {
		transfer = maxTransfer
	}
	if transfer == 0 {
		return
	}

	dstBefore := dst.TotalMoles()
	var moved uint64
	for i := range src.Moles {
		if src.Moles[i] == 0 {
			continue
		}
		share := mulDiv(src.Moles[i], transfer, total)
		if share > src.Moles[i] {
			share = src.Moles[i]
		}
		src.Moles[i] -= share
		dst.Moles[i] = satAdd(dst.Moles[i], share)
		moved = satAdd(moved, share)
	}
	if moved > 0 {
		dst.Temperature = weightedAvg(dstBefore, dst.Temperature, moved, src.Temperature)
	}

	m.ShareHeatWith(other, tun)
}

// ShareHeatWith closes a fraction of the temperature gap per call, split in
// inverse proportion to each side's mole count: the hotter mixture loses
// flow·n_cold/(n_hot+n_cold) and the colder gains flow·n_hot/(n_hot+n_cold),
// so a near-empty cold mixture adopts temperature instead of draining a
// heavy neighbor. With no gas on either side there is no medium and nothing
// happens; below a 0.1 K differential nothing happens either. Temperatures
// never drop below 1 mK.
func (m *GasMixture) ShareHeatWith(other *GasMixture, tun Tunables) {
	na := m.TotalMoles()
	nb := other.TotalMoles()
	if na == 0 && nb == 0 {
		return
	}
	diff := absDiff(m.Temperature, other.Temperature)
	if diff < tun.TempEpsilon {
		return
	}

	relax := tun.HeatRelaxDiv
	if relax == 0 {
		relax = 10
	}
	flow := diff / relax
	if flow == 0 {
		return
	}

	hot, cold := m, other
	nHot, nCold := na, nb
	if other.Temperature > m.Temperature {
		hot, cold = other, m
		nHot, nCold = nb, na
	}
	total := satAdd(nHot, nCold)
	loss := mulDiv(flow, nCold, total)
	gain := mulDiv(flow, nHot, total)
	if loss >= hot.Temperature {
		loss = hot.Temperature - 1
	}
	hot.Temperature -= loss
	cold.Temperature = satAdd(cold.Temperature, gain)
}

// weightedAvg returns (n1·t1 + n2·t2)/(n1+n2) with 128-bit intermediates,
// saturating when the quotient does not fit. Zero combined weight yields t1.
func weightedAvg(n1, t1, n2, t2 uint64) uint64 {
	div := satAdd(n1, n2)
	if div == 0 {
		return t1
	}
	hi1, lo1 := bits.Mul64(n1, t1)
	hi2, lo2 := bits.Mul64(n2, t2)
	lo, carry := bits.Add64(lo1, lo2, 0)
	hi, over := bits.Add64(hi1, hi2, carry)
	if over != 0 || hi >= div {
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, div)
	return q
}

// mulDiv returns a·b/div with a 128-bit intermediate product, saturating when
// the quotient does not fit in 64 bits. div of zero yields zero.
func mulDiv(a, b, div uint64) uint64 {
	if div == 0 {
		return 0
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= div {
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, div)
	return q
}

func satAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
