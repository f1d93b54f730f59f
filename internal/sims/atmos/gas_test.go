package atmos

import (
	"math"
	"testing"
)

func TestAirPressureNearStandard(t *testing.T) {
	mix := NewAir(StandardVolumeMicroM3, StandardTempMilliK)
	pressure := mix.Pressure()

	// Integer truncation in the 78/21/1 split loses a few micro-moles, so
	// allow 5% around standard pressure.
	expected := uint64(StandardPressureMicroKPa)
	tolerance := expected / 20

	if pressure < expected-tolerance || pressure > expected+tolerance {
		t.Fatalf("pressure %d outside %d±%d", pressure, expected, tolerance)
	}
}

func TestZeroVolumePressure(t *testing.T) {
	mix := NewMixture(0, StandardTempMilliK)
	mix.AddMoles(Oxygen, 1_000_000)
	if got := mix.Pressure(); got != 0 {
		t.Fatalf("zero-volume mixture must report zero pressure, got %d", got)
	}
}

func TestTotalMoles(t *testing.T) {
	mix := NewMixture(StandardVolumeMicroM3, StandardTempMilliK)
	mix.AddMoles(Oxygen, 1_000_000)
	mix.AddMoles(Nitrogen, 2_000_000)
	if got := mix.TotalMoles(); got != 3_000_000 {
		t.Fatalf("total moles = %d, want 3000000", got)
	}
}

func TestMoleArithmeticSaturates(t *testing.T) {
	mix := NewMixture(StandardVolumeMicroM3, StandardTempMilliK)

	mix.AddMoles(Plasma, math.MaxUint64)
	mix.AddMoles(Plasma, 12345)
	if got := mix.GetMoles(Plasma); got != math.MaxUint64 {
		t.Fatalf("add should saturate at max, got %d", got)
	}

	mix.RemoveMoles(Plasma, math.MaxUint64)
	mix.RemoveMoles(Plasma, 1)
	if got := mix.GetMoles(Plasma); got != 0 {
		t.Fatalf("remove should saturate at zero, got %d", got)
	}
}

func TestShareGasConservation(t *testing.T) {
	tun := DefaultTunables()
	high := NewAir(StandardVolumeMicroM3, StandardTempMilliK)
	low := NewMixture(StandardVolumeMicroM3, StandardTempMilliK)
	low.AddMoles(Plasma, 500_000)

	before := high.TotalMoles() + low.TotalMoles()
	for i := 0; i < 50; i++ {
		high.ShareGasWith(&low, tun)
	}
	after := high.TotalMoles() + low.TotalMoles()

	if before != after {
		t.Fatalf("moles not conserved: before=%d after=%d", before, after)
	}
}

func TestShareGasMonotoneConvergence(t *testing.T) {
	tun := DefaultTunables()
	high := NewAir(StandardVolumeMicroM3, StandardTempMilliK)
	low := NewMixture(StandardVolumeMicroM3, StandardTempMilliK)

	diff := absDiff(high.Pressure(), low.Pressure())
	if diff < tun.PressureEpsilon {
		t.Fatalf("initial differential %d already below threshold", diff)
	}

	converged := false
	for i := 0; i < 200; i++ {
		high.ShareGasWith(&low, tun)
		next := absDiff(high.Pressure(), low.Pressure())
		if next < tun.PressureEpsilon {
			converged = true
			break
		}
		if next >= diff {
			t.Fatalf("differential did not strictly decrease: %d -> %d at call %d", diff, next, i)
		}
		diff = next
	}
	if !converged {
		t.Fatalf("no convergence after 200 calls, differential still %d", diff)
	}

	// At equilibrium further calls are no-ops.
	highBefore, lowBefore := high, low
	high.ShareGasWith(&low, tun)
	if high != highBefore || low != lowBefore {
		t.Fatal("share below threshold must leave both mixtures unchanged")
	}
}

func TestShareGasNoOpBelowThreshold(t *testing.T) {
	tun := DefaultTunables()
	a := NewAir(StandardVolumeMicroM3, StandardTempMilliK)
	b := a
	// ~10 μmol is far below the 0.1 kPa threshold at tile volume.
	b.AddMoles(Oxygen, 10)

	if d := absDiff(a.Pressure(), b.Pressure()); d >= tun.PressureEpsilon {
		t.Fatalf("test setup: differential %d not below threshold", d)
	}

	aBefore, bBefore := a, b
	a.ShareGasWith(&b, tun)
	if a != aBefore || b != bBefore {
		t.Fatal("sub-threshold share must be a byte-for-byte no-op")
	}
	b.ShareGasWith(&a, tun)
	if a != aBefore || b != bBefore {
		t.Fatal("sub-threshold share must be a no-op in either direction")
	}
}

func TestShareGasTransfersTemperature(t *testing.T) {
	tun := DefaultTunables()
	high := NewAir(StandardVolumeMicroM3, StandardTempMilliK)
	low := NewVacuum(StandardVolumeMicroM3)

	high.ShareGasWith(&low, tun)

	if low.TotalMoles() == 0 {
		t.Fatal("gas should flow into the vacuum")
	}
	// Incoming gas carries its temperature, so the cold vacuum warms to the
	// source temperature instead of holding its pressure down.
	if got := low.Temperature; got != StandardTempMilliK {
		t.Fatalf("receiver temperature = %d mK, want %d", got, StandardTempMilliK)
	}
	if got := high.Temperature; got != StandardTempMilliK {
		t.Fatalf("source temperature changed to %d mK", got)
	}
}

func TestShareHeatCapacityWeighting(t *testing.T) {
	tun := DefaultTunables()
	heavy := NewAir(StandardVolumeMicroM3, StandardTempMilliK)
	light := NewMixture(StandardVolumeMicroM3, VacuumTempMilliK)
	light.AddMoles(Plasma, 1000)

	heavy.ShareHeatWith(&light, tun)

	if got := heavy.Temperature; got != StandardTempMilliK {
		t.Fatalf("a trace mixture must not drain the heavy side, got %d mK", got)
	}
	if light.Temperature <= VacuumTempMilliK {
		t.Fatalf("light side should warm, still at %d mK", light.Temperature)
	}
}

func TestShareHeatConvergence(t *testing.T) {
	tun := DefaultTunables()
	hot := NewAir(StandardVolumeMicroM3, 400_000)
	cold := NewAir(StandardVolumeMicroM3, 250_000)

	diff := absDiff(hot.Temperature, cold.Temperature)
	converged := false
	for i := 0; i < 200; i++ {
		hot.ShareHeatWith(&cold, tun)
		next := absDiff(hot.Temperature, cold.Temperature)
		if next < tun.TempEpsilon {
			converged = true
			break
		}
		if next >= diff {
			t.Fatalf("temperature gap did not strictly decrease: %d -> %d at call %d", diff, next, i)
		}
		diff = next
	}
	if !converged {
		t.Fatalf("no heat convergence after 200 calls, gap still %d", diff)
	}

	hotBefore, coldBefore := hot, cold
	hot.ShareHeatWith(&cold, tun)
	if hot != hotBefore || cold != coldBefore {
		t.Fatal("sub-threshold heat share must leave both mixtures unchanged")
	}
}

func TestShareHeatNoMedium(t *testing.T) {
	tun := DefaultTunables()
	a := NewMixture(StandardVolumeMicroM3, 400_000)
	b := NewMixture(StandardVolumeMicroM3, 250_000)

	aBefore, bBefore := a, b
	a.ShareHeatWith(&b, tun)
	if a != aBefore || b != bBefore {
		t.Fatal("heat must not move between two empty mixtures")
	}
}

func TestShareHeatTemperatureFloor(t *testing.T) {
	tun := DefaultTunables()
	tun.HeatRelaxDiv = 1

	hot := NewMixture(StandardVolumeMicroM3, 100)
	hot.AddMoles(Oxygen, 1_000_000)
	cold := NewMixture(StandardVolumeMicroM3, 0)
	cold.AddMoles(Oxygen, 1_000_000)

	hot.ShareHeatWith(&cold, tun)
	if hot.Temperature < 1 {
		t.Fatalf("temperature fell below 1 mK: %d", hot.Temperature)
	}
	if cold.Temperature == 0 {
		t.Fatal("expected heat to flow into the cold mixture")
	}
}

func TestNonNegativityUnderMixedOps(t *testing.T) {
	tun := DefaultTunables()
	a := NewAir(StandardVolumeMicroM3, StandardTempMilliK)
	b := NewVacuum(StandardVolumeMicroM3)

	for i := 0; i < 100; i++ {
		a.ShareGasWith(&b, tun)
		a.RemoveMoles(Oxygen, 500_000)
		b.RemoveMoles(Nitrogen, 250_000)
		b.ShareGasWith(&a, tun)
		a.ShareHeatWith(&b, tun)

		// Stored quantities are unsigned and saturating, so the floor to
		// guard is the 1 mK temperature minimum on gas-bearing mixtures.
		for _, mix := range []*GasMixture{&a, &b} {
			if mix.TotalMoles() > 0 && mix.Temperature < 1 {
				t.Fatalf("temperature below floor at iteration %d: %d", i, mix.Temperature)
			}
		}
	}
}
