package main

import (
	"flag"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"atmos-ca/internal/sims/atmos"
)

type scenario struct {
	size       int
	wallChance float64
	clampDiv   uint64
}

func (s scenario) String() string {
	return fmt.Sprintf("size=%d walls=%.2f clamp=1/%d", s.size, s.wallChance, s.clampDiv)
}

type result struct {
	scenario
	settled       bool
	ticksToSettle int
	peakActive    int
	molesDrift    uint64
	elapsed       time.Duration
}

func main() {
	maxTicks := flag.Int("ticks", 2000, "tick budget per scenario")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	sizes := flag.String("sizes", "8,16,32,64", "comma-separated grid sizes")
	wallChances := flag.String("wall-chances", "0,0.1,0.2", "comma-separated wall probabilities")
	clampDivs := flag.String("clamp-divs", "10", "comma-separated mole clamp divisors")
	seed := flag.Int64("seed", 1337, "scenario seed")
	flag.Parse()

	var scenarios []scenario
	for _, size := range parseInts(*sizes) {
		for _, chance := range parseFloats(*wallChances) {
			for _, clamp := range parseInts(*clampDivs) {
				if size < 2 || chance < 0 || chance > 1 || clamp < 1 {
					continue
				}
				scenarios = append(scenarios, scenario{
					size:       size,
					wallChance: chance,
					clampDiv:   uint64(clamp),
				})
			}
		}
	}
	if len(scenarios) == 0 {
		fmt.Println("no valid scenarios")
		return
	}

	jobs := make(chan scenario)
	results := make(chan result, len(scenarios))
	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				results <- runScenario(sc, *seed, *maxTicks)
			}
		}()
	}
	for _, sc := range scenarios {
		jobs <- sc
	}
	close(jobs)
	wg.Wait()
	close(results)

	var all []result
	for r := range results {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].size != all[j].size {
			return all[i].size < all[j].size
		}
		if all[i].wallChance != all[j].wallChance {
			return all[i].wallChance < all[j].wallChance
		}
		return all[i].clampDiv < all[j].clampDiv
	})

	fmt.Printf("%-32s %8s %10s %12s %10s %12s\n",
		"scenario", "settled", "ticks", "peak active", "drift", "elapsed")
	for _, r := range all {
		ticks := "-"
		if r.settled {
			ticks = strconv.Itoa(r.ticksToSettle)
		}
		fmt.Printf("%-32s %8v %10s %12d %10d %12s\n",
			r.scenario, r.settled, ticks, r.peakActive, r.molesDrift, r.elapsed.Round(time.Microsecond))
	}
}

// runScenario ticks one vacuum-breach world until the activation set drains
// or the budget runs out.
func runScenario(sc scenario, seed int64, maxTicks int) result {
	cfg := atmos.DefaultConfig()
	cfg.Width = sc.size
	cfg.Height = sc.size
	cfg.Params.WallChance = sc.wallChance
	cfg.Params.VacuumRadius = sc.size/8 + 1
	cfg.Params.Transfer.MoleClampDiv = sc.clampDiv

	world := atmos.NewWithConfig(cfg)
	world.Reset(seed)
	before := sumMoles(world)

	res := result{scenario: sc}
	start := time.Now()
	for tick := 0; tick < maxTicks; tick++ {
		world.Step()
		if n := world.ActiveTiles(); n > res.peakActive {
			res.peakActive = n
		}
		if world.ActiveTiles() == 0 {
			res.settled = true
			res.ticksToSettle = tick + 1
			break
		}
	}
	res.elapsed = time.Since(start)

	after := sumMoles(world)
	if before > after {
		res.molesDrift = before - after
	} else {
		res.molesDrift = after - before
	}
	return res
}

func sumMoles(w *atmos.World) uint64 {
	size := w.Size()
	var total uint64
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			total += w.TotalMolesAt(x, y)
		}
	}
	return total
}

func parseInts(s string) []int {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if v, err := strconv.Atoi(part); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func parseFloats(s string) []float64 {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if v, err := strconv.ParseFloat(part, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}
