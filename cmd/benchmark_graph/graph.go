package main

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/observeparty/observe"
)

// graph is a layered dependency graph: one observed record holding the
// source values, then rows of computed values each summing nSources
// entries of the row before.
type graph struct {
	rs      *observe.System
	sources *observe.Record
	keys    []string
	layers  [][]*observe.Computed
}

type result struct {
	Scenario   scenario
	Sum        int // wraps on overflow, see graph.run
	Count      int64
	Duration   time.Duration
	Checksum   uint64
	UpdateRate float64
}

func makeGraph(sc scenario, counter *int64) *graph {
	rs := observe.NewSystem(
		observe.WithProduction(true),
		observe.WithErrorHandler(func(from observe.Subscriber, err error) {
			log.Panic(err)
		}),
	)

	g := &graph{
		rs:      rs,
		sources: observe.NewRecord(),
		keys:    make([]string, sc.Width),
	}
	for i := range g.keys {
		g.keys[i] = fmt.Sprintf("s%d", i)
		g.sources.With(g.keys[i], i)
	}
	rs.Observe(g.sources, true)

	prevRow := make([]func() int, len(g.keys))
	for i, key := range g.keys {
		prevRow[i] = func() int { return g.sources.Get(key).(int) }
	}

	random := rand.New(rand.NewSource(0))
	g.layers = make([][]*observe.Computed, sc.TotalLayers-1)
	for l := range g.layers {
		row := makeRow(rs, prevRow, sc, counter, random)
		g.layers[l] = row

		prevRow = make([]func() int, len(row))
		for i, c := range row {
			prevRow[i] = func() int { return c.Value().(int) }
		}
	}
	return g
}

func makeRow(rs *observe.System, sources []func() int, sc scenario, counter *int64, random *rand.Rand) []*observe.Computed {
	row := make([]*observe.Computed, len(sources))

	for myDex := range sources {
		mySources := make([]func() int, 0, sc.NSources)
		for sourceDex := 0; sourceDex < int(sc.NSources); sourceDex++ {
			mySources = append(mySources, sources[(myDex+sourceDex)%len(sources)])
		}

		if random.Float64() < sc.StaticFraction {
			// static node, always reads every source
			row[myDex] = rs.Computed(func() (any, error) {
				*counter++
				sum := 0
				for _, read := range mySources {
					sum += read()
				}
				return sum, nil
			})
			continue
		}

		first, tail := mySources[0], mySources[1:]
		row[myDex] = rs.Computed(func() (any, error) {
			*counter++
			sum := first()
			shouldDrop := sum&0x1 > 0
			dropDex := sum % len(tail)

			for i, read := range tail {
				if shouldDrop && i == dropDex {
					continue
				}
				sum += read()
			}
			return sum, nil
		})
	}
	return row
}

// run writes one source per iteration and reads a fixed subset of the
// leaves. It returns the final sum of the read leaves and a checksum over
// their values. Node values are ints and wrap on overflow, as in deep
// graphs where they grow like nSources^layers, so the sum is only
// comparable between runs of the same scenario.
func (g *graph) run(iterations int64, readFraction float64) (int, uint64) {
	random := rand.New(rand.NewSource(0))
	leaves := g.layers[len(g.layers)-1]
	skipCount := int(math.Round(float64(len(leaves)) * (1 - readFraction)))
	readLeaves := removeElems(leaves, skipCount, random)

	for i := 0; i < int(iterations); i++ {
		sourceDex := i % len(g.keys)
		if err := g.sources.Set(g.keys[sourceDex], i+sourceDex); err != nil {
			log.Panic(err)
		}

		for _, leaf := range readLeaves {
			leaf.Value()
		}
	}

	digest := xxhash.New()
	buf := make([]byte, 0, 8)
	sum := 0
	for _, leaf := range readLeaves {
		v := leaf.Value().(int)
		sum += v
		buf = binary.LittleEndian.AppendUint64(buf[:0], uint64(v))
		digest.Write(buf)
	}
	return sum, digest.Sum64()
}

func removeElems[T any](src []T, rmCount int, random *rand.Rand) []T {
	out := make([]T, len(src))
	copy(out, src)
	for i := 0; i < rmCount; i++ {
		rmDex := random.Intn(len(out))
		out[rmDex] = out[len(out)-1]
		out = out[:len(out)-1]
	}
	return out
}

// runScenario builds the graph once, warms it up and keeps the fastest of
// repeats timed runs.
func runScenario(sc scenario, repeats int) result {
	counter := new(int64)
	g := makeGraph(sc, counter)
	g.run(sc.Iterations, sc.ReadFraction)

	best := result{Scenario: sc, Duration: time.Hour}
	for i := 0; i < repeats; i++ {
		log.Printf("Running '%s' config, iteration %d/%d %d%%", sc.Name, i+1, repeats, (i+1)*100/repeats)
		*counter = 0
		start := time.Now()
		sum, checksum := g.run(sc.Iterations, sc.ReadFraction)
		duration := time.Since(start)

		if duration < best.Duration {
			best.Duration = duration
			best.Sum = sum
			best.Count = *counter
			best.Checksum = checksum
		}
	}

	if ms := float64(best.Duration) / float64(time.Millisecond); ms > 0 {
		best.UpdateRate = float64(best.Count) / ms
	}
	return best
}
