//go:build property
// +build property

package observe_test

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/delaneyj/observeparty/observe"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func quietSystem() *observe.System {
	return observe.NewSystem(observe.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

// should hold observation properties for generated inputs
func TestObservationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: observing twice yields the same Observer
	properties.Property("idempotent observation", prop.ForAll(
		func(values []int, asRoot bool) bool {
			rs := quietSystem()
			r := observe.NewRecord()
			for i, v := range values {
				r.With(string(rune('a'+i%26))+"k", v)
			}
			first := rs.Observe(r, asRoot)
			second := rs.Observe(r, asRoot)
			return first != nil && first == second && rs.Observe(first.Value(), false) == first
		},
		gen.SliceOfN(8, gen.Int()),
		gen.Bool(),
	))

	// Property: SetProperty is always visible to the next read
	properties.Property("read after write", prop.ForAll(
		func(key string, first, second int) bool {
			rs := quietSystem()
			r := observe.NewRecord()
			rs.Observe(r, false)

			rs.SetProperty(r, key, first)
			if r.Get(key) != first {
				return false
			}
			rs.SetProperty(r, key, second)
			return r.Get(key) == second
		},
		gen.Identifier(),
		gen.Int(),
		gen.Int(),
	))

	properties.TestingRun(t)
}

// should hold notification properties for generated inputs
func TestNotificationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: writing the current value never notifies, NaN included
	properties.Property("no spurious notification", prop.ForAll(
		func(v float64) bool {
			rs := quietSystem()
			r := observe.NewRecord().With("a", v)
			rs.Observe(r, false)

			calls := 0
			rs.Watch(func() (any, error) {
				return r.Get("a"), nil
			}, func(any, any) { calls++ })

			_ = r.Set("a", v)
			return calls == 0
		},
		gen.OneGenOf(gen.Float64(), gen.Const(math.NaN()), gen.Const(math.Inf(1))),
	))

	// Property: one callback per effective write
	properties.Property("change notification count", prop.ForAll(
		func(writes []int) bool {
			rs := quietSystem()
			r := observe.NewRecord().With("a", 0)
			rs.Observe(r, false)

			calls := 0
			rs.Watch(func() (any, error) {
				return r.Get("a"), nil
			}, func(any, any) { calls++ })

			want, last := 0, 0
			for _, w := range writes {
				if w != last {
					want++
					last = w
				}
				_ = r.Set("a", w)
			}
			return calls == want
		},
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	// Property: every intercepted list mutation notifies once
	properties.Property("list mutations notify", prop.ForAll(
		func(ops []int) bool {
			rs := quietSystem()
			l := observe.NewList()
			r := observe.NewRecord().With("list", l)
			rs.Observe(r, false)

			runs := 0
			rs.Effect(func() error {
				runs++
				r.Get("list")
				return nil
			})

			for i, op := range ops {
				switch op {
				case 0:
					l.Push(i)
				case 1:
					l.Pop()
				case 2:
					l.Shift()
				case 3:
					l.Unshift(i)
				case 4:
					l.Splice(0, 1, i)
				case 5:
					l.Sort(nil)
				default:
					l.Reverse()
				}
			}
			return runs == len(ops)+1
		},
		gen.SliceOf(gen.IntRange(0, 6)),
	))

	properties.TestingRun(t)
}
