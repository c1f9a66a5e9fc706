package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/observeparty/observe"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
)

const (
	cpuProfileKey = "cpuprofile"
	itersKey      = "iters"
	metricsKey    = "metrics"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure write to notify latency of observed records and lists",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  cpuProfileKey,
				Usage: "Write a CPU profile to this file, empty to disable",
				Value: "default.pgo",
			},
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Writes measured per shape",
				Value: 100,
			},
			&cli.BoolFlag{
				Name:  metricsKey,
				Usage: "Print engine counters after each run",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

var (
	ww = []int{1, 10, 100, 1_000}
	hh = []int{1, 10, 100, 1_000}
)

func run(ctx context.Context, cmd *cli.Command) error {
	if path := cmd.String(cpuProfileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	iters := int(cmd.Uint(itersKey))
	withMetrics := cmd.Bool(metricsKey)

	log.Printf("warming up")
	benchmarkPropagate(iters, withMetrics)
	benchmarkList(iters, withMetrics)
	return nil
}

func newSystem(withMetrics bool) *observe.System {
	opts := []observe.Option{
		observe.WithProduction(true),
		observe.WithErrorHandler(func(from observe.Subscriber, err error) {
			log.Panic(err)
		}),
	}
	if withMetrics {
		opts = append(opts, observe.WithMetrics(prometheus.NewRegistry()))
	}
	return observe.NewSystem(opts...)
}

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func appendCalc(tbl table.Writer, name string, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	tbl.AppendRow(table.Row{
		name,
		calc.Time.Avg,
		calc.Time.Min,
		calc.Time.P75,
		calc.Time.P99,
		calc.Time.Max,
	})
}

// benchmarkPropagate builds w chains of h computed values over one observed
// record key, each chain ending in an effect, and times writes to the key.
func benchmarkPropagate(iters int, withMetrics bool) {
	tbl := newTable("Observed record propagation")
	stats := newStatsTable()

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rs := newSystem(withMetrics)
			src := observe.NewRecord().With("v", 1)
			rs.Observe(src, true)

			for i := 0; i < w; i++ {
				last := func() int { return src.Get("v").(int) }
				for j := 0; j < h; j++ {
					prev := last
					c := rs.Computed(func() (any, error) {
						return prev() + 1, nil
					})
					last = func() int { return c.Value().(int) }
				}

				rs.Effect(func() error {
					last()
					return nil
				})
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				if err := src.Set("v", src.Get("v").(int)+1); err != nil {
					log.Panic(err)
				}
				tach.AddTime(time.Since(start))
			}

			name := fmt.Sprintf("propagate: %d * %d", w, h)
			appendCalc(tbl, name, tach)
			appendStats(stats, name, rs)
		}
	}

	tbl.Render()
	if withMetrics {
		stats.Render()
	}
}

// benchmarkList times pushes onto an observed list read by w effects.
func benchmarkList(iters int, withMetrics bool) {
	tbl := newTable("Observed list mutation")
	stats := newStatsTable()

	for _, w := range ww {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		rs := newSystem(withMetrics)
		items := observe.NewList()
		state := observe.NewRecord().With("items", items)
		rs.Observe(state, true)

		for i := 0; i < w; i++ {
			rs.Effect(func() error {
				state.Get("items").(*observe.List).Len()
				return nil
			})
		}

		for i := 0; i < iters; i++ {
			item := observe.NewRecord().With("n", i)
			start := time.Now()
			items.Push(item)
			tach.AddTime(time.Since(start))
		}

		name := fmt.Sprintf("push: %d readers", w)
		appendCalc(tbl, name, tach)
		appendStats(stats, name, rs)
	}

	tbl.Render()
	if withMetrics {
		stats.Render()
	}
}

func newStatsTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle("Engine counters")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "observers", "properties", "notifies", "updates"})
	return tbl
}

func appendStats(tbl table.Writer, name string, rs *observe.System) {
	s := rs.Stats()
	tbl.AppendRow(table.Row{name, s.ObserversCreated, s.PropertiesDefined, s.DepsNotified, s.SubscriberUpdates})
}
