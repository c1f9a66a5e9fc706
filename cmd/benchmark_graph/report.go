package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/valyala/quicktemplate"
)

func writeTable(w io.Writer, results []result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{
		"framework", "size", "nSources", "read%", "static%",
		"nTimes", "test", "time", "updateRate", "checksum", "title",
	})

	for _, r := range results {
		sc := r.Scenario
		table.Append([]string{
			"observe", // framework
			fmt.Sprintf("%dx%d", sc.Width, sc.TotalLayers), // size
			fmt.Sprint(sc.NSources),                        // nSources
			fmt.Sprint(sc.ReadFraction),                    // read%
			fmt.Sprint(sc.StaticFraction),                  // static%
			humanize.Comma(sc.Iterations),                  // nTimes
			sc.Name,                                        // test
			fmt.Sprint(r.Duration),                         // time
			humanize.Comma(int64(r.UpdateRate)),            // updateRate
			fmt.Sprintf("%016x", r.Checksum),               // checksum
			sc.title(),                                     // title
		})
	}
	table.Render()
}

func writeJSON(w io.Writer, results []result) {
	qw := quicktemplate.AcquireWriter(w)
	defer quicktemplate.ReleaseWriter(qw)
	qq := qw.N()

	qq.S("[")
	for i, r := range results {
		if i > 0 {
			qq.S(",")
		}
		qq.S(`{"name":`)
		qq.Q(r.Scenario.Name)
		qq.S(`,"title":`)
		qq.Q(r.Scenario.title())
		qq.S(`,"iterations":`)
		qq.DL(r.Scenario.Iterations)
		qq.S(`,"duration_ns":`)
		qq.DL(int64(r.Duration))
		qq.S(`,"sum":`)
		qq.D(r.Sum)
		qq.S(`,"evaluations":`)
		qq.DL(r.Count)
		qq.S(`,"update_rate":`)
		qq.F(r.UpdateRate)
		qq.S(`,"checksum":`)
		qq.Q(fmt.Sprintf("%016x", r.Checksum))
		qq.S("}")
	}
	qq.S("]\n")
}
