package aggregate

import (
	"fmt"
	"io"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/dustin/go-humanize"
	pretty_table "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/skskillls/thesis-benchmark/internal/results"
)

// GroupKey identifies one benchmark configuration across its repeated runs.
type GroupKey struct {
	Tool           string
	Service        string
	DockerfileType string
	CacheScenario  string
}

// GroupMean holds per-configuration averages over all runs of that
// configuration.
type GroupMean struct {
	GroupKey
	Runs int

	MeanDurationSec float64
	MeanCpuPercent  float64
	MeanMemoryMb    float64
	MeanCacheRatio  float64
	MeanImageBytes  int64
}

// Summarize averages performance per benchmark configuration. A zero reading
// means the metric was unavailable for that run, so means skip zeroes rather
// than drag the average down.
func Summarize(recs []*results.Record) []GroupMean {
	var order []GroupKey
	groups := make(map[GroupKey][]*results.Record)
	for _, rec := range recs {
		key := GroupKey{rec.Tool, rec.Service, rec.DockerfileType, rec.CacheScenario}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rec)
	}

	res := make([]GroupMean, 0, len(order))
	for _, key := range order {
		runs := groups[key]
		res = append(res, GroupMean{
			GroupKey:        key,
			Runs:            len(runs),
			MeanDurationSec: meanNonZero(runs, func(r *results.Record) float64 { return r.Performance.BuildDurationSec }),
			MeanCpuPercent:  meanNonZero(runs, func(r *results.Record) float64 { return r.Performance.CpuPercent }),
			MeanMemoryMb:    meanNonZero(runs, func(r *results.Record) float64 { return r.Performance.MemoryPeakMb }),
			MeanCacheRatio:  meanNonZero(runs, func(r *results.Record) float64 { return r.Performance.CacheHitRatio }),
			MeanImageBytes:  int64(meanNonZero(runs, func(r *results.Record) float64 { return float64(r.Performance.ImageSizeBytes) })),
		})
	}
	return res
}

func meanNonZero(runs []*results.Record, metric func(*results.Record) float64) float64 {
	sum := 0.0
	n := 0
	for _, r := range runs {
		v := metric(r)
		if v == 0 {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// RenderSummary prints the per-configuration mean table followed by the
// distinct dimension values seen across all records.
func RenderSummary(w io.Writer, recs []*results.Record) {
	t := pretty_table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(pretty_table.Row{
		"Tool", "Service", "Type", "Scenario",
		"Duration (s)", "CPU %", "Mem (MB)", "Cache", "Image", "N",
	})
	for _, gm := range Summarize(recs) {
		imageCol := "N/A"
		if gm.MeanImageBytes > 0 {
			imageCol = humanize.Bytes(uint64(gm.MeanImageBytes))
		}
		t.AppendRow(pretty_table.Row{
			gm.Tool,
			gm.Service,
			gm.DockerfileType,
			gm.CacheScenario,
			fmt.Sprintf("%.2f", gm.MeanDurationSec),
			fmt.Sprintf("%.1f", gm.MeanCpuPercent),
			fmt.Sprintf("%.2f", gm.MeanMemoryMb),
			fmt.Sprintf("%.4f", gm.MeanCacheRatio),
			imageCol,
			gm.Runs,
		})
	}
	t.SetStyle(pretty_table.StyleColoredDark)
	t.SetColumnConfigs([]pretty_table.ColumnConfig{
		{Name: "Duration (s)", Align: text.AlignRight},
		{Name: "CPU %", Align: text.AlignRight},
		{Name: "Mem (MB)", Align: text.AlignRight},
		{Name: "Cache", Align: text.AlignRight},
		{Name: "N", Align: text.AlignRight},
	})
	t.Render()

	printDimensions(w, recs)
}

func printDimensions(w io.Writer, recs []*results.Record) {
	ciSystems := mapset.NewSet[string]()
	tools := mapset.NewSet[string]()
	services := mapset.NewSet[string]()
	scenarios := mapset.NewSet[string]()
	for _, rec := range recs {
		ciSystems.Add(rec.CiSystem)
		tools.Add(rec.Tool)
		services.Add(rec.Service)
		scenarios.Add(rec.CacheScenario)
	}
	fmt.Fprintf(w, "\nci systems: %s\n", joinSorted(ciSystems))
	fmt.Fprintf(w, "tools:      %s\n", joinSorted(tools))
	fmt.Fprintf(w, "services:   %s\n", joinSorted(services))
	fmt.Fprintf(w, "scenarios:  %s\n", joinSorted(scenarios))
}

func joinSorted(set mapset.Set[string]) string {
	vals := set.ToSlice()
	sort.Strings(vals)
	return strings.Join(vals, ", ")
}
