package cmd

import (
	"fmt"
	"io"
	"math"

	"github.com/derickschaefer/bidash/internal/analyze"
	"github.com/derickschaefer/bidash/internal/model"
	"github.com/derickschaefer/bidash/internal/render"
)

// writeStats prints the summary and trend of a charted dataset as a
// key/value table.
func writeStats(w io.Writer, ds *model.ChartDataset) error {
	if ds == nil {
		return fmt.Errorf("no chart loaded")
	}
	cv, ok := render.Chart(ds)
	if !ok {
		fmt.Fprintf(w, "No statistics for %s.\n", ds.Kind.Title())
		return nil
	}
	pts := cv.Points()
	s := analyze.Summarize(cv.Label, pts)

	rows := [][]string{
		{"series", s.Series},
		{"points", fmt.Sprintf("%d (%d missing)", s.Count, s.Missing)},
		{"total", fmtStat(s.Total)},
		{"mean", fmtStat(s.Mean)},
		{"median", fmtStat(s.Median)},
		{"min", labelled(s.Min, s.MinLabel)},
		{"max", labelled(s.Max, s.MaxLabel)},
		{"change", fmt.Sprintf("%s (%s)", fmtStat(s.Change), fmtPct(s.ChangePct))},
	}
	if tr, err := analyze.Trend(cv.Label, pts); err == nil {
		rows = append(rows, []string{"trend",
			fmt.Sprintf("%s (%s per point, r² %.2f)", tr.Direction, fmtStat(tr.Slope), tr.R2)})
	}
	printKVTable(w, rows)
	return nil
}

func fmtStat(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

func fmtPct(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", v)
}

func labelled(v float64, label string) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%s at %s", fmtStat(v), label)
}
