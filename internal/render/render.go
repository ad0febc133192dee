// Package render turns dashboard data into display form.
//
// descriptors.go holds the pure mapping from session data to what a surface
// shows: KPI cards, result tables and chart views. This file writes a
// model.Result envelope as text in one of the --format values; the top-level
// Render dispatcher selects the writer.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/derickschaefer/bidash/internal/chart"
	"github.com/derickschaefer/bidash/internal/model"
)

// Format constants matching --format flag values.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
	FormatTSV   = "tsv"
	FormatMD    = "md"
)

// Formats lists every accepted --format value.
var Formats = []string{FormatTable, FormatJSON, FormatJSONL, FormatCSV, FormatTSV, FormatMD}

// ValidFormat reports whether f is a known format.
func ValidFormat(f string) bool {
	for _, v := range Formats {
		if v == f {
			return true
		}
	}
	return false
}

// Options carries what the text writers need beyond the result itself.
type Options struct {
	// Formatter localises numbers. Nil means DefaultLocale.
	Formatter *Formatter
	// ChartWidth is the ASCII chart width; 0 reads $COLUMNS.
	ChartWidth int
	// ChartHeight is the line chart height; 0 uses the chart default.
	ChartHeight int
}

func (o Options) formatter() *Formatter {
	if o.Formatter != nil {
		return o.Formatter
	}
	f, _ := NewFormatter(DefaultLocale)
	return f
}

// Render writes result to w in the specified format.
func Render(w io.Writer, result *model.Result, format string, opts Options) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, result)
	case FormatJSONL:
		return renderJSONL(w, result, opts)
	case FormatCSV:
		return renderDelimited(w, result, ',', opts)
	case FormatTSV:
		return renderDelimited(w, result, '\t', opts)
	case FormatMD:
		return renderMarkdown(w, result, opts)
	default:
		return renderTable(w, result, opts)
	}
}

// RenderTo writes to stdout by default; if path is non-empty, writes to file.
func RenderTo(path string, result *model.Result, format string, opts Options) error {
	if path == "" {
		return Render(os.Stdout, result, format, opts)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()
	return Render(f, result, format, opts)
}

// ─── Payload accessors ────────────────────────────────────────────────────────

func kpisOf(result *model.Result) (model.KpiSnapshot, bool) {
	switch d := result.Data.(type) {
	case model.KpiSnapshot:
		return d, true
	case *model.KpiSnapshot:
		if d != nil {
			return *d, true
		}
	}
	return model.KpiSnapshot{}, false
}

func queryOf(result *model.Result) (*model.QueryResult, bool) {
	switch d := result.Data.(type) {
	case model.QueryResult:
		return &d, true
	case *model.QueryResult:
		return d, d != nil
	}
	return nil, false
}

func chartOf(result *model.Result) (*model.ChartDataset, bool) {
	switch d := result.Data.(type) {
	case model.ChartDataset:
		return &d, true
	case *model.ChartDataset:
		return d, d != nil
	}
	return nil, false
}

func overviewOf(result *model.Result) (*model.Overview, bool) {
	switch d := result.Data.(type) {
	case model.Overview:
		return &d, true
	case *model.Overview:
		return d, d != nil
	}
	return nil, false
}

// pointsTable lays out raw chart points the way a query result is laid out.
func pointsTable(ds *model.ChartDataset) *Table {
	return TableOf(model.QueryResult{Rows: ds.Points, Count: len(ds.Points)})
}

// ─── JSON ─────────────────────────────────────────────────────────────────────

func renderJSON(w io.Writer, result *model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// ─── JSONL ────────────────────────────────────────────────────────────────────

// renderJSONL writes one record per line: a card, a result row or a chart
// point.
func renderJSONL(w io.Writer, result *model.Result, opts Options) error {
	enc := json.NewEncoder(w)
	switch result.Kind {
	case model.KindKpis:
		k, ok := kpisOf(result)
		if !ok {
			return enc.Encode(result.Data)
		}
		for _, c := range opts.formatter().KpiCards(k) {
			if err := enc.Encode(c); err != nil {
				return err
			}
		}
		return nil
	case model.KindQueryResult:
		q, ok := queryOf(result)
		if !ok {
			return enc.Encode(result.Data)
		}
		for _, r := range q.Rows {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	case model.KindChart:
		ds, ok := chartOf(result)
		if !ok {
			return enc.Encode(result.Data)
		}
		for _, p := range ds.Points {
			if err := enc.Encode(p); err != nil {
				return err
			}
		}
		return nil
	default:
		return enc.Encode(result.Data)
	}
}

// ─── Table ────────────────────────────────────────────────────────────────────

func renderTable(w io.Writer, result *model.Result, opts Options) error {
	switch result.Kind {
	case model.KindKpis:
		k, ok := kpisOf(result)
		if !ok {
			return fmt.Errorf("unexpected data type for kpis")
		}
		return renderCardsTable(w, opts.formatter().KpiCards(k))
	case model.KindQueryResult:
		q, ok := queryOf(result)
		if !ok {
			return fmt.Errorf("unexpected data type for query_result")
		}
		if q.SQL != "" {
			fmt.Fprintf(w, "SQL: %s\n\n", q.SQL)
		}
		return WriteTable(w, TableOf(*q))
	case model.KindChart:
		ds, ok := chartOf(result)
		if !ok {
			return fmt.Errorf("unexpected data type for chart")
		}
		return DrawChart(w, ds, opts)
	case model.KindOverview:
		ov, ok := overviewOf(result)
		if !ok {
			return fmt.Errorf("unexpected data type for overview")
		}
		if err := renderCardsTable(w, opts.formatter().KpiCards(ov.Kpis)); err != nil {
			return err
		}
		if ov.Chart == nil {
			return nil
		}
		fmt.Fprintln(w)
		return DrawChart(w, ov.Chart, opts)
	default:
		return renderJSON(w, result)
	}
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.SetAutoFormatHeaders(false)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)
	return tw
}

func renderCardsTable(w io.Writer, cards []Card) error {
	tw := newTable(w, []string{"METRIC", "VALUE", "CHANGE"})
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})
	for _, c := range cards {
		tw.Append([]string{c.Label, c.Value, c.Delta})
	}
	tw.Render()
	return nil
}

// WriteTable writes t as a bordered table followed by a row count.
// A table with no columns prints "(0 rows)".
func WriteTable(w io.Writer, t *Table) error {
	if len(t.Columns) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return nil
	}
	tw := newTable(w, t.Columns)
	tw.AppendBulk(t.Rows)
	tw.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(t.Rows))
	return nil
}

// DrawChart draws ds as an ASCII chart. Kinds with no chart print a note
// followed by the raw points.
func DrawChart(w io.Writer, ds *model.ChartDataset, opts Options) error {
	cv, ok := Chart(ds)
	if !ok {
		fmt.Fprintf(w, "No chart available for %s.\n\n", ds.Kind.Title())
		return WriteTable(w, pointsTable(ds))
	}
	if len(cv.X) == 0 {
		fmt.Fprintf(w, "%s\n(no data)\n", cv.Label)
		return nil
	}
	pts := cv.Points()
	switch cv.Type {
	case ChartBar:
		return chart.Bar(w, cv.Label, pts, chart.BarOptions{Width: opts.ChartWidth})
	default:
		return chart.Line(w, cv.Label, pts, chart.LineOptions{Width: opts.ChartWidth, Height: opts.ChartHeight})
	}
}

// Points pairs each X label with its Y value.
func (v *ChartView) Points() []chart.Point {
	pts := make([]chart.Point, len(v.X))
	for i := range v.X {
		pts[i] = chart.Point{Label: v.X[i], Value: v.Y[i]}
	}
	return pts
}

// ─── CSV / TSV ────────────────────────────────────────────────────────────────

func renderDelimited(w io.Writer, result *model.Result, sep rune, opts Options) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep

	writeCards := func(k model.KpiSnapshot) {
		_ = cw.Write([]string{"metric", "value", "change", "trend"})
		for _, c := range opts.formatter().KpiCards(k) {
			_ = cw.Write([]string{c.Label, c.Value, c.Delta, string(c.Trend)})
		}
	}
	writeTable := func(t *Table) {
		if len(t.Columns) == 0 {
			return
		}
		_ = cw.Write(t.Columns)
		_ = cw.WriteAll(t.Rows)
	}

	switch result.Kind {
	case model.KindKpis:
		k, ok := kpisOf(result)
		if !ok {
			return fmt.Errorf("unexpected data type for kpis")
		}
		writeCards(k)
	case model.KindQueryResult:
		q, ok := queryOf(result)
		if !ok {
			return fmt.Errorf("unexpected data type for query_result")
		}
		writeTable(TableOf(*q))
	case model.KindChart:
		ds, ok := chartOf(result)
		if !ok {
			return fmt.Errorf("unexpected data type for chart")
		}
		writeTable(pointsTable(ds))
	case model.KindOverview:
		ov, ok := overviewOf(result)
		if !ok {
			return fmt.Errorf("unexpected data type for overview")
		}
		writeCards(ov.Kpis)
	default:
		b, _ := json.Marshal(result.Data)
		_ = cw.Write([]string{string(b)})
	}

	cw.Flush()
	return cw.Error()
}

// ─── Markdown ─────────────────────────────────────────────────────────────────

func renderMarkdown(w io.Writer, result *model.Result, opts Options) error {
	switch result.Kind {
	case model.KindKpis:
		k, ok := kpisOf(result)
		if !ok {
			return renderJSON(w, result)
		}
		mdCards(w, opts.formatter().KpiCards(k))
		return nil
	case model.KindQueryResult:
		q, ok := queryOf(result)
		if !ok {
			return renderJSON(w, result)
		}
		if q.SQL != "" {
			fmt.Fprintf(w, "```sql\n%s\n```\n\n", q.SQL)
		}
		mdTable(w, TableOf(*q))
		return nil
	case model.KindChart:
		ds, ok := chartOf(result)
		if !ok {
			return renderJSON(w, result)
		}
		fmt.Fprintf(w, "### %s\n\n", ds.Kind.Title())
		mdTable(w, pointsTable(ds))
		return nil
	case model.KindOverview:
		ov, ok := overviewOf(result)
		if !ok {
			return renderJSON(w, result)
		}
		mdCards(w, opts.formatter().KpiCards(ov.Kpis))
		if ov.Chart != nil {
			fmt.Fprintf(w, "\n### %s\n\n", ov.Chart.Kind.Title())
			mdTable(w, pointsTable(ov.Chart))
		}
		return nil
	default:
		return renderJSON(w, result)
	}
}

func mdCards(w io.Writer, cards []Card) {
	fmt.Fprintf(w, "| METRIC | VALUE | CHANGE |\n|--------|-------|--------|\n")
	for _, c := range cards {
		fmt.Fprintf(w, "| %s | %s | %s |\n", c.Label, c.Value, c.Delta)
	}
}

func mdTable(w io.Writer, t *Table) {
	if len(t.Columns) == 0 {
		fmt.Fprintln(w, "_(0 rows)_")
		return
	}
	esc := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		esc[i] = mdEscape(c)
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(esc, " | "))
	fmt.Fprintf(w, "|%s\n", strings.Repeat("----|", len(t.Columns)))
	for _, row := range t.Rows {
		for i, c := range row {
			esc[i] = mdEscape(c)
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(esc, " | "))
	}
}

// ─── Warnings / Stats Footer ─────────────────────────────────────────────────

// PrintFooter writes warnings and, in verbose mode, timing stats to w.
func PrintFooter(w io.Writer, result *model.Result, verbose bool) {
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "⚠  %s\n", warn)
	}
	if verbose {
		fmt.Fprintf(w, "\n[%s • %d items • %dms]\n",
			result.GeneratedAt.Format(time.RFC3339),
			result.Stats.Items,
			result.Stats.DurationMs,
		)
	}
}

func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
