package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/derickschaefer/bidash/internal/app"
	"github.com/derickschaefer/bidash/internal/model"
	"github.com/derickschaefer/bidash/internal/render"
)

// resolveFormat returns the effective format string, falling back to "table".
func resolveFormat(cfgFormat string) string {
	if globalFlags.Format != "" {
		return globalFlags.Format
	}
	if cfgFormat != "" {
		return cfgFormat
	}
	return render.FormatTable
}

// outputWriter returns def unless --out names a file, in which case the file
// is created and returned along with its closer.
func outputWriter(def io.Writer) (io.Writer, func() error, error) {
	if globalFlags.Out == "" {
		return def, func() error { return nil }, nil
	}
	f, err := os.Create(globalFlags.Out)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, f.Close, nil
}

// newResult wraps a payload in a Result envelope.
func newResult(kind, command string, data interface{}, items int, started time.Time) *model.Result {
	return &model.Result{
		Kind:        kind,
		GeneratedAt: time.Now(),
		Command:     command,
		Data:        data,
		Stats: model.ResultStats{
			Items:      items,
			DurationMs: time.Since(started).Milliseconds(),
		},
	}
}

// renderOptions carries the session's locale and the chart flags into the
// renderers.
func renderOptions(deps *app.Deps) render.Options {
	return render.Options{
		Formatter:   deps.Formatter,
		ChartWidth:  chartWidth,
		ChartHeight: chartHeight,
	}
}

// emit renders result in the configured format to stdout or --out, followed
// by any warnings and, with --verbose, the stats footer on stderr. Each
// extra writer runs after the result, on the same output.
func emit(cmd *cobra.Command, deps *app.Deps, result *model.Result, extra ...func(io.Writer) error) error {
	w, closeFn, err := outputWriter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeFn()

	if err := render.Render(w, result, resolveFormat(deps.Config.Format), renderOptions(deps)); err != nil {
		return err
	}
	for _, fn := range extra {
		fmt.Fprintln(w)
		if err := fn(w); err != nil {
			return err
		}
	}
	if !deps.Config.Quiet {
		render.PrintFooter(cmd.ErrOrStderr(), result, deps.Config.Verbose)
	}
	return nil
}

// printKVTable renders a two-column key/value table using tablewriter.
func printKVTable(w io.Writer, rows [][]string) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"key", "value"})
	tw.SetAutoFormatHeaders(false)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)
	tw.AppendBulk(rows)
	tw.Render()
}
