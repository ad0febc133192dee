package cmd

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/bidash/internal/model"
	"github.com/derickschaefer/bidash/internal/render"
)

var (
	chartWidth  int
	chartHeight int
	chartStats  bool
)

var chartCmd = &cobra.Command{
	Use:   "chart <kind>",
	Short: "Fetch a chart dataset and draw it in the terminal",
	Long: `Fetch one of the dashboard charts and draw it as an ASCII chart.

Kinds:
  sales_trend          monthly revenue, line chart
  product_performance  revenue by category, bar chart
  customer_analytics   fetched but not charted; the raw points are listed

Width auto-detects from $COLUMNS (falls back to 80). Override with --width
and --height. With --format csv/json/jsonl/md the raw points are written
instead of a chart.

--stats adds a summary of the drawn series below the chart: total, mean,
median, extremes, first-to-last change and a least-squares trend.`,
	Example: `  bidash chart sales_trend
  bidash chart product_performance --width 100
  bidash chart sales_trend --stats
  bidash chart sales_trend --format csv > trend.csv`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: chartKindNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := model.ParseChartKind(args[0])
		if err != nil {
			return err
		}
		deps, err := buildDeps(cmd, nil)
		if err != nil {
			return err
		}
		started := time.Now()
		if err := deps.Session.Charts.Select(cmd.Context(), kind); err != nil {
			return err
		}
		ds := deps.State.Snapshot().ActiveChart
		result := newResult(model.KindChart, "chart "+kind.String(), ds, len(ds.Points), started)
		if chartStats && resolveFormat(deps.Config.Format) == render.FormatTable {
			return emit(cmd, deps, result, func(w io.Writer) error { return writeStats(w, ds) })
		}
		return emit(cmd, deps, result)
	},
}

func chartKindNames() []string {
	names := make([]string, len(model.AllChartKinds))
	for i, k := range model.AllChartKinds {
		names[i] = k.String()
	}
	return names
}

// addChartFlags registers the drawing flags on a command that renders a chart.
func addChartFlags(c *cobra.Command) {
	c.Flags().IntVar(&chartWidth, "width", 0,
		"chart width in characters (default: auto-detect from $COLUMNS, fallback 80)")
	c.Flags().IntVar(&chartHeight, "height", 0,
		"line chart height in rows (default 12)")
}

func init() {
	rootCmd.AddCommand(chartCmd)
	addChartFlags(chartCmd)
	chartCmd.Flags().BoolVar(&chartStats, "stats", false,
		"print series statistics below the chart (table format only)")
}
