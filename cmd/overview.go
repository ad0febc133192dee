package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/bidash/internal/model"
	"github.com/derickschaefer/bidash/internal/util"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show the KPIs and the default chart together",
	Long: `Load the dashboard's start-up view in one go: the KPI cards and the
sales trend chart, fetched concurrently.

If one of the two fetches fails the other is still shown and the failure
is printed as a warning. The command fails only when both do.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(cmd, nil)
		if err != nil {
			return err
		}

		started := time.Now()
		var warnings []string
		if err := deps.Session.Bootstrap(cmd.Context()); err != nil {
			var me *util.MultiError
			if !errors.As(err, &me) || me.Len() > 1 {
				return err
			}
			for _, e := range me.Errors {
				warnings = append(warnings, e.Error())
			}
		}

		snap := deps.State.Snapshot()
		ov := &model.Overview{Kpis: snap.Kpis, Chart: snap.ActiveChart}
		items := 4
		if ov.Chart != nil {
			items += len(ov.Chart.Points)
		}
		result := newResult(model.KindOverview, "overview", ov, items, started)
		result.Warnings = warnings
		return emit(cmd, deps, result)
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
	addChartFlags(overviewCmd)
}
