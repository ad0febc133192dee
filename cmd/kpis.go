package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/bidash/internal/model"
)

var kpisCmd = &cobra.Command{
	Use:   "kpis",
	Short: "Show the headline KPIs",
	Long: `Fetch total revenue, revenue growth, total orders and total customers
and show them as dashboard cards.

Examples:
  bidash kpis
  bidash kpis --locale de-DE
  bidash kpis --format json | jq .data.total_revenue`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(cmd, nil)
		if err != nil {
			return err
		}
		started := time.Now()
		if err := deps.Session.RefreshKpis(cmd.Context()); err != nil {
			return err
		}
		k := deps.State.Snapshot().Kpis
		return emit(cmd, deps, newResult(model.KindKpis, "kpis", k, 4, started))
	},
}

func init() {
	rootCmd.AddCommand(kpisCmd)
}
