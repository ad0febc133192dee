package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/bidash/internal/model"
	"github.com/derickschaefer/bidash/internal/render"
)

var queryCmd = &cobra.Command{
	Use:   "query <question...>",
	Short: "Ask a natural-language question and show the result table",
	Long: `Send a natural-language question to the backend, which turns it into SQL
and runs it. The generated SQL is printed above the result table.

All arguments are joined with spaces, so quoting is optional. A failed
query prints the backend's message and exits with status 1.`,
	Example: `  bidash query top 5 customers by revenue
  bidash query "orders per city last month" --format csv
  bidash query "revenue by category" --format json | jq .data.sql_query`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		deps, err := buildDeps(cmd, nil)
		if err != nil {
			return err
		}

		started := time.Now()
		outcome, err := deps.Session.Queries.Submit(cmd.Context(), text)
		if err != nil {
			return err
		}
		if msg, failed := render.Error(outcome); failed {
			fmt.Fprintln(cmd.ErrOrStderr(), "Query failed:", msg)
			return errSilentExit
		}
		res, _ := outcome.Result()
		return emit(cmd, deps, newResult(model.KindQueryResult, "query", &res, len(res.Rows), started))
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
