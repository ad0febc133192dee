package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/derickschaefer/bidash/internal/app"
	"github.com/derickschaefer/bidash/internal/model"
	"github.com/derickschaefer/bidash/internal/render"
	"github.com/derickschaefer/bidash/internal/tui"
	"github.com/derickschaefer/bidash/internal/view"
)

const replPrompt = "bidash> "

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Ask questions interactively, one per line",
	Long: `Start an interactive prompt. Each line is sent to the backend as a
question; dot-commands show KPIs and charts in between.

Type .help inside the REPL for the list of commands.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(cmd, nil)
		if err != nil {
			return err
		}

		rl, err := readline.NewEx(&readline.Config{
			Prompt:          replPrompt,
			AutoComplete:    newREPLCompleter(),
			InterruptPrompt: "^C",
			EOFPrompt:       ".quit",
		})
		if err != nil {
			return fmt.Errorf("failed to initialize REPL: %w", err)
		}
		defer func() { _ = rl.Close() }()

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "bidash REPL (backend: %s)\n", deps.Client.BaseURL())
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type a question, .help for commands, .quit to exit")
		_, _ = fmt.Fprintln(cmd.OutOrStdout())

		r := &repl{
			deps:   deps,
			out:    cmd.OutOrStdout(),
			errOut: cmd.ErrOrStderr(),
			format: resolveFormat(deps.Config.Format),
			color:  !deps.Config.NoColor,
		}
		return r.loop(cmd.Context(), rl)
	},
}

// lineReader is the part of *readline.Instance the loop uses.
type lineReader interface {
	Readline() (string, error)
}

type repl struct {
	deps   *app.Deps
	out    io.Writer
	errOut io.Writer
	format string
	color  bool
}

// loop reads lines until EOF, .quit or ctx is cancelled. ^C clears the
// current line; it does not leave the REPL.
func (r *repl) loop(ctx context.Context, rl lineReader) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ".") {
			if quit := r.handleDotCommand(ctx, line); quit {
				return nil
			}
			continue
		}

		r.ask(ctx, line)
		_, _ = fmt.Fprintln(r.out)
	}
}

// handleDotCommand runs one dot-command and reports whether the REPL should
// exit.
func (r *repl) handleDotCommand(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(r.out)

	case ".kpis":
		if err := r.deps.Session.RefreshKpis(ctx); err != nil {
			_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
			return false
		}
		r.printKpis(r.deps.State.Snapshot().Kpis)

	case ".chart":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(r.errOut, "Usage: .chart <%s>\n", strings.Join(chartKindNames(), "|"))
			return false
		}
		kind, err := model.ParseChartKind(parts[1])
		if err != nil {
			_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
			return false
		}
		if err := r.deps.Session.Charts.Select(ctx, kind); err != nil {
			_, _ = fmt.Fprintf(r.errOut, "Error: %s\n", r.deps.State.Snapshot().LastChartError)
			return false
		}
		if err := render.DrawChart(r.out, r.deps.State.Snapshot().ActiveChart, renderOptions(r.deps)); err != nil {
			_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
		}

	case ".stats":
		if err := writeStats(r.out, r.deps.State.Snapshot().ActiveChart); err != nil {
			_, _ = fmt.Fprintf(r.errOut, "Error: %v (try .chart first)\n", err)
		}

	case ".sql":
		sql, ok := render.GeneratedQuery(r.deps.State.Outcome())
		if !ok {
			_, _ = fmt.Fprintln(r.errOut, "No successful query yet.")
			return false
		}
		_, _ = fmt.Fprintln(r.out, sql)

	case ".clear":
		_, _ = fmt.Fprint(r.out, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(r.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

// ask submits one question and prints its outcome.
func (r *repl) ask(ctx context.Context, text string) {
	outcome, err := r.deps.Session.Queries.Submit(ctx, text)
	if err != nil {
		_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
		return
	}
	r.printOutcome(outcome)
}

func (r *repl) printOutcome(o view.QueryOutcome) {
	if msg, failed := render.Error(o); failed {
		_, _ = fmt.Fprintln(r.errOut, r.paint(render.ColorRed, "✗ "+msg))
		return
	}
	res, ok := o.Result()
	if !ok {
		return
	}
	if r.format != render.FormatTable {
		result := &model.Result{Kind: model.KindQueryResult, Command: "repl", Data: &res}
		if err := render.Render(r.out, result, r.format, renderOptions(r.deps)); err != nil {
			_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
		}
		return
	}
	if res.SQL != "" {
		_, _ = fmt.Fprintf(r.out, "SQL: %s\n\n", res.SQL)
	}
	tbl, _ := render.ResultTable(o)
	if err := render.WriteTable(r.out, tbl); err != nil {
		_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
	}
}

// printKpis writes one card per line with the trend in colour.
func (r *repl) printKpis(k model.KpiSnapshot) {
	cards := r.deps.Formatter.KpiCards(k)
	width := 0
	for _, c := range cards {
		width = max(width, len(c.Label))
	}
	for _, c := range cards {
		line := fmt.Sprintf("  %-*s  %s", width, c.Label, r.paint(c.Color, c.Value))
		if c.Delta != "" {
			line += "  " + r.paint(c.Color, c.Delta)
		}
		_, _ = fmt.Fprintln(r.out, line)
	}
}

func (r *repl) paint(c render.Color, s string) string {
	if !r.color {
		return s
	}
	return tui.Colorize(c, s)
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .kpis           Refresh and show the KPI cards
  .chart <kind>   Fetch and draw a chart (sales_trend, product_performance,
                  customer_analytics)
  .stats          Summarise the series of the last chart
  .sql            Show the SQL generated for the last successful question
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Anything else is sent to the backend as a question.
Tab completion works for dot-commands and chart kinds.
`
	_, _ = fmt.Fprintln(w, help)
}

// newREPLCompleter completes dot-commands and chart kinds.
func newREPLCompleter() *readline.PrefixCompleter {
	kinds := make([]readline.PrefixCompleterInterface, 0, len(model.AllChartKinds))
	for _, name := range chartKindNames() {
		kinds = append(kinds, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".kpis"),
		readline.PcItem(".chart", kinds...),
		readline.PcItem(".stats"),
		readline.PcItem(".sql"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

func init() {
	rootCmd.AddCommand(replCmd)
}
