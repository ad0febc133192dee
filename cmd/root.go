// Package cmd implements the bidash CLI command tree.
// This file defines the root command and registers all global persistent flags.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/bidash/internal/app"
	"github.com/derickschaefer/bidash/internal/config"
)

// rootFlags holds the parsed values of all persistent (global) flags.
type rootFlags struct {
	BaseURL string
	Format  string
	Out     string
	Timeout string
	Rate    float64
	Locale  string
	Quiet   bool
	Verbose bool
	Debug   bool
	NoColor bool
}

// globalFlags is read by commands when building their deps.
var globalFlags rootFlags

// rootCmd is the base command. Running `bidash` with no subcommand
// prints help.
var rootCmd = &cobra.Command{
	Use:   "bidash",
	Short: "bidash — business intelligence dashboard client",
	Long: `bidash talks to a BI backend and shows headline KPIs, sales charts and
the answers to natural-language questions about the data.

Quick start:
  bidash config init              # create bidash.json pointing at your backend
  bidash kpis                     # revenue, orders, customers, growth
  bidash chart sales_trend        # monthly revenue line chart
  bidash query "top 5 customers"  # ask a question, see the generated SQL
  bidash dashboard                # full-screen interactive dashboard`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(newLogger(cmd.ErrOrStderr()))
	},
}

// Execute is the entry point called by main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errSilentExit) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// errSilentExit makes Execute exit 1 without printing anything more; the
// command has already reported the problem.
var errSilentExit = errors.New("exit status 1")

// newLogger builds the stderr text logger for the current flags.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case globalFlags.Debug:
		level = slog.LevelDebug
	case globalFlags.Quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// resolveFlags converts the raw global flags into config.Flags.
func resolveFlags(cmd *cobra.Command) (config.Flags, error) {
	f := config.Flags{
		BaseURL: globalFlags.BaseURL,
		Format:  globalFlags.Format,
		Locale:  globalFlags.Locale,
		Rate:    globalFlags.Rate,
		RateSet: cmd.Flags().Changed("rate"),
	}
	if globalFlags.Timeout != "" {
		d, err := time.ParseDuration(globalFlags.Timeout)
		if err != nil {
			return f, fmt.Errorf("invalid --timeout %q: %w", globalFlags.Timeout, err)
		}
		f.Timeout = d
	}
	return f, nil
}

// loadConfig resolves and validates configuration for cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags, err := resolveFlags(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}
	cfg.Quiet = globalFlags.Quiet
	cfg.Verbose = globalFlags.Verbose
	cfg.Debug = globalFlags.Debug
	cfg.NoColor = globalFlags.NoColor || os.Getenv("NO_COLOR") != ""
	return cfg, nil
}

// buildDeps resolves config and constructs the dependency container.
// Called at the start of each command's RunE.
func buildDeps(cmd *cobra.Command, logger *slog.Logger) (*app.Deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return app.New(cfg, Version, logger)
}

func init() {
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&globalFlags.BaseURL, "base-url", "",
		"backend API root (overrides env BIDASH_BASE_URL and bidash.json)")
	pf.StringVar(&globalFlags.Format, "format", "",
		"output format: table|json|jsonl|csv|tsv|md (default: table)")
	pf.StringVar(&globalFlags.Out, "out", "",
		"write output to file instead of stdout")
	pf.StringVar(&globalFlags.Timeout, "timeout", "",
		"HTTP request timeout (e.g. 30s, 2m)")
	pf.Float64Var(&globalFlags.Rate, "rate", 0,
		"max API requests per second, 0 for unlimited (default: 5.0)")
	pf.StringVar(&globalFlags.Locale, "locale", "",
		"number formatting locale, a BCP-47 tag (default: en-US)")
	pf.BoolVar(&globalFlags.Quiet, "quiet", false,
		"suppress all non-error output")
	pf.BoolVar(&globalFlags.Verbose, "verbose", false,
		"show timing stats after output")
	pf.BoolVar(&globalFlags.Debug, "debug", false,
		"log HTTP requests and responses")
	pf.BoolVar(&globalFlags.NoColor, "no-color", false,
		"disable colour in repl output (also honours NO_COLOR)")
}
