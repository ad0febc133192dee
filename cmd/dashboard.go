package cmd

import (
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/derickschaefer/bidash/internal/tui"
)

const debugLogFile = "bidash-debug.log"

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"ui"},
	Short:   "Open the full-screen interactive dashboard",
	Long: `Open the interactive dashboard: KPI cards, the chart tabs and a question
box whose generated SQL and result table appear underneath.

Keys:
  enter           ask the question in the box
  F1-F3, alt+1-3  switch chart
  ctrl+r          refresh the KPIs
  esc, ctrl+c     quit

Logging would tear the full-screen display, so it is off unless --debug is
given, in which case it goes to ` + debugLogFile + ` in the working directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		if globalFlags.Debug {
			f, err := tea.LogToFile(debugLogFile, "bidash")
			if err != nil {
				return fmt.Errorf("opening debug log: %w", err)
			}
			defer f.Close()
			logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
		slog.SetDefault(logger)

		deps, err := buildDeps(cmd, logger)
		if err != nil {
			return err
		}

		p := tea.NewProgram(
			tui.New(cmd.Context(), deps.Session, deps.Formatter),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)
		if _, err := p.Run(); err != nil && cmd.Context().Err() == nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
