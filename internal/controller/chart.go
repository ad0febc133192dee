package controller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/derickschaefer/bidash/internal/api"
	"github.com/derickschaefer/bidash/internal/model"
	"github.com/derickschaefer/bidash/internal/view"
)

// ChartSelector replaces the active chart dataset on demand.
//
// A failed fetch never blanks a chart that is already on screen: the error
// is logged, recorded for the status line, and returned, but ActiveChart
// keeps its previous value.
type ChartSelector struct {
	state  *view.State
	client DataClient
	logger *slog.Logger
}

// NewChartSelector creates a ChartSelector over state.
func NewChartSelector(state *view.State, client DataClient, logger *slog.Logger) *ChartSelector {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartSelector{state: state, client: client, logger: logger}
}

// Select fetches the series for kind and makes it the active chart.
func (s *ChartSelector) Select(ctx context.Context, kind model.ChartKind) error {
	ds, err := s.client.FetchChart(ctx, kind)
	if err != nil {
		msg := api.Message(err)
		s.logger.Warn("chart fetch failed", "kind", kind.String(), "error", err)
		s.state.SetChartError(fmt.Sprintf("%s: %s", kind.Title(), msg))
		return fmt.Errorf("chart %s: %w", kind, err)
	}
	s.logger.Debug("chart fetched", "kind", kind.String(), "points", len(ds.Points))
	s.state.SetChart(&ds)
	return nil
}
