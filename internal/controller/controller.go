// Package controller owns every mutation of the session's view.State.
//
//   - QueryController drives the query lifecycle Empty/Success/Failure →
//     Pending → Success|Failure.
//   - ChartSelector swaps the active chart dataset.
//   - Session bundles both with the state and runs the start-up fetches.
//
// Network calls go through a DataClient; *api.Client is the production one.
package controller

import (
	"context"
	"log/slog"

	"github.com/derickschaefer/bidash/internal/model"
	"github.com/derickschaefer/bidash/internal/view"
)

// DataClient is the backend surface the controllers need.
type DataClient interface {
	FetchKpis(ctx context.Context) (model.KpiSnapshot, error)
	FetchChart(ctx context.Context, kind model.ChartKind) (model.ChartDataset, error)
	ExecuteQuery(ctx context.Context, text string) (model.QueryResult, error)
}

// Session is the running application instance: one State and the
// controllers allowed to change it.
type Session struct {
	State   *view.State
	Queries *QueryController
	Charts  *ChartSelector

	client DataClient
	logger *slog.Logger
}

// NewSession wires controllers around state. A nil logger uses slog.Default().
func NewSession(state *view.State, client DataClient, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("session_id", state.SessionID())
	return &Session{
		State:   state,
		Queries: NewQueryController(state, client, logger),
		Charts:  NewChartSelector(state, client, logger),
		client:  client,
		logger:  logger,
	}
}
