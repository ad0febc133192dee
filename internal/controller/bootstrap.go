package controller

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/derickschaefer/bidash/internal/api"
	"github.com/derickschaefer/bidash/internal/model"
	"github.com/derickschaefer/bidash/internal/util"
)

// DefaultChart is the dataset shown before the user picks one.
const DefaultChart = model.SalesTrend

// RefreshKpis fetches the KPI summary and replaces the snapshot. On failure
// the previous snapshot stays (all zeros at start-up).
func (s *Session) RefreshKpis(ctx context.Context) error {
	k, err := s.client.FetchKpis(ctx)
	if err != nil {
		s.logger.Warn("kpi fetch failed", "error", err)
		s.State.SetKpiError(api.Message(err))
		return fmt.Errorf("kpis: %w", err)
	}
	s.State.SetKpis(k)
	return nil
}

// Bootstrap runs the start-up fetches: KPIs and the default chart. The two
// requests are independent and may complete in either order; Bootstrap
// waits for both and reports every failure, never cancelling one because
// the other failed.
func (s *Session) Bootstrap(ctx context.Context) error {
	var (
		g        errgroup.Group
		kpiErr   error
		chartErr error
	)
	g.Go(func() error {
		kpiErr = s.RefreshKpis(ctx)
		return nil
	})
	g.Go(func() error {
		chartErr = s.Charts.Select(ctx, DefaultChart)
		return nil
	})
	_ = g.Wait()

	var errs util.MultiError
	errs.Add(kpiErr)
	errs.Add(chartErr)
	return errs.Err()
}
