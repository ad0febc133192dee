package controller

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/derickschaefer/bidash/internal/api"
	"github.com/derickschaefer/bidash/internal/view"
)

var (
	// ErrEmptyQuery is returned for blank input. Nothing changes and no
	// request is sent; callers treat it as a silent skip.
	ErrEmptyQuery = errors.New("query text is empty")

	// ErrQueryPending is returned while an earlier submission is in flight.
	ErrQueryPending = errors.New("a query is already running")
)

// QueryController drives query submission.
type QueryController struct {
	state  *view.State
	client DataClient
	logger *slog.Logger
}

// NewQueryController creates a QueryController over state.
func NewQueryController(state *view.State, client DataClient, logger *slog.Logger) *QueryController {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryController{state: state, client: client, logger: logger}
}

// Edit records the text being typed. It never starts a request.
func (c *QueryController) Edit(text string) {
	c.state.SetQueryText(text)
}

// Request is an accepted submission whose outcome is Pending.
type Request struct {
	c    *QueryController
	text string

	once    sync.Once
	outcome view.QueryOutcome
}

// Text returns the submitted question.
func (r *Request) Text() string { return r.text }

// Begin validates text and, if accepted, moves the outcome to Pending before
// returning. Blank text yields ErrEmptyQuery; a submission already in flight
// yields ErrQueryPending. In both cases the state is untouched.
func (c *QueryController) Begin(text string) (*Request, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyQuery
	}
	if !c.state.BeginQuery(text) {
		return nil, ErrQueryPending
	}
	return &Request{c: c, text: text}, nil
}

// Run sends the request and commits exactly one of Success or Failure.
// Further calls return the committed outcome without another request.
func (r *Request) Run(ctx context.Context) view.QueryOutcome {
	r.once.Do(func() {
		r.outcome = r.c.execute(ctx, r.text)
		r.c.state.CommitQuery(r.outcome)
	})
	return r.outcome
}

// Submit is Begin followed by Run.
func (c *QueryController) Submit(ctx context.Context, text string) (view.QueryOutcome, error) {
	req, err := c.Begin(text)
	if err != nil {
		return c.state.Outcome(), err
	}
	return req.Run(ctx), nil
}

func (c *QueryController) execute(ctx context.Context, text string) view.QueryOutcome {
	start := time.Now()
	res, err := c.client.ExecuteQuery(ctx, text)
	if err != nil {
		msg := api.Message(err)
		c.logger.Warn("query failed", "query", text, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return view.Failure(msg)
	}
	c.logger.Debug("query succeeded", "query", text, "rows", len(res.Rows), "elapsed_ms", time.Since(start).Milliseconds())
	return view.Success(res)
}
