// Package view holds the session state that drives every bidash surface.
//
// A State is created once per session and mutated only through the
// controller package (query submission, chart selection, KPI refresh).
// Renderers never touch it directly; they read a Snapshot.
package view

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/derickschaefer/bidash/internal/model"
)

// ─── Query outcome ────────────────────────────────────────────────────────────

// Status tags the active variant of a QueryOutcome.
type Status int

const (
	StatusEmpty Status = iota
	StatusPending
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "empty"
	}
}

// QueryOutcome is the tagged result of the most recent query submission:
// Empty (nothing run yet), Pending, Success or Failure. Exactly one variant
// is active. The zero value is Empty.
type QueryOutcome struct {
	status  Status
	result  model.QueryResult
	message string
}

// Empty returns the outcome of a session that has not run a query.
func Empty() QueryOutcome { return QueryOutcome{} }

// Pending returns the loading outcome.
func Pending() QueryOutcome { return QueryOutcome{status: StatusPending} }

// Success wraps a query result.
func Success(r model.QueryResult) QueryOutcome {
	return QueryOutcome{status: StatusSuccess, result: r}
}

// Failure wraps a user-facing error message.
func Failure(message string) QueryOutcome {
	return QueryOutcome{status: StatusFailure, message: message}
}

// Status returns the active variant.
func (o QueryOutcome) Status() Status { return o.status }

// IsPending reports whether a query is in flight.
func (o QueryOutcome) IsPending() bool { return o.status == StatusPending }

// Result returns the query result when the outcome is Success.
func (o QueryOutcome) Result() (model.QueryResult, bool) {
	if o.status != StatusSuccess {
		return model.QueryResult{}, false
	}
	return o.result, true
}

// Message returns the error message when the outcome is Failure.
func (o QueryOutcome) Message() (string, bool) {
	if o.status != StatusFailure {
		return "", false
	}
	return o.message, true
}

// MarshalJSON encodes the active variant only.
func (o QueryOutcome) MarshalJSON() ([]byte, error) {
	switch o.status {
	case StatusSuccess:
		return json.Marshal(struct {
			Status string `json:"status"`
			model.QueryResult
		}{o.status.String(), o.result})
	case StatusFailure:
		return json.Marshal(struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		}{o.status.String(), o.message})
	default:
		return json.Marshal(struct {
			Status string `json:"status"`
		}{o.status.String()})
	}
}

// ─── State ────────────────────────────────────────────────────────────────────

// State is the complete mutable session state. All methods are safe for
// concurrent use; each mutation is atomic with respect to Snapshot.
type State struct {
	mu        sync.RWMutex
	sessionID string
	queryText string
	outcome   QueryOutcome
	kpis      model.KpiSnapshot
	chart     *model.ChartDataset
	chartErr  string
	kpiErr    string
}

// New creates a State for a fresh session: outcome Empty, zero KPIs,
// no active chart.
func New() *State {
	return &State{sessionID: uuid.NewString()}
}

// SessionID identifies this session in logs and request headers.
func (s *State) SessionID() string {
	return s.sessionID
}

// Snapshot is an immutable copy of the state at one instant.
type Snapshot struct {
	SessionID      string
	QueryText      string
	Outcome        QueryOutcome
	Kpis           model.KpiSnapshot
	ActiveChart    *model.ChartDataset // nil until the first successful fetch
	LastChartError string
	LastKpiError   string
}

// Snapshot returns the current state. ActiveChart is shared, not copied;
// datasets are replaced wholesale and never modified in place.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		SessionID:      s.sessionID,
		QueryText:      s.queryText,
		Outcome:        s.outcome,
		Kpis:           s.kpis,
		ActiveChart:    s.chart,
		LastChartError: s.chartErr,
		LastKpiError:   s.kpiErr,
	}
}

// Outcome returns the current query outcome.
func (s *State) Outcome() QueryOutcome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.outcome
}

// ─── Mutations (controller package only) ─────────────────────────────────────

// SetQueryText records the text being edited without touching the outcome.
func (s *State) SetQueryText(text string) {
	s.mu.Lock()
	s.queryText = text
	s.mu.Unlock()
}

// BeginQuery records text and moves the outcome to Pending. It returns false,
// changing nothing, when a query is already Pending.
func (s *State) BeginQuery(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome.IsPending() {
		return false
	}
	s.queryText = text
	s.outcome = Pending()
	return true
}

// CommitQuery replaces the outcome.
func (s *State) CommitQuery(o QueryOutcome) {
	s.mu.Lock()
	s.outcome = o
	s.mu.Unlock()
}

// SetKpis replaces the KPI snapshot and clears the last KPI error.
func (s *State) SetKpis(k model.KpiSnapshot) {
	s.mu.Lock()
	s.kpis = k
	s.kpiErr = ""
	s.mu.Unlock()
}

// SetKpiError records a failed KPI refresh; the snapshot is kept.
func (s *State) SetKpiError(msg string) {
	s.mu.Lock()
	s.kpiErr = msg
	s.mu.Unlock()
}

// SetChart replaces the active chart and clears the last chart error.
func (s *State) SetChart(ds *model.ChartDataset) {
	s.mu.Lock()
	s.chart = ds
	s.chartErr = ""
	s.mu.Unlock()
}

// SetChartError records a failed chart fetch; the active chart is kept.
func (s *State) SetChartError(msg string) {
	s.mu.Lock()
	s.chartErr = msg
	s.mu.Unlock()
}
