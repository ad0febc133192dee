// Package tui is the full-screen dashboard surface: KPI cards, chart tabs,
// the question box and its result, drawn with Bubble Tea.
//
// The Model never mutates session state itself. Keystrokes become controller
// calls; network work runs in tea.Cmds and reports back as messages, after
// which View reads a fresh Snapshot.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/derickschaefer/bidash/internal/api"
	"github.com/derickschaefer/bidash/internal/controller"
	"github.com/derickschaefer/bidash/internal/model"
	"github.com/derickschaefer/bidash/internal/render"
	"github.com/derickschaefer/bidash/internal/view"
)

// ─── Messages ─────────────────────────────────────────────────────────────────

// KpisLoaded reports the end of a KPI fetch.
type KpisLoaded struct{ Err error }

// ChartLoaded reports the end of a chart fetch.
type ChartLoaded struct {
	Kind model.ChartKind
	Err  error
}

// QueryDone reports the committed outcome of a submission.
type QueryDone struct{ Outcome view.QueryOutcome }

// ─── Model ────────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model.
type Model struct {
	ctx     context.Context
	session *controller.Session
	format  *render.Formatter

	input   textinput.Model
	spinner spinner.Model

	width, height int
	loading       int // KPI and chart fetches in flight
	selected      model.ChartKind
	status        string
}

// New creates the dashboard model. ctx bounds every request it starts.
func New(ctx context.Context, session *controller.Session, f *render.Formatter) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question, e.g. top 5 customers by revenue"
	ti.CharLimit = 500
	ti.Width = 60
	ti.Prompt = "› "
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = mutedStyle

	return Model{
		ctx:      ctx,
		session:  session,
		format:   f,
		input:    ti,
		spinner:  s,
		selected: controller.DefaultChart,
		loading:  2,
	}
}

// Init starts the KPI and default chart fetches side by side. New counts
// both as in flight.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.refreshKpis(),
		m.selectChart(controller.DefaultChart),
	)
}

// Update handles messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(20, msg.Width-8)
		return m, nil

	case KpisLoaded:
		m.loading = max(0, m.loading-1)
		if msg.Err != nil {
			m.status = "KPIs unavailable: " + api.Message(msg.Err)
		}
		return m, nil

	case ChartLoaded:
		m.loading = max(0, m.loading-1)
		if msg.Err != nil {
			m.status = m.session.State.Snapshot().LastChartError
		}
		return m, nil

	case QueryDone:
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		return m.submit()
	case "ctrl+r":
		m.status = ""
		m.loading++
		return m, tea.Batch(m.refreshKpis(), m.spinner.Tick)
	}
	if kind, ok := chartKey(msg.String()); ok {
		m.selected = kind
		m.status = ""
		m.loading++
		return m, tea.Batch(m.selectChart(kind), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.Queries.Edit(m.input.Value())
	return m, cmd
}

// chartKey maps F1..F3 and alt+1..alt+3 to chart kinds in display order.
func chartKey(key string) (model.ChartKind, bool) {
	keys := [][2]string{{"f1", "alt+1"}, {"f2", "alt+2"}, {"f3", "alt+3"}}
	for i, pair := range keys {
		if i < len(model.AllChartKinds) && (key == pair[0] || key == pair[1]) {
			return model.AllChartKinds[i], true
		}
	}
	return 0, false
}

// submit starts a query. Blank text and a query already in flight are
// ignored, which is how the submit control stays disabled while loading.
func (m Model) submit() (tea.Model, tea.Cmd) {
	req, err := m.session.Queries.Begin(m.input.Value())
	switch {
	case errors.Is(err, controller.ErrEmptyQuery), errors.Is(err, controller.ErrQueryPending):
		return m, nil
	case err != nil:
		m.status = err.Error()
		return m, nil
	}
	m.status = ""
	ctx := m.ctx
	run := func() tea.Msg {
		return QueryDone{Outcome: req.Run(ctx)}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m Model) refreshKpis() tea.Cmd {
	ctx, s := m.ctx, m.session
	return func() tea.Msg {
		return KpisLoaded{Err: s.RefreshKpis(ctx)}
	}
}

func (m Model) selectChart(kind model.ChartKind) tea.Cmd {
	ctx, charts := m.ctx, m.session.Charts
	return func() tea.Msg {
		return ChartLoaded{Kind: kind, Err: charts.Select(ctx, kind)}
	}
}

func (m Model) busy() bool {
	return m.loading > 0 || m.session.State.Outcome().IsPending()
}

// Status returns the current status line text.
func (m Model) Status() string { return m.status }

// Selected returns the chart tab the user last picked.
func (m Model) Selected() model.ChartKind { return m.selected }
