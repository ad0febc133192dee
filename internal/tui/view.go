package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/derickschaefer/bidash/internal/chart"
	"github.com/derickschaefer/bidash/internal/model"
	"github.com/derickschaefer/bidash/internal/render"
	"github.com/derickschaefer/bidash/internal/view"
)

const helpLine = "enter ask • F1-F3 / alt+1-3 chart • ctrl+r refresh KPIs • esc quit"

// View draws the dashboard from a fresh snapshot.
func (m Model) View() string {
	snap := m.session.State.Snapshot()
	width := m.width
	if width <= 0 {
		width = 100
	}

	sections := []string{
		titleStyle.Render("bidash · Business Intelligence Dashboard"),
		m.viewCards(snap),
		m.viewTabs(snap),
		panelStyle.Width(width - 4).Render(m.viewChart(snap, width-8)),
		m.viewInput(snap),
	}
	if out := m.viewOutcome(snap.Outcome); out != "" {
		sections = append(sections, out)
	}
	sections = append(sections, m.viewStatus())
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) viewCards(snap view.Snapshot) string {
	cards := m.format.KpiCards(snap.Kpis)
	boxes := make([]string, len(cards))
	for i, c := range cards {
		body := cardLabelStyle.Render(c.Label) + "\n" + cardValueStyle.Render(Colorize(c.Color, c.Value))
		if c.Delta != "" {
			body += "\n" + Colorize(c.Color, c.Delta)
		} else {
			body += "\n "
		}
		boxes[i] = cardStyle.Render(body)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (m Model) viewTabs(snap view.Snapshot) string {
	tabs := make([]string, len(model.AllChartKinds))
	for i, k := range model.AllChartKinds {
		label := fmt.Sprintf("F%d %s", i+1, k.Title())
		active := snap.ActiveChart != nil && snap.ActiveChart.Kind == k
		if active {
			tabs[i] = activeTabStyle.Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// viewChart draws the active chart. A failed fetch never reaches this area;
// it only shows on the status line.
func (m Model) viewChart(snap view.Snapshot, width int) string {
	if snap.ActiveChart == nil {
		if m.loading > 0 {
			return m.spinner.View() + " Loading chart…"
		}
		return mutedStyle.Render("No chart loaded.")
	}
	cv, ok := render.Chart(snap.ActiveChart)
	if !ok {
		return mutedStyle.Render("No chart available for " + snap.ActiveChart.Kind.Title() + ".")
	}
	if len(cv.X) == 0 {
		return cv.Label + "\n" + mutedStyle.Render("(no data)")
	}
	pts := cv.Points()
	var b strings.Builder
	var err error
	switch cv.Type {
	case render.ChartBar:
		err = chart.Bar(&b, cv.Label, pts, chart.BarOptions{Width: width})
	default:
		err = chart.Line(&b, cv.Label, pts, chart.LineOptions{Width: width, Height: 10})
	}
	if err != nil {
		return mutedStyle.Render(err.Error())
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewInput(snap view.Snapshot) string {
	button := tabStyle.Render("[ Ask ]")
	if snap.Outcome.IsPending() {
		button = m.spinner.View() + mutedStyle.Render(" Running…")
	}
	return m.input.View() + "  " + button
}

func (m Model) viewOutcome(o view.QueryOutcome) string {
	if msg, ok := render.Error(o); ok {
		return errorStyle.Render("✗ " + msg)
	}
	res, ok := o.Result()
	if !ok {
		return ""
	}
	var b strings.Builder
	if res.SQL != "" {
		b.WriteString(mutedStyle.Render("Generated SQL:") + "\n")
		b.WriteString(sqlStyle.Render(res.SQL) + "\n\n")
	}
	tbl, _ := render.ResultTable(o)
	_ = render.WriteTable(&b, tbl)
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewStatus() string {
	if m.status != "" {
		return statusStyle.Render(m.status) + "\n" + mutedStyle.Render(helpLine)
	}
	return mutedStyle.Render(helpLine)
}
