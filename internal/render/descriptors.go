package render

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/derickschaefer/bidash/internal/model"
	"github.com/derickschaefer/bidash/internal/view"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en-US"

// ─── Formatter ────────────────────────────────────────────────────────────────

// Formatter turns numbers into display strings for one locale.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
}

// NewFormatter returns a Formatter for a BCP-47 locale such as "en-US" or
// "de-DE". An empty locale means DefaultLocale.
func NewFormatter(locale string) (*Formatter, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}
	return &Formatter{tag: tag, printer: message.NewPrinter(tag)}, nil
}

// Locale returns the formatter's language tag.
func (f *Formatter) Locale() string { return f.tag.String() }

// Currency formats a dollar amount with grouping and at most two fraction
// digits: 50000 → "$50,000", 1234.5 → "$1,234.5".
func (f *Formatter) Currency(v float64) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	return sign + "$" + f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// Count formats an integer with grouping.
func (f *Formatter) Count(n int64) string {
	return f.printer.Sprintf("%d", n)
}

// Percent formats v with one decimal place and no sign.
func (f *Formatter) Percent(v float64) string {
	return f.printer.Sprintf("%.1f", v) + "%"
}

// ─── KPI cards ────────────────────────────────────────────────────────────────

// Trend is the direction of revenue growth.
type Trend string

const (
	TrendNone Trend = ""
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

// Color is a display class. Surfaces map it to an actual terminal colour.
type Color string

const (
	ColorNone  Color = ""
	ColorGreen Color = "green"
	ColorRed   Color = "red"
)

// Card is one KPI tile. Delta is the optional sub-line under Value.
type Card struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Delta string `json:"delta,omitempty"`
	Trend Trend  `json:"trend,omitempty"`
	Color Color  `json:"color,omitempty"`
}

// GrowthTrend returns up for growth ≥ 0 and down otherwise. Zero growth
// counts as up.
func GrowthTrend(growth float64) (Trend, Color) {
	if growth >= 0 {
		return TrendUp, ColorGreen
	}
	return TrendDown, ColorRed
}

// KpiCards builds the four headline cards in display order: revenue,
// orders, customers, growth.
func (f *Formatter) KpiCards(k model.KpiSnapshot) []Card {
	trend, color := GrowthTrend(k.RevenueGrowth)
	arrow := "↑"
	if trend == TrendDown {
		arrow = "↓"
	}

	var growth string
	switch {
	case k.RevenueGrowth > 0:
		growth = "+" + f.Percent(k.RevenueGrowth)
	case k.RevenueGrowth < 0:
		growth = "-" + f.Percent(-k.RevenueGrowth)
	default:
		growth = f.Percent(0)
	}

	return []Card{
		{
			Label: "Total Revenue",
			Value: f.Currency(k.TotalRevenue),
			Delta: arrow + " " + f.Percent(math.Abs(k.RevenueGrowth)),
			Trend: trend,
			Color: color,
		},
		{Label: "Total Orders", Value: f.Count(k.TotalOrders)},
		{Label: "Total Customers", Value: f.Count(k.TotalCustomers)},
		{Label: "Revenue Growth", Value: growth, Trend: trend, Color: color},
	}
}

// ─── Result table ─────────────────────────────────────────────────────────────

// Table is a query result laid out for display.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Count   int        `json:"count"`
}

// ResultTable lays out a Success outcome. Columns come from the first row;
// every row is read by column name, so a row missing a field shows "".
// Fields that only later rows carry are not shown.
func ResultTable(o view.QueryOutcome) (*Table, bool) {
	res, ok := o.Result()
	if !ok {
		return nil, false
	}
	return TableOf(res), true
}

// TableOf lays out a query result regardless of outcome.
func TableOf(res model.QueryResult) *Table {
	t := &Table{Columns: []string{}, Rows: make([][]string, 0, len(res.Rows)), Count: res.Count}
	if len(res.Rows) == 0 {
		return t
	}
	t.Columns = res.Rows[0].Fields()
	for _, r := range res.Rows {
		cells := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			v, _ := r.Get(c)
			cells[i] = Cell(v)
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// Cell stringifies one scalar value for display.
func Cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

// Error returns the message of a Failure outcome.
func Error(o view.QueryOutcome) (string, bool) {
	return o.Message()
}

// GeneratedQuery returns the SQL of a Success outcome.
func GeneratedQuery(o view.QueryOutcome) (string, bool) {
	res, ok := o.Result()
	if !ok {
		return "", false
	}
	return res.SQL, true
}

// ─── Chart view ───────────────────────────────────────────────────────────────

// ChartType is the visual form of a chart.
type ChartType string

const (
	ChartLine ChartType = "line"
	ChartBar  ChartType = "bar"
)

// ChartView is a chart ready for drawing: X labels and one Y series.
// A Y value that is not numeric is NaN and drawn as a gap.
type ChartView struct {
	Type  ChartType `json:"type"`
	Label string    `json:"label"`
	X     []string  `json:"x"`
	Y     []float64 `json:"y"`
}

type chartStrategy func(points []model.Row) (*ChartView, bool)

// strategies maps every ChartKind to how it is drawn. The array is sized by
// its keys; the assertion below fails to compile when a kind is added
// without an entry.
var strategies = [...]chartStrategy{
	model.SalesTrend:         series(ChartLine, "Monthly Revenue", "month", "revenue"),
	model.ProductPerformance: series(ChartBar, "Revenue by Category", "category", "revenue"),
	model.CustomerAnalytics:  unsupported,
}

var _ = [1]struct{}{}[len(strategies)-int(model.NumChartKinds)]

// Chart lays out a dataset, or reports false when its kind has no chart.
func Chart(ds *model.ChartDataset) (*ChartView, bool) {
	if ds == nil || ds.Kind < 0 || int(ds.Kind) >= len(strategies) {
		return nil, false
	}
	return strategies[ds.Kind](ds.Points)
}

// Charted reports whether kind has a visual form.
func Charted(kind model.ChartKind) bool {
	_, ok := Chart(&model.ChartDataset{Kind: kind})
	return ok
}

func series(typ ChartType, label, xField, yField string) chartStrategy {
	return func(points []model.Row) (*ChartView, bool) {
		v := &ChartView{
			Type:  typ,
			Label: label,
			X:     make([]string, len(points)),
			Y:     make([]float64, len(points)),
		}
		for i, p := range points {
			x, _ := p.Get(xField)
			y, _ := p.Get(yField)
			v.X[i] = Cell(x)
			v.Y[i] = numeric(y)
		}
		return v, true
	}
}

func unsupported([]model.Row) (*ChartView, bool) { return nil, false }

// numeric reads a chart value. Decimal columns often arrive as strings.
func numeric(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f
		}
	}
	return math.NaN()
}
