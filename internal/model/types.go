// Package model defines the canonical data types used throughout bidash.
// These types mirror the dashboard backend's JSON payloads and the result
// envelope that every one-shot command renders.
package model

import (
	"fmt"
	"strings"
	"time"
)

// ─── KPI ──────────────────────────────────────────────────────────────────────

// KpiSnapshot is the headline figures returned by GET /kpis.
// Fields the backend omits (or sends as null) decode to zero.
type KpiSnapshot struct {
	TotalRevenue   float64 `json:"total_revenue"`
	RevenueGrowth  float64 `json:"revenue_growth"`
	TotalOrders    int64   `json:"total_orders"`
	TotalCustomers int64   `json:"total_customers"`
}

// ─── Charts ───────────────────────────────────────────────────────────────────

// ChartKind identifies one of the backend's aggregate chart datasets.
type ChartKind int

const (
	SalesTrend ChartKind = iota
	ProductPerformance
	CustomerAnalytics

	// NumChartKinds is the number of defined kinds. Keep it last.
	NumChartKinds
)

// AllChartKinds lists every kind in display order.
var AllChartKinds = []ChartKind{SalesTrend, ProductPerformance, CustomerAnalytics}

var chartKindNames = [...]string{
	SalesTrend:         "sales_trend",
	ProductPerformance: "product_performance",
	CustomerAnalytics:  "customer_analytics",
}

var chartKindTitles = [...]string{
	SalesTrend:         "Sales Trend",
	ProductPerformance: "Product Performance",
	CustomerAnalytics:  "Customer Analytics",
}

// String returns the wire name used in GET /chart/{kind}.
func (k ChartKind) String() string {
	if k < 0 || k >= NumChartKinds {
		return fmt.Sprintf("chart_kind(%d)", int(k))
	}
	return chartKindNames[k]
}

// Title returns the human label shown on chart buttons.
func (k ChartKind) Title() string {
	if k < 0 || k >= NumChartKinds {
		return k.String()
	}
	return chartKindTitles[k]
}

// MarshalText encodes the kind as its wire name.
func (k ChartKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a wire name.
func (k *ChartKind) UnmarshalText(b []byte) error {
	v, err := ParseChartKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseChartKind accepts a wire name, case-insensitively, with "-" allowed
// in place of "_" (sales-trend, SALES_TREND).
func ParseChartKind(s string) (ChartKind, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, n := range chartKindNames {
		if n == name {
			return ChartKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown chart kind %q (valid: %s)", s, strings.Join(chartKindNames[:], ", "))
}

// ChartDataset is one fetched chart: the kind it was requested as and the
// series the backend returned. Points are homogeneous within a dataset;
// their fields depend on Kind:
//
//	sales_trend          month, revenue
//	product_performance  category, revenue
//	customer_analytics   city, order_count, total_revenue
type ChartDataset struct {
	Kind      ChartKind `json:"kind"`
	Points    []Row     `json:"points"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ─── Query ────────────────────────────────────────────────────────────────────

// QueryResult is the success payload of POST /query.
type QueryResult struct {
	SQL   string `json:"sql_query"`
	Rows  []Row  `json:"results"`
	Count int    `json:"count"`
}

// ─── Result Envelope ─────────────────────────────────────────────────────────

// ResultStats carries timing metadata for a command result.
type ResultStats struct {
	DurationMs int64 `json:"duration_ms"`
	Items      int   `json:"items"`
}

// Result is the uniform envelope rendered by every one-shot command.
// The Data field holds the typed payload; Kind identifies what is in it.
// Renderers switch on Kind to format output appropriately.
type Result struct {
	Kind        string      `json:"kind"`
	GeneratedAt time.Time   `json:"generated_at"`
	Command     string      `json:"command"`
	Data        interface{} `json:"data"`
	Warnings    []string    `json:"warnings,omitempty"`
	Stats       ResultStats `json:"stats"`
}

// Kind constants for Result.Kind.
const (
	KindKpis        = "kpis"
	KindChart       = "chart"
	KindQueryResult = "query_result"
	KindOverview    = "overview"
)

// Overview bundles the initial dashboard view: KPIs plus the default chart.
type Overview struct {
	Kpis  KpiSnapshot   `json:"kpis"`
	Chart *ChartDataset `json:"chart,omitempty"`
}
