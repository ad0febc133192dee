// Package analyze computes descriptive statistics and a trend over a drawn
// chart series. All functions are pure; no I/O.
package analyze

import (
	"fmt"
	"math"
	"sort"

	"github.com/derickschaefer/bidash/internal/chart"
)

// ─── Summary ──────────────────────────────────────────────────────────────────

// Summary holds descriptive statistics for one chart series.
type Summary struct {
	Series    string  `json:"series"`
	Count     int     `json:"count"`   // total points
	Missing   int     `json:"missing"` // NaN count
	Total     float64 `json:"total"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	MinLabel  string  `json:"min_label"`
	MaxLabel  string  `json:"max_label"`
	First     float64 `json:"first"`      // first non-NaN value
	Last      float64 `json:"last"`       // last non-NaN value
	Change    float64 `json:"change"`     // Last - First
	ChangePct float64 `json:"change_pct"` // (Last-First)/|First| * 100
}

// Summarize computes statistics over pts in order. NaN values are counted
// as missing and excluded from everything else.
func Summarize(series string, pts []chart.Point) Summary {
	s := Summary{Series: series, Count: len(pts)}

	var vals []float64
	for _, p := range pts {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			s.Missing++
			continue
		}
		vals = append(vals, p.Value)
		if len(vals) == 1 || p.Value < s.Min {
			s.Min, s.MinLabel = p.Value, p.Label
		}
		if len(vals) == 1 || p.Value > s.Max {
			s.Max, s.MaxLabel = p.Value, p.Label
		}
	}
	if len(vals) == 0 {
		nan := math.NaN()
		s.Mean, s.Median, s.Min, s.Max = nan, nan, nan, nan
		s.First, s.Last, s.Change, s.ChangePct = nan, nan, nan, nan
		return s
	}

	s.Total = sumF(vals)
	s.Mean = s.Total / float64(len(vals))
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	s.Median = median(sorted)

	s.First = vals[0]
	s.Last = vals[len(vals)-1]
	s.Change = s.Last - s.First
	if s.First != 0 {
		s.ChangePct = s.Change / math.Abs(s.First) * 100
	} else {
		s.ChangePct = math.NaN()
	}
	return s
}

// ─── Trend ────────────────────────────────────────────────────────────────────

// Direction is the sign of a fitted trend.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
	Flat Direction = "flat"
)

// flatTolerance is the slope, as a fraction of the mean's magnitude per
// step, below which a trend counts as flat.
const flatTolerance = 0.005

// TrendResult is an ordinary least squares fit of value against position.
type TrendResult struct {
	Series    string    `json:"series"`
	Slope     float64   `json:"slope"` // units per step
	Intercept float64   `json:"intercept"`
	R2        float64   `json:"r2"`
	Direction Direction `json:"direction"`
}

// Trend fits a line through pts, using each point's index as x. NaN points
// are skipped but keep their position.
func Trend(series string, pts []chart.Point) (TrendResult, error) {
	tr := TrendResult{Series: series}

	var xy []point
	for i, p := range pts {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			continue
		}
		xy = append(xy, point{float64(i), p.Value})
	}
	if len(xy) < 2 {
		return tr, fmt.Errorf("trend: need at least 2 numeric points, got %d", len(xy))
	}

	tr.Slope, tr.Intercept = olsRegress(xy)
	tr.R2 = r2(xy, tr.Slope, tr.Intercept)

	mean := meanPts(xy)
	threshold := math.Abs(mean) * flatTolerance
	switch {
	case tr.Slope > threshold:
		tr.Direction = Up
	case tr.Slope < -threshold:
		tr.Direction = Down
	default:
		tr.Direction = Flat
	}
	return tr, nil
}

// ─── Math helpers ─────────────────────────────────────────────────────────────

func sumF(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v
	}
	return s
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

type point struct{ x, y float64 }

func olsRegress(pts []point) (slope, intercept float64) {
	n := float64(len(pts))
	var xSum, ySum, xySum, x2Sum float64
	for _, p := range pts {
		xSum += p.x
		ySum += p.y
		xySum += p.x * p.y
		x2Sum += p.x * p.x
	}
	denom := n*x2Sum - xSum*xSum
	if denom == 0 {
		return 0, ySum / n
	}
	slope = (n*xySum - xSum*ySum) / denom
	intercept = (ySum - slope*xSum) / n
	return
}

func r2(pts []point, slope, intercept float64) float64 {
	yMean := meanPts(pts)
	var ssTot, ssRes float64
	for _, p := range pts {
		pred := slope*p.x + intercept
		ssTot += (p.y - yMean) * (p.y - yMean)
		ssRes += (p.y - pred) * (p.y - pred)
	}
	if ssTot == 0 {
		return 1
	}
	return 1 - ssRes/ssTot
}

func meanPts(pts []point) float64 {
	var s float64
	for _, p := range pts {
		s += p.y
	}
	return s / float64(len(pts))
}
