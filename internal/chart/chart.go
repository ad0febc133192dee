// Package chart draws dashboard chart series as ASCII art for terminals that
// have no graphics surface.
//
//   - Bar: horizontal bars, one per labelled point. Used for categorical data
//     such as revenue by category.
//   - Line: a multi-row plot with a labelled Y axis. Used for ordered series
//     such as monthly revenue.
//
// NaN values are gaps, never zeros.
package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Point is one labelled value on the X axis.
type Point struct {
	Label string
	Value float64
}

// ─── Bar ─────────────────────────────────────────────────────────────────────

// BarOptions controls horizontal bar chart rendering.
type BarOptions struct {
	// Width is the total character width. 0 reads $COLUMNS, falling back to 80.
	Width int
	// MaxBars keeps only the last MaxBars points. 0 means no limit.
	MaxBars int
}

// Bar renders one horizontal bar per point:
//
//	Revenue by Category
//	Books        1.2K  ████████████
//	Electronics  5.4K  ████████████████████████████████
func Bar(w io.Writer, title string, pts []Point, opts BarOptions) error {
	totalWidth := opts.Width
	if totalWidth <= 0 {
		totalWidth = termWidth()
	}

	valid := finite(pts)
	if len(valid) == 0 {
		return fmt.Errorf("chart bar: no numeric points to render")
	}
	if opts.MaxBars > 0 && len(valid) > opts.MaxBars {
		valid = valid[len(valid)-opts.MaxBars:]
	}

	minVal, maxVal := bounds(valid)

	labelWidth, valWidth := 0, 0
	for _, p := range valid {
		if l := runewidth.StringWidth(p.Label); l > labelWidth {
			labelWidth = l
		}
		if l := len(formatFloat(p.Value)); l > valWidth {
			valWidth = l
		}
	}

	barAreaWidth := totalWidth - labelWidth - valWidth - 4
	if barAreaWidth < 4 {
		barAreaWidth = 4
	}

	// Positive-only series grow from zero so proportions stay honest.
	lo := math.Min(minVal, 0)
	valRange := maxVal - lo
	if valRange == 0 {
		valRange = 1
	}
	hasNeg := minVal < 0
	var zeroPos int
	if hasNeg {
		zeroPos = int(math.Round((-lo / valRange) * float64(barAreaWidth-1)))
	}

	if title != "" {
		fmt.Fprintln(w, title)
	}
	for _, p := range valid {
		var bar string
		if hasNeg {
			bar = buildBiBar(p.Value, valRange, barAreaWidth, zeroPos)
		} else {
			n := int(math.Round(p.Value / valRange * float64(barAreaWidth)))
			if n < 1 {
				n = 1
			}
			if n > barAreaWidth {
				n = barAreaWidth
			}
			bar = strings.Repeat("█", n)
		}
		fmt.Fprintf(w, "%s  %*s  %s\n",
			runewidth.FillRight(p.Label, labelWidth),
			valWidth, formatFloat(p.Value),
			bar,
		)
	}
	return nil
}

// buildBiBar renders a bar extending left (negative) or right (positive)
// from a zero line at zeroPos.
func buildBiBar(val, valRange float64, width, zeroPos int) string {
	buf := []rune(strings.Repeat(" ", width))
	if zeroPos >= 0 && zeroPos < width {
		buf[zeroPos] = '│'
	}
	span := int(math.Round(math.Abs(val) / valRange * float64(width-1)))
	if val >= 0 {
		for i := zeroPos + 1; i <= zeroPos+span && i < width; i++ {
			buf[i] = '█'
		}
	} else {
		start := zeroPos - span
		if start < 0 {
			start = 0
		}
		for i := start; i < zeroPos; i++ {
			buf[i] = '█'
		}
	}
	return string(buf)
}

// ─── Line ────────────────────────────────────────────────────────────────────

// LineOptions controls line plot rendering.
type LineOptions struct {
	// Width is the total character width including the Y axis.
	// 0 reads $COLUMNS, falling back to 80.
	Width int
	// Height is the number of plot rows. 0 means 12.
	Height int
}

// Line renders pts as a connected line with min/mid/max ticks on the Y axis
// and the first, middle and last labels under the X axis.
func Line(w io.Writer, title string, pts []Point, opts LineOptions) error {
	width := opts.Width
	if width <= 0 {
		width = termWidth()
	}
	height := opts.Height
	if height <= 0 {
		height = 12
	}

	valid := finite(pts)
	if len(valid) == 0 {
		return fmt.Errorf("chart line: no numeric points to render")
	}
	minVal, maxVal := bounds(valid)

	ticks := yTicks(minVal, maxVal, height)
	yLabelWidth := 0
	for _, t := range ticks {
		if l := len(formatFloat(t)); l > yLabelWidth {
			yLabelWidth = l
		}
	}

	plotWidth := width - yLabelWidth - 2
	if plotWidth < 10 {
		plotWidth = 10
	}

	cols := sampleCols(pts, plotWidth)
	grid := buildGrid(cols, minVal, maxVal, height)

	if title != "" {
		fmt.Fprintf(w, "%s  (%s to %s)\n", title, pts[0].Label, pts[len(pts)-1].Label)
	}

	for row := 0; row < height; row++ {
		label := ""
		for _, t := range ticks {
			if math.Abs(rowForValue(t, minVal, maxVal, height)-float64(row)) < 0.5 {
				label = formatFloat(t)
				break
			}
		}
		axis := "┤"
		if label == "" {
			axis = " "
		}
		fmt.Fprintf(w, "%*s%s%s\n", yLabelWidth, label, axis, string(grid[row]))
	}

	fmt.Fprintf(w, "%s└%s\n", strings.Repeat(" ", yLabelWidth), strings.Repeat("─", plotWidth))
	fmt.Fprintf(w, "%s %s\n", strings.Repeat(" ", yLabelWidth), xAxisLabels(pts, plotWidth))
	return nil
}

// ─── Grid building ────────────────────────────────────────────────────────────

// sampleCols maps pts onto exactly n columns. When there are more points
// than columns each column averages its bucket; when there are fewer, a
// point is repeated across the columns it spans.
func sampleCols(pts []Point, n int) []float64 {
	total := len(pts)
	cols := make([]float64, n)
	for col := 0; col < n; col++ {
		lo := col * total / n
		hi := (col+1)*total/n - 1
		if hi < lo {
			hi = lo
		}
		if hi >= total {
			hi = total - 1
		}
		sum, count := 0.0, 0
		for i := lo; i <= hi; i++ {
			if !math.IsNaN(pts[i].Value) {
				sum += pts[i].Value
				count++
			}
		}
		if count == 0 {
			cols[col] = math.NaN()
		} else {
			cols[col] = sum / float64(count)
		}
	}
	return cols
}

// rowForValue returns the fractional row (0 is the top, max) for v.
func rowForValue(v, minVal, maxVal float64, height int) float64 {
	if maxVal == minVal {
		return float64(height) / 2
	}
	return (maxVal - v) / (maxVal - minVal) * float64(height-1)
}

// buildGrid draws cols into a height×len(cols) rune grid, joining adjacent
// columns with box-drawing characters.
func buildGrid(cols []float64, minVal, maxVal float64, height int) [][]rune {
	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", len(cols)))
	}

	rowOf := make([]int, len(cols))
	for col, v := range cols {
		if math.IsNaN(v) {
			rowOf[col] = -1
			continue
		}
		r := int(math.Round(rowForValue(v, minVal, maxVal, height)))
		rowOf[col] = max(0, min(r, height-1))
	}

	for col, r := range rowOf {
		if r < 0 {
			continue
		}
		prev, next := -1, -1
		if col > 0 {
			prev = rowOf[col-1]
		}
		if col < len(cols)-1 {
			next = rowOf[col+1]
		}

		switch {
		case (prev < 0 || prev == r) && (next < 0 || next == r):
			if prev < 0 && next < 0 {
				grid[r][col] = '·'
			} else {
				grid[r][col] = '─'
			}
		case next > r && (prev < 0 || prev <= r):
			grid[r][col] = '╭'
		case next >= 0 && next < r && (prev < 0 || prev >= r):
			grid[r][col] = '╰'
		case prev >= 0 && prev < r:
			grid[r][col] = '╮'
		case prev > r:
			grid[r][col] = '╯'
		default:
			grid[r][col] = '─'
		}

		if prev >= 0 && prev != r {
			lo, hi := min(r, prev), max(r, prev)
			for fill := lo + 1; fill < hi; fill++ {
				if grid[fill][col] == ' ' {
					grid[fill][col] = '│'
				}
			}
		}
	}
	return grid
}

// ─── Axis helpers ─────────────────────────────────────────────────────────────

func yTicks(minVal, maxVal float64, height int) []float64 {
	if maxVal == minVal {
		return []float64{minVal}
	}
	n := 4
	if height <= 6 {
		n = 3
	}
	ticks := make([]float64, n)
	for i := range ticks {
		ticks[i] = minVal + float64(i)*(maxVal-minVal)/float64(n-1)
	}
	return ticks
}

// xAxisLabels places the first, middle and last labels under the plot.
func xAxisLabels(pts []Point, plotWidth int) string {
	if len(pts) == 0 {
		return ""
	}
	buf := []rune(strings.Repeat(" ", plotWidth))
	writeAt := func(pos int, s string) {
		for i, ch := range []rune(s) {
			if pos+i >= 0 && pos+i < len(buf) {
				buf[pos+i] = ch
			}
		}
	}
	first, mid, last := pts[0].Label, pts[len(pts)/2].Label, pts[len(pts)-1].Label
	writeAt(0, first)
	if len(pts) > 2 {
		writeAt(plotWidth/2-len([]rune(mid))/2, mid)
	}
	if len(pts) > 1 {
		writeAt(plotWidth-len([]rune(last)), last)
	}
	return strings.TrimRight(string(buf), " ")
}

// ─── Utilities ────────────────────────────────────────────────────────────────

func finite(pts []Point) []Point {
	out := make([]Point, 0, len(pts))
	for _, p := range pts {
		if !math.IsNaN(p.Value) && !math.IsInf(p.Value, 0) {
			out = append(out, p)
		}
	}
	return out
}

func bounds(pts []Point) (lo, hi float64) {
	lo, hi = pts[0].Value, pts[0].Value
	for _, p := range pts[1:] {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	return lo, hi
}

// formatFloat formats axis and bar labels compactly: 1.2M, 45.0K, 3.5.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "."
	}
	abs := math.Abs(v)
	var s string
	switch {
	case abs == 0:
		return "0"
	case abs >= 1e6:
		return strconv.FormatFloat(v/1e6, 'f', 1, 64) + "M"
	case abs >= 1e3:
		return strconv.FormatFloat(v/1e3, 'f', 1, 64) + "K"
	case abs >= 100:
		s = strconv.FormatFloat(v, 'f', 1, 64)
	case abs >= 1:
		s = strconv.FormatFloat(v, 'f', 2, 64)
	default:
		s = strconv.FormatFloat(v, 'f', 4, 64)
	}
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

// termWidth returns $COLUMNS, defaulting to 80.
func termWidth() int {
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if n, err := strconv.Atoi(cols); err == nil && n > 20 {
			return n
		}
	}
	return 80
}
