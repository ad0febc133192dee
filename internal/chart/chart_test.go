package chart_test

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/derickschaefer/bidash/internal/chart"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

// pts builds Points from alternating (label, value) pairs.
func pts(pairs ...interface{}) []chart.Point {
	var out []chart.Point
	for i := 0; i < len(pairs)-1; i += 2 {
		out = append(out, chart.Point{Label: pairs[i].(string), Value: pairs[i+1].(float64)})
	}
	return out
}

// monthly builds one Point per month starting at 2024-01.
func monthly(values ...float64) []chart.Point {
	out := make([]chart.Point, len(values))
	for i, v := range values {
		out[i] = chart.Point{Label: fmt.Sprintf("%d-%02d", 2024+i/12, i%12+1), Value: v}
	}
	return out
}

// ─── Bar tests ────────────────────────────────────────────────────────────────

func TestBarBasic(t *testing.T) {
	data := pts("Books", 1200.0, "Electronics", 5400.0, "Garden", 800.0)
	var buf strings.Builder
	if err := chart.Bar(&buf, "Revenue by Category", data, chart.BarOptions{Width: 60}); err != nil {
		t.Fatalf("Bar returned error: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Revenue by Category") {
		t.Error("output missing title")
	}
	lines := nonEmptyLines(out)
	if len(lines) != 4 {
		t.Errorf("expected 4 lines (1 title + 3 bars), got %d:\n%s", len(lines), out)
	}
	for _, line := range lines[1:] {
		if !strings.Contains(line, "█") {
			t.Errorf("bar line missing block character: %q", line)
		}
	}
	if !strings.Contains(out, "5.4K") {
		t.Errorf("expected compact value label 5.4K in:\n%s", out)
	}
}

func TestBarLongestBarIsLargestValue(t *testing.T) {
	data := pts("a", 1.0, "b", 10.0)
	var buf strings.Builder
	_ = chart.Bar(&buf, "", data, chart.BarOptions{Width: 50})
	lines := nonEmptyLines(buf.String())
	if len(lines) != 2 {
		t.Fatalf("expected 2 bars with no title, got %d", len(lines))
	}
	a := strings.Count(lines[0], "█")
	b := strings.Count(lines[1], "█")
	if a >= b {
		t.Errorf("expected bar a (%d) shorter than bar b (%d)", a, b)
	}
}

func TestBarEmpty(t *testing.T) {
	var buf strings.Builder
	err := chart.Bar(&buf, "T", nil, chart.BarOptions{Width: 60})
	if err == nil {
		t.Fatal("expected error for empty input, got nil")
	}
}

func TestBarNaNFiltered(t *testing.T) {
	data := pts("a", 3.5, "b", math.NaN(), "c", 4.2)
	var buf strings.Builder
	if err := chart.Bar(&buf, "T", data, chart.BarOptions{Width: 60}); err != nil {
		t.Fatalf("Bar returned error: %v", err)
	}
	if lines := nonEmptyLines(buf.String()); len(lines) != 3 {
		t.Errorf("expected 3 lines (1 title + 2 bars), got %d:\n%s", len(lines), buf.String())
	}
}

func TestBarMaxBars(t *testing.T) {
	data := monthly(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	var buf strings.Builder
	if err := chart.Bar(&buf, "T", data, chart.BarOptions{Width: 60, MaxBars: 5}); err != nil {
		t.Fatalf("Bar returned error: %v", err)
	}
	out := buf.String()
	if lines := nonEmptyLines(out); len(lines) != 6 {
		t.Errorf("expected 6 lines (1 title + 5 bars), got %d", len(lines))
	}
	if !strings.Contains(out, "2024-10") {
		t.Error("expected last bar to be 2024-10")
	}
	if strings.Contains(out, "2024-01") {
		t.Error("expected 2024-01 to be excluded by MaxBars=5")
	}
}

func TestBarNegativeValues(t *testing.T) {
	data := pts("Q1", 2.9, "Q2", -3.4, "Q3", 5.7)
	var buf strings.Builder
	if err := chart.Bar(&buf, "Growth", data, chart.BarOptions{Width: 80}); err != nil {
		t.Fatalf("Bar returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "│") {
		t.Error("bidirectional bar missing zero-line │ character")
	}
}

func TestBarFlatSeries(t *testing.T) {
	var buf strings.Builder
	if err := chart.Bar(&buf, "T", pts("a", 5.0, "b", 5.0), chart.BarOptions{Width: 60}); err != nil {
		t.Fatalf("Bar with flat series returned error: %v", err)
	}
}

func TestBarWideLabels(t *testing.T) {
	// East Asian labels occupy two cells each; bars must still line up.
	data := pts("書籍", 10.0, "ab", 10.0)
	var buf strings.Builder
	_ = chart.Bar(&buf, "", data, chart.BarOptions{Width: 40})
	lines := nonEmptyLines(buf.String())
	if len(lines) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(lines))
	}
	col := func(line string) int {
		return runewidth.StringWidth(line[:strings.Index(line, "█")])
	}
	if c0, c1 := col(lines[0]), col(lines[1]); c0 != c1 {
		t.Errorf("bars misaligned: cells %d vs %d\n%s", c0, c1, buf.String())
	}
}

// ─── Line tests ───────────────────────────────────────────────────────────────

func TestLineBasic(t *testing.T) {
	data := monthly(35, 44, 147, 133, 111, 84, 69, 60, 69, 67, 64, 67)
	var buf strings.Builder
	if err := chart.Line(&buf, "Monthly Revenue", data, chart.LineOptions{Width: 80, Height: 8}); err != nil {
		t.Fatalf("Line returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Monthly Revenue") {
		t.Error("output missing title")
	}
	if !strings.Contains(out, "2024-01") || !strings.Contains(out, "2024-12") {
		t.Error("output missing first or last label")
	}
	if !strings.Contains(out, "└") {
		t.Error("output missing bottom-left corner └")
	}
}

func TestLineLineCount(t *testing.T) {
	height := 8
	var buf strings.Builder
	if err := chart.Line(&buf, "T", monthly(1, 2, 3, 4, 5, 6), chart.LineOptions{Width: 80, Height: height}); err != nil {
		t.Fatalf("Line returned error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// title + rows + bottom axis + x labels
	if expected := height + 3; len(lines) != expected {
		t.Errorf("expected %d lines, got %d:\n%s", expected, len(lines), buf.String())
	}
}

func TestLineTwoPoints(t *testing.T) {
	var buf strings.Builder
	if err := chart.Line(&buf, "T", monthly(100, 120), chart.LineOptions{Width: 40, Height: 6}); err != nil {
		t.Fatalf("Line with two points returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "2024-01") || !strings.Contains(out, "2024-02") {
		t.Errorf("expected both labels in:\n%s", out)
	}
}

func TestLineSinglePoint(t *testing.T) {
	var buf strings.Builder
	if err := chart.Line(&buf, "T", monthly(5), chart.LineOptions{Width: 40, Height: 6}); err != nil {
		t.Fatalf("Line with one point returned error: %v", err)
	}
}

func TestLineEmpty(t *testing.T) {
	var buf strings.Builder
	if err := chart.Line(&buf, "T", nil, chart.LineOptions{Width: 40}); err == nil {
		t.Fatal("expected error for empty input, got nil")
	}
}

func TestLineAllNaN(t *testing.T) {
	var buf strings.Builder
	err := chart.Line(&buf, "T", monthly(math.NaN(), math.NaN()), chart.LineOptions{Width: 40})
	if err == nil {
		t.Fatal("expected error for all-NaN input, got nil")
	}
}

func TestLineNaNGaps(t *testing.T) {
	var buf strings.Builder
	data := monthly(3.5, math.NaN(), math.NaN(), 4.1, 4.5)
	if err := chart.Line(&buf, "T", data, chart.LineOptions{Width: 60, Height: 6}); err != nil {
		t.Fatalf("Line with NaN gaps returned error: %v", err)
	}
}

func TestLineWidthRespected(t *testing.T) {
	width := 60
	var buf strings.Builder
	_ = chart.Line(&buf, "", monthly(1, 2, 3, 4, 5, 6, 7, 8), chart.LineOptions{Width: width, Height: 6})
	for i, line := range strings.Split(buf.String(), "\n") {
		if n := len([]rune(line)); n > width+2 {
			t.Errorf("line %d exceeds width %d: runes=%d %q", i, width, n, line)
		}
	}
}

func TestBarWidthFromColumns(t *testing.T) {
	t.Setenv("COLUMNS", "40")
	var buf strings.Builder
	_ = chart.Bar(&buf, "", pts("a", 1.0, "b", 100.0), chart.BarOptions{})
	for _, line := range nonEmptyLines(buf.String()) {
		if n := len([]rune(line)); n > 40 {
			t.Errorf("line exceeds $COLUMNS: %d %q", n, line)
		}
	}
}

// ─── Utilities ────────────────────────────────────────────────────────────────

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
