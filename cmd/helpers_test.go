package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/derickschaefer/bidash/internal/model"
)

func TestOutputWriterDefault(t *testing.T) {
	globalFlags.Out = ""
	w, closeFn, err := outputWriter(os.Stdout)
	if err != nil {
		t.Fatalf("outputWriter default: %v", err)
	}
	if w != os.Stdout {
		t.Fatalf("expected stdout writer passthrough")
	}
	if err := closeFn(); err != nil {
		t.Fatalf("default closer should be nil error, got: %v", err)
	}
}

func TestOutputWriterFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.txt")
	globalFlags.Out = p
	t.Cleanup(func() { globalFlags.Out = "" })

	w, closeFn, err := outputWriter(os.Stdout)
	if err != nil {
		t.Fatalf("outputWriter file: %v", err)
	}
	if w == os.Stdout {
		t.Fatalf("expected file writer, got stdout")
	}
	if err := closeFn(); err != nil {
		t.Fatalf("closing output writer: %v", err)
	}
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("expected output file to exist: %v", err)
	}
}

func TestOutputWriterBadPath(t *testing.T) {
	globalFlags.Out = filepath.Join(t.TempDir(), "missing", "out.txt")
	t.Cleanup(func() { globalFlags.Out = "" })

	if _, _, err := outputWriter(os.Stdout); err == nil {
		t.Fatal("expected error for a path in a missing directory")
	}
}

func TestResolveFormat(t *testing.T) {
	t.Cleanup(func() { globalFlags.Format = "" })

	globalFlags.Format = ""
	if got := resolveFormat(""); got != "table" {
		t.Errorf("expected table, got %q", got)
	}
	if got := resolveFormat("csv"); got != "csv" {
		t.Errorf("expected config format csv, got %q", got)
	}
	globalFlags.Format = "json"
	if got := resolveFormat("csv"); got != "json" {
		t.Errorf("expected --format to win, got %q", got)
	}
}

func TestNewResult(t *testing.T) {
	started := time.Now().Add(-50 * time.Millisecond)
	r := newResult(model.KindKpis, "kpis", model.KpiSnapshot{}, 4, started)
	if r.Kind != model.KindKpis || r.Command != "kpis" {
		t.Errorf("unexpected envelope: kind=%q command=%q", r.Kind, r.Command)
	}
	if r.Stats.Items != 4 {
		t.Errorf("expected 4 items, got %d", r.Stats.Items)
	}
	if r.Stats.DurationMs < 50 {
		t.Errorf("expected duration >= 50ms, got %d", r.Stats.DurationMs)
	}
}

func TestChartKindNames(t *testing.T) {
	names := chartKindNames()
	want := []string{"sales_trend", "product_performance", "customer_analytics"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %v", len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("name %d: expected %q, got %q", i, want[i], names[i])
		}
	}
}
