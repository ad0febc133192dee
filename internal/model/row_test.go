package model_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/derickschaefer/bidash/internal/model"
)

func TestRowPreservesWireOrder(t *testing.T) {
	var r model.Row
	if err := json.Unmarshal([]byte(`{"zeta":1,"alpha":"x","mid":null}`), &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := []string{"zeta", "alpha", "mid"}
	if got := r.Fields(); !reflect.DeepEqual(got, want) {
		t.Errorf("Fields: expected %v, got %v", want, got)
	}
	v, ok := r.Get("mid")
	if !ok || v != nil {
		t.Errorf("mid: expected present nil, got %v (present=%v)", v, ok)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("missing field should not be present")
	}
}

func TestRowNullIsEmpty(t *testing.T) {
	var rows []model.Row
	if err := json.Unmarshal([]byte(`[null, {"a":1}]`), &rows); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if rows[0].Len() != 0 {
		t.Errorf("null row: expected 0 fields, got %d", rows[0].Len())
	}
	if rows[1].Len() != 1 {
		t.Errorf("second row: expected 1 field, got %d", rows[1].Len())
	}
}

func TestRowRejectsNonObject(t *testing.T) {
	var r model.Row
	if err := json.Unmarshal([]byte(`[1,2]`), &r); err == nil {
		t.Error("expected error decoding an array into a Row")
	}
}

func TestRowMarshalKeepsOrder(t *testing.T) {
	r := model.NewRow("b", 2.0, "a", "x", "c", nil)
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `{"b":2,"a":"x","c":null}` {
		t.Errorf("unexpected encoding: %s", b)
	}
}

func TestRowSetReplacesInPlace(t *testing.T) {
	r := model.NewRow("a", 1.0, "b", 2.0)
	r.Set("a", 3.0)
	if got := r.Fields(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Fields after replace: %v", got)
	}
	if v, _ := r.Get("a"); v != 3.0 {
		t.Errorf("a: expected 3, got %v", v)
	}
}

func TestParseChartKind(t *testing.T) {
	cases := map[string]model.ChartKind{
		"sales_trend":         model.SalesTrend,
		"Product-Performance": model.ProductPerformance,
		" CUSTOMER_ANALYTICS": model.CustomerAnalytics,
	}
	for in, want := range cases {
		got, err := model.ParseChartKind(in)
		if err != nil {
			t.Errorf("ParseChartKind(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseChartKind(%q): expected %v, got %v", in, want, got)
		}
	}
	if _, err := model.ParseChartKind("pie"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestChartKindNamesCoverAllKinds(t *testing.T) {
	if len(model.AllChartKinds) != int(model.NumChartKinds) {
		t.Fatalf("AllChartKinds has %d entries, NumChartKinds is %d", len(model.AllChartKinds), model.NumChartKinds)
	}
	for _, k := range model.AllChartKinds {
		back, err := model.ParseChartKind(k.String())
		if err != nil || back != k {
			t.Errorf("kind %d does not round trip through its wire name %q", int(k), k.String())
		}
		if k.Title() == "" {
			t.Errorf("kind %v has no title", k)
		}
	}
}
