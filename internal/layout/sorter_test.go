package layout

import (
	"testing"

	"manga-panel-extractor/pkg/geometry"
)

// quadrants returns four panels at the corners of a 1000x700 page.
func quadrants() map[string]geometry.RectInt {
	return map[string]geometry.RectInt{
		"TL": geometry.NewRectInt(50, 50, 400, 280),
		"TR": geometry.NewRectInt(550, 50, 400, 280),
		"BL": geometry.NewRectInt(50, 380, 400, 280),
		"BR": geometry.NewRectInt(550, 380, 400, 280),
	}
}

// namedPanel pairs a rectangle with a label so tests can assert on order.
type namedPanel struct {
	name string
	rect geometry.RectInt
}

func sortNamed(t *testing.T, panels []namedPanel, opts Options) []string {
	t.Helper()
	sorted := Sort(panels, func(p namedPanel) geometry.RectInt { return p.rect }, opts)
	names := make([]string, len(sorted))
	for i, p := range sorted {
		names[i] = p.name
	}
	return names
}

func TestSort_TwoColumnLTR(t *testing.T) {
	q := quadrants()
	panels := []namedPanel{
		{"BR", q["BR"]},
		{"TL", q["TL"]},
		{"TR", q["TR"]},
		{"BL", q["BL"]},
	}

	got := sortNamed(t, panels, Options{})
	want := []string{"TL", "BL", "TR", "BR"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sort() = %v, want %v", got, want)
		}
	}
}

func TestSort_RTLMirrorsColumns(t *testing.T) {
	q := quadrants()
	panels := []namedPanel{
		{"TL", q["TL"]},
		{"TR", q["TR"]},
		{"BL", q["BL"]},
		{"BR", q["BR"]},
	}

	got := sortNamed(t, panels, Options{RTL: true})
	want := []string{"TR", "BR", "TL", "BL"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sort(rtl) = %v, want %v", got, want)
		}
	}
}

func TestSort_SpanningInterleave(t *testing.T) {
	// Three stacked column panels with a full-width panel between the
	// second and third. The spanning panel must land between them no
	// matter the reading direction.
	panels := []namedPanel{
		{"C", geometry.NewRectInt(0, 900, 400, 250)},
		{"S", geometry.NewRectInt(0, 600, 1000, 200)},
		{"A", geometry.NewRectInt(0, 0, 400, 250)},
		{"B", geometry.NewRectInt(0, 300, 400, 250)},
	}

	for _, rtl := range []bool{false, true} {
		got := sortNamed(t, panels, Options{RTL: rtl})
		want := []string{"A", "B", "S", "C"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("Sort(rtl=%v) = %v, want %v", rtl, got, want)
			}
		}
	}
}

func TestSort_SpanningWinsRowTie(t *testing.T) {
	// S and C start on the same row; the spanning panel reads first.
	panels := []namedPanel{
		{"A", geometry.NewRectInt(0, 0, 300, 180)},
		{"B", geometry.NewRectInt(500, 0, 300, 180)},
		{"S", geometry.NewRectInt(0, 200, 1000, 100)},
		{"C", geometry.NewRectInt(0, 200, 300, 100)},
	}

	got := sortNamed(t, panels, Options{})
	want := []string{"A", "S", "C", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sort() = %v, want %v", got, want)
		}
	}
}

func TestSort_TooFewNonSpanning(t *testing.T) {
	// Two wide strips and one narrow scrap: only one panel falls below the
	// spanning threshold, so the split is abandoned and everything sorts
	// as plain column panels.
	infos := []panelInfo{
		{index: 0, xCenter: 500, yTop: 0, width: 1000},
		{index: 1, xCenter: 500, yTop: 350, width: 1000},
		{index: 2, xCenter: 100, yTop: 700, width: 200},
	}

	spanning, remaining := splitSpanning(infos, 600)
	if len(spanning) != 0 {
		t.Errorf("splitSpanning() classified %d panels as spanning, want 0", len(spanning))
	}
	if len(remaining) != len(infos) {
		t.Errorf("splitSpanning() kept %d panels, want %d", len(remaining), len(infos))
	}

	// With the split abandoned, the narrow scrap's center sits left of the
	// widest gap, so it forms the left column and reads first.
	panels := []namedPanel{
		{"S1", geometry.NewRectInt(0, 0, 1000, 300)},
		{"S2", geometry.NewRectInt(0, 350, 1000, 300)},
		{"N", geometry.NewRectInt(0, 700, 200, 100)},
	}
	got := sortNamed(t, panels, Options{})
	want := []string{"N", "S1", "S2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sort() = %v, want %v", got, want)
		}
	}
}

func TestSort_EmptyAndSingle(t *testing.T) {
	if got := SortRects(nil, Options{}); len(got) != 0 {
		t.Errorf("SortRects(nil) returned %d rects, want 0", len(got))
	}

	one := []geometry.RectInt{geometry.NewRectInt(10, 10, 100, 100)}
	got := SortRects(one, Options{})
	if len(got) != 1 || got[0] != one[0] {
		t.Errorf("SortRects(single) = %v, want %v", got, one)
	}
}

func TestSort_PreservesCallerItems(t *testing.T) {
	q := quadrants()
	type payload struct{ rect geometry.RectInt }
	items := []*payload{
		{rect: q["BR"]},
		{rect: q["TL"]},
		{rect: q["TR"]},
		{rect: q["BL"]},
	}
	inputOrder := append([]*payload(nil), items...)

	sorted := Sort(items, func(p *payload) geometry.RectInt { return p.rect }, Options{})

	if len(sorted) != len(items) {
		t.Fatalf("Sort() returned %d items, want %d", len(sorted), len(items))
	}
	for _, s := range sorted {
		found := false
		for _, orig := range items {
			if s == orig {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Sort() returned an item that is not one of the caller's originals")
		}
	}

	// The input slice must be left untouched.
	for i := range items {
		if items[i] != inputOrder[i] {
			t.Errorf("Sort() reordered the caller's slice in place")
		}
	}
}

func TestSort_SingleColumn(t *testing.T) {
	// All centers identical: the gap search degenerates and every panel
	// lands in one column, sorted by vertical position.
	panels := []namedPanel{
		{"B", geometry.NewRectInt(100, 300, 200, 150)},
		{"A", geometry.NewRectInt(100, 0, 200, 150)},
		{"C", geometry.NewRectInt(100, 600, 200, 150)},
	}

	got := sortNamed(t, panels, Options{})
	want := []string{"A", "B", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sort() = %v, want %v", got, want)
		}
	}
}
