package border

import (
	"testing"

	"gocv.io/x/gocv"
)

// newTestMask creates an all-background single-channel mask.
func newTestMask(t *testing.T, rows, cols int) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8U)
	t.Cleanup(func() { m.Close() })
	return m
}

func fillRow(m gocv.Mat, row int) {
	for x := 0; x < m.Cols(); x++ {
		m.SetUCharAt(row, x, 255)
	}
}

func fillCol(m gocv.Mat, col int) {
	for y := 0; y < m.Rows(); y++ {
		m.SetUCharAt(y, col, 255)
	}
}

func TestLocateBorderLine_FindsSingleRow(t *testing.T) {
	mask := newTestMask(t, 100, 100)
	fillRow(mask, 5)

	// The line must be found regardless of how deep the search zone
	// reaches, as long as it covers the line.
	for _, start := range []int{10, 25, 40} {
		got := LocateBorderLine(mask, ScanSpec{Axis: AxisRow, Start: start, Stop: -1})
		if got != 5 {
			t.Errorf("LocateBorderLine(start=%d) = %d, want 5", start, got)
		}
	}
}

func TestLocateBorderLine_FindsSingleColumn(t *testing.T) {
	mask := newTestMask(t, 100, 100)
	fillCol(mask, 92)

	got := LocateBorderLine(mask, ScanSpec{Axis: AxisColumn, Start: 75, Stop: 100})
	if got != 92 {
		t.Errorf("LocateBorderLine() = %d, want 92", got)
	}
}

func TestLocateBorderLine_DegenerateSpan(t *testing.T) {
	mask := newTestMask(t, 50, 50)
	fillRow(mask, 3)

	got := LocateBorderLine(mask, ScanSpec{Axis: AxisRow, Start: 12, Stop: 12})
	if got != 12 {
		t.Errorf("LocateBorderLine(span=0) = %d, want start 12", got)
	}
}

func TestLocateBorderLine_PrefersOuterOfEqualLines(t *testing.T) {
	// Two equally continuous lines inside the zone: the one closer to the
	// physical edge (farther from the scan start) must win.
	mask := newTestMask(t, 100, 100)
	fillRow(mask, 10)
	fillRow(mask, 20)

	got := LocateBorderLine(mask, ScanSpec{Axis: AxisRow, Start: 25, Stop: -1})
	if got != 10 {
		t.Errorf("LocateBorderLine() = %d, want outer line 10", got)
	}

	// Mirrored for an outward (bottom-style) scan.
	mask2 := newTestMask(t, 100, 100)
	fillRow(mask2, 80)
	fillRow(mask2, 90)

	got = LocateBorderLine(mask2, ScanSpec{Axis: AxisRow, Start: 75, Stop: 100})
	if got != 90 {
		t.Errorf("LocateBorderLine() = %d, want outer line 90", got)
	}
}

func TestLocateBorderLine_AllBackgroundTies(t *testing.T) {
	// Every candidate scores zero; the running >= comparison keeps the
	// last-visited, outermost index.
	mask := newTestMask(t, 60, 60)

	got := LocateBorderLine(mask, ScanSpec{Axis: AxisRow, Start: 15, Stop: -1})
	if got != 0 {
		t.Errorf("LocateBorderLine(empty mask, inward) = %d, want 0", got)
	}

	got = LocateBorderLine(mask, ScanSpec{Axis: AxisRow, Start: 45, Stop: 60})
	if got != 59 {
		t.Errorf("LocateBorderLine(empty mask, outward) = %d, want 59", got)
	}
}

func TestLocateBorderLine_WeightBeatsInnerArtifact(t *testing.T) {
	// A partially occluded border near the edge must beat a slightly
	// denser artifact deep inside the zone once the position weight is
	// applied: 60 pixels at the innermost candidate scores 60, while 40
	// pixels near the edge scores close to 80.
	mask := newTestMask(t, 100, 100)
	for x := 0; x < 60; x++ {
		mask.SetUCharAt(24, x, 255)
	}
	for x := 0; x < 40; x++ {
		mask.SetUCharAt(2, x, 255)
	}

	got := LocateBorderLine(mask, ScanSpec{Axis: AxisRow, Start: 25, Stop: -1})
	if got != 2 {
		t.Errorf("LocateBorderLine() = %d, want weighted outer line 2", got)
	}
}
