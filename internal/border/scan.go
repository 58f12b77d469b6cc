package border

import (
	"gocv.io/x/gocv"
)

// Axis selects which direction a border scan walks across the mask.
type Axis int

const (
	// AxisRow scans whole rows, used for the top and bottom borders.
	AxisRow Axis = iota
	// AxisColumn scans whole columns, used for the left and right borders.
	AxisColumn
)

func (a Axis) String() string {
	switch a {
	case AxisRow:
		return "row"
	case AxisColumn:
		return "column"
	default:
		return "unknown"
	}
}

// ScanSpec describes a one-dimensional inside-out border search. Start is the
// innermost candidate index (inclusive); Stop bounds the walk on the outer
// side (exclusive). Stop may be smaller than Start, in which case the scan
// walks toward index zero. The walk itself is carried out with a step and an
// offset counter so no out-of-range index is ever formed.
type ScanSpec struct {
	Axis  Axis
	Start int
	Stop  int
}

// span returns the number of candidate indices covered by the spec.
func (s ScanSpec) span() int {
	if s.Stop >= s.Start {
		return s.Stop - s.Start
	}
	return s.Start - s.Stop
}

// step returns the walk direction, +1 or -1.
func (s ScanSpec) step() int {
	if s.Stop < s.Start {
		return -1
	}
	return 1
}

// LocateBorderLine finds the most likely border line inside the search zone
// described by spec. Every candidate row or column is scored by its pixel
// continuity (how many skeleton pixels lie on the full line) weighted by how
// far the candidate sits toward the outer edge, so that the true frame line
// beats interior artifacts such as speech-bubble edges once continuity is
// comparable.
//
// The function is total: a degenerate zone returns Start, and an empty or
// all-background mask simply yields the first candidate. Ties keep the later,
// outermost candidate.
func LocateBorderLine(mask gocv.Mat, spec ScanSpec) int {
	span := spec.span()
	if span == 0 {
		return spec.Start
	}

	step := spec.step()
	bestIndex := spec.Start
	maxScore := -1.0

	for k := 0; k < span; k++ {
		i := spec.Start + k*step

		continuity := countLinePixels(mask, spec.Axis, i)

		// The weight grows from 1.0 at the innermost candidate to just
		// under 2.0 at the outermost, favoring lines near the physical edge.
		progress := float64(k) / float64(span)
		score := float64(continuity) * (1 + progress)

		if score >= maxScore {
			maxScore = score
			bestIndex = i
		}
	}

	return bestIndex
}

// countLinePixels counts the foreground pixels along a full row or column.
func countLinePixels(mask gocv.Mat, axis Axis, index int) int {
	var line gocv.Mat
	if axis == AxisRow {
		line = mask.RowRange(index, index+1)
	} else {
		line = mask.ColRange(index, index+1)
	}
	defer line.Close()

	return gocv.CountNonZero(line)
}
