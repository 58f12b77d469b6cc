// Package layout orders detected panel rectangles into reading sequence:
// column-major, top to bottom, with full-width panels interleaved by their
// vertical position.
package layout

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"manga-panel-extractor/pkg/geometry"
)

// DefaultSpanningRatio is the fraction of the page width at or above which a
// panel is treated as spanning both columns.
const DefaultSpanningRatio = 0.6

// Options configures the reading-order sort.
type Options struct {
	// RTL visits the right column before the left one, for right-to-left
	// publications.
	RTL bool
	// SpanningRatio overrides DefaultSpanningRatio when positive.
	SpanningRatio float64
}

func (o Options) spanningRatio() float64 {
	if o.SpanningRatio > 0 {
		return o.SpanningRatio
	}
	return DefaultSpanningRatio
}

// panelInfo carries the derived sort keys for one input panel. The index
// points back into the caller's slice so the original items are returned,
// never copies of derived data.
type panelInfo struct {
	index   int
	xCenter float64
	yTop    int
	width   int
}

// Sort returns the panels reordered into reading sequence. The bounds
// function extracts each panel's rectangle; the input slice is left
// untouched and the returned slice holds the caller's own items.
//
// Panels at least SpanningRatio of the page width are lifted out as spanning
// panels. The rest are split into two columns at the widest horizontal gap
// between panel centers, each column is read top to bottom (right column
// first under RTL), and the spanning panels are merged back in by vertical
// position, winning ties so a full-width panel precedes the columns below it.
func Sort[T any](panels []T, bounds func(T) geometry.RectInt, opts Options) []T {
	if len(panels) == 0 {
		return nil
	}
	if len(panels) == 1 {
		return []T{panels[0]}
	}

	infos := make([]panelInfo, len(panels))
	fullWidth := 0
	for i, p := range panels {
		r := bounds(p)
		infos[i] = panelInfo{index: i, xCenter: r.CenterX(), yTop: r.Y, width: r.Width}
		if r.Right() > fullWidth {
			fullWidth = r.Right()
		}
	}

	spanning, remaining := splitSpanning(infos, float64(fullWidth)*opts.spanningRatio())

	// Column split at the widest gap between horizontal centers. The abort
	// rule in splitSpanning guarantees at least two remaining panels here.
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].xCenter < remaining[j].xCenter
	})
	gaps := make([]float64, len(remaining)-1)
	for i := range gaps {
		gaps[i] = remaining[i+1].xCenter - remaining[i].xCenter
	}
	g := floats.MaxIdx(gaps)
	splitX := (remaining[g].xCenter + remaining[g+1].xCenter) / 2

	var left, right []panelInfo
	for _, in := range remaining {
		if in.xCenter < splitX {
			left = append(left, in)
		} else {
			right = append(right, in)
		}
	}

	columns := [2][]panelInfo{left, right}
	if opts.RTL {
		columns = [2][]panelInfo{right, left}
	}

	nonSpanning := make([]panelInfo, 0, len(remaining))
	for _, col := range columns {
		sort.SliceStable(col, func(i, j int) bool { return col[i].yTop < col[j].yTop })
		nonSpanning = append(nonSpanning, col...)
	}

	sort.SliceStable(spanning, func(i, j int) bool { return spanning[i].yTop < spanning[j].yTop })

	ordered := mergeByRow(nonSpanning, spanning)

	out := make([]T, 0, len(panels))
	for _, in := range ordered {
		out = append(out, panels[in.index])
	}
	return out
}

// SortRects orders a plain rectangle list into reading sequence.
func SortRects(rects []geometry.RectInt, opts Options) []geometry.RectInt {
	return Sort(rects, func(r geometry.RectInt) geometry.RectInt { return r }, opts)
}

// splitSpanning separates panels wide enough to span both columns. A
// two-column layout needs at least two column panels to define a split, so
// when fewer than two panels remain, everything is treated as non-spanning.
func splitSpanning(infos []panelInfo, widthThreshold float64) (spanning, remaining []panelInfo) {
	for _, in := range infos {
		if float64(in.width) >= widthThreshold {
			spanning = append(spanning, in)
		} else {
			remaining = append(remaining, in)
		}
	}
	if len(remaining) < 2 {
		return nil, append([]panelInfo(nil), infos...)
	}
	return spanning, remaining
}

// mergeByRow interleaves the column sequence with the spanning panels by
// vertical position. A spanning panel wins ties: sharing a y coordinate with
// a column panel means it sits above the column split and reads first.
func mergeByRow(nonSpanning, spanning []panelInfo) []panelInfo {
	merged := make([]panelInfo, 0, len(nonSpanning)+len(spanning))
	i, j := 0, 0
	for i < len(nonSpanning) && j < len(spanning) {
		if nonSpanning[i].yTop < spanning[j].yTop {
			merged = append(merged, nonSpanning[i])
			i++
		} else {
			merged = append(merged, spanning[j])
			j++
		}
	}
	merged = append(merged, nonSpanning[i:]...)
	merged = append(merged, spanning[j:]...)
	return merged
}
