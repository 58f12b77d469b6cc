// Package detect finds the panel rectangles on a full scanned page and
// extracts each panel as a border-cleaned image in reading order.
package detect

import (
	"image"
	"sort"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"

	"manga-panel-extractor/internal/border"
	"manga-panel-extractor/internal/layout"
	"manga-panel-extractor/pkg/geometry"
)

// Options configures panel detection.
type Options struct {
	// MinAreaRatio rejects contours smaller than this fraction of the page
	// area. Speech bubbles and stray marks fall well below it.
	MinAreaRatio float64
	// CloseKernel is the size of the closing element that fuses small gaps
	// in panel frames before contour extraction.
	CloseKernel int
}

// DefaultOptions returns detection defaults tuned for typical page scans.
func DefaultOptions() Options {
	return Options{
		MinAreaRatio: 0.01,
		CloseKernel:  5,
	}
}

// outlierFraction drops candidates whose area falls below this fraction of
// the median candidate area. Decoration that clears the absolute area floor
// is still far smaller than real panels.
const outlierFraction = 0.1

// Panel is one extracted panel. Image is owned by the caller and must be
// closed when no longer needed.
type Panel struct {
	// Index is the 1-based reading-order position.
	Index int
	// Bounds is the panel rectangle in page coordinates, before border
	// cleanup.
	Bounds geometry.RectInt
	Image  gocv.Mat
}

// DetectPanels returns the candidate panel rectangles of a page, unordered.
func DetectPanels(page gocv.Mat, opts Options) []geometry.RectInt {
	if page.Empty() {
		return nil
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if page.Channels() == 1 {
		page.CopyTo(&gray)
	} else {
		gocv.CvtColor(page, &gray, gocv.ColorBGRToGray)
	}

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(gray, &thresh, 240, 255, gocv.ThresholdBinaryInv)

	if opts.CloseKernel > 1 {
		kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(opts.CloseKernel, opts.CloseKernel))
		gocv.MorphologyEx(thresh, &thresh, gocv.MorphClose, kernel)
		kernel.Close()
	}

	contours := gocv.FindContours(thresh, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	minArea := float64(page.Rows()*page.Cols()) * opts.MinAreaRatio

	var rects []geometry.RectInt
	var areas []float64
	for i := 0; i < contours.Size(); i++ {
		r := gocv.BoundingRect(contours.At(i))
		area := float64(r.Dx() * r.Dy())
		if area < minArea {
			continue
		}
		rects = append(rects, geometry.NewRectInt(r.Min.X, r.Min.Y, r.Dx(), r.Dy()))
		areas = append(areas, area)
	}

	return rejectOutliers(rects, areas)
}

// rejectOutliers removes candidates far smaller than the median candidate.
func rejectOutliers(rects []geometry.RectInt, areas []float64) []geometry.RectInt {
	if len(rects) < 3 {
		return rects
	}

	sorted := append([]float64(nil), areas...)
	sort.Float64s(sorted)
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)

	kept := rects[:0]
	for i, r := range rects {
		if areas[i] >= median*outlierFraction {
			kept = append(kept, r)
		}
	}
	return kept
}

// ExtractPanels detects the panels of a page, orders them into reading
// sequence, and returns each one cropped and border-cleaned. The caller owns
// every returned Image.
func ExtractPanels(page gocv.Mat, opts Options, borderOpts border.Options, layoutOpts layout.Options) []Panel {
	rects := DetectPanels(page, opts)
	ordered := layout.SortRects(rects, layoutOpts)

	panels := make([]Panel, 0, len(ordered))
	for i, r := range ordered {
		region := page.Region(image.Rect(r.X, r.Y, r.Right(), r.Bottom()))
		cleaned := border.RemoveBorder(region, borderOpts)
		region.Close()

		panels = append(panels, Panel{Index: i + 1, Bounds: r, Image: cleaned})
	}
	return panels
}

// ClosePanels releases the image data of every panel in the slice.
func ClosePanels(panels []Panel) {
	for i := range panels {
		panels[i].Image.Close()
	}
}
