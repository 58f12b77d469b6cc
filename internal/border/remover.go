// Package border locates and removes the drawn frame around a scanned comic
// panel. The frame is reduced to a single-pixel skeleton ring and each of the
// four border lines is found with a weighted inside-out projection scan.
package border

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

const (
	// minInputSize is the smallest panel dimension worth analyzing.
	minInputSize = 30
	// minCropSize rejects implausibly small crop results.
	minCropSize = 10
)

// Options configures border removal.
type Options struct {
	// SearchZoneRatio is the fraction of the panel width/height, measured
	// from each edge, within which the border line is searched. Sensible
	// values lie in (0, 0.5).
	SearchZoneRatio float64
	// Padding is trimmed inward from each detected border line so frame
	// remnants and anti-aliasing do not survive into the crop.
	Padding int
	// PadSize is the neutral margin added around the input before contour
	// extraction, isolating the frame from the image canvas edge.
	PadSize int
	// ErosionIterations controls the thickness of the hollow ring handed to
	// skeletonization.
	ErosionIterations int
}

// DefaultOptions returns the options used by the CLI unless overridden.
func DefaultOptions() Options {
	return Options{
		SearchZoneRatio:   0.25,
		Padding:           5,
		PadSize:           15,
		ErosionIterations: 5,
	}
}

// RemoveBorder crops img to the interior of its panel frame. The returned Mat
// is always newly allocated and owned by the caller.
//
// The function never fails: whenever the input is too small, no contour is
// found, or the computed crop is degenerate or implausibly small, a clone of
// the input is returned unchanged. A wrong crop loses art; no crop loses
// nothing.
func RemoveBorder(img gocv.Mat, opts Options) gocv.Mat {
	if img.Empty() || img.Rows() < minInputSize || img.Cols() < minInputSize {
		return img.Clone()
	}

	// A white margin keeps the panel frame from merging with the canvas
	// edge during contour extraction.
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	padded := gocv.NewMat()
	defer padded.Close()
	gocv.CopyMakeBorder(img, &padded, opts.PadSize, opts.PadSize, opts.PadSize, opts.PadSize,
		gocv.BorderConstant, white)

	gray := gocv.NewMat()
	defer gray.Close()
	if padded.Channels() == 1 {
		padded.CopyTo(&gray)
	} else {
		gocv.CvtColor(padded, &gray, gocv.ColorBGRToGray)
	}

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(gray, &thresh, binaryThreshold, 255, gocv.ThresholdBinaryInv)

	contours := gocv.FindContours(thresh, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	idx := largestContour(contours)
	if idx < 0 {
		return img.Clone()
	}
	bounds := gocv.BoundingRect(contours.At(idx))

	skeleton := prepareSkeletonMask(gray, contours, idx, opts.ErosionIterations)
	defer skeleton.Close()
	if skeleton.Empty() {
		return img.Clone()
	}

	roi := skeleton.Region(bounds)
	defer roi.Close()

	w, h := bounds.Dx(), bounds.Dy()
	zoneH := int(float64(h) * opts.SearchZoneRatio)
	zoneW := int(float64(w) * opts.SearchZoneRatio)

	// Each scan starts at the innermost candidate and walks out toward the
	// physical edge of the panel.
	bestTop := LocateBorderLine(roi, ScanSpec{Axis: AxisRow, Start: zoneH, Stop: -1})
	bestBottom := LocateBorderLine(roi, ScanSpec{Axis: AxisRow, Start: h - zoneH, Stop: h})
	bestLeft := LocateBorderLine(roi, ScanSpec{Axis: AxisColumn, Start: zoneW, Stop: -1})
	bestRight := LocateBorderLine(roi, ScanSpec{Axis: AxisColumn, Start: w - zoneW, Stop: w})

	x1 := bounds.Min.X + bestLeft + opts.Padding
	y1 := bounds.Min.Y + bestTop + opts.Padding
	x2 := bounds.Min.X + bestRight - opts.Padding
	y2 := bounds.Min.Y + bestBottom - opts.Padding

	if x1 >= x2 || y1 >= y2 {
		return img.Clone()
	}

	region := padded.Region(image.Rect(x1, y1, x2, y2))
	defer region.Close()

	if region.Rows() < minCropSize || region.Cols() < minCropSize {
		return img.Clone()
	}

	return region.Clone()
}
