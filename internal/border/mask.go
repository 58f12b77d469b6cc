package border

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// binaryThreshold is the grayscale cutoff separating ink from paper. Scanned
// pages are close to pure white, so anything darker than this counts as ink.
const binaryThreshold = 240

// largestContour returns the index of the contour with the largest area, or
// -1 if the vector is empty.
func largestContour(contours gocv.PointsVector) int {
	best := -1
	bestArea := 0.0
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area > bestArea {
			bestArea = area
			best = i
		}
	}
	return best
}

// prepareSkeletonMask reduces the panel frame to a single-pixel-wide ring.
//
// The filled contour mask is eroded a fixed number of iterations and
// subtracted from itself, producing a hollow ring of constant thickness
// regardless of how heavy the drawn frame is. Skeletonizing that ring removes
// the remaining thickness so the continuity score of a 20-pixel brush stroke
// and a 2-pixel pen line are comparable. Returns an empty Mat when no contour
// is found; the caller treats that as a pass-through.
func prepareSkeletonMask(gray gocv.Mat, contours gocv.PointsVector, contourIdx, iterations int) gocv.Mat {
	filled := gocv.NewMatWithSize(gray.Rows(), gray.Cols(), gocv.MatTypeCV8U)
	defer filled.Close()
	gocv.DrawContours(&filled, contours, contourIdx, color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()

	eroded := gocv.NewMat()
	defer eroded.Close()
	gocv.ErodeWithParams(filled, &eroded, kernel, image.Pt(-1, -1), iterations, int(gocv.BorderConstant))

	hollow := gocv.NewMat()
	defer hollow.Close()
	gocv.Subtract(filled, eroded, &hollow)

	return skeletonize(hollow)
}

// skeletonize reduces a binary mask to single-pixel-wide centerlines using
// iterative morphological thinning.
func skeletonize(mask gocv.Mat) gocv.Mat {
	skeleton := gocv.NewMatWithSize(mask.Rows(), mask.Cols(), gocv.MatTypeCV8U)
	work := mask.Clone()
	defer work.Close()

	eroded := gocv.NewMat()
	defer eroded.Close()

	element := gocv.GetStructuringElement(gocv.MorphCross, image.Pt(3, 3))
	defer element.Close()

	for {
		gocv.Erode(work, &eroded, element)

		opened := gocv.NewMat()
		gocv.Dilate(eroded, &opened, element)

		diff := gocv.NewMat()
		gocv.Subtract(work, opened, &diff)
		opened.Close()

		gocv.BitwiseOr(skeleton, diff, &skeleton)
		diff.Close()

		eroded.CopyTo(&work)

		if gocv.CountNonZero(eroded) == 0 {
			break
		}
	}

	return skeleton
}
