// Package render produces debug output for the panel pipeline: a reading
// order overlay drawn on the page and a contact sheet of extracted panels.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"gocv.io/x/gocv"
	xdraw "golang.org/x/image/draw"

	"manga-panel-extractor/internal/detect"
	"manga-panel-extractor/pkg/geometry"
)

// DrawReadingOrder draws each rectangle with its 1-based reading position on
// the page image. The rects are expected to be in reading order already.
func DrawReadingOrder(img *gocv.Mat, rects []geometry.RectInt) {
	frame := color.RGBA{G: 255, A: 255}
	label := color.RGBA{R: 255, A: 255}

	for i, r := range rects {
		gocv.Rectangle(img, image.Rect(r.X, r.Y, r.Right(), r.Bottom()), frame, 2)
		gocv.PutText(img, fmt.Sprintf("%d", i+1),
			image.Pt(r.X+10, r.Y+35), gocv.FontHersheyPlain, 3, label, 3)
	}
}

const sheetMargin = 8

// ContactSheet renders the extracted panels as a vertical strip of
// thumbnails in reading order, each scaled to thumbWidth. The result is a
// plain Go image suitable for PNG encoding.
func ContactSheet(panels []detect.Panel, thumbWidth int) (image.Image, error) {
	if len(panels) == 0 {
		return nil, errors.New("no panels to render")
	}
	if thumbWidth <= 0 {
		return nil, fmt.Errorf("invalid thumbnail width %d", thumbWidth)
	}

	thumbs := make([]*image.RGBA, 0, len(panels))
	height := sheetMargin
	for _, p := range panels {
		src, err := p.Image.ToImage()
		if err != nil {
			return nil, fmt.Errorf("convert panel %d: %w", p.Index, err)
		}

		b := src.Bounds()
		if b.Dx() == 0 || b.Dy() == 0 {
			continue
		}
		th := thumbWidth * b.Dy() / b.Dx()
		if th < 1 {
			th = 1
		}

		thumb := image.NewRGBA(image.Rect(0, 0, thumbWidth, th))
		xdraw.CatmullRom.Scale(thumb, thumb.Bounds(), src, b, xdraw.Src, nil)

		thumbs = append(thumbs, thumb)
		height += th + sheetMargin
	}
	if len(thumbs) == 0 {
		return nil, errors.New("no panels to render")
	}

	sheet := image.NewRGBA(image.Rect(0, 0, thumbWidth+2*sheetMargin, height))
	draw.Draw(sheet, sheet.Bounds(), image.White, image.Point{}, draw.Src)

	y := sheetMargin
	for _, t := range thumbs {
		b := t.Bounds()
		draw.Draw(sheet, image.Rect(sheetMargin, y, sheetMargin+b.Dx(), y+b.Dy()),
			t, image.Point{}, draw.Src)
		y += b.Dy() + sheetMargin
	}

	return sheet, nil
}
