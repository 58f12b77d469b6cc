package detect

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"

	"manga-panel-extractor/internal/border"
	"manga-panel-extractor/internal/layout"
)

// newWhitePage creates a white BGR page image.
func newWhitePage(t *testing.T, rows, cols int) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), rows, cols, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { m.Close() })
	return m
}

func drawFrame(m *gocv.Mat, r image.Rectangle) {
	gocv.Rectangle(m, r, color.RGBA{A: 255}, 3)
}

func TestDetectPanels_EmptyPage(t *testing.T) {
	page := newWhitePage(t, 400, 300)

	got := DetectPanels(page, DefaultOptions())
	if len(got) != 0 {
		t.Errorf("DetectPanels(blank) found %d panels, want 0", len(got))
	}
}

func TestDetectPanels_TwoPanels(t *testing.T) {
	page := newWhitePage(t, 400, 600)
	drawFrame(&page, image.Rect(20, 20, 280, 380))
	drawFrame(&page, image.Rect(320, 20, 580, 380))

	got := DetectPanels(page, DefaultOptions())
	if len(got) != 2 {
		t.Fatalf("DetectPanels() found %d panels, want 2", len(got))
	}

	for _, r := range got {
		if r.Width < 240 || r.Width > 280 || r.Height < 340 || r.Height > 380 {
			t.Errorf("DetectPanels() returned implausible rect %+v", r)
		}
	}
}

func TestDetectPanels_IgnoresSmallMarks(t *testing.T) {
	page := newWhitePage(t, 400, 600)
	drawFrame(&page, image.Rect(20, 20, 280, 380))
	drawFrame(&page, image.Rect(320, 20, 580, 380))
	// A stray mark far below the area floor.
	gocv.Rectangle(&page, image.Rect(295, 195, 305, 205), color.RGBA{A: 255}, -1)

	got := DetectPanels(page, DefaultOptions())
	if len(got) != 2 {
		t.Errorf("DetectPanels() found %d panels, want 2 (stray mark rejected)", len(got))
	}
}

func TestExtractPanels_ReadingOrder(t *testing.T) {
	page := newWhitePage(t, 600, 800)
	drawFrame(&page, image.Rect(20, 20, 380, 280))   // top-left
	drawFrame(&page, image.Rect(420, 20, 780, 280))  // top-right
	drawFrame(&page, image.Rect(20, 320, 380, 580))  // bottom-left
	drawFrame(&page, image.Rect(420, 320, 780, 580)) // bottom-right

	panels := ExtractPanels(page, DefaultOptions(), border.DefaultOptions(), layout.Options{})
	defer ClosePanels(panels)

	if len(panels) != 4 {
		t.Fatalf("ExtractPanels() returned %d panels, want 4", len(panels))
	}

	// Left column top to bottom, then right column.
	type pos struct{ left, top bool }
	want := []pos{{true, true}, {true, false}, {false, true}, {false, false}}
	for i, p := range panels {
		if p.Index != i+1 {
			t.Errorf("panel %d has Index %d, want %d", i, p.Index, i+1)
		}
		gotLeft := p.Bounds.CenterX() < 400
		gotTop := p.Bounds.CenterY() < 300
		if gotLeft != want[i].left || gotTop != want[i].top {
			t.Errorf("panel %d at %+v, want left=%v top=%v", i, p.Bounds, want[i].left, want[i].top)
		}
		if p.Image.Empty() {
			t.Errorf("panel %d has an empty image", i)
		}
	}
}

func TestExtractPanels_RTL(t *testing.T) {
	page := newWhitePage(t, 600, 800)
	drawFrame(&page, image.Rect(20, 20, 380, 580))
	drawFrame(&page, image.Rect(420, 20, 780, 580))

	panels := ExtractPanels(page, DefaultOptions(), border.DefaultOptions(), layout.Options{RTL: true})
	defer ClosePanels(panels)

	if len(panels) != 2 {
		t.Fatalf("ExtractPanels() returned %d panels, want 2", len(panels))
	}
	if panels[0].Bounds.CenterX() < 400 {
		t.Errorf("RTL first panel at %+v, want the right column first", panels[0].Bounds)
	}
}
