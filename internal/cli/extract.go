package cli

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"

	"manga-panel-extractor/internal/detect"
	"manga-panel-extractor/internal/render"
	"manga-panel-extractor/pkg/geometry"
)

// extractOpts holds the command-line flags for the extract command.
type extractOpts struct {
	outDir  string // root directory for extracted panels
	rtl     bool   // right-to-left reading order
	overlay bool   // write a reading-order overlay per page
	sheet   bool   // write a contact sheet per page
	workers int    // parallel workers, 0 = from config
}

// newExtractCmd creates the extract command, the full page-to-panels
// pipeline: detect panel rectangles, order them into reading sequence, crop
// each panel and remove its frame border.
func newExtractCmd() *cobra.Command {
	var opts extractOpts

	cmd := &cobra.Command{
		Use:   "extract <page|dir>...",
		Short: "Extract ordered, border-cleaned panels from page scans",
		Long: `Extract detects the panels of each page scan, orders them into reading
sequence (left-to-right columns by default, right-to-left with --rtl), and
writes each panel as a numbered PNG with its frame border removed.

Panels are written to <out>/<page-name>/NNN_panel.png.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "panels", "output directory")
	cmd.Flags().BoolVar(&opts.rtl, "rtl", false, "right-to-left reading order (manga)")
	cmd.Flags().BoolVar(&opts.overlay, "overlay", false, "write a reading-order overlay image per page")
	cmd.Flags().BoolVar(&opts.sheet, "sheet", false, "write a contact sheet of the extracted panels per page")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel workers (default from config)")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string, opts extractOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	files, err := expandInputs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		printWarning("No image files found")
		return nil
	}

	layoutOpts := cfg.LayoutOptions()
	if cmd.Flags().Changed("rtl") {
		layoutOpts.RTL = opts.rtl
	}

	workers := opts.workers
	if workers <= 0 {
		workers = cfg.Workers
	}

	var panelCount atomic.Int64
	prog := newProgress(logger)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	total := len(files)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			page := gocv.IMRead(file, gocv.IMReadColor)
			if page.Empty() {
				logger.Warnf("[%d/%d] skipping %s: unreadable image", i+1, total, file)
				return nil
			}
			defer page.Close()

			panels := detect.ExtractPanels(page, cfg.DetectOptions(), cfg.BorderOptions(), layoutOpts)
			defer detect.ClosePanels(panels)

			if len(panels) == 0 {
				logger.Warnf("[%d/%d] no panels found in %s", i+1, total, file)
				return nil
			}

			pageDir := filepath.Join(opts.outDir, pageName(file))
			if err := os.MkdirAll(pageDir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", pageDir, err)
			}

			for _, p := range panels {
				dest := filepath.Join(pageDir, fmt.Sprintf("%03d_panel.png", p.Index))
				if !gocv.IMWrite(dest, p.Image) {
					return fmt.Errorf("write %s", dest)
				}
			}
			panelCount.Add(int64(len(panels)))

			if opts.overlay {
				if err := writeOverlay(page, panels, filepath.Join(pageDir, "order.png")); err != nil {
					return err
				}
			}
			if opts.sheet {
				if err := writeSheet(panels, cfg.ThumbWidth, filepath.Join(pageDir, "sheet.png")); err != nil {
					return err
				}
			}

			logger.Infof("[%d/%d] %s: %d panels -> %s", i+1, total, file, len(panels), pageDir)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Extracted %d panels from %d pages", panelCount.Load(), total))
	printSuccess("Wrote panels to %s", opts.outDir)
	return nil
}

// pageName returns the page's base name without extension, used as its
// output subdirectory.
func pageName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// writeOverlay draws the numbered reading order on a copy of the page.
func writeOverlay(page gocv.Mat, panels []detect.Panel, dest string) error {
	overlay := page.Clone()
	defer overlay.Close()

	rects := make([]geometry.RectInt, len(panels))
	for i, p := range panels {
		rects[i] = p.Bounds
	}
	render.DrawReadingOrder(&overlay, rects)

	if !gocv.IMWrite(dest, overlay) {
		return fmt.Errorf("write %s", dest)
	}
	return nil
}

// writeSheet renders the contact sheet PNG for one page.
func writeSheet(panels []detect.Panel, thumbWidth int, dest string) error {
	sheet, err := render.ContactSheet(panels, thumbWidth)
	if err != nil {
		return fmt.Errorf("contact sheet: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer f.Close()

	if err := png.Encode(f, sheet); err != nil {
		return fmt.Errorf("encode %s: %w", dest, err)
	}
	return nil
}
