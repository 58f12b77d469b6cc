package cli

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"
	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"

	"manga-panel-extractor/internal/border"
)

// cleanOpts holds the command-line flags for the clean command.
type cleanOpts struct {
	outputDir string // write results here instead of next to the inputs
	overwrite bool   // replace the input files
	dryRun    bool   // analyze only, write nothing
	workers   int    // parallel workers, 0 = from config
}

// newCleanCmd creates the clean command, which removes the drawn frame border
// from individual panel images.
func newCleanCmd() *cobra.Command {
	var opts cleanOpts

	cmd := &cobra.Command{
		Use:   "clean <image|dir>...",
		Short: "Remove the frame border from panel images",
		Long: `Clean crops each panel image to the inside of its drawn frame border.

Images whose border cannot be located reliably are passed through unchanged
rather than cropped incorrectly. Directories are expanded one level deep.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "directory for processed images")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "overwrite the original images")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "analyze without writing output")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel workers (default from config)")

	return cmd
}

func runClean(cmd *cobra.Command, args []string, opts cleanOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	if !opts.overwrite && opts.outputDir == "" {
		for _, arg := range args {
			if info, err := os.Stat(arg); err == nil && info.IsDir() {
				return fmt.Errorf("when passing a directory, provide --output-dir or --overwrite")
			}
		}
	}

	files, err := expandInputs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		printWarning("No image files found")
		return nil
	}

	if opts.outputDir != "" && !opts.dryRun {
		if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	workers := opts.workers
	if workers <= 0 {
		workers = cfg.Workers
	}
	borderOpts := cfg.BorderOptions()

	var cropped, passed, failed atomic.Int64
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

			img := gocv.IMRead(file, gocv.IMReadColor)
			if img.Empty() {
				logger.Warnf("[%d/%d] skipping %s: unreadable image", i+1, total, file)
				failed.Add(1)
				return nil
			}
			defer img.Close()

			cleaned := border.RemoveBorder(img, borderOpts)
			defer cleaned.Close()

			changed := cleaned.Rows() != img.Rows() || cleaned.Cols() != img.Cols()
			if changed {
				cropped.Add(1)
			} else {
				passed.Add(1)
			}

			if opts.dryRun {
				logger.Infof("[%d/%d] would write %s (%dx%d -> %dx%d)", i+1, total, file,
					img.Cols(), img.Rows(), cleaned.Cols(), cleaned.Rows())
				return nil
			}

			dest := outputPath(file, opts.outputDir, "_clean", opts.overwrite)
			if !gocv.IMWrite(dest, cleaned) {
				logger.Warnf("[%d/%d] failed to write %s", i+1, total, dest)
				failed.Add(1)
				return nil
			}

			logger.Infof("[%d/%d] %s -> %s (%dx%d)", i+1, total, file, dest,
				cleaned.Cols(), cleaned.Rows())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Processed %d images", total))
	printSuccess("Cropped %d, passed through %d unchanged", cropped.Load(), passed.Load())
	if n := failed.Load(); n > 0 {
		printWarning("Skipped %d unreadable or unwritable files", n)
	}
	return nil
}
