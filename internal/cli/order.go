package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"manga-panel-extractor/internal/layout"
	"manga-panel-extractor/pkg/geometry"
)

// orderOpts holds the command-line flags for the order command.
type orderOpts struct {
	rtl      bool // right-to-left reading order
	asJSON   bool // emit the sorted list as JSON
	spanning float64
}

// newOrderCmd creates the order command, a debug tool that sorts a JSON list
// of panel rectangles into reading sequence without touching any pixels.
func newOrderCmd() *cobra.Command {
	var opts orderOpts

	cmd := &cobra.Command{
		Use:   "order <rects.json>",
		Short: "Print the reading order of a panel rectangle list",
		Long: `Order reads a JSON array of rectangles ({"x","y","width","height"}) and
prints them in reading sequence. Use "-" to read from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.rtl, "rtl", false, "right-to-left reading order (manga)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "emit the sorted rectangles as JSON")
	cmd.Flags().Float64Var(&opts.spanning, "spanning-ratio", 0, "override the spanning width ratio")

	return cmd
}

func runOrder(cmd *cobra.Command, path string, opts orderOpts) error {
	cfg := configFromContext(cmd.Context())

	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var rects []geometry.RectInt
	if err := json.NewDecoder(r).Decode(&rects); err != nil {
		return fmt.Errorf("decode rectangles: %w", err)
	}

	layoutOpts := cfg.LayoutOptions()
	layoutOpts.RTL = opts.rtl
	if opts.spanning > 0 {
		layoutOpts.SpanningRatio = opts.spanning
	}

	sorted := layout.SortRects(rects, layoutOpts)

	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(sorted)
	}

	for i, rect := range sorted {
		fmt.Fprintf(cmd.OutOrStdout(), "%d: x=%d y=%d width=%d height=%d\n",
			i+1, rect.X, rect.Y, rect.Width, rect.Height)
	}
	return nil
}
