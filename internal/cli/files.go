package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// isImageFile reports whether path has a raster image extension the pipeline
// can read.
func isImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".tif", ".tiff", ".bmp", ".webp":
		return true
	}
	return false
}

// expandInputs resolves a mix of files and directories into a flat list of
// image files. Directories are listed one level deep.
func expandInputs(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("list directory %s: %w", path, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			p := filepath.Join(path, entry.Name())
			if isImageFile(p) {
				files = append(files, p)
			}
		}
	}
	return files, nil
}

// outputPath decides where a processed image is written. With overwrite the
// input path is reused; with outputDir the base name moves there; otherwise a
// suffix is inserted before the extension.
func outputPath(input, outputDir, suffix string, overwrite bool) string {
	if overwrite {
		return input
	}
	if outputDir != "" {
		return filepath.Join(outputDir, filepath.Base(input))
	}
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + suffix + ext
}
