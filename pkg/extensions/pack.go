package extensions

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/boyter/gocodewalker"
)

// packExclusions are development artifacts left out of packed extensions.
var packExclusions = struct {
	Directories []string
	Filenames   []string
}{
	Directories: []string{
		"node_modules",
		".git",
		"__tests__",
		"coverage",
	},
	Filenames: []string{
		"*.test.js",
		"*.test.ts",
		"*.log",
		"*.swp",
	},
}

// PackStats summarizes a Pack run.
type PackStats struct {
	FilesIncluded int
	BytesIncluded int64
}

// Pack zips an unpacked extension directory for distribution, skipping
// development files. The directory must contain a manifest.json with an
// object top level.
func Pack(srcDir, destZip string) (*PackStats, error) {
	manifestData, err := os.ReadFile(filepath.Join(srcDir, "manifest.json"))
	if err != nil {
		return nil, fmt.Errorf("not an extension directory (no manifest.json): %w", err)
	}
	if _, err := ParseManifest(manifestData); err != nil {
		return nil, fmt.Errorf("invalid manifest.json: %w", err)
	}

	zipFile, err := os.Create(destZip)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}
	defer zipFile.Close()

	zw := zip.NewWriter(zipFile)
	defer zw.Close()

	fileQueue := make(chan *gocodewalker.File, 256)
	walker := gocodewalker.NewFileWalker(srcDir, fileQueue)
	walker.IncludeHidden = true
	walker.ExcludeDirectory = append(walker.ExcludeDirectory, packExclusions.Directories...)
	walker.ExcludeFilename = append(walker.ExcludeFilename, packExclusions.Filenames...)

	errChan := make(chan error, 1)
	go func() {
		errChan <- walker.Start()
	}()

	stats := &PackStats{}
	for f := range fileQueue {
		rel, err := filepath.Rel(srcDir, f.Location)
		if err != nil {
			return nil, err
		}
		// The walker's filename exclusions are exact matches; apply the
		// glob patterns here.
		if matchesAny(packExclusions.Filenames, filepath.Base(f.Location)) {
			continue
		}
		n, err := addFileToZip(zw, f.Location, filepath.ToSlash(rel))
		if err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", rel, err)
		}
		stats.FilesIncluded++
		stats.BytesIncluded += n
	}
	if err := <-errChan; err != nil {
		return nil, fmt.Errorf("walk failed: %w", err)
	}
	return stats, nil
}

func matchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

func addFileToZip(zw *zip.Writer, srcPath, zipPath string) (int64, error) {
	w, err := zw.Create(zipPath)
	if err != nil {
		return 0, err
	}
	f, err := os.Open(srcPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(w, f)
}
