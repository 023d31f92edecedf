package util

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Unzip extracts a zip archive into destDir, creating directories as
// needed. Entries escaping destDir are rejected.
func Unzip(zipPath, destDir string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("failed to open zip file: %w", err)
	}
	defer reader.Close()

	cleanDest := filepath.Clean(destDir) + string(os.PathSeparator)
	for _, file := range reader.File {
		destPath := filepath.Join(destDir, file.Name)
		if !strings.HasPrefix(destPath, cleanDest) {
			return fmt.Errorf("illegal file path: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return err
		}
		if err := extractFile(file, destPath); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(file *zip.File, destPath string) error {
	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode())
	if err != nil {
		return err
	}
	defer destFile.Close()

	fileReader, err := file.Open()
	if err != nil {
		return err
	}
	defer fileReader.Close()

	_, err = io.Copy(destFile, fileReader)
	return err
}
