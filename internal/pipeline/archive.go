package pipeline

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CreateArchive zips every regular file in workDir into archivePath,
// truncating any pre-existing archive at that path. Entries are stored
// flat under their base names.
func CreateArchive(workDir, archivePath string) error {
	entries, err := os.ReadDir(workDir)
	if err != nil {
		return fmt.Errorf("failed to read working directory %s: %w", workDir, err)
	}

	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", archivePath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := addFileToArchive(zw, filepath.Join(workDir, entry.Name()), entry.Name()); err != nil {
			zw.Close()
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive %s: %w", archivePath, err)
	}
	return out.Close()
}

func addFileToArchive(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s for archiving: %w", path, err)
	}
	defer f.Close()

	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to write %s into archive: %w", name, err)
	}
	return nil
}
