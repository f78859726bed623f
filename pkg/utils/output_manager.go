package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// OutputManager handles per-run working directories and artifact paths
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// CreateWorkDir creates the timestamp-namespaced working directory for one run
func (om *OutputManager) CreateWorkDir(timestamp string) (string, error) {
	workDir := filepath.Join(om.BaseOutputDir, "work_"+timestamp)

	if err := os.MkdirAll(workDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create working directory: %w", err)
	}

	return workDir, nil
}

// ArchivePath resolves the archive filename pattern against the run timestamp
func (om *OutputManager) ArchivePath(pattern, timestamp string) string {
	name := pattern
	if strings.Contains(pattern, "%s") {
		name = fmt.Sprintf(pattern, timestamp)
	}
	return filepath.Join(om.BaseOutputDir, filepath.Base(name))
}

// ArtifactPath generates the result artifact path for one script inside the working directory
func (om *OutputManager) ArtifactPath(workDir, scriptPath string) string {
	base := strings.TrimSuffix(filepath.Base(scriptPath), filepath.Ext(scriptPath))
	return filepath.Join(workDir, base+"_Result.csv")
}

// RemoveWorkDir deletes the working directory recursively, best-effort
func (om *OutputManager) RemoveWorkDir(workDir string) {
	if workDir == "" {
		return
	}
	if _, err := os.Stat(workDir); os.IsNotExist(err) {
		return
	}
	if err := os.RemoveAll(workDir); err != nil {
		log.Printf("⚠️ Failed to remove working directory %s: %v", workDir, err)
	}
}

// GetFileSize returns the size of a file in bytes
func (om *OutputManager) GetFileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return fileInfo.Size(), nil
}

// EnsureOutputDirExists ensures the base output directory exists
func (om *OutputManager) EnsureOutputDirExists() error {
	return os.MkdirAll(om.BaseOutputDir, 0755)
}
