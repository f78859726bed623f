package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-query-batch/internal/config"
	"go-query-batch/internal/mail"
	"go-query-batch/internal/model"
	"go-query-batch/internal/runner"
	"go-query-batch/internal/store"
	"go-query-batch/pkg/utils"
)

// ErrNoResults indicates every script failed, leaving nothing to archive
var ErrNoResults = errors.New("no successful query results to archive")

// ------------------- Batch Runner -------------------

// Run executes the full batch pipeline for one run: prepare the working
// directory, discover scripts, execute them sequentially, archive the
// results and send the notification. The working directory is removed on
// every exit path.
func Run(ctx context.Context, runID string, cfg config.Config, run runner.Runner, sender mail.Sender) (report model.RunReport, err error) {
	start := time.Now()
	fmt.Printf("🚀 Starting query batch run: %s\n", runID)

	// Update status to running
	store.UpdateRunStatus(runID, "running")

	// Defer function to handle status updates on completion/error
	defer func() {
		if err != nil {
			store.UpdateRunStatus(runID, "failed")
			store.SaveRunError(runID, err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, utils.ParseDuration(cfg.RunTimeout))
	defer cancel()

	// --- PREPARE WORKING DIRECTORY ---
	om := utils.NewOutputManager(cfg.OutputDir)
	if err = om.EnsureOutputDirExists(); err != nil {
		return report, fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}
	timestamp := start.Format(cfg.TimestampFormat)
	archivePath := om.ArchivePath(cfg.ArchivePattern, timestamp)

	workDir, err := om.CreateWorkDir(timestamp)
	if err != nil {
		return report, err
	}
	defer om.RemoveWorkDir(workDir)

	report = model.RunReport{
		RunID:       runID,
		Timestamp:   timestamp,
		WorkDir:     workDir,
		ArchivePath: archivePath,
	}

	// --- DISCOVERY STAGE ---
	discoverStart := time.Now()
	store.SaveStageProgress(runID, "discovery", "started", &discoverStart, nil)

	scripts, err := DiscoverScripts(cfg.ScriptDir, cfg.ScriptExt)
	if err != nil {
		return report, err
	}
	report.Discovered = len(scripts)

	discoverEnd := time.Now()
	store.SaveStageProgress(runID, "discovery", "completed", &discoverStart, &discoverEnd)
	store.SaveRunLog(runID, "discovery", "info", "Discovered query scripts", map[string]interface{}{
		"scripts_count": len(scripts),
	})
	fmt.Printf("🔍 Discovered %d query script(s) in %s\n", len(scripts), cfg.ScriptDir)

	// --- EXECUTION STAGE ---
	execStart := time.Now()
	store.UpdateRunStatus(runID, "executing")
	store.SaveStageProgress(runID, "execution", "started", &execStart, nil)

	var succeeded []string
	for _, script := range scripts {
		result := executeScript(ctx, run, cfg, om, workDir, script)
		report.Results = append(report.Results, result)
		store.SaveScriptResult(runID, result)

		if result.Status == model.ScriptSucceeded {
			succeeded = append(succeeded, result.Artifact)
			fmt.Printf("✅ %s completed\n", filepath.Base(script))
		} else {
			log.Printf("⚠️ Script %s failed with exit code %d, skipping", filepath.Base(script), result.ExitCode)
		}
	}
	report.Succeeded = len(succeeded)
	report.Failed = report.Discovered - report.Succeeded

	execEnd := time.Now()
	store.SaveStageProgress(runID, "execution", "completed", &execStart, &execEnd)
	store.SaveRunLog(runID, "execution", "info", "Execution stage completed", map[string]interface{}{
		"succeeded":   report.Succeeded,
		"failed":      report.Failed,
		"duration_ms": execEnd.Sub(execStart).Milliseconds(),
	})

	if len(succeeded) == 0 {
		return report, fmt.Errorf("%w: all %d script(s) failed", ErrNoResults, len(scripts))
	}

	// --- ARCHIVE STAGE ---
	fmt.Printf("📦 Archiving %d result file(s) to %s\n", len(succeeded), archivePath)
	store.UpdateRunStatus(runID, "archiving")

	if err = CreateArchive(workDir, archivePath); err != nil {
		return report, err
	}
	archiveSize, _ := om.GetFileSize(archivePath)
	store.SaveRunLog(runID, "archive", "info", "Archive created", map[string]interface{}{
		"archive_path":       archivePath,
		"archive_size_bytes": archiveSize,
		"artifacts":          len(succeeded),
	})

	// --- NOTIFICATION STAGE ---
	fmt.Printf("📧 Sending notification to %s\n", strings.Join(cfg.Recipients, ", "))
	store.UpdateRunStatus(runID, "notifying")

	notification := model.Notification{
		Recipients: cfg.Recipients,
		Sender:     cfg.Sender,
		Subject:    cfg.Subject,
		Body:       cfg.Body,
		Attachment: archivePath,
	}
	if err = sender.Send(ctx, notification); err != nil {
		return report, err
	}
	store.SaveRunLog(runID, "notify", "info", "Notification sent", map[string]interface{}{
		"recipients": len(cfg.Recipients),
	})

	report.Duration = time.Since(start)
	fmt.Printf("🏁 Batch run %s completed in %v (%d/%d scripts succeeded)\n",
		runID, report.Duration, report.Succeeded, report.Discovered)

	store.FinishRun(runID, report)
	return report, nil
}

// executeScript runs the external query tool for one script and applies the
// skip-on-failure policy: a non-zero exit is recorded, the partial artifact
// is dropped and the run moves on to the next script.
func executeScript(ctx context.Context, run runner.Runner, cfg config.Config, om *utils.OutputManager, workDir, script string) model.ScriptResult {
	artifact := om.ArtifactPath(workDir, script)
	base := strings.TrimSuffix(filepath.Base(script), filepath.Ext(script))

	args := []string{
		"-identity", cfg.IdentityAlias,
		"-input", script,
		"-output", artifact,
		"-delimiter", cfg.Delimiter,
		"-abort-on-error",
	}

	exitCode, err := run.Run(ctx, cfg.QueryToolPath, args...)
	if err != nil {
		log.Printf("⚠️ Failed to invoke query tool for %s: %v", filepath.Base(script), err)
		exitCode = -1
	}

	result := model.ScriptResult{
		Script:     script,
		Base:       base,
		ExitCode:   exitCode,
		FinishedAt: time.Now().UTC(),
	}

	if exitCode == 0 {
		result.Artifact = artifact
		result.Status = model.ScriptSucceeded
		return result
	}

	// Non-zero exit: the output file contents are undefined, drop them
	if err := os.Remove(artifact); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ Failed to remove partial output %s: %v", artifact, err)
	}
	result.Status = model.ScriptFailed
	return result
}
