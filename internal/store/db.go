package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"go-query-batch/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

// Initialize DB connection
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	// Create tables if not exists
	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		status TEXT,
		work_dir TEXT,
		archive_path TEXT,
		scripts_total INTEGER,
		scripts_succeeded INTEGER,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	scriptTable := `
	CREATE TABLE IF NOT EXISTS run_scripts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		script TEXT,
		exit_code INTEGER,
		artifact TEXT,
		status TEXT,
		created_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`
	stageTable := `
	CREATE TABLE IF NOT EXISTS run_stages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		stage TEXT,
		status TEXT,
		started_at DATETIME,
		finished_at DATETIME
	);
	`
	logTable := `
	CREATE TABLE IF NOT EXISTS run_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		stage TEXT,
		level TEXT,
		message TEXT,
		details TEXT,
		created_at DATETIME
	);
	`

	for _, ddl := range []string{runTable, scriptTable, errorTable, stageTable, logTable} {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}

	return nil
}

// SaveRun stores a new batch run
func SaveRun(runID string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO runs (id, status, scripts_total, scripts_succeeded, created_at, updated_at) VALUES (?, ?, 0, 0, ?, ?)`,
		runID, "pending", now, now)
	return err
}

// UpdateRunStatus updates run status
func UpdateRunStatus(runID string, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// FinishRun records the final counts and archive path of a run
func FinishRun(runID string, report model.RunReport) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, work_dir = ?, archive_path = ?, scripts_total = ?, scripts_succeeded = ?, updated_at = ? WHERE id = ?`,
		"completed", report.WorkDir, report.ArchivePath, report.Discovered, report.Succeeded, now, runID)
	return err
}

// SaveRunError records an error for a run
func SaveRunError(runID string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, err.Error(), now)
	return e
}

// SaveScriptResult records the outcome of one script execution
func SaveScriptResult(runID string, result model.ScriptResult) error {
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO run_scripts (run_id, script, exit_code, artifact, status, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, result.Script, result.ExitCode, result.Artifact, result.Status, now)
	return err
}

// SaveStageProgress records a pipeline stage transition
func SaveStageProgress(runID, stage, status string, startedAt, finishedAt *time.Time) error {
	_, err := db.Exec(`INSERT INTO run_stages (run_id, stage, status, started_at, finished_at) VALUES (?, ?, ?, ?, ?)`,
		runID, stage, status, startedAt, finishedAt)
	return err
}

// SaveRunLog stores a structured log entry for a run
func SaveRunLog(runID, stage, level, message string, details map[string]interface{}) error {
	detailsJSON := ""
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			detailsJSON = string(b)
		}
	}
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO run_logs (run_id, stage, level, message, details, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, stage, level, message, detailsJSON, now)
	return err
}

// ListRuns returns all runs with basic info, newest first
func ListRuns() ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT id, status, scripts_total, scripts_succeeded, archive_path, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []map[string]interface{}
	for rows.Next() {
		var id, status string
		var total, succeeded int
		var archivePath sql.NullString
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &status, &total, &succeeded, &archivePath, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, map[string]interface{}{
			"id":               id,
			"status":           status,
			"scriptsTotal":     total,
			"scriptsSucceeded": succeeded,
			"archivePath":      archivePath.String,
			"createdAt":        createdAt,
			"updatedAt":        updatedAt,
		})
	}
	return runs, rows.Err()
}

// GetRun fetches one run with its per-script results
func GetRun(runID string) (map[string]interface{}, error) {
	var status string
	var total, succeeded int
	var workDir, archivePath sql.NullString
	var createdAt, updatedAt time.Time

	err := db.QueryRow(`SELECT status, work_dir, archive_path, scripts_total, scripts_succeeded, created_at, updated_at FROM runs WHERE id = ?`, runID).
		Scan(&status, &workDir, &archivePath, &total, &succeeded, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT script, exit_code, artifact, status FROM run_scripts WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scripts []map[string]interface{}
	for rows.Next() {
		var script, scriptStatus string
		var exitCode int
		var artifact sql.NullString
		if err := rows.Scan(&script, &exitCode, &artifact, &scriptStatus); err != nil {
			return nil, err
		}
		scripts = append(scripts, map[string]interface{}{
			"script":   script,
			"exitCode": exitCode,
			"artifact": artifact.String,
			"status":   scriptStatus,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"id":               runID,
		"status":           status,
		"workDir":          workDir.String,
		"archivePath":      archivePath.String,
		"scriptsTotal":     total,
		"scriptsSucceeded": succeeded,
		"scripts":          scripts,
		"createdAt":        createdAt,
		"updatedAt":        updatedAt,
	}, nil
}
