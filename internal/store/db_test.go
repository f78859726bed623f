package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go-query-batch/internal/model"
)

func initTestDB(t *testing.T) {
	t.Helper()
	if err := InitDB(filepath.Join(t.TempDir(), "history.db")); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
}

func TestSaveAndGetRun(t *testing.T) {
	initTestDB(t)

	if err := SaveRun("run-1"); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if err := UpdateRunStatus("run-1", "executing"); err != nil {
		t.Fatalf("UpdateRunStatus failed: %v", err)
	}
	if err := SaveScriptResult("run-1", model.ScriptResult{
		Script: "/scripts/a.sql", Base: "a", ExitCode: 0,
		Artifact: "/work/a_Result.csv", Status: model.ScriptSucceeded,
	}); err != nil {
		t.Fatalf("SaveScriptResult failed: %v", err)
	}
	if err := SaveScriptResult("run-1", model.ScriptResult{
		Script: "/scripts/b.sql", Base: "b", ExitCode: 2, Status: model.ScriptFailed,
	}); err != nil {
		t.Fatalf("SaveScriptResult failed: %v", err)
	}
	if err := FinishRun("run-1", model.RunReport{
		WorkDir: "/work", ArchivePath: "/out/results.zip", Discovered: 2, Succeeded: 1,
	}); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	run, err := GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run["status"] != "completed" {
		t.Errorf("status = %v, want completed", run["status"])
	}
	if run["archivePath"] != "/out/results.zip" {
		t.Errorf("archivePath = %v", run["archivePath"])
	}
	scripts := run["scripts"].([]map[string]interface{})
	if len(scripts) != 2 {
		t.Fatalf("expected 2 script rows, got %d", len(scripts))
	}
	if scripts[0]["script"] != "/scripts/a.sql" || scripts[0]["status"] != model.ScriptSucceeded {
		t.Errorf("first script row = %v", scripts[0])
	}
	if scripts[1]["exitCode"] != 2 {
		t.Errorf("second script exit code = %v, want 2", scripts[1]["exitCode"])
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	initTestDB(t)

	if err := SaveRun("run-old"); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := SaveRun("run-new"); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	runs, err := ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0]["id"] != "run-new" || runs[1]["id"] != "run-old" {
		t.Errorf("runs out of order: %v, %v", runs[0]["id"], runs[1]["id"])
	}
}

func TestSaveRunError(t *testing.T) {
	initTestDB(t)

	if err := SaveRun("run-err"); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if err := SaveRunError("run-err", errors.New("no successful query results")); err != nil {
		t.Fatalf("SaveRunError failed: %v", err)
	}
	// nil errors are a no-op
	if err := SaveRunError("run-err", nil); err != nil {
		t.Fatalf("SaveRunError(nil) failed: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM run_errors WHERE run_id = ?`, "run-err").Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("run_errors count = %d, want 1", count)
	}
}

func TestStageProgressAndLogs(t *testing.T) {
	initTestDB(t)

	if err := SaveRun("run-stages"); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	start := time.Now().UTC()
	if err := SaveStageProgress("run-stages", "execution", "started", &start, nil); err != nil {
		t.Fatalf("SaveStageProgress failed: %v", err)
	}
	end := time.Now().UTC()
	if err := SaveStageProgress("run-stages", "execution", "completed", &start, &end); err != nil {
		t.Fatalf("SaveStageProgress failed: %v", err)
	}
	if err := SaveRunLog("run-stages", "execution", "info", "Execution stage completed", map[string]interface{}{
		"succeeded": 3,
	}); err != nil {
		t.Fatalf("SaveRunLog failed: %v", err)
	}

	var stages, logs int
	if err := db.QueryRow(`SELECT COUNT(*) FROM run_stages WHERE run_id = ?`, "run-stages").Scan(&stages); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM run_logs WHERE run_id = ?`, "run-stages").Scan(&logs); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if stages != 2 || logs != 1 {
		t.Errorf("stages = %d, logs = %d, want 2 and 1", stages, logs)
	}
}
