package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"

	"go-query-batch/internal/config"
	"go-query-batch/internal/mail"
	"go-query-batch/internal/pipeline"
	"go-query-batch/internal/runner"
	"go-query-batch/internal/store"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Printf("❌ Invalid configuration: %v", err)
		return 1
	}

	// Init DB
	if err := store.InitDB(cfg.HistoryDBPath); err != nil {
		log.Printf("❌ Failed to open run history store: %v", err)
		return 1
	}

	if len(args) > 0 && args[0] == "history" {
		if len(args) > 1 {
			return printRunDetail(os.Stdout, args[1])
		}
		return printHistory(os.Stdout)
	}

	runID := uuid.New().String()
	if err := store.SaveRun(runID); err != nil {
		log.Printf("❌ Failed to record run: %v", err)
		return 1
	}

	_, err = pipeline.Run(context.Background(), runID, cfg, runner.NewExecRunner(), mail.NewSMTPSender(cfg.SMTP))
	if err != nil {
		log.Printf("❌ Batch run %s failed: %v", runID, err)
		return 1
	}
	return 0
}

func printHistory(w io.Writer) int {
	runs, err := store.ListRuns()
	if err != nil {
		log.Printf("❌ Failed to list runs: %v", err)
		return 1
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return 0
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %-10s  %d/%d scripts  %s\n",
			r["id"], r["status"], r["scriptsSucceeded"], r["scriptsTotal"], r["archivePath"])
	}
	return 0
}

func printRunDetail(w io.Writer, runID string) int {
	run, err := store.GetRun(runID)
	if err != nil {
		log.Printf("❌ Failed to fetch run %s: %v", runID, err)
		return 1
	}

	fmt.Fprintf(w, "Run %s\n", run["id"])
	fmt.Fprintf(w, "  status:    %s\n", run["status"])
	fmt.Fprintf(w, "  scripts:   %d/%d succeeded\n", run["scriptsSucceeded"], run["scriptsTotal"])
	fmt.Fprintf(w, "  archive:   %s\n", run["archivePath"])

	scripts, _ := run["scripts"].([]map[string]interface{})
	for _, s := range scripts {
		fmt.Fprintf(w, "  %-10s  exit %-3d  %s\n", s["status"], s["exitCode"], s["script"])
	}
	return 0
}
