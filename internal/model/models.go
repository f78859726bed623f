package model

import "time"

// Script statuses recorded per execution
const (
	ScriptSucceeded = "succeeded"
	ScriptFailed    = "failed"
)

// ScriptResult represents the outcome of executing one query script
type ScriptResult struct {
	Script     string    `json:"script"`      // input script path
	Base       string    `json:"base"`        // script base name without extension
	ExitCode   int       `json:"exit_code"`   // query tool exit code
	Artifact   string    `json:"artifact"`    // result artifact path, empty on failure
	Status     string    `json:"status"`      // "succeeded" or "failed"
	FinishedAt time.Time `json:"finished_at"`
}

// RunReport summarizes a completed batch run
type RunReport struct {
	RunID       string         `json:"run_id"`
	Timestamp   string         `json:"timestamp"` // formatted run timestamp used in paths
	WorkDir     string         `json:"work_dir"`
	ArchivePath string         `json:"archive_path"`
	Discovered  int            `json:"discovered"`
	Succeeded   int            `json:"succeeded"`
	Failed      int            `json:"failed"`
	Duration    time.Duration  `json:"duration"`
	Results     []ScriptResult `json:"results"`
}

// Notification defines the email sent after a successful run
type Notification struct {
	Recipients []string `json:"recipients"`
	Sender     string   `json:"sender"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	Attachment string   `json:"attachment"` // archive path
}
