package runner

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
)

func TestExecRunnerExitCodes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on sh")
	}
	r := NewExecRunner()

	code, err := r.Run(context.Background(), "sh", "-c", "exit 0")
	if err != nil || code != 0 {
		t.Fatalf("Run = (%d, %v), want (0, nil)", code, err)
	}

	code, err = r.Run(context.Background(), "sh", "-c", "exit 2")
	if err != nil {
		t.Fatalf("non-zero exit should not be an error: %v", err)
	}
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	r := NewExecRunner()

	code, err := r.Run(context.Background(), filepath.Join(t.TempDir(), "no-such-tool"))
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if code != -1 {
		t.Fatalf("exit code = %d, want -1", code)
	}
}

func TestExecRunnerHonorsContext(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on sh")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewExecRunner()
	if code, _ := r.Run(ctx, "sh", "-c", "sleep 10"); code == 0 {
		t.Fatal("cancelled run should not report success")
	}
}
