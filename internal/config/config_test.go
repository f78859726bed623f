package config

import (
	"strings"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("QUERYBATCH_IDENTITY_ALIAS", "batch_reader")
	t.Setenv("QUERYBATCH_SCRIPT_DIR", "/data/scripts")
	t.Setenv("QUERYBATCH_QUERY_TOOL", "/usr/local/bin/sqlrun")
	t.Setenv("QUERYBATCH_OUTPUT_DIR", "/data/out")
	t.Setenv("QUERYBATCH_RECIPIENTS", "ops@example.com, dba@example.com")
	t.Setenv("QUERYBATCH_SENDER", "batch@example.com")
	t.Setenv("QUERYBATCH_SMTP_HOST", "relay.example.com")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ScriptExt != ".sql" {
		t.Errorf("ScriptExt = %q, want .sql", cfg.ScriptExt)
	}
	if cfg.Delimiter != "," {
		t.Errorf("Delimiter = %q, want ,", cfg.Delimiter)
	}
	if cfg.TimestampFormat != "20060102_150405" {
		t.Errorf("TimestampFormat = %q", cfg.TimestampFormat)
	}
	if cfg.ArchivePattern != "query_results_%s.zip" {
		t.Errorf("ArchivePattern = %q", cfg.ArchivePattern)
	}
	if len(cfg.Recipients) != 2 || cfg.Recipients[1] != "dba@example.com" {
		t.Errorf("Recipients = %v", cfg.Recipients)
	}
	if cfg.SMTP.Port != 0 || cfg.SMTP.TLS {
		t.Errorf("SMTP optionals should stay unset: %+v", cfg.SMTP)
	}
}

func TestLoadOptionalSMTPSettings(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("QUERYBATCH_SMTP_PORT", "587")
	t.Setenv("QUERYBATCH_SMTP_TLS", "true")
	t.Setenv("QUERYBATCH_SMTP_USER", "relayuser")
	t.Setenv("QUERYBATCH_SMTP_PASSWORD", "relaypass")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SMTP.Port != 587 || !cfg.SMTP.TLS || cfg.SMTP.Username != "relayuser" {
		t.Errorf("SMTP = %+v", cfg.SMTP)
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("QUERYBATCH_SMTP_PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestLoadMissingRequired(t *testing.T) {
	required := []string{
		"QUERYBATCH_IDENTITY_ALIAS",
		"QUERYBATCH_SCRIPT_DIR",
		"QUERYBATCH_QUERY_TOOL",
		"QUERYBATCH_OUTPUT_DIR",
		"QUERYBATCH_RECIPIENTS",
		"QUERYBATCH_SENDER",
		"QUERYBATCH_SMTP_HOST",
	}
	for _, missing := range required {
		t.Run(missing, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(missing, "")

			_, err := Load()
			if err == nil {
				t.Fatalf("expected error when %s is unset", missing)
			}
			if !strings.Contains(err.Error(), missing) {
				t.Errorf("error %q should name %s", err, missing)
			}
		})
	}
}
