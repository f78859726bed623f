package config

import (
	"fmt"
	"os"
	"strconv"

	"go-query-batch/pkg/utils"
)

// SMTP holds mail relay settings; Port, TLS and credentials are optional
type SMTP struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`     // 0 = relay default
	TLS      bool   `json:"tls"`      // enforce TLS when true
	Username string `json:"username"` // auth applied only when set
	Password string `json:"password"`
}

// Config is the full batch run configuration, loaded once at startup
type Config struct {
	IdentityAlias string `json:"identityAlias"` // credential alias resolved by the query tool
	ScriptDir     string `json:"scriptDir"`
	ScriptExt     string `json:"scriptExt"`
	QueryToolPath string `json:"queryToolPath"`
	OutputDir     string `json:"outputDir"`
	Delimiter     string `json:"delimiter"`

	TimestampFormat string `json:"timestampFormat"` // Go layout, namespaces workdir and archive
	ArchivePattern  string `json:"archivePattern"`  // %s replaced with the run timestamp

	Recipients []string `json:"recipients"`
	Sender     string   `json:"sender"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	SMTP       SMTP     `json:"smtp"`

	HistoryDBPath string `json:"historyDbPath"`
	RunTimeout    string `json:"runTimeout"` // e.g. "30m"
}

// Load reads the configuration from QUERYBATCH_* environment variables,
// fills defaults and validates required fields
func Load() (Config, error) {
	cfg := Config{
		IdentityAlias:   os.Getenv("QUERYBATCH_IDENTITY_ALIAS"),
		ScriptDir:       os.Getenv("QUERYBATCH_SCRIPT_DIR"),
		ScriptExt:       getEnv("QUERYBATCH_SCRIPT_EXT", ".sql"),
		QueryToolPath:   os.Getenv("QUERYBATCH_QUERY_TOOL"),
		OutputDir:       os.Getenv("QUERYBATCH_OUTPUT_DIR"),
		Delimiter:       getEnv("QUERYBATCH_DELIMITER", ","),
		TimestampFormat: getEnv("QUERYBATCH_TIMESTAMP_FORMAT", "20060102_150405"),
		ArchivePattern:  getEnv("QUERYBATCH_ARCHIVE_PATTERN", "query_results_%s.zip"),
		Recipients:      utils.SplitList(os.Getenv("QUERYBATCH_RECIPIENTS")),
		Sender:          os.Getenv("QUERYBATCH_SENDER"),
		Subject:         getEnv("QUERYBATCH_SUBJECT", "Query batch results"),
		Body:            getEnv("QUERYBATCH_BODY", "Attached are the query results from the latest batch run."),
		HistoryDBPath:   getEnv("QUERYBATCH_HISTORY_DB", "querybatch.db"),
		RunTimeout:      getEnv("QUERYBATCH_RUN_TIMEOUT", "30m"),
		SMTP: SMTP{
			Host:     os.Getenv("QUERYBATCH_SMTP_HOST"),
			Username: os.Getenv("QUERYBATCH_SMTP_USER"),
			Password: os.Getenv("QUERYBATCH_SMTP_PASSWORD"),
		},
	}

	if portStr := os.Getenv("QUERYBATCH_SMTP_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid QUERYBATCH_SMTP_PORT %q: %w", portStr, err)
		}
		cfg.SMTP.Port = port
	}
	if tlsStr := os.Getenv("QUERYBATCH_SMTP_TLS"); tlsStr != "" {
		tls, err := strconv.ParseBool(tlsStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid QUERYBATCH_SMTP_TLS %q: %w", tlsStr, err)
		}
		cfg.SMTP.TLS = tls
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required fields before the run starts
func (c Config) Validate() error {
	if c.IdentityAlias == "" {
		return fmt.Errorf("QUERYBATCH_IDENTITY_ALIAS is required")
	}
	if c.ScriptDir == "" {
		return fmt.Errorf("QUERYBATCH_SCRIPT_DIR is required")
	}
	if c.QueryToolPath == "" {
		return fmt.Errorf("QUERYBATCH_QUERY_TOOL is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("QUERYBATCH_OUTPUT_DIR is required")
	}
	if len(c.Recipients) == 0 {
		return fmt.Errorf("QUERYBATCH_RECIPIENTS is required")
	}
	if c.Sender == "" {
		return fmt.Errorf("QUERYBATCH_SENDER is required")
	}
	if c.SMTP.Host == "" {
		return fmt.Errorf("QUERYBATCH_SMTP_HOST is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
