package utils

import (
	"strings"
	"time"
)

// ParseDuration safely parses duration string like "30m"
func ParseDuration(d string) time.Duration {
	if d == "" {
		return 30 * time.Minute
	}
	duration, err := time.ParseDuration(d)
	if err != nil {
		return 30 * time.Minute
	}
	return duration
}

// SplitList splits a comma-separated config value into trimmed entries
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
