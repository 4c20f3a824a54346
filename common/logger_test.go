package common

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		name string
		want Severity
	}{
		{"debug", SeverityDebug},
		{"INFO", SeverityInfo},
		{" warn ", SeverityWarning},
		{"Warning", SeverityWarning},
		{"error", SeverityError},
	}
	for _, tt := range tests {
		got, err := ParseSeverity(tt.name)
		if err != nil || got != tt.want {
			t.Errorf("ParseSeverity(%q) = %v, %v; want %v", tt.name, got, err, tt.want)
		}
	}
	if _, err := ParseSeverity("loud"); err == nil {
		t.Error("ParseSeverity(loud) succeeded")
	}
	if got := Severity(42).String(); got != "UNKNOWN" {
		t.Errorf("Severity(42).String() = %q", got)
	}
}

func TestStdLoggerRouting(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := NewStdLoggerWithWriter(&stdout, &stderr, SeverityDebug)

	logger.Debugf("insert [0x%x,0x%x)", 0x100, 0x104)
	logger.Infof("built %s", "uart")
	logger.Warningf("slow")
	logger.Error(errors.New("overlap"))
	logger.Error(nil)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	want := []string{"DEBUG: insert [0x100,0x104)", "INFO: built uart", "WARNING: slow"}
	if len(lines) != len(want) {
		t.Fatalf("stdout has %d lines, want %d:\n%s", len(lines), len(want), stdout.String())
	}
	for i, w := range want {
		if !strings.HasSuffix(lines[i], w) {
			t.Errorf("line %d = %q, want suffix %q", i, lines[i], w)
		}
	}
	if got := strings.TrimSpace(stderr.String()); !strings.HasSuffix(got, "ERROR: overlap") || strings.Count(got, "\n") != 0 {
		t.Errorf("stderr = %q, want a single ERROR: overlap line", got)
	}
}

func TestStdLoggerMinLevel(t *testing.T) {
	var out bytes.Buffer
	logger := NewStdLoggerWithWriter(&out, &out, SeverityWarning)

	if logger.Enabled(SeverityInfo) {
		t.Error("Enabled(SeverityInfo) = true with minLevel Warning")
	}
	logger.Debugf("debug message")
	logger.Log(SeverityInfo, "info message")
	if out.Len() != 0 {
		t.Errorf("filtered levels were written: %s", out.String())
	}

	logger.Logf(SeverityWarning, "warning %d", 1)
	if !strings.Contains(out.String(), "WARNING: warning 1") {
		t.Errorf("warning not written, got: %s", out.String())
	}
}

func TestNoOpLogger(t *testing.T) {
	var logger Logger = NewNoOpLogger()

	logger.Log(SeverityError, "test")
	logger.Logf(SeverityInfo, "test %s", "formatted")
	logger.Error(errors.New("test error"))
	logger.Debugf("debug")
	logger.Infof("info")
	logger.Warningf("warning")
	if logger.Enabled(SeverityError) {
		t.Error("NoOpLogger reports enabled")
	}
}
