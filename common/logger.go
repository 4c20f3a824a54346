// Package common holds the ambient pieces shared by the register map
// packages, currently the levelled logger.
package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Severity represents log message severity levels
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "DEBUG"
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity maps a level name such as "debug" or "WARN" to a Severity.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return SeverityDebug, nil
	case "INFO":
		return SeverityInfo, nil
	case "WARNING", "WARN":
		return SeverityWarning, nil
	case "ERROR":
		return SeverityError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", name)
}

// Logger is the logging contract used by maps, the binding generator and the
// layout loader. Enabled lets callers on the access path skip formatting
// entirely when a level is filtered out.
type Logger interface {
	Enabled(severity Severity) bool
	Log(severity Severity, msg string)
	Logf(severity Severity, format string, args ...any)

	// Error logs err at SeverityError; nil errors are ignored.
	Error(err error)

	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warningf(format string, args ...any)
}

// StdLogger writes "SEVERITY: message" lines through the standard log
// package. Errors go to their own writer; everything else shares one, so
// messages of different levels keep their relative order.
type StdLogger struct {
	out      *log.Logger
	errOut   *log.Logger
	minLevel Severity
}

// NewStdLogger creates a logger writing to stdout and stderr.
func NewStdLogger(minLevel Severity) *StdLogger {
	return NewStdLoggerWithWriter(os.Stdout, os.Stderr, minLevel)
}

// NewStdLoggerWithWriter creates a logger with custom writers. Passing the
// same writer twice is fine.
func NewStdLoggerWithWriter(stdout, stderr io.Writer, minLevel Severity) *StdLogger {
	const flags = log.Ltime | log.Lmicroseconds
	return &StdLogger{
		out:      log.New(stdout, "", flags),
		errOut:   log.New(stderr, "", flags),
		minLevel: minLevel,
	}
}

func (l *StdLogger) Enabled(severity Severity) bool {
	return severity >= l.minLevel
}

func (l *StdLogger) Log(severity Severity, msg string) {
	if !l.Enabled(severity) {
		return
	}
	dst := l.out
	if severity >= SeverityError {
		dst = l.errOut
	}
	dst.Output(2, severity.String()+": "+msg)
}

func (l *StdLogger) Logf(severity Severity, format string, args ...any) {
	if l.Enabled(severity) {
		l.Log(severity, fmt.Sprintf(format, args...))
	}
}

func (l *StdLogger) Error(err error) {
	if err != nil {
		l.Log(SeverityError, err.Error())
	}
}

func (l *StdLogger) Debugf(format string, args ...any) { l.Logf(SeverityDebug, format, args...) }
func (l *StdLogger) Infof(format string, args ...any) { l.Logf(SeverityInfo, format, args...) }
func (l *StdLogger) Warningf(format string, args ...any) { l.Logf(SeverityWarning, format, args...) }

// NoOpLogger discards everything. It is the default for every component.
type NoOpLogger struct{}

// NewNoOpLogger creates a new no-op logger
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (*NoOpLogger) Enabled(Severity) bool { return false }
func (*NoOpLogger) Log(Severity, string) {}
func (*NoOpLogger) Logf(Severity, string, ...any) {}
func (*NoOpLogger) Error(error) {}
func (*NoOpLogger) Debugf(string, ...any) {}
func (*NoOpLogger) Infof(string, ...any) {}
func (*NoOpLogger) Warningf(string, ...any) {}
