package internal

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSetLogLevel(t *testing.T) {
	originalLevel := logLevel
	defer func() { logLevel = originalLevel }()

	SetLogLevel(LogLevelDebug)
	if logLevel != LogLevelDebug {
		t.Errorf("SetLogLevel() logLevel = %v, want LogLevelDebug", logLevel)
	}

	SetLogLevel(LogLevelError)
	if logLevel != LogLevelError {
		t.Errorf("SetLogLevel() logLevel = %v, want LogLevelError", logLevel)
	}
}

func TestSetVerbose(t *testing.T) {
	originalLevel := logLevel
	defer func() { logLevel = originalLevel }()

	SetVerbose(true)
	if logLevel != LogLevelDebug {
		t.Errorf("SetVerbose(true) logLevel = %v, want LogLevelDebug", logLevel)
	}

	SetVerbose(false)
	if logLevel != LogLevelInfo {
		t.Errorf("SetVerbose(false) logLevel = %v, want LogLevelInfo", logLevel)
	}
}

func TestLogOutput(t *testing.T) {
	originalLevel := logLevel
	defer func() {
		logLevel = originalLevel
		SetLogOutput(os.Stderr)
	}()

	var buf bytes.Buffer
	SetLogOutput(&buf)
	SetLogLevel(LogLevelInfo)

	LogInfo("saved conversation %d", 7)
	if !strings.Contains(buf.String(), "[INFO] saved conversation 7") {
		t.Errorf("LogInfo output = %q, want it to contain the formatted message", buf.String())
	}

	buf.Reset()
	LogDebug("should be suppressed")
	if buf.Len() != 0 {
		t.Errorf("LogDebug at info level wrote %q, want no output", buf.String())
	}

	SetLogLevel(LogLevelDebug)
	LogDebug("now visible")
	if !strings.Contains(buf.String(), "[DEBUG] now visible") {
		t.Errorf("LogDebug output = %q, want debug message", buf.String())
	}
}

func TestLogLevels(t *testing.T) {
	if LogLevelError >= LogLevelWarn {
		t.Error("LogLevelError should be less than LogLevelWarn")
	}
	if LogLevelWarn >= LogLevelInfo {
		t.Error("LogLevelWarn should be less than LogLevelInfo")
	}
	if LogLevelInfo >= LogLevelDebug {
		t.Error("LogLevelInfo should be less than LogLevelDebug")
	}
}
