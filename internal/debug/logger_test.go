package debug_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"quadmap/internal/debug"
)

func TestLogWritesFormattedMessage(t *testing.T) {
	var buf bytes.Buffer
	debug.SetOutput(&buf)
	debug.SetLevel("debug")
	defer debug.SetOutput(io.Discard)

	if !debug.Enabled() {
		t.Fatal("expected debug logging to be enabled")
	}

	debug.Log("point %s placed at %.1f", "D1", 21.5)

	out := buf.String()
	if !strings.Contains(out, "point D1 placed at 21.5") {
		t.Errorf("log output %q missing message", out)
	}
	if !strings.Contains(out, "level=DEBUG") {
		t.Errorf("log output %q missing level", out)
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	debug.SetOutput(&buf)
	debug.SetLevel("warn")
	defer func() {
		debug.SetLevel("debug")
		debug.SetOutput(io.Discard)
	}()

	debug.Log("hidden")
	debug.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warning missing: %q", out)
	}
	if debug.Enabled() {
		t.Error("Enabled should be false above debug level")
	}
}

func TestDiscardByDefault(t *testing.T) {
	debug.SetOutput(nil)
	if debug.Enabled() {
		t.Error("nil output should disable logging")
	}
}
