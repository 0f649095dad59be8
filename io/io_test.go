//nolint:testpackage // using package name 'claspio' to access unexported fields for testing
package claspio

import (
	"bytes"
	"strings"
	"testing"
)

func TestColorOverrides(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "")

	var buf bytes.Buffer
	m := New().WithOut(&buf)
	if m.SupportsColor() {
		t.Fatalf("a buffer is not a terminal")
	}
	if !m.ForceColor().SupportsColor() {
		t.Fatalf("ForceColor should enable color")
	}
	if m.NoColor().SupportsColor() {
		t.Fatalf("NoColor should disable color")
	}

	t.Setenv("FORCE_COLOR", "1")
	if !m.ColorAuto().SupportsColor() {
		t.Fatalf("FORCE_COLOR should enable color")
	}
	t.Setenv("NO_COLOR", "1")
	if m.SupportsColor() {
		t.Fatalf("NO_COLOR should win over FORCE_COLOR")
	}
}

func TestColorize(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	m := New().ForceColor()
	got := m.Colorize("x", Combine("1", Red))
	if got != "\x1b[1;31mx\x1b[0m" {
		t.Fatalf("unexpected colorized text %q", got)
	}
	if got := m.NoColor().Colorize("x", Red); got != "x" {
		t.Fatalf("expected plain text, got %q", got)
	}
}

func TestWidthFallback(t *testing.T) {
	t.Setenv("COLUMNS", "101")
	m := New().WithOut(&bytes.Buffer{})
	if m.Width() != 101 {
		t.Fatalf("want 101, got %d", m.Width())
	}
	t.Setenv("COLUMNS", "")
	if m.Width() != 80 {
		t.Fatalf("want 80, got %d", m.Width())
	}
}

func TestLogger_WritersAndPrefixes(t *testing.T) {
	var out, errOut bytes.Buffer
	m := New().WithOut(&out).WithErr(&errOut).NoColor()
	log := NewLogger(m).WithFormat(LogFormatTagged)

	log.Info("parsed %d tokens", 3)
	log.Error("unknown option: %s", "--strng")
	log.Debug("hidden")

	if got := out.String(); got != "[INFO] parsed 3 tokens\n" {
		t.Errorf("stdout = %q", got)
	}
	if got := errOut.String(); got != "[ERROR] unknown option: --strng\n" {
		t.Errorf("stderr = %q", got)
	}

	out.Reset()
	log.WithLevel(LevelDebug).Debug("shown")
	if !strings.Contains(out.String(), "[DEBUG] shown") {
		t.Errorf("debug line missing: %q", out.String())
	}
}

func TestLogger_PlainAndStdout(t *testing.T) {
	var out bytes.Buffer
	m := New().WithOut(&out).WithErr(&out).NoColor()
	log := NewLogger(m).WithFormat(LogFormatPlain).ErrorsToStderr(false)
	log.Warning("careful")
	log.SetPrefix(LevelSuccess, "OK").Success("done")
	if got := out.String(); got != "careful\nOK done\n" {
		t.Errorf("output = %q", got)
	}
}

func TestLogger_Colored(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	var errOut bytes.Buffer
	m := New().WithErr(&errOut).ForceColor()
	NewLogger(m).Error("boom")
	got := errOut.String()
	if !strings.HasPrefix(got, "\x1b[1;31m") || !strings.HasSuffix(got, "\x1b[0m\n") {
		t.Errorf("expected colored error line, got %q", got)
	}
	if !strings.Contains(got, "✗ boom") {
		t.Errorf("expected symbol prefix, got %q", got)
	}
}
