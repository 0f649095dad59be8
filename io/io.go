// Package claspio holds the terminal side of clasp: output writers, color
// detection and the leveled logger used to report parse errors.
package claspio

import (
	stdio "io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Manager centralizes output writers and terminal capabilities.
type Manager struct {
	out stdio.Writer
	err stdio.Writer

	forceColor bool
	noColor    bool
}

// New returns a manager bound to process stdout and stderr.
func New() *Manager {
	return &Manager{out: os.Stdout, err: os.Stderr}
}

// WithOut sets the standard output writer.
func (m *Manager) WithOut(w stdio.Writer) *Manager { m.out = w; return m }

// WithErr sets the standard error writer.
func (m *Manager) WithErr(w stdio.Writer) *Manager { m.err = w; return m }

// ForceColor turns color output on regardless of environment.
func (m *Manager) ForceColor() *Manager { m.forceColor = true; m.noColor = false; return m }

// NoColor turns color output off regardless of environment.
func (m *Manager) NoColor() *Manager { m.noColor = true; m.forceColor = false; return m }

// ColorAuto uses the environment and the output terminal to decide.
func (m *Manager) ColorAuto() *Manager { m.noColor = false; m.forceColor = false; return m }

// Out returns the standard output writer.
func (m *Manager) Out() stdio.Writer { return m.out }

// Err returns the standard error writer.
func (m *Manager) Err() stdio.Writer { return m.err }

// IsTTY reports whether the output writer is a terminal.
func (m *Manager) IsTTY() bool {
	f, ok := m.out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Width returns the terminal width, falling back to $COLUMNS and then 80.
func (m *Manager) Width() int {
	if f, ok := m.out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	if w, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && w > 0 {
		return w
	}
	return 80
}

// SupportsColor reports whether ANSI colors should be emitted. NO_COLOR
// and FORCE_COLOR are honored before terminal detection.
func (m *Manager) SupportsColor() bool {
	if m.noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	if m.forceColor || os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if !m.IsTTY() {
		return false
	}
	t := os.Getenv("TERM")
	return t != "" && t != "dumb"
}

// Colorize wraps s in the SGR code and a reset when color is supported.
func (m *Manager) Colorize(s string, c Color) string {
	if c == "" || !m.SupportsColor() {
		return s
	}
	return "\x1b[" + string(c) + "m" + s + "\x1b[0m"
}

// Bold returns s in bold when color is supported.
func (m *Manager) Bold(s string) string { return m.Colorize(s, "1") }

// Color is an ANSI SGR parameter string such as "31" or "1;34".
type Color string

const (
	Red     Color = "31"
	Green   Color = "32"
	Yellow  Color = "33"
	Blue    Color = "34"
	Magenta Color = "35"
	Cyan    Color = "36"
	Gray    Color = "90"
)

// Combine joins several SGR parameters, e.g. Combine("1", Red).
func Combine(colors ...Color) Color {
	parts := make([]string, 0, len(colors))
	for _, c := range colors {
		if c != "" {
			parts = append(parts, string(c))
		}
	}
	return Color(strings.Join(parts, ";"))
}

// Theme maps log levels to colors.
type Theme struct {
	Debug   Color
	Info    Color
	Success Color
	Warning Color
	Error   Color
}

// DefaultTheme uses the basic 16-color palette.
func DefaultTheme() Theme {
	return Theme{
		Debug:   Gray,
		Info:    Blue,
		Success: Green,
		Warning: Yellow,
		Error:   Combine("1", Red),
	}
}
