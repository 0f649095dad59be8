package clasp

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"
)

type helpSection struct {
	title string
	lines [][2]string
}

// WriteHelp prints the usage line and one line per descriptor of p, grouped
// by option group. Mandatory entries are marked "(required)".
func WriteHelp(w io.Writer, p *Parser) error {
	var b strings.Builder
	if p.help != "" {
		b.WriteString(p.help)
		b.WriteString("\n\n")
	}
	b.WriteString("Usage:\n  ")
	b.WriteString(p.Usage())
	b.WriteString("\n")

	options := &helpSection{title: "Options"}
	args := &helpSection{title: "Arguments"}
	commands := &helpSection{title: "Commands"}
	sections := []*helpSection{args, options}

	var visit func(g *Group, into *helpSection)
	visit = func(g *Group, into *helpSection) {
		for _, d := range g.descriptors {
			line := helpLine(d)
			switch {
			case d.kind == SubParserEntry:
				commands.lines = append(commands.lines, line)
			case d.kind.IsPositional():
				args.lines = append(args.lines, line)
			default:
				into.lines = append(into.lines, line)
			}
		}
		for i, c := range g.children {
			title := c.name
			if title == "" {
				title = fmt.Sprintf("Group %d", i+1)
			}
			if c.logic == Xor {
				title += " (choose one)"
			}
			sec := &helpSection{title: title}
			sections = append(sections, sec)
			visit(c, sec)
		}
	}
	visit(p.root, options)
	sections = append(sections, commands)

	for _, sec := range sections {
		if len(sec.lines) == 0 {
			continue
		}
		writeSection(&b, sec)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func helpLine(d *Descriptor) [2]string {
	spelling, desc := d.HelpLine()
	if d.IsMandatory() {
		if desc == "" {
			desc = "(required)"
		} else {
			desc += " (required)"
		}
	}
	return [2]string{spelling, desc}
}

func writeSection(b *strings.Builder, sec *helpSection) {
	width := 0
	for _, l := range sec.lines {
		if len(l[0]) > width {
			width = len(l[0])
		}
	}
	b.WriteString("\n")
	b.WriteString(sec.title)
	b.WriteString(":\n")
	for _, l := range sec.lines {
		b.WriteString("  ")
		b.WriteString(l[0])
		if l[1] != "" {
			b.WriteString(strings.Repeat(" ", width-len(l[0])+2))
			b.WriteString(l[1])
		}
		b.WriteString("\n")
	}
}

// HelpTrigger binds -h/--help to print the help of the scope's parser and
// exit with code 0.
func HelpTrigger(sc Scope) (*Action, error) {
	if sc == nil || sc.scope() == nil {
		return nil, newError(KindRegistration, "help trigger has no scope")
	}
	p := sc.scope().parser
	return Trigger(sc, "help", "show this help and exit", func() *ExitRequest {
		_ = WriteHelp(p.output(), p)
		return Exit(0)
	}).Short('h').Bind()
}

// VersionTrigger binds --version to print version and exit with code 0.
// When version is empty the main module version from the build info is
// used.
func VersionTrigger(sc Scope, version string) (*Action, error) {
	if sc == nil || sc.scope() == nil {
		return nil, newError(KindRegistration, "version trigger has no scope")
	}
	p := sc.scope().parser
	return Trigger(sc, "version", "show version information and exit", func() *ExitRequest {
		fmt.Fprintf(p.output(), "%s %s\n", p.Path(), buildVersion(version))
		return Exit(0)
	}).Bind()
}

func buildVersion(version string) string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
