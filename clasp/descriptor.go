package clasp

import (
	"strings"
	"unicode"
)

// Purpose classifies a descriptor as mandatory or optional.
type Purpose int

const (
	Optional Purpose = iota
	Mandatory
)

func (p Purpose) String() string {
	if p == Mandatory {
		return "mandatory"
	}
	return "optional"
}

// Kind discriminates the descriptor variants.
type Kind int

const (
	// NoParam is an option that takes no parameter (switch, counter, trigger).
	NoParam Kind = iota
	// ScalarParam is an option taking one parameter; repeats overwrite.
	ScalarParam
	// VectorParam is an option taking one parameter per occurrence; repeats append.
	VectorParam
	// SingleArg is a positional argument filling one slot.
	SingleArg
	// VariadicArg is a positional argument consuming every remaining slot.
	VariadicArg
	// SubParserEntry is a named sub-parser alternative.
	SubParserEntry
)

func (k Kind) String() string {
	switch k {
	case NoParam:
		return "no-param"
	case ScalarParam:
		return "scalar-param"
	case VectorParam:
		return "vector-param"
	case SingleArg:
		return "single"
	case VariadicArg:
		return "variadic"
	case SubParserEntry:
		return "sub-parser"
	default:
		return "unknown"
	}
}

// TakesParam reports whether an option of this kind consumes a parameter.
func (k Kind) TakesParam() bool {
	return k == ScalarParam || k == VectorParam
}

// IsPositional reports whether the kind is filled from positional tokens.
func (k Kind) IsPositional() bool {
	return k == SingleArg || k == VariadicArg
}

// foundFunc is invoked once per matching token. param is empty for
// no-param options.
type foundFunc func(param string) (*ExitRequest, error)

// Descriptor is the static declaration of one option, positional argument
// or sub-parser entry, as stored in a parser's registration table.
type Descriptor struct {
	kind    Kind
	shorts  []rune
	longs   []string
	name    string // positional or sub-parser name
	help    string
	hint    string // parameter placeholder, e.g. <int32>
	purpose Purpose

	restrictions []string

	given    func() bool
	found    foundFunc
	validate func() error // standalone checks; nil when there are none

	fromEnv  func() bool  // value came from an environment variable
	fallback func() error // resolves environment fallbacks after tokenizing
	reset    func()
}

// Kind returns the descriptor variant.
func (d *Descriptor) Kind() Kind { return d.kind }

// Shorts returns the single-character spellings.
func (d *Descriptor) Shorts() []rune { return d.shorts }

// Longs returns the long spellings.
func (d *Descriptor) Longs() []string { return d.longs }

// Name returns the positional or sub-parser name, or the first long spelling.
func (d *Descriptor) Name() string {
	if d.name != "" {
		return d.name
	}
	if len(d.longs) > 0 {
		return d.longs[0]
	}
	if len(d.shorts) > 0 {
		return string(d.shorts[0])
	}
	return ""
}

// Purpose returns whether the descriptor is mandatory.
func (d *Descriptor) Purpose() Purpose { return d.purpose }

// IsMandatory reports whether the descriptor must be given.
func (d *Descriptor) IsMandatory() bool { return d.purpose == Mandatory }

// Given reports whether a matching token was consumed.
func (d *Descriptor) Given() bool { return d.given() }

// present reports whether the descriptor counts as supplied for presence
// and exclusion checks: given on the command line or set from the
// environment.
func (d *Descriptor) present() bool {
	if d.given() {
		return true
	}
	return d.fromEnv != nil && d.fromEnv()
}

// Restrictions returns the constraint texts (default, range, ...).
func (d *Descriptor) Restrictions() []string { return d.restrictions }

// Label is the compact identifier used in error messages, e.g. "--string|-s".
func (d *Descriptor) Label() string {
	switch d.kind {
	case SingleArg, VariadicArg:
		return "<" + d.name + ">"
	case SubParserEntry:
		return d.name
	}
	parts := make([]string, 0, len(d.longs)+len(d.shorts))
	for _, l := range d.longs {
		parts = append(parts, "--"+l)
	}
	for _, s := range d.shorts {
		parts = append(parts, "-"+string(s))
	}
	return strings.Join(parts, "|")
}

// Spelling is the left column of a help line, e.g. "-s, --string <string>".
func (d *Descriptor) Spelling() string {
	switch d.kind {
	case SingleArg:
		return "<" + d.name + ">"
	case VariadicArg:
		return "<" + d.name + ">..."
	case SubParserEntry:
		return d.name
	}
	parts := make([]string, 0, len(d.longs)+len(d.shorts))
	for _, s := range d.shorts {
		parts = append(parts, "-"+string(s))
	}
	for _, l := range d.longs {
		parts = append(parts, "--"+l)
	}
	out := strings.Join(parts, ", ")
	if d.kind.TakesParam() {
		out += " " + d.hint
	}
	return out
}

// Description is the right column of a help line, with restrictions appended.
func (d *Descriptor) Description() string {
	if len(d.restrictions) == 0 {
		return d.help
	}
	extra := "[" + strings.Join(d.restrictions, "] [") + "]"
	if d.help == "" {
		return extra
	}
	return d.help + " " + extra
}

// HelpLine returns the (spelling, description) pair for help formatting.
func (d *Descriptor) HelpLine() (string, string) {
	return d.Spelling(), d.Description()
}

// usage is the fragment of a usage line for this descriptor, bracketed
// when optional.
func (d *Descriptor) usage() string {
	if d.purpose == Optional {
		return "[" + d.usageCore() + "]"
	}
	return d.usageCore()
}

func (d *Descriptor) usageCore() string {
	switch d.kind {
	case SingleArg:
		return "<" + d.name + ">"
	case VariadicArg:
		return "<" + d.name + ">..."
	case SubParserEntry:
		return d.name
	}
	var s string
	if len(d.longs) > 0 {
		s = "--" + d.longs[0]
	} else {
		s = "-" + string(d.shorts[0])
	}
	if d.kind.TakesParam() {
		s += " " + d.hint
	}
	return s
}

// checkSpellings validates spelling syntax before registration.
func (d *Descriptor) checkSpellings() error {
	if d.kind.IsPositional() || d.kind == SubParserEntry {
		if d.name == "" || strings.ContainsFunc(d.name, unicode.IsSpace) {
			return newError(KindRegistration, "malformed name %q", d.name)
		}
		return nil
	}
	if len(d.shorts) == 0 && len(d.longs) == 0 {
		return newError(KindRegistration, "option %q has no spelling", d.help)
	}
	for _, r := range d.shorts {
		if unicode.IsSpace(r) || r == '=' || r == '-' || r == 0 {
			return newError(KindRegistration, "malformed short spelling %q", r)
		}
	}
	for _, l := range d.longs {
		if l == "" || strings.HasPrefix(l, "-") || strings.ContainsRune(l, '=') ||
			strings.ContainsFunc(l, unicode.IsSpace) {
			return newError(KindRegistration, "malformed long spelling %q", l)
		}
	}
	return nil
}
