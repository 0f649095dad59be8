package clasp

import (
	"io"
	"os"
	"strings"
)

// Parser owns a registration table and an option-container tree. A parser
// created with SubParser is bound into its parent as a named alternative
// and activated when its name appears among the parent's positional tokens.
type Parser struct {
	name string
	help string

	reg  *registry
	root *Group

	parent    *Parser
	entry     *Descriptor // this parser's entry in the parent
	commands  *Group      // implicit Xor group from RequireSubParser
	passBack  bool
	active    bool
	activeSub *Parser

	out io.Writer
}

// NewParser returns a root parser. name is the program name used in usage
// lines.
func NewParser(name, help string) *Parser {
	p := &Parser{name: name, help: help, reg: newRegistry()}
	p.root = newGroup(p, And, "")
	return p
}

func (p *Parser) scope() *Group {
	if p == nil {
		return nil
	}
	return p.root
}

// Name returns the program or sub-parser name.
func (p *Parser) Name() string { return p.name }

// Help returns the description given at construction.
func (p *Parser) Help() string { return p.help }

// Root returns the root And group.
func (p *Parser) Root() *Group { return p.root }

// Parent returns the enclosing parser, or nil for a root parser.
func (p *Parser) Parent() *Parser { return p.parent }

// Path returns the space-separated chain of parser names from the root.
func (p *Parser) Path() string {
	if p.parent == nil {
		return p.name
	}
	return p.parent.Path() + " " + p.name
}

// And adds an And group under the root group.
func (p *Parser) And(name string) *Group { return p.root.And(name) }

// Xor adds a mutually exclusive group under the root group.
func (p *Parser) Xor(name string) *Group { return p.root.Xor(name) }

// SubParser creates a child parser activated by the token name.
func (p *Parser) SubParser(name, help string) (*Parser, error) {
	g := p.root
	if p.commands != nil {
		g = p.commands
	}
	return p.newSubParser(g, name, help)
}

func (p *Parser) newSubParser(g *Group, name, help string) (*Parser, error) {
	child := NewParser(name, help)
	child.parent = p
	d := &Descriptor{
		kind:  SubParserEntry,
		name:  name,
		help:  help,
		given: func() bool { return child.active },
	}
	if err := d.checkSpellings(); err != nil {
		return nil, err
	}
	if err := p.reg.addSub(name, child); err != nil {
		return nil, err
	}
	if err := p.reg.register(d); err != nil {
		return nil, err
	}
	g.descriptors = append(g.descriptors, d)
	child.entry = d
	return child, nil
}

// PassBack makes a sub-parser stop at the first token it cannot use and
// hand the rest of the stream back to its parent. By default a sub-parser
// owns everything after its name.
func (p *Parser) PassBack() *Parser {
	p.passBack = true
	return p
}

// RequireSubParser makes choosing exactly one sub-parser mandatory. Sub-
// parsers registered through p.SubParser, before or after this call, are
// placed in an implicit Xor group.
func (p *Parser) RequireSubParser() *Parser {
	if p.commands != nil {
		return p
	}
	p.commands = p.root.Xor("commands")
	kept := p.root.descriptors[:0]
	for _, d := range p.root.descriptors {
		if d.kind == SubParserEntry {
			p.commands.descriptors = append(p.commands.descriptors, d)
			continue
		}
		kept = append(kept, d)
	}
	p.root.descriptors = kept
	return p
}

// Output sets the writer used by help and version triggers. Sub-parsers
// inherit it.
func (p *Parser) Output(w io.Writer) *Parser {
	p.out = w
	return p
}

func (p *Parser) output() io.Writer {
	for q := p; q != nil; q = q.parent {
		if q.out != nil {
			return q.out
		}
	}
	return os.Stdout
}

// Entry returns the descriptor that represents a sub-parser in its
// parent, or nil for a root parser.
func (p *Parser) Entry() *Descriptor { return p.entry }

// Active reports whether the sub-parser's name was seen. A root parser is
// never active.
func (p *Parser) Active() bool { return p.active }

// Given is an alias of Active.
func (p *Parser) Given() bool { return p.active }

// ActiveSubParser returns the activated child, or nil.
func (p *Parser) ActiveSubParser() *Parser { return p.activeSub }

// SubParsers returns the children in registration order.
func (p *Parser) SubParsers() []*Parser {
	out := make([]*Parser, 0, len(p.reg.subOrder))
	for _, name := range p.reg.subOrder {
		out = append(out, p.reg.subs[name])
	}
	return out
}

// Descriptors returns every registered descriptor in registration order.
func (p *Parser) Descriptors() []*Descriptor { return p.reg.all }

// Usage returns the usage line, e.g. "prog cmd1 [--verbose] <file>".
func (p *Parser) Usage() string {
	parts := []string{p.Path()}
	if u := p.root.Usage(); u != "" {
		parts = append(parts, u)
	}
	return strings.Join(parts, " ")
}

// Parse tokenizes args (without the program name) and validates the
// result. A non-nil exit request means a callback asked to stop early; the
// bindings are then only partially populated and were not validated.
//
// Every call starts from a clean slate, so a parser can be reused.
func (p *Parser) Parse(args []string) (*ExitRequest, error) {
	p.reset()
	if _, req, err := p.consume(args); err != nil || req != nil {
		return req, err
	}
	if err := p.fallback(); err != nil {
		return nil, err
	}
	return nil, p.Validate()
}

// ParseOS parses os.Args[1:].
func (p *Parser) ParseOS() (*ExitRequest, error) {
	return p.Parse(os.Args[1:])
}

// Validate walks the group tree of p and then of the active sub-parser
// chain. It does not modify any binding.
func (p *Parser) Validate() error {
	v := &validator{p: p}
	if _, err := v.validateAnd(p.root, false, "", nil); err != nil {
		return err
	}
	if p.activeSub != nil {
		return p.activeSub.Validate()
	}
	return nil
}

func (p *Parser) consume(args []string) ([]string, *ExitRequest, error) {
	t := &tokenizer{p: p, args: args}
	return t.run()
}

// fallback resolves environment fallbacks for p and its active chain.
func (p *Parser) fallback() error {
	for _, d := range p.reg.all {
		if d.fallback == nil {
			continue
		}
		if err := d.fallback(); err != nil {
			return err
		}
	}
	if p.activeSub != nil {
		return p.activeSub.fallback()
	}
	return nil
}

func (p *Parser) reset() {
	for _, d := range p.reg.all {
		if d.reset != nil {
			d.reset()
		}
	}
	p.active = false
	p.activeSub = nil
	for _, sub := range p.reg.subs {
		sub.reset()
	}
}
