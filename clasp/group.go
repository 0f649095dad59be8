package clasp

import "strings"

// Logic is the operator of an option group.
type Logic int

const (
	// And requires every mandatory member.
	And Logic = iota
	// Xor accepts exactly one alternative.
	Xor
)

func (l Logic) String() string {
	if l == Xor {
		return "xor"
	}
	return "and"
}

// Scope is where a binding is registered: a *Parser (its root group) or
// one of its *Group nodes.
type Scope interface {
	scope() *Group
}

// Group is a node of a parser's option-container tree. The root of every
// parser is an And group; Xor children express mutual exclusion and And
// children inside an Xor express "these together" alternatives.
type Group struct {
	logic       Logic
	name        string
	parser      *Parser
	descriptors []*Descriptor
	children    []*Group
}

func newGroup(p *Parser, logic Logic, name string) *Group {
	return &Group{logic: logic, name: name, parser: p}
}

func (g *Group) scope() *Group { return g }

// And adds a nested And group.
func (g *Group) And(name string) *Group {
	child := newGroup(g.parser, And, name)
	g.children = append(g.children, child)
	return child
}

// Xor adds a nested mutually exclusive group.
func (g *Group) Xor(name string) *Group {
	child := newGroup(g.parser, Xor, name)
	g.children = append(g.children, child)
	return child
}

// SubParser registers a sub-parser whose entry lives in this group, so that
// it can take part in the group's logic.
func (g *Group) SubParser(name, help string) (*Parser, error) {
	return g.parser.newSubParser(g, name, help)
}

// Logic returns the group operator.
func (g *Group) Logic() Logic { return g.logic }

// Name returns the group name used in help output.
func (g *Group) Name() string { return g.name }

// Parser returns the owning parser.
func (g *Group) Parser() *Parser { return g.parser }

// Descriptors returns the direct members in registration order.
func (g *Group) Descriptors() []*Descriptor { return g.descriptors }

// Groups returns the direct child groups in creation order.
func (g *Group) Groups() []*Group { return g.children }

// walk visits every descriptor in the subtree, descriptors before children.
func (g *Group) walk(fn func(*Descriptor)) {
	for _, d := range g.descriptors {
		fn(d)
	}
	for _, c := range g.children {
		c.walk(fn)
	}
}

// alternatives lists the choices of an Xor group as labels. And children
// are rendered as "(a and b)".
func (g *Group) alternatives() []string {
	out := make([]string, 0, len(g.descriptors)+len(g.children))
	for _, d := range g.descriptors {
		out = append(out, d.Label())
	}
	for _, c := range g.children {
		out = append(out, c.label())
	}
	return out
}

// label is the compact form of a whole group in error messages.
func (g *Group) label() string {
	parts := make([]string, 0, len(g.descriptors)+len(g.children))
	for _, d := range g.descriptors {
		parts = append(parts, d.Label())
	}
	for _, c := range g.children {
		parts = append(parts, c.label())
	}
	if g.logic == Xor {
		return "(" + strings.Join(parts, " | ") + ")"
	}
	return "(" + strings.Join(parts, " and ") + ")"
}

// Usage returns the usage-line fragment for the group, e.g.
// "-o --string <string> (--i32 <int32> | --u32 <uint32>)".
func (g *Group) Usage() string {
	parts := make([]string, 0, len(g.descriptors)+len(g.children))
	for _, d := range g.descriptors {
		if d.kind.IsPositional() {
			continue
		}
		parts = append(parts, g.member(d))
	}
	for _, c := range g.children {
		if u := c.Usage(); u != "" {
			if c.logic == And && g.logic == And {
				parts = append(parts, u)
			} else {
				parts = append(parts, "("+u+")")
			}
		}
	}
	// positionals come last so that the line reads in argv order
	for _, d := range g.descriptors {
		if d.kind.IsPositional() {
			parts = append(parts, g.member(d))
		}
	}
	sep := " "
	if g.logic == Xor {
		sep = " | "
	}
	return strings.Join(parts, sep)
}

func (g *Group) member(d *Descriptor) string {
	if g.logic == Xor {
		return d.usageCore()
	}
	return d.usage()
}
