package clasp

// registry is a parser's registration table. Keys are unique within one
// parser; a child parser keeps its own table.
type registry struct {
	shorts      map[rune]*Descriptor
	longs       map[string]*Descriptor
	positionals []*Descriptor
	subs        map[string]*Parser
	subOrder    []string
	all         []*Descriptor
}

func newRegistry() *registry {
	return &registry{
		shorts: make(map[rune]*Descriptor),
		longs:  make(map[string]*Descriptor),
		subs:   make(map[string]*Parser),
	}
}

// register validates d against the table and inserts it. Nothing is
// inserted when an error is returned.
func (r *registry) register(d *Descriptor) error {
	if err := d.checkSpellings(); err != nil {
		return err
	}
	switch {
	case d.kind.IsPositional():
		if err := r.checkPositional(d); err != nil {
			return err
		}
		r.positionals = append(r.positionals, d)
	case d.kind == SubParserEntry:
		// handled by addSub
	default:
		if err := r.checkOption(d); err != nil {
			return err
		}
		for _, s := range d.shorts {
			r.shorts[s] = d
		}
		for _, l := range d.longs {
			r.longs[l] = d
		}
	}
	r.all = append(r.all, d)
	return nil
}

func (r *registry) checkOption(d *Descriptor) error {
	seen := make(map[string]bool, len(d.shorts)+len(d.longs))
	for _, s := range d.shorts {
		if _, dup := r.shorts[s]; dup || seen["-"+string(s)] {
			return newError(KindRegistration, "duplicate short option -%c", s).withOption(d.Label())
		}
		seen["-"+string(s)] = true
	}
	for _, l := range d.longs {
		if _, dup := r.longs[l]; dup || seen["--"+l] {
			return newError(KindRegistration, "duplicate long option --%s", l).withOption(d.Label())
		}
		seen["--"+l] = true
	}
	return nil
}

func (r *registry) checkPositional(d *Descriptor) error {
	for _, prev := range r.positionals {
		if prev.name == d.name {
			return newError(KindRegistration, "duplicate argument name %q", d.name).withOption(d.Label())
		}
	}
	if n := len(r.positionals); n > 0 && r.positionals[n-1].kind == VariadicArg {
		return newError(KindRegistration, "argument %s cannot follow variadic argument %s",
			d.Label(), r.positionals[n-1].Label()).withOption(d.Label())
	}
	if len(r.subs) > 0 {
		if d.kind == VariadicArg {
			return newError(KindRegistration, "variadic argument %s cannot be mixed with sub-parsers", d.Label()).
				withOption(d.Label())
		}
		if d.purpose == Optional {
			return newError(KindRegistration, "optional argument %s cannot be mixed with sub-parsers", d.Label()).
				withOption(d.Label())
		}
	}
	return nil
}

func (r *registry) addSub(name string, child *Parser) error {
	if _, dup := r.subs[name]; dup {
		return newError(KindRegistration, "duplicate sub-parser %q", name).withOption(name)
	}
	for _, d := range r.positionals {
		if d.kind == VariadicArg {
			return newError(KindRegistration, "sub-parser %q cannot be mixed with variadic argument %s",
				name, d.Label()).withOption(name)
		}
		if d.purpose == Optional {
			return newError(KindRegistration, "sub-parser %q cannot be mixed with optional argument %s",
				name, d.Label()).withOption(name)
		}
	}
	r.subs[name] = child
	r.subOrder = append(r.subOrder, name)
	return nil
}

// longSpellings returns every long spelling with its dashes, in
// registration order, for suggestions.
func (r *registry) longSpellings() []string {
	out := make([]string, 0, len(r.longs))
	for _, d := range r.all {
		for _, l := range d.longs {
			out = append(out, "--"+l)
		}
	}
	return out
}

func (r *registry) subNames() []string {
	return append([]string(nil), r.subOrder...)
}
