package clasp

import "strings"

// tokenizer walks one parser's share of the argument stream left to right.
type tokenizer struct {
	p      *Parser
	args   []string
	pos    int
	slot   int  // next positional slot
	noMore bool // "--" seen: every later token is positional
}

// run consumes tokens until the stream ends, an exit is requested or, for
// a pass-back sub-parser, a token it cannot use is reached. The unconsumed
// tail is returned for the parent.
func (t *tokenizer) run() ([]string, *ExitRequest, error) {
	for t.pos < len(t.args) {
		arg := t.args[t.pos]

		if t.p.passBack && !t.usable(arg) {
			return t.args[t.pos:], nil, nil
		}

		var (
			req *ExitRequest
			err error
		)
		switch {
		case !t.noMore && arg == "--":
			t.noMore = true
		case !t.noMore && len(arg) >= 3 && arg[0] == '-' && arg[1] == '-':
			req, err = t.parseLong(arg[2:])
		case !t.noMore && len(arg) >= 2 && arg[0] == '-':
			req, err = t.parseShort(arg[1:])
		default:
			var done bool
			done, req, err = t.parsePositional(arg)
			if done {
				return nil, req, err
			}
		}
		if err != nil || req != nil {
			return nil, req, err
		}
		t.pos++
	}
	return nil, nil, nil
}

// usable reports whether this parser can consume arg.
func (t *tokenizer) usable(arg string) bool {
	switch {
	case !t.noMore && arg == "--":
		return true
	case !t.noMore && len(arg) >= 3 && arg[0] == '-' && arg[1] == '-':
		name, _, _ := strings.Cut(arg[2:], "=")
		_, ok := t.p.reg.longs[name]
		return ok
	case !t.noMore && len(arg) >= 2 && arg[0] == '-':
		r := []rune(arg[1:])[0]
		_, ok := t.p.reg.shorts[r]
		return ok
	}
	if t.hasSlot() {
		return true
	}
	_, ok := t.p.reg.subs[arg]
	return ok && t.p.activeSub == nil
}

// parseLong handles --name and --name=value.
func (t *tokenizer) parseLong(body string) (*ExitRequest, error) {
	name, param, inline := strings.Cut(body, "=")
	d, ok := t.p.reg.longs[name]
	if !ok {
		return nil, unknownTokenError("option", "--"+name, t.p.reg.longSpellings())
	}
	if !d.kind.TakesParam() {
		if inline {
			return nil, newError(KindUnexpectedParameter, "option --%s does not take a parameter", name).
				withOption(d.Label())
		}
		return d.found("")
	}
	if !inline {
		next, ok := t.next()
		if !ok {
			return nil, newError(KindMissingParameter, "option --%s requires a parameter %s", name, d.hint).
				withOption(d.Label())
		}
		param = next
	}
	return d.found(param)
}

// parseShort handles a bundle of short options: -ab, -ab value, -ab=value.
// Only the last option of a bundle may take its parameter from the next
// token.
func (t *tokenizer) parseShort(body string) (*ExitRequest, error) {
	runes := []rune(body)
	last := len(runes) - 1
	for i, r := range runes {
		d, ok := t.p.reg.shorts[r]
		if !ok {
			return nil, unknownTokenError("option", "-"+string(r), nil)
		}
		if i < last && runes[i+1] == '=' {
			if !d.kind.TakesParam() {
				return nil, newError(KindUnexpectedParameter, "option -%c does not take a parameter", r).
					withOption(d.Label())
			}
			return d.found(string(runes[i+2:]))
		}
		if !d.kind.TakesParam() {
			if req, err := d.found(""); err != nil || req != nil {
				return req, err
			}
			continue
		}
		if i != last {
			return nil, newError(KindMissingParameter,
				"option -%c requires a parameter %s and must end its bundle", r, d.hint).withOption(d.Label())
		}
		next, ok := t.next()
		if !ok {
			return nil, newError(KindMissingParameter, "option -%c requires a parameter %s", r, d.hint).
				withOption(d.Label())
		}
		return d.found(next)
	}
	return nil, nil
}

// parsePositional feeds the next slot, or dispatches into a sub-parser.
// done is set once the rest of the stream has been handled elsewhere.
func (t *tokenizer) parsePositional(arg string) (done bool, req *ExitRequest, err error) {
	if t.hasSlot() {
		d := t.p.reg.positionals[t.slot]
		if d.kind != VariadicArg {
			t.slot++
		}
		req, err = d.found(arg)
		return false, req, err
	}

	sub, ok := t.p.reg.subs[arg]
	if !ok {
		if len(t.p.reg.subs) == 0 {
			return true, nil, newError(KindUnknownToken, "unexpected argument: %s", arg).withOption(arg)
		}
		return true, nil, unknownTokenError("sub-parser", arg, t.p.reg.subNames())
	}
	if prev := t.p.activeSub; prev != nil {
		return true, nil, newError(KindMutualExclusion, "sub-parsers %s and %s cannot be used together",
			prev.name, sub.name).withOption(sub.name).withAlternatives(t.p.reg.subNames())
	}

	t.p.activeSub = sub
	sub.active = true
	rest, req, err := sub.consume(t.args[t.pos+1:])
	if err != nil || req != nil {
		return true, req, err
	}
	// the child handed back what it could not use
	t.args = rest
	t.pos = -1
	return false, nil, nil
}

// hasSlot reports whether a positional slot is left. A variadic slot never
// fills up.
func (t *tokenizer) hasSlot() bool {
	return t.slot < len(t.p.reg.positionals)
}

// next consumes the following token as a parameter.
func (t *tokenizer) next() (string, bool) {
	if t.pos+1 >= len(t.args) {
		return "", false
	}
	t.pos++
	return t.args[t.pos], true
}
