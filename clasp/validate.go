package clasp

import "strings"

// validator walks one parser's group tree. It only reads binding state, so
// running it again without re-parsing gives the same result.
type validator struct {
	p        *Parser
	required []string // memoized labels of every mandatory member of the root scope
	computed bool
}

// tally accumulates the mandatory members of an And scope, nested And
// groups included.
type tally struct {
	required []string
	given    []string
	missing  []string
	present  bool
}

func (v *validator) requiredLabels() []string {
	if !v.computed {
		var t tally
		collectRequired(v.p.root, &t)
		v.required = t.required
		v.computed = true
	}
	return v.required
}

func collectRequired(g *Group, t *tally) {
	for _, d := range g.descriptors {
		if d.IsMandatory() {
			t.required = append(t.required, d.Label())
		}
	}
	for _, c := range g.children {
		if c.logic == And {
			collectRequired(c, t)
		} else {
			t.required = append(t.required, c.label())
		}
	}
}

// validateXor accepts at most one resolved alternative among the direct
// descriptors and child groups of g. With allowEmpty unset, resolving none
// is an error. It returns the label of the chosen alternative.
func (v *validator) validateXor(g *Group, allowEmpty bool) (string, error) {
	chosen := ""
	for _, d := range g.descriptors {
		if !d.present() {
			continue
		}
		if chosen != "" {
			return "", exclusionError(chosen, d.Label(), g)
		}
		chosen = d.Label()
		if d.validate != nil {
			if err := d.validate(); err != nil {
				return "", err
			}
		}
	}
	for _, c := range g.children {
		var (
			label    string
			resolved bool
			err      error
		)
		if c.logic == And {
			resolved, err = v.validateAnd(c, true, chosen, g)
			label = c.label()
		} else {
			label, err = v.validateXor(c, true)
			resolved = label != ""
			if resolved {
				label = c.label()
			}
		}
		if err != nil {
			return "", err
		}
		if !resolved {
			continue
		}
		if chosen != "" {
			return "", exclusionError(chosen, label, g)
		}
		chosen = label
	}
	if chosen == "" && !allowEmpty {
		alts := g.alternatives()
		return "", newError(KindMissingMandatory,
			"none of the mutually exclusive options was given: %s", joinLabels(alts)).withAlternatives(alts)
	}
	return chosen, nil
}

// validateAnd checks the And scope rooted at g. chosen is the alternative
// already picked by the enclosing xor group, if any. In allowEmpty mode a scope
// where nothing was given is fine and reported as unresolved; a partially
// given scope is always an error.
func (v *validator) validateAnd(g *Group, allowEmpty bool, chosen string, xor *Group) (bool, error) {
	var t tally
	if err := v.collect(g, &t, allowEmpty, chosen, xor); err != nil {
		return false, err
	}
	switch {
	case len(t.given) == 0 && !t.present:
		if len(t.required) == 0 || allowEmpty {
			return false, nil
		}
		labels := v.requiredLabels()
		return false, newError(KindMissingMandatory,
			"none of the required options was given: %s", joinLabels(labels)).
			withOption(labels[0]).withAlternatives(labels)
	case len(t.given) < len(t.required):
		return false, newError(KindMissingMandatory,
			"missing mandatory options: %s", joinLabels(t.missing)).
			withOption(t.missing[0]).withAlternatives(t.missing)
	}
	return true, nil
}

func (v *validator) collect(g *Group, t *tally, allowEmpty bool, chosen string, xor *Group) error {
	for _, d := range g.descriptors {
		present := d.present()
		if present {
			t.present = true
		}
		if d.IsMandatory() {
			t.required = append(t.required, d.Label())
			switch {
			case present && chosen != "":
				return exclusionError(chosen, d.Label(), xor)
			case present:
				t.given = append(t.given, d.Label())
			default:
				t.missing = append(t.missing, d.Label())
			}
		}
		if d.validate != nil && present {
			if err := d.validate(); err != nil {
				return err
			}
		}
	}
	for _, c := range g.children {
		if c.logic == And {
			if err := v.collect(c, t, allowEmpty, chosen, xor); err != nil {
				return err
			}
			continue
		}
		label, err := v.validateXor(c, allowEmpty)
		if err != nil {
			return err
		}
		// a resolved Xor child counts as one given mandatory member
		t.required = append(t.required, c.label())
		if label != "" {
			t.present = true
			t.given = append(t.given, label)
		} else {
			t.missing = append(t.missing, c.label())
		}
	}
	return nil
}

func exclusionError(first, second string, g *Group) *Error {
	alts := g.alternatives()
	return newError(KindMutualExclusion, "%s and %s are mutually exclusive (choose one of: %s)",
		first, second, strings.Join(alts, ", ")).withOption(second).withAlternatives(alts)
}
