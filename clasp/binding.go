package clasp

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// decl collects the builder configuration shared by every binding shape.
type decl struct {
	scope   Scope
	shorts  []rune
	longs   []string
	name    string
	help    string
	purpose Purpose
	env     []string
	err     error
}

func (d *decl) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *decl) descriptor(kind Kind) (*Descriptor, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.scope == nil || d.scope.scope() == nil {
		return nil, newError(KindRegistration, "binding %q has no scope", d.help)
	}
	if kind.IsPositional() && (len(d.shorts) > 0 || len(d.longs) > 0) {
		return nil, newError(KindRegistration, "argument <%s> cannot have option spellings", d.name)
	}
	return &Descriptor{
		kind:    kind,
		shorts:  d.shorts,
		longs:   d.longs,
		name:    d.name,
		help:    d.help,
		purpose: d.purpose,
	}, nil
}

func longs(long string) []string {
	if long == "" {
		return nil
	}
	return []string{long}
}

// attach inserts d into the registration table of the scope's parser and
// appends it to the scope group.
func attach(sc Scope, d *Descriptor) error {
	g := sc.scope()
	if err := g.parser.reg.register(d); err != nil {
		return err
	}
	g.descriptors = append(g.descriptors, d)
	return nil
}

// lookupEnv returns the first non-empty variable among names.
func lookupEnv(names []string) (name, value string, ok bool) {
	for _, n := range names {
		if v, found := os.LookupEnv(n); found && v != "" {
			return n, v, true
		}
	}
	return "", "", false
}

func labelled(err error, label string) error {
	if e, ok := err.(*Error); ok {
		e.Message = label + ": " + e.Message
		e.Option = label
		return e
	}
	return err
}

func checkDefault[T Scalar](cons *constraintSet[T], label string) error {
	def, ok := cons.defaultValue()
	if !ok {
		return nil
	}
	if err := cons.check(def, label); err != nil {
		return newError(KindRegistration, "default value %s for %s violates its constraints: %v",
			format(def), label, err).withOption(label).withCause(err)
	}
	return nil
}

// Value is a scalar binding: a parameter-taking option or a single
// positional argument. Repeating the option overwrites the value.
type Value[T Scalar] struct {
	desc   *Descriptor
	cons   constraintSet[T]
	unit   time.Duration
	env    []string
	value  T
	given  bool
	envSet bool
}

// Given reports whether a matching token was consumed.
func (v *Value[T]) Given() bool { return v.given }

// HasValue reports whether Value would succeed.
func (v *Value[T]) HasValue() bool {
	return v.given || v.envSet || v.cons.hasDefault()
}

// Value returns the given, environment or default value, in that order.
func (v *Value[T]) Value() (T, error) {
	if v.given || v.envSet {
		return v.value, nil
	}
	if def, ok := v.cons.defaultValue(); ok {
		return def, nil
	}
	var zero T
	return zero, newError(KindValueUndefined, "no value for %s", v.desc.Label()).withOption(v.desc.Label())
}

// ValueOr returns the value, or def when there is none.
func (v *Value[T]) ValueOr(def T) T {
	if out, err := v.Value(); err == nil {
		return out
	}
	return def
}

// Descriptor returns the registered declaration.
func (v *Value[T]) Descriptor() *Descriptor { return v.desc }

func (v *Value[T]) found(param string) (*ExitRequest, error) {
	x, err := convertUnit[T](param, v.unit)
	if err != nil {
		return nil, labelled(err, v.desc.Label())
	}
	v.value = x
	v.given = true
	return nil, nil
}

func (v *Value[T]) fallback() error {
	if v.given {
		return nil
	}
	name, raw, ok := lookupEnv(v.env)
	if !ok {
		return nil
	}
	x, err := convertUnit[T](raw, v.unit)
	if err != nil {
		return labelled(err, "$"+name)
	}
	v.value = x
	v.envSet = true
	return nil
}

func (v *Value[T]) validate() error {
	if v.given || v.envSet {
		return v.cons.check(v.value, v.desc.Label())
	}
	return nil
}

func (v *Value[T]) reset() {
	var zero T
	v.value, v.given, v.envSet = zero, false, false
}

// ValueBuilder configures a Value before it is bound.
type ValueBuilder[T Scalar] struct {
	decl
	kind Kind
	cons []Constraint[T]
	unit time.Duration
}

// Option declares a scalar option spelled --long. Pass an empty long name
// for a short-only option.
func Option[T Scalar](sc Scope, long, help string) *ValueBuilder[T] {
	return &ValueBuilder[T]{
		decl: decl{scope: sc, longs: longs(long), help: help},
		kind: ScalarParam,
		unit: time.Second,
	}
}

// Arg declares a single positional argument.
func Arg[T Scalar](sc Scope, name, help string) *ValueBuilder[T] {
	return &ValueBuilder[T]{
		decl: decl{scope: sc, name: name, help: help},
		kind: SingleArg,
		unit: time.Second,
	}
}

// Short adds single-character spellings.
func (b *ValueBuilder[T]) Short(r ...rune) *ValueBuilder[T] {
	b.shorts = append(b.shorts, r...)
	return b
}

// Long adds long spellings.
func (b *ValueBuilder[T]) Long(names ...string) *ValueBuilder[T] {
	b.longs = append(b.longs, names...)
	return b
}

// Mandatory marks the binding as required.
func (b *ValueBuilder[T]) Mandatory() *ValueBuilder[T] {
	b.purpose = Mandatory
	return b
}

// Default sets the value used when the binding is never given.
func (b *ValueBuilder[T]) Default(value T) *ValueBuilder[T] {
	b.cons = append(b.cons, DefaultConstraint[T]{Value: value})
	return b
}

// Env reads the value from the first set environment variable when the
// binding is not given on the command line.
func (b *ValueBuilder[T]) Env(vars ...string) *ValueBuilder[T] {
	b.env = append(b.env, vars...)
	return b
}

// Unit sets the unit of integer duration tokens (default: time.Second).
func (b *ValueBuilder[T]) Unit(d time.Duration) *ValueBuilder[T] {
	if d <= 0 {
		b.fail(newError(KindRegistration, "invalid duration unit %s", d))
		return b
	}
	b.unit = d
	return b
}

// Check adds a custom validation function.
func (b *ValueBuilder[T]) Check(fn func(T) error) *ValueBuilder[T] {
	b.cons = append(b.cons, FuncConstraint[T]{Fn: fn})
	return b
}

// With attaches constraint plugins.
func (b *ValueBuilder[T]) With(c ...Constraint[T]) *ValueBuilder[T] {
	b.cons = append(b.cons, c...)
	return b
}

// Bind registers the binding with its scope.
func (b *ValueBuilder[T]) Bind() (*Value[T], error) {
	d, err := b.descriptor(b.kind)
	if err != nil {
		return nil, err
	}
	v := &Value[T]{unit: b.unit, env: b.env}
	for _, c := range b.cons {
		v.cons.add(c)
	}
	if err := checkDefault(&v.cons, d.Label()); err != nil {
		return nil, err
	}
	d.hint = paramHint[T]()
	d.restrictions = v.cons.restrictions()
	d.given = v.Given
	d.found = v.found
	d.reset = v.reset
	if v.cons.hasChecks() {
		d.validate = v.validate
	}
	if len(v.env) > 0 {
		d.fromEnv = func() bool { return v.envSet }
		d.fallback = v.fallback
		d.restrictions = append(d.restrictions, "env: "+strings.Join(v.env, ", "))
	}
	if err := attach(b.scope, d); err != nil {
		return nil, err
	}
	v.desc = d
	return v, nil
}

// Range requires lo <= value <= hi. lo must be strictly below hi.
func Range[T Ordered](b *ValueBuilder[T], lo, hi T) *ValueBuilder[T] {
	c, err := NewRange(lo, hi)
	if err != nil {
		b.fail(err)
		return b
	}
	return b.With(c)
}

// OneOf restricts the value to the given set.
func OneOf[T Scalar](b *ValueBuilder[T], values ...T) *ValueBuilder[T] {
	return b.With(OneOfConstraint[T]{Values: values})
}

// Exists requires the value to name an existing file or directory.
func Exists[T ~string](b *ValueBuilder[T]) *ValueBuilder[T] {
	return b.With(ExistsConstraint[T]{})
}

// List is a vector binding: a repeatable option or a variadic positional
// argument. Every occurrence appends.
type List[T Scalar] struct {
	desc   *Descriptor
	cons   constraintSet[T]
	unit   time.Duration
	env    []string
	values []T
	given  bool
	envSet bool
}

// Given reports whether at least one matching token was consumed.
func (l *List[T]) Given() bool { return l.given }

// HasValue reports whether the list holds at least one element.
func (l *List[T]) HasValue() bool { return len(l.values) > 0 }

// Value returns a copy of the collected values; an empty list is not an
// error.
func (l *List[T]) Value() ([]T, error) {
	out := make([]T, len(l.values))
	copy(out, l.values)
	return out, nil
}

// ValueOr returns the values, or def when the list is empty.
func (l *List[T]) ValueOr(def []T) []T {
	if len(l.values) == 0 {
		return def
	}
	out, _ := l.Value()
	return out
}

// Len returns the number of collected values.
func (l *List[T]) Len() int { return len(l.values) }

// Descriptor returns the registered declaration.
func (l *List[T]) Descriptor() *Descriptor { return l.desc }

func (l *List[T]) found(param string) (*ExitRequest, error) {
	x, err := convertUnit[T](param, l.unit)
	if err != nil {
		return nil, labelled(err, l.desc.Label())
	}
	l.values = append(l.values, x)
	l.given = true
	return nil, nil
}

// fallback splits the environment value on commas.
func (l *List[T]) fallback() error {
	if l.given {
		return nil
	}
	name, raw, ok := lookupEnv(l.env)
	if !ok {
		return nil
	}
	for _, part := range strings.Split(raw, ",") {
		x, err := convertUnit[T](strings.TrimSpace(part), l.unit)
		if err != nil {
			l.values = nil
			return labelled(err, "$"+name)
		}
		l.values = append(l.values, x)
	}
	l.envSet = true
	return nil
}

func (l *List[T]) validate() error {
	for _, x := range l.values {
		if err := l.cons.check(x, l.desc.Label()); err != nil {
			return err
		}
	}
	return nil
}

func (l *List[T]) reset() {
	l.values, l.given, l.envSet = nil, false, false
}

// ListBuilder configures a List before it is bound. Lists never take a
// default: an empty list and an absent one differ only in Given.
type ListBuilder[T Scalar] struct {
	decl
	kind Kind
	cons []Constraint[T]
	unit time.Duration
}

// Options declares a repeatable option spelled --long.
func Options[T Scalar](sc Scope, long, help string) *ListBuilder[T] {
	return &ListBuilder[T]{
		decl: decl{scope: sc, longs: longs(long), help: help},
		kind: VectorParam,
		unit: time.Second,
	}
}

// Args declares a variadic positional argument. It must be the last
// positional argument of its parser.
func Args[T Scalar](sc Scope, name, help string) *ListBuilder[T] {
	return &ListBuilder[T]{
		decl: decl{scope: sc, name: name, help: help},
		kind: VariadicArg,
		unit: time.Second,
	}
}

// Short adds single-character spellings.
func (b *ListBuilder[T]) Short(r ...rune) *ListBuilder[T] {
	b.shorts = append(b.shorts, r...)
	return b
}

// Long adds long spellings.
func (b *ListBuilder[T]) Long(names ...string) *ListBuilder[T] {
	b.longs = append(b.longs, names...)
	return b
}

// Mandatory marks the binding as required.
func (b *ListBuilder[T]) Mandatory() *ListBuilder[T] {
	b.purpose = Mandatory
	return b
}

// Env reads a comma-separated list from the first set environment variable
// when the binding is not given on the command line.
func (b *ListBuilder[T]) Env(vars ...string) *ListBuilder[T] {
	b.env = append(b.env, vars...)
	return b
}

// Unit sets the unit of integer duration tokens (default: time.Second).
func (b *ListBuilder[T]) Unit(d time.Duration) *ListBuilder[T] {
	if d <= 0 {
		b.fail(newError(KindRegistration, "invalid duration unit %s", d))
		return b
	}
	b.unit = d
	return b
}

// Check adds a custom validation function applied to every element.
func (b *ListBuilder[T]) Check(fn func(T) error) *ListBuilder[T] {
	b.cons = append(b.cons, FuncConstraint[T]{Fn: fn})
	return b
}

// With attaches constraint plugins applied to every element.
func (b *ListBuilder[T]) With(c ...Constraint[T]) *ListBuilder[T] {
	b.cons = append(b.cons, c...)
	return b
}

// Bind registers the binding with its scope.
func (b *ListBuilder[T]) Bind() (*List[T], error) {
	d, err := b.descriptor(b.kind)
	if err != nil {
		return nil, err
	}
	l := &List[T]{unit: b.unit, env: b.env}
	for _, c := range b.cons {
		l.cons.add(c)
	}
	if l.cons.hasDefault() {
		return nil, newError(KindRegistration, "%s: repeatable options and variadic arguments cannot have a default value",
			d.Label()).withOption(d.Label())
	}
	d.hint = paramHint[T]()
	d.restrictions = l.cons.restrictions()
	d.given = l.Given
	d.found = l.found
	d.reset = l.reset
	if l.cons.hasChecks() {
		d.validate = l.validate
	}
	if len(l.env) > 0 {
		d.fromEnv = func() bool { return l.envSet }
		d.fallback = l.fallback
		d.restrictions = append(d.restrictions, "env: "+strings.Join(l.env, ", "))
	}
	if err := attach(b.scope, d); err != nil {
		return nil, err
	}
	l.desc = d
	return l, nil
}

// RangeEach requires lo <= x <= hi for every element.
func RangeEach[T Ordered](b *ListBuilder[T], lo, hi T) *ListBuilder[T] {
	c, err := NewRange(lo, hi)
	if err != nil {
		b.fail(err)
		return b
	}
	return b.With(c)
}

// OneOfEach restricts every element to the given set.
func OneOfEach[T Scalar](b *ListBuilder[T], values ...T) *ListBuilder[T] {
	return b.With(OneOfConstraint[T]{Values: values})
}

// ExistsEach requires every element to name an existing path.
func ExistsEach[T ~string](b *ListBuilder[T]) *ListBuilder[T] {
	return b.With(ExistsConstraint[T]{})
}

// Switch is a boolean option that takes no parameter.
type Switch struct {
	desc   *Descriptor
	def    bool
	hasDef bool
	env    []string
	value  bool
	given  bool
	envSet bool
}

// Given reports whether the switch appeared on the command line.
func (s *Switch) Given() bool { return s.given }

// HasValue reports whether the switch was given, set from the environment
// or has a default.
func (s *Switch) HasValue() bool { return s.given || s.envSet || s.hasDef }

// Value returns true when given, the environment or default value
// otherwise, and false when there is none.
func (s *Switch) Value() bool {
	if s.given || s.envSet {
		return s.value
	}
	return s.def
}

// Descriptor returns the registered declaration.
func (s *Switch) Descriptor() *Descriptor { return s.desc }

func (s *Switch) found(string) (*ExitRequest, error) {
	s.value, s.given = true, true
	return nil, nil
}

func (s *Switch) fallback() error {
	if s.given {
		return nil
	}
	name, raw, ok := lookupEnv(s.env)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return newError(KindConversion, "$%s: cannot convert %q to bool: invalid syntax", name, raw).
			withOption("$" + name).withCause(err)
	}
	s.value, s.envSet = b, true
	return nil
}

func (s *Switch) reset() {
	s.value, s.given, s.envSet = false, false, false
}

// SwitchBuilder configures a Switch before it is bound.
type SwitchBuilder struct {
	decl
	def    bool
	hasDef bool
}

// Flag declares a boolean switch spelled --long.
func Flag(sc Scope, long, help string) *SwitchBuilder {
	return &SwitchBuilder{decl: decl{scope: sc, longs: longs(long), help: help}}
}

// Short adds single-character spellings.
func (b *SwitchBuilder) Short(r ...rune) *SwitchBuilder {
	b.shorts = append(b.shorts, r...)
	return b
}

// Long adds long spellings.
func (b *SwitchBuilder) Long(names ...string) *SwitchBuilder {
	b.longs = append(b.longs, names...)
	return b
}

// Mandatory marks the switch as required.
func (b *SwitchBuilder) Mandatory() *SwitchBuilder {
	b.purpose = Mandatory
	return b
}

// Default sets the value reported when the switch is absent.
func (b *SwitchBuilder) Default(v bool) *SwitchBuilder {
	b.def, b.hasDef = v, true
	return b
}

// Env reads a boolean from the first set environment variable.
func (b *SwitchBuilder) Env(vars ...string) *SwitchBuilder {
	b.env = append(b.env, vars...)
	return b
}

// Bind registers the switch with its scope.
func (b *SwitchBuilder) Bind() (*Switch, error) {
	d, err := b.descriptor(NoParam)
	if err != nil {
		return nil, err
	}
	s := &Switch{def: b.def, hasDef: b.hasDef, env: b.env}
	if b.hasDef {
		d.restrictions = append(d.restrictions, "default: "+strconv.FormatBool(b.def))
	}
	d.given = s.Given
	d.found = s.found
	d.reset = s.reset
	if len(s.env) > 0 {
		d.fromEnv = func() bool { return s.envSet }
		d.fallback = s.fallback
		d.restrictions = append(d.restrictions, "env: "+strings.Join(s.env, ", "))
	}
	if err := attach(b.scope, d); err != nil {
		return nil, err
	}
	s.desc = d
	return s, nil
}

// Counter counts the occurrences of a no-parameter option, as in -vvv.
type Counter struct {
	desc  *Descriptor
	count int
}

// Given reports whether the option appeared at least once.
func (c *Counter) Given() bool { return c.count > 0 }

// HasValue reports whether the count is non-zero.
func (c *Counter) HasValue() bool { return c.count > 0 }

// Count returns the number of occurrences.
func (c *Counter) Count() int { return c.count }

// Descriptor returns the registered declaration.
func (c *Counter) Descriptor() *Descriptor { return c.desc }

func (c *Counter) found(string) (*ExitRequest, error) {
	c.count++
	return nil, nil
}

// CounterBuilder configures a Counter before it is bound.
type CounterBuilder struct {
	decl
}

// Count declares a counting option spelled --long.
func Count(sc Scope, long, help string) *CounterBuilder {
	return &CounterBuilder{decl: decl{scope: sc, longs: longs(long), help: help}}
}

// Short adds single-character spellings.
func (b *CounterBuilder) Short(r ...rune) *CounterBuilder {
	b.shorts = append(b.shorts, r...)
	return b
}

// Long adds long spellings.
func (b *CounterBuilder) Long(names ...string) *CounterBuilder {
	b.longs = append(b.longs, names...)
	return b
}

// Mandatory marks the option as required.
func (b *CounterBuilder) Mandatory() *CounterBuilder {
	b.purpose = Mandatory
	return b
}

// Bind registers the counter with its scope.
func (b *CounterBuilder) Bind() (*Counter, error) {
	d, err := b.descriptor(NoParam)
	if err != nil {
		return nil, err
	}
	c := &Counter{}
	d.given = c.Given
	d.found = c.found
	d.reset = func() { c.count = 0 }
	if err := attach(b.scope, d); err != nil {
		return nil, err
	}
	c.desc = d
	return c, nil
}

// Action is a no-parameter option that runs a callback when seen. The
// callback may return an exit request to end parsing early.
type Action struct {
	desc  *Descriptor
	fn    func() *ExitRequest
	given bool
}

// Given reports whether the action ran.
func (a *Action) Given() bool { return a.given }

// Descriptor returns the registered declaration.
func (a *Action) Descriptor() *Descriptor { return a.desc }

func (a *Action) found(string) (*ExitRequest, error) {
	a.given = true
	if a.fn == nil {
		return nil, nil
	}
	return a.fn(), nil
}

// ActionBuilder configures an Action before it is bound.
type ActionBuilder struct {
	decl
	fn func() *ExitRequest
}

// Trigger declares an option spelled --long that calls fn when seen.
func Trigger(sc Scope, long, help string, fn func() *ExitRequest) *ActionBuilder {
	return &ActionBuilder{decl: decl{scope: sc, longs: longs(long), help: help}, fn: fn}
}

// Short adds single-character spellings.
func (b *ActionBuilder) Short(r ...rune) *ActionBuilder {
	b.shorts = append(b.shorts, r...)
	return b
}

// Long adds long spellings.
func (b *ActionBuilder) Long(names ...string) *ActionBuilder {
	b.longs = append(b.longs, names...)
	return b
}

// Bind registers the action with its scope.
func (b *ActionBuilder) Bind() (*Action, error) {
	d, err := b.descriptor(NoParam)
	if err != nil {
		return nil, err
	}
	a := &Action{fn: b.fn}
	d.given = a.Given
	d.found = a.found
	d.reset = func() { a.given = false }
	if err := attach(b.scope, d); err != nil {
		return nil, err
	}
	a.desc = d
	return a, nil
}
