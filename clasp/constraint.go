package clasp

import (
	"errors"
	"os"
	"strings"
)

// Constraint is a restriction attached to a binding. Restriction returns
// the text shown in help and error messages.
//
// A constraint may additionally implement Defaulter to supply a default
// value and Checker to validate a present value.
type Constraint[T Scalar] interface {
	Restriction() string
}

// Defaulter supplies the value used when an option is never given.
type Defaulter[T Scalar] interface {
	DefaultValue() T
}

// Checker validates a present value. label names the option in errors.
type Checker[T Scalar] interface {
	Check(value T, label string) error
}

// DefaultConstraint provides a default value.
type DefaultConstraint[T Scalar] struct {
	Value T
}

func (c DefaultConstraint[T]) Restriction() string { return "default: " + format(c.Value) }
func (c DefaultConstraint[T]) DefaultValue() T     { return c.Value }

// RangeConstraint requires Min <= value <= Max.
type RangeConstraint[T Ordered] struct {
	Min, Max T
}

// NewRange validates the bounds; min must be strictly below max.
func NewRange[T Ordered](lo, hi T) (RangeConstraint[T], error) {
	if !(lo < hi) {
		return RangeConstraint[T]{}, newError(KindRegistration,
			"invalid range: min %s must be less than max %s", format(lo), format(hi))
	}
	return RangeConstraint[T]{Min: lo, Max: hi}, nil
}

func (c RangeConstraint[T]) Restriction() string {
	return "range: " + format(c.Min) + ".." + format(c.Max)
}

func (c RangeConstraint[T]) Check(value T, label string) error {
	if value < c.Min || value > c.Max {
		return newError(KindConstraint, "value %s for %s is not within range [%s, %s]",
			format(value), label, format(c.Min), format(c.Max)).withOption(label)
	}
	return nil
}

// ExistsConstraint requires the value to name an existing file or directory.
type ExistsConstraint[T ~string] struct{}

func (ExistsConstraint[T]) Restriction() string { return "must exist" }

func (ExistsConstraint[T]) Check(value T, label string) error {
	if _, err := os.Stat(string(value)); err != nil {
		if os.IsNotExist(err) {
			return newError(KindConstraint, "path for %s does not exist: %s", label, string(value)).
				withOption(label).withCause(err)
		}
		return newError(KindConstraint, "cannot access path for %s: %s", label, string(value)).
			withOption(label).withCause(err)
	}
	return nil
}

// OneOfConstraint restricts the value to a fixed set.
type OneOfConstraint[T Scalar] struct {
	Values []T
}

func (c OneOfConstraint[T]) Restriction() string {
	parts := make([]string, len(c.Values))
	for i, v := range c.Values {
		parts[i] = format(v)
	}
	return "one of: " + strings.Join(parts, "|")
}

func (c OneOfConstraint[T]) Check(value T, label string) error {
	for _, v := range c.Values {
		if v == value {
			return nil
		}
	}
	return newError(KindConstraint, "value %s for %s is not one of the allowed values: %s",
		format(value), label, c.Restriction()[len("one of: "):]).withOption(label)
}

// FuncConstraint adapts a plain validation function.
type FuncConstraint[T Scalar] struct {
	Text string
	Fn   func(T) error
}

func (c FuncConstraint[T]) Restriction() string { return c.Text }

func (c FuncConstraint[T]) Check(value T, label string) error {
	if err := c.Fn(value); err != nil {
		var e *Error
		if errors.As(err, &e) {
			return e
		}
		return newError(KindConstraint, "invalid value %s for %s: %v", format(value), label, err).
			withOption(label).withCause(err)
	}
	return nil
}

// constraintSet is the composed view of a binding's constraints.
type constraintSet[T Scalar] struct {
	items []Constraint[T]
}

func (s *constraintSet[T]) add(c Constraint[T]) {
	s.items = append(s.items, c)
}

// defaultValue returns the last supplied default, if any.
func (s *constraintSet[T]) defaultValue() (T, bool) {
	var out T
	found := false
	for _, c := range s.items {
		if d, ok := c.(Defaulter[T]); ok {
			out, found = d.DefaultValue(), true
		}
	}
	return out, found
}

func (s *constraintSet[T]) hasDefault() bool {
	_, ok := s.defaultValue()
	return ok
}

func (s *constraintSet[T]) hasChecks() bool {
	for _, c := range s.items {
		if _, ok := c.(Checker[T]); ok {
			return true
		}
	}
	return false
}

func (s *constraintSet[T]) check(value T, label string) error {
	for _, c := range s.items {
		if chk, ok := c.(Checker[T]); ok {
			if err := chk.Check(value, label); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *constraintSet[T]) restrictions() []string {
	out := make([]string, 0, len(s.items))
	for _, c := range s.items {
		if text := c.Restriction(); text != "" {
			out = append(out, text)
		}
	}
	return out
}
