//nolint:testpackage // using package name 'clasp' to access unexported fields for testing
package clasp

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func asError(t *testing.T, err error) *Error {
	t.Helper()
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	return e
}

func TestMandatoryOptions(t *testing.T) {
	p := NewParser("prog", "")
	o, err := Flag(p, "", "enable o").Short('o').Mandatory().Bind()
	if err != nil {
		t.Fatal(err)
	}
	s, err := Option[string](p, "string", "a string").Short('s').Mandatory().Bind()
	if err != nil {
		t.Fatal(err)
	}

	_, err = p.Parse([]string{"-o"})
	if !IsKind(err, KindMissingMandatory) {
		t.Fatalf("expected missing-mandatory error, got %v", err)
	}
	e := asError(t, err)
	if diff := cmp.Diff([]string{"--string|-s"}, e.Alternatives); diff != "" {
		t.Errorf("missing mismatch (-want +got):\n%s", diff)
	}
	if e.Error() != "missing mandatory options: --string|-s" {
		t.Errorf("message = %q", e.Error())
	}

	if _, err := p.Parse([]string{"-o", "-s", "text"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v, _ := s.Value(); !o.Value() || v != "text" {
		t.Errorf("o=%v s=%q", o.Value(), v)
	}
}

func TestNothingGivenListsEveryRequiredOption(t *testing.T) {
	p := NewParser("prog", "")
	_, _ = Flag(p, "", "").Short('o').Mandatory().Bind()
	_, _ = Option[string](p, "string", "").Short('s').Mandatory().Bind()
	_, _ = Flag(p, "verbose", "").Bind()

	_, err := p.Parse(nil)
	e := asError(t, err)
	if e.Kind != KindMissingMandatory {
		t.Fatalf("kind = %s", e.Kind)
	}
	if e.Error() != "none of the required options was given: -o, --string|-s" {
		t.Errorf("message = %q", e.Error())
	}
	if diff := cmp.Diff([]string{"-o", "--string|-s"}, e.Alternatives); diff != "" {
		t.Errorf("alternatives mismatch (-want +got):\n%s", diff)
	}

	// an optional member alone does not resolve the scope
	_, err = p.Parse([]string{"--verbose"})
	e = asError(t, err)
	if e.Error() != "missing mandatory options: -o, --string|-s" {
		t.Errorf("message = %q", e.Error())
	}
}

func TestXorGroup(t *testing.T) {
	p := NewParser("prog", "")
	x := p.Xor("width")
	i32, _ := Option[int32](x, "i32", "").Bind()
	u32, _ := Option[uint32](x, "u32", "").Bind()

	tests := []struct {
		name string
		args []string
		kind ErrorKind
		msg  string
	}{
		{
			name: "neither",
			args: nil,
			kind: KindMissingMandatory,
			msg:  "none of the mutually exclusive options was given: --i32, --u32",
		},
		{
			name: "both",
			args: []string{"--i32", "1", "--u32", "2"},
			kind: KindMutualExclusion,
			msg:  "--i32 and --u32 are mutually exclusive (choose one of: --i32, --u32)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.args)
			e := asError(t, err)
			if e.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", e.Kind, tt.kind)
			}
			if e.Error() != tt.msg {
				t.Errorf("message = %q, want %q", e.Error(), tt.msg)
			}
			if diff := cmp.Diff([]string{"--i32", "--u32"}, e.Alternatives); diff != "" {
				t.Errorf("alternatives mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := p.Parse([]string{"--i32", "-5"}); err != nil {
		t.Fatalf("exactly one: %v", err)
	}
	if v, _ := i32.Value(); v != -5 {
		t.Errorf("i32 = %d", v)
	}
	if u32.HasValue() {
		t.Error("u32 should have no value")
	}
}

func TestXorWithAndAlternative(t *testing.T) {
	newParser := func() *Parser {
		p := NewParser("prog", "")
		x := p.Xor("source")
		_, _ = Option[string](x, "url", "").Bind()
		local := x.And("local")
		_, _ = Option[string](local, "dir", "").Mandatory().Bind()
		_, _ = Option[string](local, "file", "").Mandatory().Bind()
		_, _ = Flag(local, "follow", "").Bind()
		return p
	}
	alts := []string{"--url", "(--dir and --file and --follow)"}

	tests := []struct {
		name string
		args []string
		kind ErrorKind
		alts []string
	}{
		{"url only", []string{"--url", "x"}, "", nil},
		{"local complete", []string{"--dir", "d", "--file", "f"}, "", nil},
		{"local with optional", []string{"--dir", "d", "--file", "f", "--follow"}, "", nil},
		{"local partial", []string{"--dir", "d"}, KindMissingMandatory, []string{"--file"}},
		{"local optional only", []string{"--follow"}, KindMissingMandatory, []string{"--dir", "--file"}},
		{"url and local member", []string{"--url", "x", "--file", "f"}, KindMutualExclusion, alts},
		{"url and local", []string{"--url", "x", "--dir", "d", "--file", "f"}, KindMutualExclusion, alts},
		{"nothing", nil, KindMissingMandatory, alts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newParser().Parse(tt.args)
			if tt.kind == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			e := asError(t, err)
			if e.Kind != tt.kind {
				t.Fatalf("kind = %s, want %s (%v)", e.Kind, tt.kind, e)
			}
			if diff := cmp.Diff(tt.alts, e.Alternatives); diff != "" {
				t.Errorf("alternatives mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNestedXorInsideXor(t *testing.T) {
	p := NewParser("prog", "")
	outer := p.Xor("")
	_, _ = Flag(outer, "a", "").Bind()
	inner := outer.Xor("")
	_, _ = Flag(inner, "b", "").Bind()
	_, _ = Flag(inner, "c", "").Bind()

	if _, err := p.Parse([]string{"--b"}); err != nil {
		t.Fatalf("inner alternative: %v", err)
	}
	_, err := p.Parse([]string{"--a", "--c"})
	e := asError(t, err)
	if e.Kind != KindMutualExclusion {
		t.Fatalf("kind = %s", e.Kind)
	}
	if diff := cmp.Diff([]string{"--a", "(--b | --c)"}, e.Alternatives); diff != "" {
		t.Errorf("alternatives mismatch (-want +got):\n%s", diff)
	}
	if _, err := p.Parse([]string{"--b", "--c"}); !IsKind(err, KindMutualExclusion) {
		t.Errorf("inner exclusion: got %v", err)
	}
}

func TestAndGroupMembers(t *testing.T) {
	p := NewParser("prog", "")
	auth := p.And("auth")
	_, _ = Option[string](auth, "user", "").Mandatory().Bind()
	_, _ = Option[string](auth, "password", "").Mandatory().Bind()

	_, err := p.Parse([]string{"--user", "u"})
	e := asError(t, err)
	if e.Kind != KindMissingMandatory {
		t.Fatalf("kind = %s", e.Kind)
	}
	if diff := cmp.Diff([]string{"--password"}, e.Alternatives); diff != "" {
		t.Errorf("missing mismatch (-want +got):\n%s", diff)
	}
}

func TestRangeCheckedAtValidate(t *testing.T) {
	p := NewParser("prog", "")
	n, err := Range(Option[int](p, "n", ""), 1, 10).Bind()
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := p.consume([]string{"--n", "11"}); err != nil {
		t.Fatalf("tokenizing should not check the range: %v", err)
	}
	if v, _ := n.Value(); v != 11 {
		t.Fatalf("value = %d", v)
	}
	err = p.Validate()
	if !IsKind(err, KindConstraint) {
		t.Fatalf("expected constraint error, got %v", err)
	}
	if err.Error() != "value 11 for --n is not within range [1, 10]" {
		t.Errorf("message = %q", err.Error())
	}

	for _, v := range []string{"1", "10"} {
		if _, err := p.Parse([]string{"--n", v}); err != nil {
			t.Errorf("%s should be accepted: %v", v, err)
		}
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	p := NewParser("prog", "")
	x := p.Xor("")
	_, _ = Flag(x, "a", "").Bind()
	_, _ = Flag(x, "b", "").Bind()

	_, first := p.Parse([]string{"--a", "--b"})
	if first == nil {
		t.Fatal("expected an error")
	}
	for range 3 {
		if err := p.Validate(); err == nil || err.Error() != first.Error() {
			t.Fatalf("Validate() = %v, want %v", err, first)
		}
	}

	if _, err := p.Parse([]string{"--a"}); err != nil {
		t.Fatal(err)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("second Validate() = %v", err)
	}
}

func TestEnvCountsForXor(t *testing.T) {
	t.Setenv("PROG_FAST", "1")
	p := NewParser("prog", "")
	x := p.Xor("")
	_, _ = Flag(x, "fast", "").Env("PROG_FAST").Bind()
	_, _ = Flag(x, "slow", "").Bind()

	if _, err := p.Parse(nil); err != nil {
		t.Fatalf("environment should resolve the group: %v", err)
	}
	if _, err := p.Parse([]string{"--slow"}); !IsKind(err, KindMutualExclusion) {
		t.Errorf("expected exclusion with the environment value, got %v", err)
	}
}

func TestMandatoryPositional(t *testing.T) {
	p := NewParser("prog", "")
	in, _ := Arg[string](p, "input", "").Mandatory().Bind()
	out, _ := Arg[string](p, "output", "").Bind()

	_, err := p.Parse(nil)
	if !IsKind(err, KindMissingMandatory) {
		t.Fatalf("expected missing-mandatory error, got %v", err)
	}
	if _, err := p.Parse([]string{"a"}); err != nil {
		t.Fatal(err)
	}
	if v, _ := in.Value(); v != "a" || out.HasValue() {
		t.Errorf("input=%q output given=%v", v, out.HasValue())
	}
}
