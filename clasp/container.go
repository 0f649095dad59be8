package clasp

import (
	"os"
	"sync/atomic"

	claspio "github.com/dzonerzy/go-clasp/io"
)

// State is the lifecycle state of a Container.
type State int32

const (
	NotParsed State = iota
	Parsing
	Parsed
)

func (s State) String() string {
	switch s {
	case NotParsed:
		return "not-parsed"
	case Parsing:
		return "parsing"
	case Parsed:
		return "parsed"
	default:
		return "unknown"
	}
}

// Container pairs a root parser with the bindings built for it and only
// hands the bindings out once a parse has completed successfully.
type Container[T any] struct {
	parser   *Parser
	bindings T
	state    atomic.Int32

	exitCodes *ExitCodes
	logger    *claspio.Logger
}

// NewContainer creates the root parser and calls setup to declare its
// bindings. setup errors are registration errors and are returned as is.
func NewContainer[T any](name, help string, setup func(p *Parser) (T, error)) (*Container[T], error) {
	p := NewParser(name, help)
	bindings, err := setup(p)
	if err != nil {
		return nil, err
	}
	return &Container[T]{parser: p, bindings: bindings}, nil
}

// Parser returns the root parser.
func (c *Container[T]) Parser() *Parser { return c.parser }

// State returns the current lifecycle state.
func (c *Container[T]) State() State { return State(c.state.Load()) }

func (c *Container[T]) transition(from, to State) error {
	if c.state.CompareAndSwap(int32(from), int32(to)) {
		return nil
	}
	return newError(KindLifecycle, "invalid state transition to %s: expected %s, got %s",
		to, from, c.State())
}

// Parse runs the root parser. On success the container becomes Parsed; on
// an error or exit request it returns to NotParsed and may be parsed again.
func (c *Container[T]) Parse(args []string) (*ExitRequest, error) {
	if err := c.transition(NotParsed, Parsing); err != nil {
		return nil, err
	}
	req, err := c.parser.Parse(args)
	if err != nil || req != nil {
		c.state.Store(int32(NotParsed))
		return req, err
	}
	c.state.Store(int32(Parsed))
	return nil, nil
}

// Get returns the bindings. It fails unless the container is Parsed.
func (c *Container[T]) Get() (T, error) {
	if s := c.State(); s != Parsed {
		var zero T
		return zero, newError(KindLifecycle, "arguments are not fully parsed (state: %s)", s)
	}
	return c.bindings, nil
}

// MustGet is like Get but panics on a lifecycle error.
func (c *Container[T]) MustGet() T {
	out, err := c.Get()
	if err != nil {
		panic(err)
	}
	return out
}

// ExitCodes returns the exit-code mapping used by Run.
func (c *Container[T]) ExitCodes() *ExitCodes {
	if c.exitCodes == nil {
		c.exitCodes = NewExitCodes()
	}
	return c.exitCodes
}

// Logger returns the logger used by Run to report errors.
func (c *Container[T]) Logger() *claspio.Logger {
	if c.logger == nil {
		c.logger = claspio.NewLogger(claspio.New()).WithFormat(claspio.LogFormatSymbols)
	}
	return c.logger
}

// WithLogger replaces the logger used by Run.
func (c *Container[T]) WithLogger(l *claspio.Logger) *Container[T] {
	c.logger = l
	return c
}

// Run parses args and maps the outcome to a process exit code. Errors are
// reported through the logger.
func (c *Container[T]) Run(args []string) int {
	req, err := c.Parse(args)
	if err != nil {
		log := c.Logger()
		log.Error("%v", err)
		if isUsageKind(KindOf(err)) {
			if _, ok := c.parser.reg.longs["help"]; ok {
				log.Info("run '%s --help' for usage", c.parser.name)
			}
		}
	}
	return c.ExitCodes().Resolve(req, err)
}

// RunAndExit runs with os.Args[1:] and terminates the process.
func (c *Container[T]) RunAndExit() {
	os.Exit(c.Run(os.Args[1:]))
}

func isUsageKind(k ErrorKind) bool {
	switch k {
	case KindMissingMandatory, KindMutualExclusion, KindUnknownToken,
		KindMissingParameter, KindUnexpectedParameter:
		return true
	}
	return false
}
