package goadvice

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Option func(*Container)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIDGenerator replaces the invocation id source, uuid.New by default.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(c *Container) {
		if gen != nil {
			c.newID = gen
		}
	}
}

// Container collects operations and advice during startup.
// It is not safe for concurrent use; Build seals it and hands out a read-only Chain.
type Container struct {
	operations []Operation
	index      map[string]int
	advice     []Advice
	sealed     bool
	logger     *slog.Logger
	newID      func() uuid.UUID
}

func NewContainer(opts ...Option) *Container {
	c := &Container{
		index:  map[string]int{},
		logger: slog.Default(),
		newID:  uuid.New,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Container) Register(op Operation) error {
	if c.sealed {
		return errors.Wrapf(ErrSealed, "register operation='%s'", op.Name)
	}
	if err := op.validate(); err != nil {
		return err
	}
	if _, found := c.index[op.Name]; found {
		return errors.Wrapf(ErrDuplicateOperation, "operation='%s'", op.Name)
	}
	c.index[op.Name] = len(c.operations)
	c.operations = append(c.operations, op)
	return nil
}

// Advise attaches advice in the given order. Registration order is execution order
// within each kind; for Around advice the first registered is the outermost.
func (c *Container) Advise(advice ...Advice) error {
	if c.sealed {
		return errors.Wrap(ErrSealed, "advise")
	}
	for _, a := range advice {
		if err := a.validate(); err != nil {
			return err
		}
	}
	c.advice = append(c.advice, advice...)
	return nil
}

// Build matches every advice against every operation once and seals the container.
func (c *Container) Build() (*Chain, error) {
	if c.sealed {
		return nil, errors.Wrap(ErrSealed, "build")
	}
	c.sealed = true

	bindings := make(map[string]*binding, len(c.operations))
	for _, op := range c.operations {
		b := &binding{op: op}
		sig := op.Signature()
		for i := range c.advice {
			a := &c.advice[i]
			if !a.Matcher.Match(sig) {
				continue
			}
			switch a.Kind {
			case KindBefore:
				b.before = append(b.before, a)
			case KindAfter:
				b.after = append(b.after, a)
			case KindAround:
				b.around = append(b.around, a)
			case KindAfterThrowing:
				b.afterThrowing = append(b.afterThrowing, a)
			}
		}
		bindings[op.Name] = b
		c.logger.Debug("operation bound",
			"operation", sig.String(),
			"before", len(b.before),
			"after", len(b.after),
			"around", len(b.around),
			"afterThrowing", len(b.afterThrowing),
		)
	}
	return &Chain{bindings: bindings, logger: c.logger, newID: c.newID}, nil
}
