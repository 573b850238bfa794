package goadvice

import (
	"context"
	"log/slog"
	"reflect"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Invoker is anything that can run an operation by name. *Chain is the canonical one.
type Invoker interface {
	Invoke(ctx context.Context, operation string, args ...any) (any, error)
}

type binding struct {
	op            Operation
	before        []*Advice
	after         []*Advice
	around        []*Advice
	afterThrowing []*Advice
}

// Binding is a read-only view of the advice bound to one operation, by advice name.
type Binding struct {
	Operation     Signature
	Before        []string
	After         []string
	Around        []string
	AfterThrowing []string
}

// Chain runs operations through their bound advice. It never changes after Build,
// so it can be shared between goroutines without locking.
type Chain struct {
	bindings map[string]*binding
	logger   *slog.Logger
	newID    func() uuid.UUID
}

var _ Invoker = (*Chain)(nil)

func (c *Chain) Invoke(ctx context.Context, operation string, args ...any) (any, error) {
	b, found := c.bindings[operation]
	if !found {
		return nil, errors.Wrapf(ErrUnknownOperation, "operation='%s'", operation)
	}
	if b.op.Arity != Variadic && len(args) != b.op.Arity {
		return nil, errors.Wrapf(ErrArity, "operation='%s' expects %d, got %d", operation, b.op.Arity, len(args))
	}
	inv := &Invocation{
		ID:        c.newID(),
		Operation: b.op.Signature(),
		Args:      args,
	}
	c.logger.Debug("invocation started", "operation", operation, "invocationId", inv.ID)
	result, err := c.run(ctx, b, inv)
	inv.State = StateDone
	c.logger.Debug("invocation finished", "operation", operation, "invocationId", inv.ID, "error", err)
	return result, err
}

// Wrap returns the advised callable for one operation.
func (c *Chain) Wrap(operation string) (Body, error) {
	if _, found := c.bindings[operation]; !found {
		return nil, errors.Wrapf(ErrUnknownOperation, "operation='%s'", operation)
	}
	return func(ctx context.Context, args []any) (any, error) {
		return c.Invoke(ctx, operation, args...)
	}, nil
}

func (c *Chain) Operations() []string {
	names := make([]string, 0, len(c.bindings))
	for name := range c.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Chain) Binding(operation string) (Binding, bool) {
	b, found := c.bindings[operation]
	if !found {
		return Binding{}, false
	}
	return Binding{
		Operation:     b.op.Signature(),
		Before:        adviceNames(b.before),
		After:         adviceNames(b.after),
		Around:        adviceNames(b.around),
		AfterThrowing: adviceNames(b.afterThrowing),
	}, true
}

func (c *Chain) run(ctx context.Context, b *binding, inv *Invocation) (any, error) {
	name := b.op.Name

	inv.State = StateBeforeRunning
	for _, a := range b.before {
		if err := a.before(ctx, inv); err != nil {
			return nil, adviceFailure(a, name, err)
		}
	}

	inv.State = StateTargetRunning
	result, err := c.proceed(b, inv, 0)(ctx)
	inv.Result, inv.Err = result, err

	if err != nil {
		inv.State = StateAfterThrowingRunning
		var failure *AdviceError
		for _, a := range b.afterThrowing {
			if aerr := a.afterThrowing(ctx, inv, err); aerr != nil && failure == nil {
				failure = adviceFailure(a, name, aerr)
				failure.Cause = err
			}
		}
		if failure != nil {
			return nil, failure
		}
		return nil, err
	}

	inv.State = StateAfterRunning
	for _, a := range b.after {
		if aerr := a.after(ctx, inv); aerr != nil {
			return nil, adviceFailure(a, name, aerr)
		}
	}
	return result, nil
}

// proceed builds the Proceed for Around advice at position i; past the last one it is the target.
func (c *Chain) proceed(b *binding, inv *Invocation, i int) Proceed {
	if i == len(b.around) {
		return func(ctx context.Context) (any, error) {
			inv.Proceeded = true
			return b.op.Body(ctx, inv.Args)
		}
	}
	a := b.around[i]
	next := c.proceed(b, inv, i+1)
	return func(ctx context.Context) (any, error) {
		var passed []error
		tracked := func(ctx context.Context) (any, error) {
			result, err := next(ctx)
			if err != nil {
				passed = append(passed, err)
			}
			return result, err
		}
		result, err := a.around(ctx, inv, tracked)
		if err != nil && !passedThrough(err, passed) {
			return nil, adviceFailure(a, b.op.Name, err)
		}
		return result, err
	}
}

// passedThrough reports whether err is, or wraps, one of the errors proceed returned.
func passedThrough(err error, passed []error) bool {
	for _, p := range passed {
		if reflect.TypeOf(p).Comparable() {
			if errors.Is(err, p) {
				return true
			}
		} else if deepIs(err, p) {
			return true
		}
	}
	return false
}

// deepIs is errors.Is for targets of a non-comparable type (slices, maps, funcs),
// which errors.Is can only match through an Is method.
func deepIs(err, target error) bool {
	for err != nil {
		if reflect.TypeOf(err) == reflect.TypeOf(target) && reflect.DeepEqual(err, target) {
			return true
		}
		if x, ok := err.(interface{ Is(error) bool }); ok && x.Is(target) {
			return true
		}
		switch u := err.(type) {
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		case interface{ Unwrap() []error }:
			for _, e := range u.Unwrap() {
				if deepIs(e, target) {
					return true
				}
			}
			return false
		default:
			return false
		}
	}
	return false
}

func adviceNames(advice []*Advice) []string {
	names := make([]string, 0, len(advice))
	for _, a := range advice {
		names = append(names, a.Name)
	}
	return names
}
