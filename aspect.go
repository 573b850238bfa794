package goadvice

import (
	"context"
	"fmt"
)

// Kind tags the point of an invocation an Advice runs at.
type Kind int

const (
	KindBefore Kind = iota + 1
	KindAfter
	KindAround
	KindAfterThrowing
)

func (k Kind) String() string {
	switch k {
	case KindBefore:
		return "before"
	case KindAfter:
		return "after"
	case KindAround:
		return "around"
	case KindAfterThrowing:
		return "after-throwing"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type BeforeFunc func(ctx context.Context, inv *Invocation) error

// AfterFunc observes a normal return. inv.Result holds the value the caller will get.
type AfterFunc func(ctx context.Context, inv *Invocation) error

// Proceed runs the rest of the chain: the next Around advice or the target itself.
type Proceed func(ctx context.Context) (any, error)

type AroundFunc func(ctx context.Context, inv *Invocation, proceed Proceed) (any, error)

// AfterThrowingFunc receives exactly the error the target (or the Around chain) returned.
type AfterThrowingFunc func(ctx context.Context, inv *Invocation, err error) error

// Advice is a callback bound to every operation its matcher accepts.
// Build one with Before, After, Around or AfterThrowing.
type Advice struct {
	Name    string
	Kind    Kind
	Matcher Matcher

	before        BeforeFunc
	after         AfterFunc
	around        AroundFunc
	afterThrowing AfterThrowingFunc
}

func Before(name string, matcher Matcher, fn BeforeFunc) Advice {
	return Advice{Name: name, Kind: KindBefore, Matcher: matcher, before: fn}
}

func After(name string, matcher Matcher, fn AfterFunc) Advice {
	return Advice{Name: name, Kind: KindAfter, Matcher: matcher, after: fn}
}

func Around(name string, matcher Matcher, fn AroundFunc) Advice {
	return Advice{Name: name, Kind: KindAround, Matcher: matcher, around: fn}
}

func AfterThrowing(name string, matcher Matcher, fn AfterThrowingFunc) Advice {
	return Advice{Name: name, Kind: KindAfterThrowing, Matcher: matcher, afterThrowing: fn}
}

func (a Advice) validate() error {
	if a.Matcher == nil {
		return invalidAdvice(a, "matcher is nil")
	}
	var callback bool
	switch a.Kind {
	case KindBefore:
		callback = a.before != nil
	case KindAfter:
		callback = a.after != nil
	case KindAround:
		callback = a.around != nil
	case KindAfterThrowing:
		callback = a.afterThrowing != nil
	default:
		return invalidAdvice(a, "unknown kind")
	}
	if !callback {
		return invalidAdvice(a, "callback is nil")
	}
	return nil
}

// Body is the callable behind an operation.
type Body func(ctx context.Context, args []any) (any, error)

// Variadic arity accepts any number of arguments.
const Variadic = -1

// Operation is a named unit of behavior the chain intercepts.
type Operation struct {
	Name  string
	Arity int
	Body  Body
}

func (o Operation) Signature() Signature {
	return Signature{Name: o.Name, Arity: o.Arity}
}

func (o Operation) validate() error {
	switch {
	case o.Name == "":
		return invalidOperation(o, "name is empty")
	case o.Body == nil:
		return invalidOperation(o, "body is nil")
	case o.Arity < Variadic:
		return invalidOperation(o, "arity is negative")
	}
	return nil
}
