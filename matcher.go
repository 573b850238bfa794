package goadvice

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// Signature is what matchers see of an operation.
type Signature struct {
	Name  string
	Arity int
}

func (s Signature) String() string {
	if s.Arity == Variadic {
		return s.Name + "(..)"
	}
	return fmt.Sprintf("%s/%d", s.Name, s.Arity)
}

// Matcher selects the operations an advice is bound to.
// It is evaluated once per operation, during Container.Build.
type Matcher interface {
	Match(sig Signature) bool
}

type MatcherFunc func(sig Signature) bool

func (f MatcherFunc) Match(sig Signature) bool {
	return f(sig)
}

type exactMatcher string

func (m exactMatcher) Match(sig Signature) bool {
	return sig.Name == string(m)
}

func (m exactMatcher) String() string {
	return string(m)
}

// Exact matches the operation with the given name, whatever its arity.
func Exact(name string) Matcher {
	return exactMatcher(name)
}

type patternMatcher struct {
	expr     string
	glob     string
	arity    int
	anyArity bool
}

func (m *patternMatcher) Match(sig Signature) bool {
	if !m.anyArity && sig.Arity != m.arity {
		return false
	}
	// the pattern was validated on construction, so Match cannot fail here
	ok, _ := doublestar.Match(m.glob, sig.Name)
	return ok
}

func (m *patternMatcher) String() string {
	return m.expr
}

// Pattern matches operation names against a glob ('*', '?', '[...]', '{a,b}'), any arity.
func Pattern(glob string) (Matcher, error) {
	if glob == "" || !doublestar.ValidatePattern(glob) {
		return nil, errors.Wrapf(ErrInvalidPattern, "pattern='%s'", glob)
	}
	return &patternMatcher{expr: glob, glob: glob, anyArity: true}, nil
}

// Execution parses a pointcut-like expression "glob(args)":
//
//	payment.Service.MakePayment()      name glob, no arguments
//	payment.Service.Increment*(..)     any number of arguments
//	payment.*.Transfer(*, *)           exactly two arguments
//
// A variadic operation only matches "(..)".
func Execution(expr string) (Matcher, error) {
	expr = strings.TrimSpace(expr)
	open := strings.LastIndexByte(expr, '(')
	if open <= 0 || !strings.HasSuffix(expr, ")") {
		return nil, errors.Wrapf(ErrInvalidPattern, "expression='%s': expected name(args)", expr)
	}
	glob := strings.TrimSpace(expr[:open])
	if !doublestar.ValidatePattern(glob) {
		return nil, errors.Wrapf(ErrInvalidPattern, "expression='%s': bad name glob", expr)
	}
	m := &patternMatcher{expr: expr, glob: glob}
	args := strings.TrimSpace(expr[open+1 : len(expr)-1])
	switch args {
	case "..":
		m.anyArity = true
	case "":
		m.arity = 0
	default:
		for _, arg := range strings.Split(args, ",") {
			if strings.TrimSpace(arg) != "*" {
				return nil, errors.Wrapf(ErrInvalidPattern, "expression='%s': argument '%s' must be '*'", expr, arg)
			}
			m.arity++
		}
	}
	return m, nil
}

func MustExecution(expr string) Matcher {
	m, err := Execution(expr)
	if err != nil {
		panic(err)
	}
	return m
}

// All matches when every matcher does. All() matches everything.
func All(matchers ...Matcher) Matcher {
	return MatcherFunc(func(sig Signature) bool {
		for _, m := range matchers {
			if !m.Match(sig) {
				return false
			}
		}
		return true
	})
}

// AnyOf matches when at least one matcher does.
func AnyOf(matchers ...Matcher) Matcher {
	return MatcherFunc(func(sig Signature) bool {
		for _, m := range matchers {
			if m.Match(sig) {
				return true
			}
		}
		return false
	})
}

func Not(m Matcher) Matcher {
	return MatcherFunc(func(sig Signature) bool {
		return !m.Match(sig)
	})
}
