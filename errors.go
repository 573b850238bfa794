package goadvice

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrSealed             = errors.New("container is sealed")
	ErrDuplicateOperation = errors.New("duplicate operation")
	ErrInvalidOperation   = errors.New("invalid operation")
	ErrInvalidAdvice      = errors.New("invalid advice")
	ErrInvalidPattern     = errors.New("invalid pattern")
	ErrUnknownOperation   = errors.New("unknown operation")
	ErrArity              = errors.New("wrong number of arguments")
	ErrArgType            = errors.New("wrong argument type")
)

// usageErrors report misuse of the library and never come from a target.
var usageErrors = []error{
	ErrSealed,
	ErrDuplicateOperation,
	ErrInvalidOperation,
	ErrInvalidAdvice,
	ErrInvalidPattern,
	ErrUnknownOperation,
	ErrArity,
	ErrArgType,
}

// AdviceError reports a failure raised by an advice callback rather than by the target.
type AdviceError struct {
	Advice    string
	Kind      Kind
	Operation string
	Err       error
	// Cause is the target error an AfterThrowing advice was observing when it failed.
	Cause     error
}

func (e *AdviceError) Error() string {
	msg := fmt.Sprintf("%s advice %q on %s: %v", e.Kind, e.Advice, e.Operation, e.Err)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (while handling: %v)", e.Cause)
	}
	return msg
}

func (e *AdviceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func IsAdviceError(err error) bool {
	var adviceErr *AdviceError
	return errors.As(err, &adviceErr)
}

// IsTargetError classifies an error returned by Invoke: it reports whether err came from an
// operation body (or from an Around advice passing it through) rather than from advice, the
// chain or the container.
func IsTargetError(err error) bool {
	if err == nil || IsAdviceError(err) {
		return false
	}
	for _, usage := range usageErrors {
		if errors.Is(err, usage) {
			return false
		}
	}
	return true
}

// ArgTypeError is returned by generated operation bodies when args[index] does not hold want.
func ArgTypeError(operation string, index int, want string, got any) error {
	return errors.Wrapf(ErrArgType, "operation='%s' argument %d: want %s, got %T", operation, index, want, got)
}

func adviceFailure(a *Advice, operation string, err error) *AdviceError {
	return &AdviceError{Advice: a.Name, Kind: a.Kind, Operation: operation, Err: err}
}

func invalidAdvice(a Advice, reason string) error {
	return errors.Wrapf(ErrInvalidAdvice, "advice='%s' kind=%s: %s", a.Name, a.Kind, reason)
}

func invalidOperation(o Operation, reason string) error {
	return errors.Wrapf(ErrInvalidOperation, "operation='%s': %s", o.Name, reason)
}
