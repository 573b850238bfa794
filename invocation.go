package goadvice

import (
	"github.com/google/uuid"
)

// State is the position of an invocation in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateBeforeRunning
	StateTargetRunning
	StateAfterRunning
	StateAfterThrowingRunning
	StateDone
)

var stateNames = [...]string{"idle", "before", "target", "after", "after-throwing", "done"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Invocation is the join point handed to advice. A new one is created for every call
// and it is never shared between calls.
type Invocation struct {
	ID        uuid.UUID
	Operation Signature
	Args      []any
	State     State
	// Result and Err are set once the target (or the Around chain) has returned.
	Result    any
	Err       error
	// Proceeded reports whether the target body actually ran.
	Proceeded bool
}
