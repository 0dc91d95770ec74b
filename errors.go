package osek

import (
	"errors"
	"fmt"
)

// StatusType is the kernel's flat, closed status-code taxonomy. Every
// kernel API that can fail returns one by value; there are no exceptions
// and no implicit retries.
type StatusType uint8

const (
	// StatusOK indicates the operation completed successfully.
	StatusOK StatusType = iota
	// StatusLimit indicates an activation was refused because the task's
	// activation_limit was already reached.
	StatusLimit
	// StatusInvalidID indicates an out-of-range task, counter, alarm,
	// schedule-table, or channel index.
	StatusInvalidID
	// StatusInvalidValue indicates a well-formed but out-of-range argument,
	// e.g. a zero relative offset or a cycle shorter than min_cycle.
	StatusInvalidValue
	// StatusInvalidState indicates the operation is not valid for the
	// target's current state, e.g. syncing a stopped schedule table.
	StatusInvalidState
	// StatusNoFunc indicates the operation is inapplicable right now,
	// e.g. receiving from an empty IOC channel or stopping a stopped
	// schedule table.
	StatusNoFunc
	// StatusAccess indicates a trusted-function call was denied by the
	// permission matrix.
	StatusAccess
	// StatusStackFault indicates the stack guard detected a breach.
	StatusStackFault
)

// String implements fmt.Stringer.
func (s StatusType) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusLimit:
		return "LIMIT"
	case StatusInvalidID:
		return "INVALID_ID"
	case StatusInvalidValue:
		return "INVALID_VALUE"
	case StatusInvalidState:
		return "INVALID_STATE"
	case StatusNoFunc:
		return "NO_FUNC"
	case StatusAccess:
		return "ACCESS"
	case StatusStackFault:
		return "STACK_FAULT"
	default:
		return fmt.Sprintf("STATUS(%d)", uint8(s))
	}
}

// Ok reports whether the status represents success.
func (s StatusType) Ok() bool { return s == StatusOK }

// StatusError adapts a non-OK [StatusType] to the error interface, so it can
// participate in errors.Is/errors.As chains alongside the sentinel errors
// below. Kernel methods that conventionally return a bare StatusType do not
// use this; it exists for call sites that prefer to treat kernel failures
// as errors.
type StatusError struct {
	// Op names the kernel operation that failed, e.g. "SetRelAlarm".
	Op     string
	Status StatusType
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("osek: %s: %s", e.Op, e.Status)
}

// Is reports whether target is a *StatusError with the same Status.
func (e *StatusError) Is(target error) bool {
	var se *StatusError
	if errors.As(target, &se) {
		return se.Status == e.Status
	}
	return false
}

// AsError wraps a non-OK status as an error tagged with op; it returns nil
// for StatusOK.
func AsError(op string, status StatusType) error {
	if status == StatusOK {
		return nil
	}
	return &StatusError{Op: op, Status: status}
}

// Sentinel errors for the small set of kernel entry points that are
// Go-idiomatic (return error, not StatusType) because their failure modes
// are about the kernel's own lifecycle rather than a caller's bad argument.
var (
	// ErrReentrantSchedule is returned by Kernel.Schedule when called while
	// a Schedule call from the same kernel is already in progress. Recursive
	// scheduling is explicitly unsupported (spec Open Question, resolved).
	ErrReentrantSchedule = errors.New("osek: Schedule called re-entrantly")

	// ErrKernelHalted is returned by Kernel.Schedule and
	// Kernel.RequestSchedule once ShutdownOS has been called following a
	// fatal failure (e.g. a stack-guard breach); the StatusType-returning
	// APIs that check for a halt return StatusInvalidState instead.
	ErrKernelHalted = errors.New("osek: kernel has been shut down")

	// ErrNoReadyTask is returned by Kernel.Schedule when no task is READY;
	// it is not a failure, merely a report that the round-robin scan found
	// nothing to run.
	ErrNoReadyTask = errors.New("osek: no READY task")
)
