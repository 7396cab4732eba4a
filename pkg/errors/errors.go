// Package errors provides structured error handling for the fiber engine.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindContract indicates a violated engine contract (programmer error).
	KindContract
	// KindHook indicates misuse of the hook store.
	KindHook
	// KindCommit indicates an inconsistency found while committing.
	KindCommit
	// KindBuild indicates a component body failed.
	KindBuild
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindConfig indicates invalid configuration.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindContract:
		return "contract"
	case KindHook:
		return "hook"
	case KindCommit:
		return "commit"
	case KindBuild:
		return "build"
	case KindPanic:
		return "panic"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

var (
	// ErrTornDown is returned when an engine is used after Teardown.
	ErrTornDown = errors.New("fiber: engine has been torn down")
	// ErrStopped is returned when a driver is used after it stopped.
	ErrStopped = errors.New("fiber: driver stopped")
	// ErrNotSettled is returned when work remains after a slice limit.
	ErrNotSettled = errors.New("fiber: render work did not settle")
)

// Is reports whether any error in err's chain matches target.
// It forwards to the standard library so callers need a single import.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return errors.As(err, target) }

// EngineError represents a reportable, non-fatal condition.
type EngineError struct {
	// Op is the operation that failed (e.g., "core.EnqueueUpdate").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// ContractError describes a violated engine contract. The engine raises it
// with panic; it is never recovered by the engine itself.
type ContractError struct {
	// Op is the operation that detected the violation.
	Op string
	// Kind is KindContract or a more specific kind such as KindHook.
	Kind ErrorKind
	// Detail explains the violation.
	Detail string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("contract violation in %s [%s]: %s", e.Op, e.Kind, e.Detail)
}

// Contract builds a ContractError with a formatted detail.
func Contract(op string, kind ErrorKind, format string, args ...any) *ContractError {
	return &ContractError{Op: op, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// IsContract reports whether v (typically a recovered panic value) is a
// ContractError.
func IsContract(v any) bool {
	switch err := v.(type) {
	case *ContractError:
		return true
	case error:
		var ce *ContractError
		return errors.As(err, &ce)
	default:
		return false
	}
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "engine.Runner").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// BuildError represents a failure while running a component body.
type BuildError struct {
	// Component is the name of the component that failed.
	Component string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *BuildError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s render: %v", e.Component, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %s render: %v", e.Component, e.Err)
	}
	return fmt.Sprintf("unknown error in %s render", e.Component)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by the engine.
type ErrorHandler interface {
	// HandleError is called when a non-fatal error occurs.
	HandleError(err *EngineError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleBuildError is called when a component render fails.
	HandleBuildError(err *BuildError)
}
