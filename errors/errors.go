package errors

import (
	"errors"
	"fmt"
)

type CompilationError struct {
	Line   int
	Reason string
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("compilation error [L%d]: %s", e.Line, e.Reason)
}

type RuntimeErrorKind int

const (
	TypeMismatch RuntimeErrorKind = iota
	BadOpcode
	StackUnderflow
)

func (k RuntimeErrorKind) String() string {
	switch k {
	case TypeMismatch:
		return "type mismatch"
	case BadOpcode:
		return "bad opcode"
	case StackUnderflow:
		return "stack underflow"
	default:
		return fmt.Sprintf("RuntimeErrorKind(%d)", int(k))
	}
}

type RuntimeError struct {
	Line   int
	Kind   RuntimeErrorKind
	Reason string
	// Raw bytes of the offending instruction, for BadOpcode.
	Bytes []byte
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error [L%d]: %s: %s", e.Line, e.Kind, e.Reason)
}

// Is reports whether target is a *RuntimeError of the same Kind,
// so that errors.Is(err, &RuntimeError{Kind: BadOpcode}) works through wrapping.
func (e *RuntimeError) Is(target error) bool {
	t, ok := target.(*RuntimeError)
	return ok && t.Kind == e.Kind
}

// ImageError reports a chunk image that can't be loaded.
type ImageError struct {
	Reason string
	Err    error
}

func (e *ImageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("image error: %s", e.Reason)
	}
	return fmt.Sprintf("image error: %s: %v", e.Reason, e.Err)
}

func (e *ImageError) Unwrap() error { return e.Err }

const Unreachable = "internal error: entered unreachable code"

var UnreachableError = errors.New(Unreachable)
