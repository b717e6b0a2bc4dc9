package errors_test

import (
	"errors"
	"fmt"
	"testing"

	e "github.com/rami3l/loxvm/errors"
	"github.com/stretchr/testify/assert"
)

func TestRuntimeError(t *testing.T) {
	t.Parallel()
	err := &e.RuntimeError{Line: 3, Kind: e.BadOpcode, Reason: "unknown instruction [0x42]", Bytes: []byte{0x42}}
	assert.Equal(t, "runtime error [L3]: bad opcode: unknown instruction [0x42]", err.Error())

	wrapped := fmt.Errorf("running: %w", err)
	assert.True(t, errors.Is(wrapped, &e.RuntimeError{Kind: e.BadOpcode}))
	assert.False(t, errors.Is(wrapped, &e.RuntimeError{Kind: e.TypeMismatch}))
}

func TestCompilationError(t *testing.T) {
	t.Parallel()
	err := &e.CompilationError{Line: 1, Reason: "at EOF, expect expression"}
	assert.Equal(t, "compilation error [L1]: at EOF, expect expression", err.Error())
}

func TestImageError(t *testing.T) {
	t.Parallel()
	cause := errors.New("boom")
	err := &e.ImageError{Reason: "unmarshal image", Err: cause}
	assert.Equal(t, "image error: unmarshal image: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "image error: bad image magic", (&e.ImageError{Reason: "bad image magic"}).Error())
}

func TestKindString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "stack underflow", e.StackUnderflow.String())
	assert.Equal(t, "RuntimeErrorKind(9)", e.RuntimeErrorKind(9).String())
}
