package vm

import (
	"fmt"

	"github.com/rami3l/loxvm/debug"
	e "github.com/rami3l/loxvm/errors"
	"github.com/sirupsen/logrus"
)

// Compiler turns source text into a chunk. A nil chunk means compilation failed.
type Compiler interface {
	Compile(src string) (*Chunk, error)
}

type CompilerFunc func(src string) (*Chunk, error)

func (f CompilerFunc) Compile(src string) (*Chunk, error) { return f(src) }

type State int

const (
	Running State = iota
	HaltedOk
	HaltedError
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case HaltedOk:
		return "halted-ok"
	case HaltedError:
		return "halted-error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type VM struct {
	chunk *Chunk
	ip    int
	stack []Value
	state State

	// Offset of the instruction being executed, for error lines.
	instStart   int
	compiler    Compiler
	strictStack bool
}

type Option func(*VM)

// WithCompiler replaces the default front-end used by Interpret.
func WithCompiler(c Compiler) Option { return func(vm *VM) { vm.compiler = c } }

// WithStrictStack makes operators fail with StackUnderflow on an empty stack
// instead of reading nil.
func WithStrictStack(strict bool) Option { return func(vm *VM) { vm.strictStack = strict } }

func NewVM(opts ...Option) *VM {
	vm := &VM{compiler: CompilerFunc(Compile)}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

func (vm *VM) State() State { return vm.state }

func (vm *VM) push(val Value) {
	vm.stack = append(vm.stack, val)
}

func (vm *VM) pop() (last Value, err error) {
	len_ := len(vm.stack)
	if len_ == 0 {
		if vm.strictStack {
			return NewValue(), vm.Error(e.StackUnderflow, "pop from empty stack")
		}
		return NewValue(), nil
	}
	vm.stack, last = vm.stack[:len_-1], vm.stack[len_-1]
	return
}

// popBinary pops the right operand, then the left one.
func (vm *VM) popBinary() (lhs, rhs Value, err error) {
	if rhs, err = vm.pop(); err != nil {
		return
	}
	lhs, err = vm.pop()
	return
}

func (vm *VM) Interpret(src string) (Value, error) {
	chunk, err := vm.compiler.Compile(src)
	if err == nil && chunk == nil {
		err = &e.CompilationError{Reason: "no chunk produced"}
	}
	if err != nil {
		vm.state = HaltedError
		return nil, err
	}
	return vm.Run(chunk)
}

// Run binds chunk to the VM and executes it from offset 0 until it halts.
// chunk is only read, so it may be shared between VMs.
func (vm *VM) Run(chunk *Chunk) (res Value, err error) {
	vm.chunk, vm.ip, vm.stack, vm.state = chunk, 0, nil, Running
	if chunk == nil {
		vm.state = HaltedError
		return nil, &e.CompilationError{Reason: "no chunk to run"}
	}
	defer func() {
		vm.state = HaltedOk
		if err != nil {
			vm.state = HaltedError
		}
	}()
	return vm.run()
}

type binaryOp = func(v, w Value) (Value, bool)

var binaryOps = map[OpCode]binaryOp{
	OpAdd:     VAdd,
	OpSub:     VSub,
	OpMul:     VMul,
	OpDiv:     VDiv,
	OpGreater: VGreater,
	OpLess:    VLess,
}

func (vm *VM) run() (Value, error) {
	for {
		inst, width, ok := vm.chunk.Read(vm.ip)
		if !ok {
			// Running off the end is a clean halt.
			return NewValue(), nil
		}
		debug.Assertf(width > 0, "zero-width instruction at %04d", vm.ip)
		debug.AssertEq(true, vm.ip+width <= vm.chunk.Len())
		if logrus.IsLevelEnabled(logrus.DebugLevel) {
			logrus.Debugln(vm.stackTrace())
			instDump, _ := vm.chunk.DisassembleInst(vm.ip)
			logrus.Debugln(instDump)
		}
		vm.instStart = vm.ip
		vm.ip += width

		if !inst.Ok() {
			err := vm.Error(e.BadOpcode, fmt.Sprintf("unknown instruction %s", hexBytes(inst.Bad)))
			err.Bytes = inst.Bad
			return nil, err
		}

		switch op := inst.Op; op {
		case OpReturn:
			// An empty stack returns nil, even in strict mode.
			if len(vm.stack) == 0 {
				return NewValue(), nil
			}
			return vm.pop()
		case OpConst:
			if int(inst.Arg) >= vm.chunk.ConstCount() {
				err := vm.Error(e.BadOpcode, fmt.Sprintf("const index %d out of range [0, %d)", inst.Arg, vm.chunk.ConstCount()))
				err.Bytes = []byte{byte(op), inst.Arg}
				return nil, err
			}
			vm.push(vm.chunk.Const(inst.Arg))
		case OpNil:
			vm.push(VNil{})
		case OpTrue:
			vm.push(VBool(true))
		case OpFalse:
			vm.push(VBool(false))
		case OpEqual:
			lhs, rhs, err := vm.popBinary()
			if err != nil {
				return nil, err
			}
			vm.push(VEq(lhs, rhs))
		case OpNot:
			val, err := vm.pop()
			if err != nil {
				return nil, err
			}
			vm.push(!VTruthy(val))
		case OpNeg:
			val, err := vm.pop()
			if err != nil {
				return nil, err
			}
			res, ok := VNeg(val)
			if !ok {
				return nil, vm.Error(e.TypeMismatch, "operand must be a number")
			}
			vm.push(res)
		case OpAdd, OpSub, OpMul, OpDiv, OpGreater, OpLess:
			lhs, rhs, err := vm.popBinary()
			if err != nil {
				return nil, err
			}
			res, ok := binaryOps[op](lhs, rhs)
			if !ok {
				return nil, vm.Error(e.TypeMismatch, fmt.Sprintf("operands of %s must be numbers", op))
			}
			vm.push(res)
		default:
			// Every known opcode is handled above.
			panic(e.Unreachable)
		}
	}
}

// Error builds a RuntimeError located at the instruction being executed.
func (vm *VM) Error(kind e.RuntimeErrorKind, reason string) *e.RuntimeError {
	err := &e.RuntimeError{Kind: kind, Reason: reason}
	if vm.chunk != nil {
		err.Line = vm.chunk.LineOf(vm.instStart)
	}
	return err
}

func (vm *VM) stackTrace() string {
	res := "          "
	for _, slot := range vm.stack {
		res += fmt.Sprintf("[ %s ]", slot)
	}
	return res
}
