package vm

import "math"

//go:generate stringer -type=OpCode
type OpCode byte

const (
	OpConst OpCode = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpNeg
	OpReturn
	OpNil
	OpTrue
	OpFalse
	OpEqual
	OpGreater
	OpLess
	OpNot

	// OpUnknown is never emitted. It tags opcode bytes PrefixOf can't classify.
	OpUnknown OpCode = math.MaxUint8
)

const opCount = int(OpNot) + 1

// Operands returns the number of operand bytes following op.
func (op OpCode) Operands() int {
	switch op {
	case OpConst:
		return 1
	default:
		return 0
	}
}

// Prefix is the classification of one opcode byte.
// Raw always holds the byte as read, so an OpUnknown prefix keeps it.
type Prefix struct {
	Op  OpCode
	Raw byte
}

func PrefixOf(b byte) Prefix {
	if int(b) < opCount {
		return Prefix{Op: OpCode(b), Raw: b}
	}
	return Prefix{Op: OpUnknown, Raw: b}
}

func (p Prefix) Known() bool { return p.Op != OpUnknown }
