package vm_test

import (
	"bytes"
	"testing"

	"github.com/rami3l/loxvm/vm"
	"github.com/stretchr/testify/assert"
)

func decode(bs ...byte) (vm.Decoded, int, bool) { return vm.Decode(bytes.NewReader(bs)) }

func TestDecodeEmpty(t *testing.T) {
	t.Parallel()
	_, _, ok := decode()
	assert.False(t, ok)
}

func TestDecodeNullary(t *testing.T) {
	t.Parallel()
	for _, op := range []vm.OpCode{
		vm.OpAdd, vm.OpSub, vm.OpMul, vm.OpDiv, vm.OpNeg, vm.OpReturn,
		vm.OpNil, vm.OpTrue, vm.OpFalse, vm.OpEqual, vm.OpGreater, vm.OpLess, vm.OpNot,
	} {
		inst, width, ok := decode(byte(op), byte(vm.OpConst))
		assert.True(t, ok, op)
		assert.True(t, inst.Ok(), op)
		assert.Equal(t, op, inst.Op)
		assert.Equal(t, 1, width, op)
	}
}

func TestDecodeConst(t *testing.T) {
	t.Parallel()
	inst, width, ok := decode(byte(vm.OpConst), 7, byte(vm.OpReturn))
	assert.True(t, ok)
	assert.Equal(t, vm.Decoded{Inst: vm.Inst{Op: vm.OpConst, Arg: 7}}, inst)
	assert.Equal(t, 2, width)
	assert.Equal(t, "OpConst 7", inst.String())
}

func TestDecodeTruncatedConst(t *testing.T) {
	t.Parallel()
	inst, width, ok := decode(byte(vm.OpConst))
	assert.True(t, ok)
	assert.False(t, inst.Ok())
	assert.Equal(t, []byte{byte(vm.OpConst)}, inst.Bad)
	assert.Equal(t, 1, width)
}

func TestDecodeUnknown(t *testing.T) {
	t.Parallel()
	for _, b := range []byte{66, 0xFF} {
		inst, width, ok := decode(b, byte(vm.OpReturn))
		assert.True(t, ok)
		assert.Equal(t, []byte{b}, inst.Bad)
		assert.Equal(t, 1, width)
		assert.False(t, vm.PrefixOf(b).Known())
	}
	inst, _, _ := decode(66)
	assert.Equal(t, "BadOp [0x42]", inst.String())
}

func TestPrefixOf(t *testing.T) {
	t.Parallel()
	assert.Equal(t, vm.Prefix{Op: vm.OpReturn, Raw: 6}, vm.PrefixOf(6))
	assert.Equal(t, vm.Prefix{Op: vm.OpUnknown, Raw: 14}, vm.PrefixOf(14))
	assert.Equal(t, "OpUnknown", vm.OpUnknown.String())
	assert.Equal(t, "OpCode(14)", vm.OpCode(14).String())
}
