package vm_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/rami3l/loxvm/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testChunk computes -((1.2 + 3.4) / 5.6), followed by a stray byte after the return.
func testChunk() *vm.Chunk {
	c := vm.NewChunk()
	c.WriteConst(vm.VNum(1.2), 123)
	c.WriteConst(vm.VNum(3.4), 123)
	c.WriteOp(vm.OpAdd, 123)
	c.WriteConst(vm.VNum(5.6), 123)
	c.WriteOp(vm.OpDiv, 123)
	c.WriteOp(vm.OpNeg, 123)
	c.WriteOp(vm.OpReturn, 125)
	c.Write(66, 126)
	return c
}

func TestLineOf(t *testing.T) {
	t.Parallel()
	c := vm.NewChunk()
	for i := 0; i < 5; i++ {
		c.WriteOp(vm.OpNil, 123)
	}
	c.WriteOp(vm.OpNil, 125)
	c.WriteOp(vm.OpReturn, 125)

	assert.Equal(t, 123, c.LineOf(0))
	assert.Equal(t, 123, c.LineOf(4))
	assert.Equal(t, 125, c.LineOf(5))
	assert.Equal(t, 125, c.LineOf(6))
}

func TestDecreasingLinePanics(t *testing.T) {
	t.Parallel()
	c := vm.NewChunk()
	c.WriteOp(vm.OpNil, 2)
	c.WriteOp(vm.OpNil, 2)
	assert.Panics(t, func() { c.WriteOp(vm.OpNil, 1) })
}

func TestAddConstLimit(t *testing.T) {
	t.Parallel()
	c := vm.NewChunk()
	for i := 0; i < vm.MaxConsts; i++ {
		idx := c.AddConst(vm.VNum(i))
		assert.Equal(t, byte(i), idx)
	}
	assert.Equal(t, 256, c.ConstCount())
	assert.Panics(t, func() { c.AddConst(vm.VNil{}) })
}

func TestIterRestartable(t *testing.T) {
	t.Parallel()
	c := testChunk()
	collect := func() (offsets []int) {
		for it := c.Iter(); ; {
			_, offset, ok := it.Next()
			if !ok {
				return
			}
			offsets = append(offsets, offset)
		}
	}
	want := []int{0, 2, 4, 5, 7, 8, 9, 10}
	assert.Equal(t, want, collect())
	assert.Equal(t, want, collect())
}

// The iterator and offset-driven reads must agree on instruction boundaries
// for any byte stream, including garbage.
func TestIterAgreesWithRead(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		c := vm.NewChunk()
		for i := 0; i < 4; i++ {
			c.AddConst(vm.VNum(i))
		}
		n := rng.Intn(32)
		for i := 0; i < n; i++ {
			// Mostly valid opcodes, some garbage, and small operands.
			c.Write(byte(rng.Intn(20)), 1)
		}

		next := 0
		for it := c.Iter(); ; {
			inst, offset, ok := it.Next()
			if !ok {
				break
			}
			require.Equal(t, next, offset)
			got, width, ok := c.Read(offset)
			require.True(t, ok)
			require.Equal(t, inst, got)
			next = offset + width
		}
		require.Equal(t, c.Len(), next)
		_, _, ok := c.Read(next)
		assert.False(t, ok)
	}
}

func TestDisassemble(t *testing.T) {
	t.Parallel()
	expected := heredoc.Doc(`
		== test chunk ==
		0000  123 OpConst             0 '1.2'
		0002    | OpConst             1 '3.4'
		0004    | OpAdd
		0005    | OpConst             2 '5.6'
		0007    | OpDiv
		0008    | OpNeg
		0009  125 OpReturn
		0010  126 BadOp            [0x42]
	`)
	assert.Equal(t, expected, testChunk().Disassemble("test chunk"))
}

// The single-instruction form must blank lines exactly like the full listing,
// even when an operand byte lands on a later line than its opcode.
func TestDisassembleInstMatchesListing(t *testing.T) {
	t.Parallel()
	c := vm.NewChunk()
	c.AddConst(vm.VNum(1))
	c.WriteOp(vm.OpConst, 1)
	c.Write(0, 2)
	c.WriteOp(vm.OpReturn, 2)
	c.WriteOp(vm.OpNil, 2)

	listing := strings.Split(strings.TrimSuffix(c.Disassemble("split"), "\n"), "\n")[1:]
	assert.Equal(t, []string{
		"0000    1 OpConst             0 '1'",
		"0002    2 OpReturn",
		"0003    | OpNil",
	}, listing)

	var traced []string
	for offset := 0; offset < c.Len(); {
		var res string
		res, offset = c.DisassembleInst(offset)
		traced = append(traced, res)
	}
	assert.Equal(t, listing, traced)
}

func TestDisassembleInst(t *testing.T) {
	t.Parallel()
	c := testChunk()

	res, next := c.DisassembleInst(2)
	assert.Equal(t, "0002    | OpConst             1 '3.4'", res)
	assert.Equal(t, 4, next)

	res, next = c.DisassembleInst(9)
	assert.Equal(t, "0009  125 OpReturn", res)
	assert.Equal(t, 10, next)

	_, next = c.DisassembleInst(c.Len())
	assert.Equal(t, c.Len(), next)
}
