package vm

import (
	"math"
	"sort"

	"github.com/rami3l/loxvm/debug"
	"github.com/sirupsen/logrus"
)

// MaxConsts is the capacity of a constant pool, bounded by the one-byte operand of OpConst.
const MaxConsts = math.MaxUint8 + 1

type Chunk struct {
	code []byte
	// lineBegins[l] is the offset of the first byte emitted on line l.
	// Contract: non-decreasing, lineBegins[0] == 0.
	lineBegins []int
	consts     []Value
}

func NewChunk() *Chunk { return &Chunk{lineBegins: []int{0}} }

// Write appends b to the code, emitted on the given line.
// Lines must never decrease across calls.
func (c *Chunk) Write(b byte, line int) {
	switch curr := len(c.lineBegins) - 1; {
	case line < curr:
		logrus.Panicf("line numbers must be non-decreasing: current L%d, incoming L%d", curr, line)
	case line > curr:
		// Every line in (curr, line] begins at the current end of code.
		for len(c.lineBegins) <= line {
			c.lineBegins = append(c.lineBegins, len(c.code))
		}
	}
	c.code = append(c.code, b)
}

func (c *Chunk) WriteOp(op OpCode, line int) { c.Write(byte(op), line) }

func (c *Chunk) AddConst(const_ Value) (idx byte) {
	if len(c.consts) >= MaxConsts {
		logrus.Panicf("too many consts in one chunk (max %d)", MaxConsts)
	}
	idx = byte(len(c.consts))
	c.consts = append(c.consts, const_)
	return
}

// WriteConst adds const_ to the pool and emits the OpConst loading it.
func (c *Chunk) WriteConst(const_ Value, line int) {
	idx := c.AddConst(const_)
	c.WriteOp(OpConst, line)
	c.Write(idx, line)
}

// Const returns the constant at idx. The index is trusted.
func (c *Chunk) Const(idx byte) Value {
	debug.Assertf(int(idx) < len(c.consts), "const index %d out of range [0, %d)", idx, len(c.consts))
	return c.consts[idx]
}

func (c *Chunk) ConstCount() int { return len(c.consts) }
func (c *Chunk) Len() int        { return len(c.code) }

// LineOf returns the greatest line whose first offset is <= offset.
func (c *Chunk) LineOf(offset int) int {
	return sort.Search(len(c.lineBegins), func(i int) bool { return c.lineBegins[i] > offset }) - 1
}

// Read decodes the instruction at offset.
func (c *Chunk) Read(offset int) (res Decoded, width int, ok bool) {
	return Decode(&cursor{code: c.code, pos: offset})
}

// Iter returns a fresh iterator over the instructions of c, from offset 0.
func (c *Chunk) Iter() *CodeIter { return &CodeIter{cursor: cursor{code: c.code}} }

type CodeIter struct {
	cursor
}

// Next returns the next instruction with its starting offset.
// ok is false once the code is exhausted.
func (it *CodeIter) Next() (res Decoded, offset int, ok bool) {
	offset = it.pos
	res, _, ok = Decode(&it.cursor)
	return
}
