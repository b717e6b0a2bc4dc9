package vm

import (
	"fmt"
	"io"
	"strings"
)

// Inst is a decoded, well-formed instruction.
type Inst struct {
	Op OpCode
	// Arg is the constant pool index of an OpConst.
	Arg byte
}

// Decoded is either a well-formed Inst or, when Bad is non-nil,
// a BadOp holding the raw bytes that could not be decoded.
type Decoded struct {
	Inst
	Bad []byte
}

func (d Decoded) Ok() bool { return d.Bad == nil }

func (d Decoded) String() string {
	switch {
	case !d.Ok():
		return fmt.Sprintf("BadOp %s", hexBytes(d.Bad))
	case d.Op.Operands() > 0:
		return fmt.Sprintf("%s %d", d.Op, d.Arg)
	default:
		return d.Op.String()
	}
}

func hexBytes(bs []byte) string {
	strs := make([]string, len(bs))
	for i, b := range bs {
		strs[i] = fmt.Sprintf("0x%02X", b)
	}
	return "[" + strings.Join(strs, " ") + "]"
}

// Decode reads the next instruction from r, reporting how many bytes it consumed.
// ok is false only when r has no byte left.
//
// Decode never fails on malformed input: an unknown opcode or a missing
// operand turns into a BadOp covering the bytes read so far.
func Decode(r io.ByteReader) (res Decoded, width int, ok bool) {
	b, err := r.ReadByte()
	if err != nil {
		return
	}
	prefix := PrefixOf(b)
	if !prefix.Known() {
		return Decoded{Bad: []byte{prefix.Raw}}, 1, true
	}

	seen := []byte{prefix.Raw}
	for i := 0; i < prefix.Op.Operands(); i++ {
		operand, err := r.ReadByte()
		if err != nil {
			// Truncated at the end of the stream.
			return Decoded{Bad: seen}, len(seen), true
		}
		seen = append(seen, operand)
	}

	res.Op = prefix.Op
	if len(seen) > 1 {
		res.Arg = seen[1]
	}
	return res, len(seen), true
}

// cursor is an io.ByteReader over code starting at an arbitrary offset.
type cursor struct {
	code []byte
	pos  int
}

func (c *cursor) ReadByte() (byte, error) {
	if c.pos >= len(c.code) {
		return 0, io.EOF
	}
	b := c.code[c.pos]
	c.pos++
	return b, nil
}
