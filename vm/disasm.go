package vm

import (
	"fmt"
	"io"
	"strings"
)

// DisassembleInst renders the instruction at offset, returning the offset of the next one.
// The line column is blanked when it matches the line of the preceding instruction,
// as in the full listing.
func (c *Chunk) DisassembleInst(offset int) (res string, newOffset int) {
	inst, width, ok := c.Read(offset)
	if !ok {
		return fmt.Sprintf("%04d <end>", offset), offset
	}
	prev, hasPrev := c.prevInst(offset)
	sameLine := hasPrev && c.LineOf(prev) == c.LineOf(offset)
	return c.renderInst(inst, offset, sameLine), offset + width
}

// prevInst returns the start of the last instruction beginning before offset.
func (c *Chunk) prevInst(offset int) (prev int, ok bool) {
	for it := c.Iter(); ; {
		_, start, more := it.Next()
		if !more || start >= offset {
			return
		}
		prev, ok = start, true
	}
}

func (c *Chunk) renderInst(inst Decoded, offset int, sameLine bool) string {
	var sb strings.Builder
	sprintf := func(format string, a ...any) { fmt.Fprintf(&sb, format, a...) }

	sprintf("%04d ", offset)
	if sameLine {
		sprintf("   | ")
	} else {
		sprintf("%4d ", c.LineOf(offset))
	}

	switch {
	case !inst.Ok():
		sprintf("%-16s %s", "BadOp", hexBytes(inst.Bad))
	case inst.Op == OpConst && int(inst.Arg) >= c.ConstCount():
		sprintf("%-16s %4d <missing>", inst.Op, inst.Arg)
	case inst.Op == OpConst:
		sprintf("%-16s %4d '%s'", inst.Op, inst.Arg, c.Const(inst.Arg))
	default:
		sprintf("%s", inst.Op)
	}
	return sb.String()
}

// Fdisassemble writes the whole listing of c to w under a `== name ==` header.
// It walks c with the same decoder the VM uses, so both agree on instruction boundaries.
func (c *Chunk) Fdisassemble(w io.Writer, name string) error {
	if _, err := fmt.Fprintf(w, "== %s ==\n", name); err != nil {
		return err
	}
	prevLine := -1
	for it := c.Iter(); ; {
		inst, offset, ok := it.Next()
		if !ok {
			return nil
		}
		line := c.LineOf(offset)
		if _, err := fmt.Fprintln(w, c.renderInst(inst, offset, line == prevLine)); err != nil {
			return err
		}
		prevLine = line
	}
}

func (c *Chunk) Disassemble(name string) string {
	var sb strings.Builder
	// Writes to a strings.Builder never fail.
	_ = c.Fdisassemble(&sb, name)
	return sb.String()
}
