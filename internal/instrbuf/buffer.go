// Package instrbuf is the append-only log of pending instructions (spec §4.3, C3). It
// knows nothing about verification: it assigns monotonic indices, remembers each
// instruction's operand and source location, and lets a previously-appended operand be
// rewritten in place for backpatching forward branches. Ordering is never changed.
package instrbuf

import "fmt"

// OperandKind tags which field of Operand is populated.
type OperandKind uint8

const (
	OperandNone OperandKind = iota
	OperandI32
	OperandI64
	OperandF32
	OperandF64
	OperandType
	OperandMethod
	OperandCtor
	OperandField
	OperandLocal
	OperandArg
	OperandLabel
	OperandSwitchTable
)

// Operand is the tagged-union operand payload for one instruction (spec §3
// "Instruction"). Only the field matching Kind is meaningful.
type Operand struct {
	Kind      OperandKind
	I32       int32
	I64       int64
	F32       float32
	F64       float64
	Ref       any // reflect.Type, *reflect.Method, host constructor/field handle, etc.
	LabelID   uint64
	Targets   []uint64 // switch-table case targets, in case order
	HasTarget bool     // whether LabelID/Targets has been resolved to a concrete offset yet
}

// SourceLoc tags an instruction with the caller line that produced it, so a verification
// error can point back at the offending call site. This is the only debugging metadata
// this repo carries — spec.md's Non-goals exclude anything richer.
type SourceLoc struct {
	File string
	Line int
}

func (l SourceLoc) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Instruction is one entry in the buffer.
type Instruction struct {
	Index    int
	Opcode   string
	Operand  Operand
	PopCount int
	Source   SourceLoc
}

// Buffer is the append-only instruction log. The zero value is ready to use.
type Buffer struct {
	instrs []Instruction
}

// Append records a new instruction and returns its index.
func (b *Buffer) Append(opcode string, operand Operand, popCount int, loc SourceLoc) int {
	idx := len(b.instrs)
	b.instrs = append(b.instrs, Instruction{
		Index:    idx,
		Opcode:   opcode,
		Operand:  operand,
		PopCount: popCount,
		Source:   loc,
	})
	return idx
}

// Patch rewrites the operand of a previously appended instruction, e.g. once a forward
// branch's target label has been marked and its offset is known. It never reorders or
// removes entries.
func (b *Buffer) Patch(index int, operand Operand) error {
	if index < 0 || index >= len(b.instrs) {
		return fmt.Errorf("instrbuf: patch index %d out of range [0,%d)", index, len(b.instrs))
	}
	b.instrs[index].Operand = operand
	return nil
}

// CurrentIndex returns the index the next Append call will assign.
func (b *Buffer) CurrentIndex() int { return len(b.instrs) }

// Len returns the number of instructions appended so far.
func (b *Buffer) Len() int { return len(b.instrs) }

// At returns the instruction at index, for finalization-time scans.
func (b *Buffer) At(index int) Instruction { return b.instrs[index] }

// Instructions returns the full ordered log, handed to the host emitter at
// CreateDelegate time (spec §6, §4.8).
func (b *Buffer) Instructions() []Instruction {
	out := make([]Instruction, len(b.instrs))
	copy(out, b.instrs)
	return out
}
