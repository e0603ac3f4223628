package instrbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer_AppendAssignsMonotonicIndices(t *testing.T) {
	var b Buffer
	i0 := b.Append("ldc.i4", Operand{Kind: OperandI32, I32: 5}, 0, SourceLoc{})
	i1 := b.Append("ret", Operand{}, 1, SourceLoc{})

	assert.Equal(t, 0, i0)
	assert.Equal(t, 1, i1)
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, 2, b.CurrentIndex())
}

func TestBuffer_AtReturnsAppendedInstruction(t *testing.T) {
	var b Buffer
	b.Append("ldc.i4", Operand{Kind: OperandI32, I32: 7}, 0, SourceLoc{File: "x.go", Line: 3})

	in := b.At(0)
	assert.Equal(t, "ldc.i4", in.Opcode)
	assert.Equal(t, int32(7), in.Operand.I32)
	assert.Equal(t, "x.go:3", in.Source.String())
}

func TestBuffer_PatchRewritesOperandInPlace(t *testing.T) {
	var b Buffer
	idx := b.Append("br", Operand{Kind: OperandLabel, LabelID: 1}, 0, SourceLoc{})

	err := b.Patch(idx, Operand{Kind: OperandLabel, LabelID: 1, HasTarget: true})
	assert.NoError(t, err)
	assert.True(t, b.At(idx).Operand.HasTarget)
	assert.Equal(t, 1, b.Len(), "patch never inserts or reorders")
}

func TestBuffer_PatchOutOfRange(t *testing.T) {
	var b Buffer
	b.Append("nop", Operand{}, 0, SourceLoc{})

	err := b.Patch(5, Operand{})
	assert.Error(t, err)

	err = b.Patch(-1, Operand{})
	assert.Error(t, err)
}

func TestBuffer_InstructionsReturnsIndependentCopy(t *testing.T) {
	var b Buffer
	b.Append("nop", Operand{}, 0, SourceLoc{})

	snap := b.Instructions()
	b.Append("ret", Operand{}, 0, SourceLoc{})

	assert.Len(t, snap, 1, "snapshot must not see later appends")
	assert.Equal(t, 2, b.Len())
}

func TestSourceLoc_StringUnknownWhenEmpty(t *testing.T) {
	assert.Equal(t, "<unknown>", SourceLoc{}.String())
}
