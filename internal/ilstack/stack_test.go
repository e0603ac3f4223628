package ilstack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_PushPopRoundTrip(t *testing.T) {
	var s Stack
	assert.True(t, s.IsRoot())

	s = s.Push(I32).Push(F64)
	assert.Equal(t, 2, s.Height())

	top, ok := s.TopN(2)
	assert.True(t, ok)
	assert.Equal(t, []Type{I32, F64}, top)

	rest, popped, ok := s.PopN(2)
	assert.True(t, ok)
	assert.Equal(t, []Type{I32, F64}, popped)
	assert.True(t, rest.IsRoot())
}

func TestStack_PopUnderflow(t *testing.T) {
	s := Stack{}.Push(I32)
	_, _, ok := s.PopN(2)
	assert.False(t, ok)

	_, ok = s.TopN(5)
	assert.False(t, ok)
}

func TestStack_StructuralSharing(t *testing.T) {
	base := Stack{}.Push(I32)
	a := base.Push(F32)
	b := base.Push(F64)

	assert.Equal(t, 2, a.Height())
	assert.Equal(t, 2, b.Height())
	assert.Equal(t, 1, base.Height())

	topA, _ := a.TopN(1)
	topB, _ := b.TopN(1)
	assert.Equal(t, F32, topA[0])
	assert.Equal(t, F64, topB[0])
}

func TestStack_Unreachable(t *testing.T) {
	s := Stack{}.Push(I32).Push(F64)
	u := s.Unreachable()
	assert.True(t, u.IsUnreachable())

	vs, ok := u.TopN(10)
	assert.True(t, ok)
	assert.Len(t, vs, 10)
	for _, v := range vs {
		assert.Equal(t, Unknown, v)
	}

	rest, popped, ok := u.PopN(3)
	assert.True(t, ok)
	assert.Len(t, popped, 3)
	assert.True(t, rest.IsUnreachable())

	r := u.MarkReachable()
	assert.False(t, r.IsUnreachable())
}

func TestStack_EqualIgnoresHistory(t *testing.T) {
	a := Stack{}.Push(I32).Push(F64)
	b := Stack{}.Push(I32).Push(F64)
	assert.True(t, a.Equal(b))

	c := Stack{}.Push(F64).Push(I32)
	assert.False(t, a.Equal(c))
}

func TestStack_EqualWithUnreachableIsAlwaysTrue(t *testing.T) {
	a := Stack{}.Push(I32)
	u := Stack{}.Unreachable()
	assert.True(t, a.Equal(u))
	assert.True(t, u.Equal(a))
}

func TestStack_UniqueStableAndSensitiveToShape(t *testing.T) {
	a := Stack{}.Push(I32).Push(F64)
	b := Stack{}.Push(I32).Push(F64)
	assert.Equal(t, a.Unique(), b.Unique())

	c := Stack{}.Push(F64).Push(I32)
	assert.NotEqual(t, a.Unique(), c.Unique())
}

func TestStack_String(t *testing.T) {
	s := Stack{}.Push(I32).Push(F64)
	assert.Equal(t, "[Int32, Float64]", s.String())
	assert.Equal(t, "[]", Stack{}.String())
}
