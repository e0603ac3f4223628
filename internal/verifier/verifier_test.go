package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Turyansky/Sigil/internal/ilstack"
	"github.com/Turyansky/Sigil/internal/instrbuf"
	"github.com/Turyansky/Sigil/internal/verrors"
)

func newTestVerifier() *Verifier {
	var buf instrbuf.Buffer
	return New(&buf, nil, nil)
}

func TestUpdateState_PushPop(t *testing.T) {
	v := newTestVerifier()
	_, err := v.UpdateState("ldc.i4", instrbuf.Operand{Kind: instrbuf.OperandI32, I32: 1}, nil, []ilstack.Type{ilstack.I32}, instrbuf.SourceLoc{})
	require.NoError(t, err)
	assert.Equal(t, 1, v.Stack().Height())

	_, err = v.UpdateState("pop", instrbuf.Operand{}, []ilstack.Type{ilstack.I32}, nil, instrbuf.SourceLoc{})
	require.NoError(t, err)
	assert.True(t, v.Stack().IsRoot())
}

func TestUpdateState_UnderflowIsTyped(t *testing.T) {
	v := newTestVerifier()
	_, err := v.UpdateState("pop", instrbuf.Operand{}, []ilstack.Type{ilstack.I32}, nil, instrbuf.SourceLoc{})
	require.Error(t, err)
	var verr *verrors.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, verrors.KindStackUnderflow, verr.Kind)
}

func TestUpdateState_TypeMismatchIsTyped(t *testing.T) {
	v := newTestVerifier()
	_, err := v.UpdateState("ldc.i4", instrbuf.Operand{}, nil, []ilstack.Type{ilstack.I32}, instrbuf.SourceLoc{})
	require.NoError(t, err)

	_, err = v.UpdateState("add", instrbuf.Operand{}, []ilstack.Type{ilstack.F64}, nil, instrbuf.SourceLoc{})
	require.Error(t, err)
	var verr *verrors.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, verrors.KindTypeMismatch, verr.Kind)
}

func TestUpdateState_ExpectedPopsAreDeepestFirst(t *testing.T) {
	v := newTestVerifier()
	_, err := v.UpdateState("ldc.i4", instrbuf.Operand{}, nil, []ilstack.Type{ilstack.I32}, instrbuf.SourceLoc{})
	require.NoError(t, err)
	_, err = v.UpdateState("ldc.r8", instrbuf.Operand{}, nil, []ilstack.Type{ilstack.F64}, instrbuf.SourceLoc{})
	require.NoError(t, err)

	// top of stack (most recently pushed) is F64; expectedPops[0] is checked against the
	// deepest operand, so [I32, F64] must match [Int32-then-pushed, Float64-then-pushed].
	_, err = v.UpdateState("op", instrbuf.Operand{}, []ilstack.Type{ilstack.I32, ilstack.F64}, nil, instrbuf.SourceLoc{})
	assert.NoError(t, err)
}

func TestUpdateState_TracksHighWaterMark(t *testing.T) {
	v := newTestVerifier()
	for i := 0; i < 3; i++ {
		_, err := v.UpdateState("ldc.i4", instrbuf.Operand{}, nil, []ilstack.Type{ilstack.I32}, instrbuf.SourceLoc{})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, v.HighWaterMark())
	_, err := v.UpdateState("pop", instrbuf.Operand{}, []ilstack.Type{ilstack.I32}, nil, instrbuf.SourceLoc{})
	require.NoError(t, err)
	assert.Equal(t, 3, v.HighWaterMark(), "high water mark never drops")
}

func TestDefiniteAssignment_UnassignedUntilStored(t *testing.T) {
	v := newTestVerifier()
	id := v.DeclareLocal("x", ilstack.I32)
	assert.False(t, v.LocalAssigned(id))
	v.MarkLocalAssigned(id)
	assert.True(t, v.LocalAssigned(id))
}

func TestBranch_BackwardTargetResolvesImmediately(t *testing.T) {
	v := newTestVerifier()
	label := v.DefineLabel("loop")
	require.NoError(t, v.MarkLabel(label))

	idx, err := v.EmitBranch("br", label, nil, true, instrbuf.SourceLoc{})
	require.NoError(t, err)
	assert.True(t, v.Buf.At(idx).Operand.HasTarget, "backward branch resolves at emit time")
	assert.True(t, v.AllPatchesResolved())
}

func TestBranch_ForwardTargetPatchedAtMarkTime(t *testing.T) {
	v := newTestVerifier()
	label := v.DefineLabel("end")

	idx, err := v.EmitBranch("br", label, nil, true, instrbuf.SourceLoc{})
	require.NoError(t, err)
	assert.False(t, v.Buf.At(idx).Operand.HasTarget)
	assert.False(t, v.AllPatchesResolved())

	require.NoError(t, v.MarkLabel(label))
	assert.True(t, v.Buf.At(idx).Operand.HasTarget)
	assert.True(t, v.AllPatchesResolved())
}

func TestBranch_DisagreeingStackShapesAreRejected(t *testing.T) {
	v := newTestVerifier()
	label := v.DefineLabel("target")

	_, err := v.UpdateState("ldc.i4", instrbuf.Operand{}, nil, []ilstack.Type{ilstack.I32}, instrbuf.SourceLoc{})
	require.NoError(t, err)
	_, err = v.EmitBranch("brtrue", label, []ilstack.Type{ilstack.I32}, false, instrbuf.SourceLoc{})
	require.NoError(t, err)

	// Now arrive with a different shape on the stack (one Float64 instead of empty).
	_, err = v.UpdateState("ldc.r8", instrbuf.Operand{}, nil, []ilstack.Type{ilstack.F64}, instrbuf.SourceLoc{})
	require.NoError(t, err)
	_, err = v.EmitBranch("br", label, nil, true, instrbuf.SourceLoc{})
	require.Error(t, err)
	var verr *verrors.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, verrors.KindLabelError, verr.Kind)
}

func TestBranch_MarkLabelRejectsDisagreeingLiveStack(t *testing.T) {
	v := newTestVerifier()
	label := v.DefineLabel("target")

	_, err := v.EmitBranch("br", label, nil, true, instrbuf.SourceLoc{})
	require.NoError(t, err)

	_, err = v.UpdateState("ldc.i4", instrbuf.Operand{}, nil, []ilstack.Type{ilstack.I32}, instrbuf.SourceLoc{})
	require.NoError(t, err)

	err = v.MarkLabel(label)
	require.Error(t, err)
	var verr *verrors.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, verrors.KindLabelError, verr.Kind)
}

func TestBranch_UnconditionalMakesStackUnreachable(t *testing.T) {
	v := newTestVerifier()
	label := v.DefineLabel("end")
	_, err := v.EmitBranch("br", label, nil, true, instrbuf.SourceLoc{})
	require.NoError(t, err)
	assert.True(t, v.Stack().IsUnreachable())

	// Code after an unconditional branch, before the next label mark, verifies freely.
	_, err = v.UpdateState("pop", instrbuf.Operand{}, []ilstack.Type{ilstack.I32, ilstack.F64}, nil, instrbuf.SourceLoc{})
	assert.NoError(t, err)

	require.NoError(t, v.MarkLabel(label))
	assert.False(t, v.Stack().IsUnreachable())
}

func TestBranch_CannotTargetUnknownLabel(t *testing.T) {
	v := newTestVerifier()
	_, err := v.EmitBranch("br", LabelID(999), nil, true, instrbuf.SourceLoc{})
	require.Error(t, err)
	var verr *verrors.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, verrors.KindLabelError, verr.Kind)
}

func TestMarkLabel_Twice(t *testing.T) {
	v := newTestVerifier()
	label := v.DefineLabel("l")
	require.NoError(t, v.MarkLabel(label))
	err := v.MarkLabel(label)
	require.Error(t, err)
}

func TestAllLabelsMarked(t *testing.T) {
	v := newTestVerifier()
	l1 := v.DefineLabel("a")
	l2 := v.DefineLabel("b")
	ok, unmarked := v.AllLabelsMarked()
	assert.False(t, ok)
	assert.ElementsMatch(t, []LabelID{l1, l2}, unmarked)

	require.NoError(t, v.MarkLabel(l1))
	require.NoError(t, v.MarkLabel(l2))
	ok, unmarked = v.AllLabelsMarked()
	assert.True(t, ok)
	assert.Empty(t, unmarked)
}

func TestScopes_ExceptionBlockRequiresEmptyStack(t *testing.T) {
	v := newTestVerifier()
	_, err := v.UpdateState("ldc.i4", instrbuf.Operand{}, nil, []ilstack.Type{ilstack.I32}, instrbuf.SourceLoc{})
	require.NoError(t, err)

	_, _, err = v.BeginExceptionBlock(instrbuf.SourceLoc{})
	require.Error(t, err)
	var verr *verrors.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, verrors.KindScopeError, verr.Kind)
}

func TestScopes_FullTryCatchLifecycleCloses(t *testing.T) {
	v := newTestVerifier()
	tryID, _, err := v.BeginExceptionBlock(instrbuf.SourceLoc{})
	require.NoError(t, err)
	assert.False(t, v.AllScopesClosed())

	catchID, err := v.BeginCatchBlock(tryID, nil, instrbuf.SourceLoc{})
	require.NoError(t, err)
	assert.Equal(t, 1, v.Stack().Height(), "catch entry pushes the caught reference")

	_, err = v.UpdateState("pop", instrbuf.Operand{}, []ilstack.Type{ilstack.RefOf(nil)}, nil, instrbuf.SourceLoc{})
	require.NoError(t, err)

	require.NoError(t, v.EndCatchBlock(catchID, instrbuf.SourceLoc{}))
	require.NoError(t, v.EndExceptionBlock(tryID, instrbuf.SourceLoc{}))

	assert.True(t, v.AllScopesClosed())
	assert.True(t, v.AllPatchesResolved())
}

func TestScopes_EndExceptionBlockRequiresAtLeastOneHandler(t *testing.T) {
	v := newTestVerifier()
	tryID, _, err := v.BeginExceptionBlock(instrbuf.SourceLoc{})
	require.NoError(t, err)

	err = v.EndExceptionBlock(tryID, instrbuf.SourceLoc{})
	require.Error(t, err)
	var verr *verrors.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, verrors.KindScopeError, verr.Kind)
}

func TestScopes_SiblingCatchCannotOpenWhileOneIsOpen(t *testing.T) {
	v := newTestVerifier()
	tryID, _, err := v.BeginExceptionBlock(instrbuf.SourceLoc{})
	require.NoError(t, err)
	_, err = v.BeginCatchBlock(tryID, nil, instrbuf.SourceLoc{})
	require.NoError(t, err)

	_, err = v.BeginCatchBlock(tryID, nil, instrbuf.SourceLoc{})
	require.Error(t, err)
}

func TestScopes_FinallyCanOnlyBeDefinedOnce(t *testing.T) {
	v := newTestVerifier()
	tryID, _, err := v.BeginExceptionBlock(instrbuf.SourceLoc{})
	require.NoError(t, err)
	finID, err := v.BeginFinallyBlock(tryID, instrbuf.SourceLoc{})
	require.NoError(t, err)
	require.NoError(t, v.EndFinallyBlock(finID, instrbuf.SourceLoc{}))

	_, err = v.BeginFinallyBlock(tryID, instrbuf.SourceLoc{})
	require.Error(t, err)
}
