package verifier

import (
	"github.com/Turyansky/Sigil/internal/ilstack"
	"github.com/Turyansky/Sigil/internal/instrbuf"
	"github.com/Turyansky/Sigil/internal/verrors"
)

// EmitReturn appends a ret instruction. The stack must hold exactly the method's return
// type, or be empty for void (spec §4.5). After ret, the live stack becomes unreachable
// until the next label mark, since control never falls through a ret.
func (v *Verifier) EmitReturn(loc instrbuf.SourceLoc) (int, error) {
	if err := v.checkNotFinalized(); err != nil {
		return -1, err
	}
	var expected []ilstack.Type
	if v.returnType != nil {
		expected = []ilstack.Type{*v.returnType}
	}
	idx, err := v.UpdateState("ret", instrbuf.Operand{}, expected, nil, loc)
	if err != nil {
		return -1, err
	}
	if !v.stack.IsRoot() {
		return idx, verrors.New(verrors.KindTypeMismatch, idx, v.stack.String(),
			"ret leaves %d extra value(s) on the stack", v.stack.Height())
	}
	v.stack = v.stack.Unreachable()
	return idx, nil
}

// ReturnType exposes the method's declared return type (nil for void).
func (v *Verifier) ReturnType() *ilstack.Type { return v.returnType }

// ReadyToFinalize runs the structural checks spec §4.8 requires before CreateDelegate
// may hand the buffer to the host: every label marked, every scope closed, every patch
// resolved, and (when the current position is reachable) the residual stack compatible
// with the return type.
func (v *Verifier) ReadyToFinalize() error {
	if v.finalized {
		return nil
	}
	if ok, unmarked := v.AllLabelsMarked(); !ok {
		ids := make([]uint64, len(unmarked))
		for i, id := range unmarked {
			ids[i] = uint64(id)
		}
		return verrors.New(verrors.KindLabelError, v.Buf.CurrentIndex(), v.stack.String(),
			"%d label(s) defined but never marked", len(unmarked)).WithLabels(ids...)
	}
	if !v.AllScopesClosed() {
		open := v.OpenScopes()
		return verrors.New(verrors.KindScopeError, v.Buf.CurrentIndex(), v.stack.String(),
			"%d exception scope(s) still open", len(open))
	}
	if !v.AllPatchesResolved() {
		return verrors.New(verrors.KindLabelError, v.Buf.CurrentIndex(), v.stack.String(),
			"unresolved forward branch patches remain")
	}
	if !v.stack.IsUnreachable() {
		var want []ilstack.Type
		if v.returnType != nil {
			want = []ilstack.Type{*v.returnType}
		}
		if !stackMatchesExactly(v.stack, want) {
			return verrors.New(verrors.KindTypeMismatch, v.Buf.CurrentIndex(), v.stack.String(),
				"method must end with ret; residual stack %s is not compatible with the declared return", v.stack)
		}
	}
	return nil
}

func stackMatchesExactly(s ilstack.Stack, want []ilstack.Type) bool {
	if s.Height() != len(want) {
		return false
	}
	top, ok := s.TopN(len(want))
	if !ok {
		return false
	}
	for i, w := range want {
		if !ilstack.Assignable(top[i], w) {
			return false
		}
	}
	return true
}

// MarkFinalized flips the finalized bit; no further mutation is permitted afterwards
// (spec §3 invariant 6).
func (v *Verifier) MarkFinalized() { v.finalized = true }
