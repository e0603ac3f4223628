package sigil

import "github.com/Turyansky/Sigil/internal/verrors"

// VerificationError is the single error type every verification failure takes (spec
// §7). Kind, Message, InstructionIndex, Stack and Labels are all populated; callers
// switch on Kind rather than using errors.As against one type per kind.
type VerificationError = verrors.Error

// Kind values, re-exported from internal/verrors so callers never import an internal
// package to inspect an error.
const (
	KindArgumentNull      = verrors.KindArgumentNull
	KindStackUnderflow    = verrors.KindStackUnderflow
	KindTypeMismatch      = verrors.KindTypeMismatch
	KindScopeError        = verrors.KindScopeError
	KindLabelError        = verrors.KindLabelError
	KindNoSuchConstructor = verrors.KindNoSuchConstructor
	KindNoSuchMethod      = verrors.KindNoSuchMethod
	KindInvalidOperation  = verrors.KindInvalidOperation
	KindOwnershipError    = verrors.KindOwnershipError
)

func argumentNull(e *Emitter, what string) error {
	return e.errorf(KindArgumentNull, "%s must not be nil", what)
}
