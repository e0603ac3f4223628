package verifier

import (
	"reflect"

	"github.com/Turyansky/Sigil/internal/ilstack"
	"github.com/Turyansky/Sigil/internal/instrbuf"
	"github.com/Turyansky/Sigil/internal/verrors"
)

// ScopeKind tags a Scope as a try, catch, or finally region (spec §3 "Scope frame").
type ScopeKind int

const (
	ScopeTry ScopeKind = iota
	ScopeCatch
	ScopeFinally
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeTry:
		return "try"
	case ScopeCatch:
		return "catch"
	case ScopeFinally:
		return "finally"
	default:
		return "?"
	}
}

// Scope is one frame on the verifier's LIFO scope stack. Try, Catch and Finally frames
// reference each other by id, not by owning pointer (spec.md §9 "Cyclic ownership") —
// the arena is the verifier's scopes slice plus the maps below.
type Scope struct {
	ID         uint64
	Kind       ScopeKind
	ParentTry  uint64 // for Catch/Finally
	EndLabel   LabelID
	CaughtType reflect.Type // for Catch
	OpenedAt   int
	ClosedAt   *int

	// Try-only bookkeeping.
	hasChild     bool // at least one Catch or Finally was opened under this Try
	finallySeen  bool // a Finally has already been opened for this Try
	catchOpen    bool // a sibling Catch is currently open under this Try
}

func (v *Verifier) innermostOpenScope() *Scope {
	if len(v.scopes) == 0 {
		return nil
	}
	return v.scopes[len(v.scopes)-1]
}

func (v *Verifier) findTry(id uint64) *Scope {
	for _, s := range v.scopes {
		if s.ID == id && s.Kind == ScopeTry {
			return s
		}
	}
	return nil
}

func (v *Verifier) scopeErr(reason string, s *Scope) error {
	idx := v.Buf.CurrentIndex()
	e := verrors.New(verrors.KindScopeError, idx, v.stack.String(), "%s", reason)
	return e
}

// BeginExceptionBlock opens a new try region. Precondition: the current stack is root
// (spec §4.6). Returns the scope id and the try's end label, marked once EndExceptionBlock
// runs.
func (v *Verifier) BeginExceptionBlock(loc instrbuf.SourceLoc) (uint64, LabelID, error) {
	if err := v.checkNotFinalized(); err != nil {
		return 0, 0, err
	}
	if !v.stack.IsRoot() && !v.stack.IsUnreachable() {
		return 0, 0, v.scopeErr("BeginExceptionBlock requires an empty stack", nil)
	}
	v.nextScopeID++
	id := v.nextScopeID
	end := v.DefineLabel("try_end")
	s := &Scope{ID: id, Kind: ScopeTry, EndLabel: end, OpenedAt: v.Buf.CurrentIndex()}
	v.scopes = append(v.scopes, s)
	v.Buf.Append("begin_try", instrbuf.Operand{}, 0, loc)
	return id, end, nil
}

// BeginCatchBlock opens a catch region under tryID for the given caught type. Precondition:
// root stack, the innermost open scope is tryID, and no sibling catch is already open.
// Effect: the stack resets to exactly {Reference(caughtType)} (spec §4.6).
func (v *Verifier) BeginCatchBlock(tryID uint64, caughtType reflect.Type, loc instrbuf.SourceLoc) (uint64, error) {
	if err := v.checkNotFinalized(); err != nil {
		return 0, err
	}
	if !v.stack.IsRoot() && !v.stack.IsUnreachable() {
		return 0, v.scopeErr("BeginCatchBlock requires an empty stack", nil)
	}
	top := v.innermostOpenScope()
	if top == nil || top.ID != tryID || top.Kind != ScopeTry {
		return 0, v.scopeErr("BeginCatchBlock must be the innermost open scope's try", top)
	}
	if top.catchOpen {
		return 0, v.scopeErr("a sibling catch block is already open for this try", top)
	}
	v.nextScopeID++
	id := v.nextScopeID
	s := &Scope{ID: id, Kind: ScopeCatch, ParentTry: tryID, CaughtType: caughtType, OpenedAt: v.Buf.CurrentIndex()}
	v.scopes = append(v.scopes, s)
	top.hasChild = true
	top.catchOpen = true
	v.Buf.Append("begin_catch", instrbuf.Operand{Kind: instrbuf.OperandType, Ref: caughtType}, 0, loc)
	v.stack = ilstack.Stack{}.Push(ilstack.RefOf(caughtType))
	return id, nil
}

// BeginCatchAllBlock is BeginCatchBlock(Throwable) (spec §4.6).
func (v *Verifier) BeginCatchAllBlock(tryID uint64, throwable reflect.Type, loc instrbuf.SourceLoc) (uint64, error) {
	return v.BeginCatchBlock(tryID, throwable, loc)
}

// EndCatchBlock closes the innermost open catch scope. Precondition: root stack.
// Effect: emits a leave to the parent try's end label, registering a patch the same way
// a forward branch would (spec.md Open Question: preserved verbatim from the source
// behavior — both a branch patch and a unique-stack branch record are registered).
func (v *Verifier) EndCatchBlock(catchID uint64, loc instrbuf.SourceLoc) error {
	if err := v.checkNotFinalized(); err != nil {
		return err
	}
	top := v.innermostOpenScope()
	if top == nil || top.ID != catchID || top.Kind != ScopeCatch {
		return v.scopeErr("EndCatchBlock must be the innermost open scope's catch", top)
	}
	if !v.stack.IsRoot() && !v.stack.IsUnreachable() {
		return v.scopeErr("EndCatchBlock requires an empty stack", top)
	}
	parent := v.findTry(top.ParentTry)
	if parent == nil {
		return v.scopeErr("catch block has no parent try", top)
	}
	idx, err := v.EmitBranch("leave", parent.EndLabel, nil, true, loc)
	if err != nil {
		return err
	}
	_ = idx
	closedAt := v.Buf.CurrentIndex()
	top.ClosedAt = &closedAt
	v.scopes = v.scopes[:len(v.scopes)-1]
	parent.catchOpen = false
	v.stack = ilstack.Stack{}
	return nil
}

// BeginFinallyBlock opens the finally region for tryID. Precondition: root stack, the
// innermost open scope is tryID, and no finally has already been defined for it.
func (v *Verifier) BeginFinallyBlock(tryID uint64, loc instrbuf.SourceLoc) (uint64, error) {
	if err := v.checkNotFinalized(); err != nil {
		return 0, err
	}
	if !v.stack.IsRoot() && !v.stack.IsUnreachable() {
		return 0, v.scopeErr("BeginFinallyBlock requires an empty stack", nil)
	}
	top := v.innermostOpenScope()
	if top == nil || top.ID != tryID || top.Kind != ScopeTry {
		return 0, v.scopeErr("BeginFinallyBlock must be the innermost open scope's try", top)
	}
	if top.finallySeen {
		return 0, v.scopeErr("a finally block is already defined for this try", top)
	}
	v.nextScopeID++
	id := v.nextScopeID
	s := &Scope{ID: id, Kind: ScopeFinally, ParentTry: tryID, OpenedAt: v.Buf.CurrentIndex()}
	v.scopes = append(v.scopes, s)
	top.hasChild = true
	top.finallySeen = true
	v.Buf.Append("begin_finally", instrbuf.Operand{}, 0, loc)
	v.stack = ilstack.Stack{}
	return id, nil
}

// EndFinallyBlock closes the innermost open finally scope. Precondition: root stack.
func (v *Verifier) EndFinallyBlock(finallyID uint64, loc instrbuf.SourceLoc) error {
	if err := v.checkNotFinalized(); err != nil {
		return err
	}
	top := v.innermostOpenScope()
	if top == nil || top.ID != finallyID || top.Kind != ScopeFinally {
		return v.scopeErr("EndFinallyBlock must be the innermost open scope's finally", top)
	}
	if !v.stack.IsRoot() && !v.stack.IsUnreachable() {
		return v.scopeErr("EndFinallyBlock requires an empty stack", top)
	}
	v.Buf.Append("endfinally", instrbuf.Operand{}, 0, loc)
	closedAt := v.Buf.CurrentIndex()
	top.ClosedAt = &closedAt
	v.scopes = v.scopes[:len(v.scopes)-1]
	v.stack = ilstack.Stack{}
	return nil
}

// EndExceptionBlock closes tryID. Precondition: it is the innermost open scope, every
// catch/finally opened under it is closed, and at least one was defined; root stack.
// Effect: marks the try's end label.
func (v *Verifier) EndExceptionBlock(tryID uint64, loc instrbuf.SourceLoc) error {
	if err := v.checkNotFinalized(); err != nil {
		return err
	}
	top := v.innermostOpenScope()
	if top == nil || top.ID != tryID || top.Kind != ScopeTry {
		return v.scopeErr("EndExceptionBlock must be the innermost open scope", top)
	}
	if !top.hasChild {
		return v.scopeErr("try requires at least one catch or finally", top)
	}
	if top.catchOpen {
		return v.scopeErr("a catch block under this try is still open", top)
	}
	if !v.stack.IsRoot() && !v.stack.IsUnreachable() {
		return v.scopeErr("EndExceptionBlock requires an empty stack", top)
	}
	closedAt := v.Buf.CurrentIndex()
	top.ClosedAt = &closedAt
	v.scopes = v.scopes[:len(v.scopes)-1]
	v.Buf.Append("end_try", instrbuf.Operand{}, 0, loc)
	v.stack = ilstack.Stack{}
	return v.MarkLabel(top.EndLabel)
}

// AllScopesClosed reports whether the scope stack is empty (spec §4.8 step 2, §8 "Scope
// closure").
func (v *Verifier) AllScopesClosed() bool { return len(v.scopes) == 0 }

// OpenScopes returns the still-open scopes, outermost first, for error reporting.
func (v *Verifier) OpenScopes() []*Scope { return append([]*Scope(nil), v.scopes...) }
