// Package verifier is the abstract interpreter at the center of the emitter (spec §4.4,
// C4). It owns the current abstract stack, the label/local/scope bookkeeping, and the
// single UpdateState primitive every instruction-family method in the root package
// funnels through. Nothing in this package knows what a "NewArray" or "BeginCatchBlock"
// is; it only knows pops, pushes, labels, and scopes.
package verifier

import (
	"github.com/Turyansky/Sigil/internal/ilstack"
	"github.com/Turyansky/Sigil/internal/instrbuf"
	"github.com/Turyansky/Sigil/internal/verrors"
)

// LabelID, LocalID and ArgID are opaque handles into the verifier's bookkeeping maps.
type (
	LabelID uint64
	LocalID uint64
	ArgID   uint64
)

// LabelInfo is the verifier's record for one defined label (spec §3 "Label").
type LabelInfo struct {
	Name           string
	RequiredStack  *ilstack.Stack
	RequiredIsSet  bool
	MarkedAt       *int
}

// LocalSlot and ArgSlot record a declared type for a local variable or method parameter.
type LocalSlot struct {
	Name string
	Type ilstack.Type
}

type ArgSlot struct {
	Name string
	Type ilstack.Type
}

type patch struct {
	label LabelID
}

type branchRecord struct {
	label LabelID
	index int
}

// Verifier is the aggregate state machine of spec §3 "Verifier state (aggregate)".
type Verifier struct {
	Buf *instrbuf.Buffer

	stack ilstack.Stack

	labels      map[LabelID]*LabelInfo
	nextLabelID LabelID

	locals      map[LocalID]LocalSlot
	nextLocalID LocalID
	assigned    map[LocalID]bool

	args map[ArgID]ArgSlot

	scopes      []*Scope
	nextScopeID uint64

	pendingPatches  map[int]patch
	branchesByStack map[uint64]branchRecord

	returnType   *ilstack.Type // nil means void
	highWater    int
	finalized    bool

	trace    []TraceEntry
	traceCap int
}

// TraceEntry is one recorded UpdateState transition, kept only when tracing is enabled
// (spec.md §C.2 supplemented feature).
type TraceEntry struct {
	Index  int
	Opcode string
	Pre    string
	Post   string
}

// New creates a Verifier for a method with the given parameter types and return type
// (nil for void). Parameters occupy ArgID(0)..ArgID(n-1) in order.
func New(buf *instrbuf.Buffer, paramTypes []ilstack.Type, returnType *ilstack.Type) *Verifier {
	v := &Verifier{
		Buf:             buf,
		labels:          map[LabelID]*LabelInfo{},
		locals:          map[LocalID]LocalSlot{},
		assigned:        map[LocalID]bool{},
		args:            map[ArgID]ArgSlot{},
		pendingPatches:  map[int]patch{},
		branchesByStack: map[uint64]branchRecord{},
		returnType:      returnType,
	}
	for i, t := range paramTypes {
		v.args[ArgID(i)] = ArgSlot{Type: t}
	}
	return v
}

// SetTraceCapacity turns on (n>0) or off (n==0) the bounded UpdateState trace ring buffer.
func (v *Verifier) SetTraceCapacity(n int) {
	v.traceCap = n
	if n == 0 {
		v.trace = nil
	}
}

// Trace returns the recorded transitions, oldest first.
func (v *Verifier) Trace() []TraceEntry { return append([]TraceEntry(nil), v.trace...) }

// Stack returns the current abstract stack snapshot.
func (v *Verifier) Stack() ilstack.Stack { return v.stack }

// Finalized reports whether CreateDelegate has already run.
func (v *Verifier) Finalized() bool { return v.finalized }

// HighWaterMark returns the largest stack height observed across the method so far —
// the value fed to the host's finalize(returnType, locals) call as the declared max
// stack depth (spec.md §C.3).
func (v *Verifier) HighWaterMark() int { return v.highWater }

func (v *Verifier) checkNotFinalized() error {
	if v.finalized {
		return verrors.New(verrors.KindInvalidOperation, v.Buf.CurrentIndex(), v.stack.String(),
			"mutation after CreateDelegate")
	}
	return nil
}

// DefineLabel allocates a fresh, unmarked label (spec §4.5).
func (v *Verifier) DefineLabel(name string) LabelID {
	v.nextLabelID++
	id := v.nextLabelID
	v.labels[id] = &LabelInfo{Name: name}
	return id
}

// LabelDefined reports whether id was produced by this verifier's DefineLabel.
func (v *Verifier) LabelDefined(id LabelID) bool {
	_, ok := v.labels[id]
	return ok
}

// LabelMarked reports whether id has already been marked.
func (v *Verifier) LabelMarked(id LabelID) bool {
	info, ok := v.labels[id]
	return ok && info.MarkedAt != nil
}

// DeclareLocal allocates a new local slot of the given type, unassigned until the first
// StoreLocal reaches it.
func (v *Verifier) DeclareLocal(name string, t ilstack.Type) LocalID {
	id := v.nextLocalID
	v.nextLocalID++
	v.locals[id] = LocalSlot{Name: name, Type: t}
	return id
}

// LocalType returns the declared type of a local, or false if unknown to this verifier.
func (v *Verifier) LocalType(id LocalID) (ilstack.Type, bool) {
	s, ok := v.locals[id]
	return s.Type, ok
}

// ArgType returns the declared type of a parameter slot, or false if unknown.
func (v *Verifier) ArgType(id ArgID) (ilstack.Type, bool) {
	s, ok := v.args[id]
	return s.Type, ok
}

// MarkLocalAssigned records that a store has reached this local on the current path.
func (v *Verifier) MarkLocalAssigned(id LocalID) { v.assigned[id] = true }

// LocalAssigned reports whether every path reaching this point has stored to id at
// least once (spec.md §C.6, conservative definite-assignment tracking).
func (v *Verifier) LocalAssigned(id LocalID) bool { return v.assigned[id] }

func (v *Verifier) recordTrace(opcode string, pre, post ilstack.Stack) {
	if v.traceCap == 0 {
		return
	}
	v.trace = append(v.trace, TraceEntry{
		Index:  v.Buf.CurrentIndex() - 1,
		Opcode: opcode,
		Pre:    pre.String(),
		Post:   post.String(),
	})
	if len(v.trace) > v.traceCap {
		v.trace = v.trace[len(v.trace)-v.traceCap:]
	}
}

// UpdateState is the single choke-point every opcode handler calls (spec §4.4). It pops
// len(expectedPops) values off the abstract stack (checking assignability against
// expectedPops, given deepest-first — i.e. in the order the values were originally
// pushed, per CIL's pop-in-reverse-of-push convention), pushes the results, appends the
// instruction to the buffer, and returns its index.
func (v *Verifier) UpdateState(opcode string, operand instrbuf.Operand, expectedPops []ilstack.Type, pushed []ilstack.Type, loc instrbuf.SourceLoc) (int, error) {
	if err := v.checkNotFinalized(); err != nil {
		return -1, err
	}
	pre := v.stack
	n := len(expectedPops)
	top, ok := v.stack.TopN(n)
	if !ok {
		return -1, verrors.New(verrors.KindStackUnderflow, v.Buf.CurrentIndex(), v.stack.String(),
			"%s requires %d operand(s), have %d", opcode, n, v.stack.Height())
	}
	for i := 0; i < n; i++ {
		actual := top[i]
		expected := expectedPops[i]
		if !ilstack.Assignable(actual, expected) {
			return -1, verrors.New(verrors.KindTypeMismatch, v.Buf.CurrentIndex(), v.stack.String(),
				"%s: operand %d expected %s, got %s", opcode, i, expected, actual)
		}
	}
	rest, _, _ := v.stack.PopN(n)
	v.stack = rest.PushAll(pushed)
	if h := v.stack.Height(); h > v.highWater {
		v.highWater = h
	}
	idx := v.Buf.Append(opcode, operand, n, loc)
	v.recordTrace(opcode, pre, v.stack)
	return idx, nil
}

// CurrentStack exposes v.stack.String() for error construction outside this package
// without leaking the ilstack type into verrors.
func (v *Verifier) CurrentStackString() string { return v.stack.String() }

// LabelOffsets returns the resolved instruction index of every marked label, for handing
// to the host emitter at finalize time (spec §4.8 step 5).
func (v *Verifier) LabelOffsets() map[uint64]int {
	out := make(map[uint64]int, len(v.labels))
	for id, info := range v.labels {
		if info.MarkedAt != nil {
			out[uint64(id)] = *info.MarkedAt
		}
	}
	return out
}

// LocalTypes returns every declared local's type in declaration order, for the host
// emitter's finalize(returnType, locals) call.
func (v *Verifier) LocalTypes() []ilstack.Type {
	out := make([]ilstack.Type, v.nextLocalID)
	for id, s := range v.locals {
		out[id] = s.Type
	}
	return out
}
