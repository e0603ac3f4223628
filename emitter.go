// Package sigil is a verifying emitter for CIL, the .NET runtime's stack-based bytecode.
// Callers build a method by issuing a sequence of instruction calls on an *Emitter*;
// every call is checked against CIL's typing and structural rules at the call site, the
// way the teacher's abstract interpreter validates a WebAssembly function body one
// opcode at a time, instead of deferring to an opaque failure once a host JIT sees the
// finished stream.
//
// The hard part lives in internal/verifier (the UpdateState state machine) and
// internal/ilstack (the type lattice and persistent operand stack); this package is a
// thin, ergonomic skin that turns named CIL operations into calls against that core.
package sigil

import (
	"reflect"
	"runtime"

	"github.com/google/uuid"

	"github.com/Turyansky/Sigil/internal/hostreflect"
	"github.com/Turyansky/Sigil/internal/ilstack"
	"github.com/Turyansky/Sigil/internal/instrbuf"
	"github.com/Turyansky/Sigil/internal/verifier"
	"github.com/Turyansky/Sigil/internal/verrors"
	"github.com/Turyansky/Sigil/hostemit"
)

// StackType is the public name for the verification-type lattice value (spec §3
// "StackType", C1). Build one with Int32Type, ReferenceType, ValueTypeOf, and friends.
type StackType = ilstack.Type

// Primitive stack types with no payload.
var (
	Int32Type     = ilstack.I32
	Int64Type     = ilstack.I64
	Float32Type   = ilstack.F32
	Float64Type   = ilstack.F64
	NativeIntType = ilstack.NativeIntType
	NullLiteral   = ilstack.NullLiteralT
)

// ReferenceType, ManagedPointerType, ValueTypeOf, OpaqueType and ArrayType build the
// payload-carrying StackType variants over a reflect.Type standing in for a CLR type.
func ReferenceType(t reflect.Type) StackType     { return ilstack.RefOf(t) }
func ManagedPointerType(t reflect.Type) StackType { return ilstack.PtrOf(t) }
func ValueTypeOf(t reflect.Type) StackType       { return ilstack.ValueOf(t) }
func OpaqueType(t reflect.Type) StackType        { return ilstack.OpaqueOf(t) }
func ArrayType(elem reflect.Type) StackType      { return ilstack.ArrayOf(elem) }

// Label is a named branch target: defined once via DefineLabel, marked at most once via
// MarkLabel, and may have many incoming branches (spec §3 "Label").
type Label struct {
	id    verifier.LabelID
	owner uuid.UUID
	Name  string
}

// Local is a declared local variable slot (spec §3 "Local / Parameter slot").
type Local struct {
	id    verifier.LocalID
	owner uuid.UUID
	Name  string
	Type  StackType
}

// Arg is a method parameter slot, indexed in declaration order starting at 0.
type Arg struct {
	id    verifier.ArgID
	owner uuid.UUID
	Index int
	Type  StackType
}

// Emitter builds and verifies one method body. It is single-threaded and non-reentrant
// (spec §5): every call must come from the goroutine that created it. Once
// CreateDelegate succeeds the Emitter is read-only.
type Emitter struct {
	id   uuid.UUID
	name string
	cfg  EmitterConfig

	buf *instrbuf.Buffer
	v   *verifier.Verifier

	ctors   []hostreflect.Ctor
	methods []hostreflect.Method

	host     hostemit.Emitter
	delegate hostemit.Delegate
	err      error // first error recorded via poison(), see builder.go
}

// NewEmitter creates an Emitter for a method named name with the given parameter types
// and return type (nil for void), using cfg (see DefaultConfig).
func NewEmitter(name string, paramTypes []StackType, returnType *StackType, cfg EmitterConfig) *Emitter {
	buf := &instrbuf.Buffer{}
	e := &Emitter{
		id:   uuid.New(),
		name: name,
		cfg:  cfg.clone(),
		buf:  buf,
		v:    verifier.New(buf, paramTypes, returnType),
	}
	if cfg.TraceDepth > 0 {
		e.v.SetTraceCapacity(cfg.TraceDepth)
	}
	return e
}

// Arg returns the parameter slot at index, declared by NewEmitter's paramTypes.
func (e *Emitter) Arg(index int) (Arg, error) {
	t, ok := e.v.ArgType(verifier.ArgID(index))
	if !ok {
		return Arg{}, e.errorf(verrors.KindArgumentNull, "no parameter at index %d", index)
	}
	return Arg{id: verifier.ArgID(index), owner: e.id, Index: index, Type: t}, nil
}

// DeclareLocal allocates a new local of the given type. name may be empty.
func (e *Emitter) DeclareLocal(t StackType, name string) (Local, error) {
	if err := e.poisoned(); err != nil {
		return Local{}, err
	}
	id := e.v.DeclareLocal(name, t)
	return Local{id: id, owner: e.id, Name: name, Type: t}, nil
}

// DefineLabel allocates a fresh, unmarked label. name may be empty.
func (e *Emitter) DefineLabel(name string) (Label, error) {
	if err := e.poisoned(); err != nil {
		return Label{}, err
	}
	id := e.v.DefineLabel(name)
	return Label{id: id, owner: e.id, Name: name}, nil
}

// MarkLabel binds l to the current instruction position (spec §4.5).
func (e *Emitter) MarkLabel(l Label) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	if err := e.checkOwner(l.owner, "Label"); err != nil {
		return err
	}
	return e.wrap(e.v.MarkLabel(l.id))
}

// CurrentStack exposes the abstract stack at the current program point, for callers
// building tooling on top of the emitter (e.g. a REPL).
func (e *Emitter) CurrentStack() string { return e.v.CurrentStackString() }

// Trace returns the recorded UpdateState transitions when tracing was enabled via
// EmitterConfig.TraceDepth (spec.md §C.2).
func (e *Emitter) Trace() []verifier.TraceEntry { return e.v.Trace() }

func (e *Emitter) checkOwner(owner uuid.UUID, what string) error {
	if owner != e.id {
		return e.errorf(verrors.KindOwnershipError, "%s was produced by a different Emitter", what)
	}
	return nil
}

func (e *Emitter) poisoned() error {
	if e.err != nil {
		return e.err
	}
	return nil
}

// poison records err as the Emitter's first error, if it is non-nil and none has been
// recorded yet, and returns it unchanged. Every instruction-family method funnels its
// verifier call through this (via wrap) so that once any call fails the Emitter is
// considered unusable, matching the source's "exceptions poison the builder" behavior
// (spec §7) without actually using panics/exceptions to get there.
func (e *Emitter) poison(err error) error {
	if err != nil && e.err == nil {
		e.err = err
	}
	return err
}

func (e *Emitter) errorf(kind verrors.Kind, format string, args ...any) error {
	return e.poison(verrors.New(kind, e.buf.CurrentIndex(), e.v.CurrentStackString(), format, args...))
}

// wrap is the pass-through used by every instruction method for errors that originate
// inside internal/verifier rather than from e.errorf: it still needs to poison the
// Emitter so a later call sees e.poisoned() fail fast instead of handing the verifier an
// operation it will reject anyway.
func (e *Emitter) wrap(err error) error { return e.poison(err) }

// loc captures the caller's file:line two frames up (the public Emitter method that
// called into this helper), so a verification error points at the call site that
// triggered it rather than at this package's internals.
func loc(skip int) instrbuf.SourceLoc {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return instrbuf.SourceLoc{}
	}
	return instrbuf.SourceLoc{File: file, Line: line}
}
