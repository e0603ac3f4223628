package sigil

import (
	"reflect"

	"github.com/Turyansky/Sigil/hostemit"
)

// Builder is a fluent wrapper over *Emitter: every call swallows its error into an
// internal "first error" slot and returns the Builder itself, so a caller can chain a
// whole method body without checking an error after each instruction. Once an error is
// recorded every subsequent call is a no-op, matching the underlying Emitter's own
// poison behavior (spec.md §9 "Exceptions as control flow" — this is that pattern
// surfaced as public API rather than left for every caller to hand-roll). Err and
// CreateDelegate are the only two places the error actually surfaces.
type Builder struct {
	e        *Emitter
	firstErr error
}

// NewBuilder wraps e in a Builder.
func NewBuilder(e *Emitter) *Builder { return &Builder{e: e} }

func (b *Builder) run(err error) *Builder {
	if b.firstErr == nil && err != nil {
		b.firstErr = err
	}
	return b
}

// Err returns the first error recorded by any chained call, or nil if every call so far
// has succeeded.
func (b *Builder) Err() error { return b.firstErr }

// Emitter exposes the wrapped *Emitter for calls Builder does not mirror.
func (b *Builder) Emitter() *Emitter { return b.e }

func (b *Builder) DeclareLocal(t StackType, name string) (Local, *Builder) {
	if b.firstErr != nil {
		return Local{}, b
	}
	l, err := b.e.DeclareLocal(t, name)
	return l, b.run(err)
}

func (b *Builder) DefineLabel(name string) (Label, *Builder) {
	if b.firstErr != nil {
		return Label{}, b
	}
	l, err := b.e.DefineLabel(name)
	return l, b.run(err)
}

func (b *Builder) MarkLabel(l Label) *Builder { return b.run(b.e.MarkLabel(l)) }

func (b *Builder) LoadConstantInt32(v int32) *Builder   { return b.run(b.e.LoadConstantInt32(v)) }
func (b *Builder) LoadConstantInt64(v int64) *Builder   { return b.run(b.e.LoadConstantInt64(v)) }
func (b *Builder) LoadConstantFloat32(v float32) *Builder { return b.run(b.e.LoadConstantFloat32(v)) }
func (b *Builder) LoadConstantFloat64(v float64) *Builder { return b.run(b.e.LoadConstantFloat64(v)) }
func (b *Builder) LoadNull() *Builder                   { return b.run(b.e.LoadNull()) }

func (b *Builder) Add() *Builder { return b.run(b.e.Add()) }
func (b *Builder) Sub() *Builder { return b.run(b.e.Sub()) }
func (b *Builder) Mul() *Builder { return b.run(b.e.Mul()) }
func (b *Builder) Div() *Builder { return b.run(b.e.Div()) }
func (b *Builder) Rem() *Builder { return b.run(b.e.Rem()) }
func (b *Builder) And() *Builder { return b.run(b.e.And()) }
func (b *Builder) Or() *Builder  { return b.run(b.e.Or()) }
func (b *Builder) Xor() *Builder { return b.run(b.e.Xor()) }
func (b *Builder) Shl() *Builder { return b.run(b.e.Shl()) }
func (b *Builder) Shr() *Builder { return b.run(b.e.Shr()) }
func (b *Builder) Neg() *Builder { return b.run(b.e.Neg()) }

func (b *Builder) ConvertToInt32() *Builder     { return b.run(b.e.ConvertToInt32()) }
func (b *Builder) ConvertToInt64() *Builder     { return b.run(b.e.ConvertToInt64()) }
func (b *Builder) ConvertToFloat32() *Builder   { return b.run(b.e.ConvertToFloat32()) }
func (b *Builder) ConvertToFloat64() *Builder   { return b.run(b.e.ConvertToFloat64()) }
func (b *Builder) ConvertToNativeInt() *Builder { return b.run(b.e.ConvertToNativeInt()) }

func (b *Builder) LoadLocal(l Local) *Builder  { return b.run(b.e.LoadLocal(l)) }
func (b *Builder) StoreLocal(l Local) *Builder { return b.run(b.e.StoreLocal(l)) }
func (b *Builder) LoadArg(a Arg) *Builder      { return b.run(b.e.LoadArg(a)) }
func (b *Builder) StoreArg(a Arg) *Builder     { return b.run(b.e.StoreArg(a)) }

func (b *Builder) LoadField(f Field) *Builder  { return b.run(b.e.LoadField(f)) }
func (b *Builder) StoreField(f Field) *Builder { return b.run(b.e.StoreField(f)) }

func (b *Builder) Branch(l Label) *Builder          { return b.run(b.e.Branch(l)) }
func (b *Builder) BranchIfTrue(l Label) *Builder     { return b.run(b.e.BranchIfTrue(l)) }
func (b *Builder) BranchIfFalse(l Label) *Builder    { return b.run(b.e.BranchIfFalse(l)) }
func (b *Builder) BranchIfEqual(l Label) *Builder    { return b.run(b.e.BranchIfEqual(l)) }
func (b *Builder) BranchIfNotEqual(l Label) *Builder { return b.run(b.e.BranchIfNotEqual(l)) }
func (b *Builder) BranchIfLess(l Label) *Builder     { return b.run(b.e.BranchIfLess(l)) }
func (b *Builder) BranchIfGreater(l Label) *Builder  { return b.run(b.e.BranchIfGreater(l)) }
func (b *Builder) BranchIfLessOrEqual(l Label) *Builder {
	return b.run(b.e.BranchIfLessOrEqual(l))
}
func (b *Builder) BranchIfGreaterOrEqual(l Label) *Builder {
	return b.run(b.e.BranchIfGreaterOrEqual(l))
}
func (b *Builder) Switch(table SwitchTable) *Builder { return b.run(b.e.Switch(table)) }

func (b *Builder) Call(m Method) *Builder            { return b.run(b.e.Call(m)) }
func (b *Builder) CallVirtual(m Method) *Builder      { return b.run(b.e.CallVirtual(m)) }
func (b *Builder) CallIndirect(sig Signature) *Builder { return b.run(b.e.CallIndirect(sig)) }

func (b *Builder) NewArray(elem reflect.Type) *Builder { return b.run(b.e.NewArray(elem)) }
func (b *Builder) NewObject(c Ctor) *Builder            { return b.run(b.e.NewObject(c)) }
func (b *Builder) NewObjectOfTypes(declaring reflect.Type, params ...reflect.Type) *Builder {
	return b.run(b.e.NewObjectOfTypes(declaring, params...))
}

func (b *Builder) BeginExceptionBlock() (TryScope, *Builder) {
	if b.firstErr != nil {
		return TryScope{}, b
	}
	t, err := b.e.BeginExceptionBlock()
	return t, b.run(err)
}

func (b *Builder) BeginCatchBlock(try TryScope, caughtType reflect.Type) (CatchScope, *Builder) {
	if b.firstErr != nil {
		return CatchScope{}, b
	}
	c, err := b.e.BeginCatchBlock(try, caughtType)
	return c, b.run(err)
}

func (b *Builder) BeginCatchAllBlock(try TryScope, throwable reflect.Type) (CatchScope, *Builder) {
	if b.firstErr != nil {
		return CatchScope{}, b
	}
	c, err := b.e.BeginCatchAllBlock(try, throwable)
	return c, b.run(err)
}

func (b *Builder) EndCatchBlock(c CatchScope) *Builder { return b.run(b.e.EndCatchBlock(c)) }

func (b *Builder) BeginFinallyBlock(try TryScope) (FinallyScope, *Builder) {
	if b.firstErr != nil {
		return FinallyScope{}, b
	}
	f, err := b.e.BeginFinallyBlock(try)
	return f, b.run(err)
}

func (b *Builder) EndFinallyBlock(f FinallyScope) *Builder { return b.run(b.e.EndFinallyBlock(f)) }
func (b *Builder) EndExceptionBlock(try TryScope) *Builder { return b.run(b.e.EndExceptionBlock(try)) }

func (b *Builder) Ret() *Builder { return b.run(b.e.Ret()) }

// CreateDelegate surfaces any error recorded by a prior chained call before attempting
// finalization, so a long chain fails with the first real problem rather than whatever
// unrelated error the verifier happens to hit once finalization proceeds on broken state.
func (b *Builder) CreateDelegate() (hostemit.Delegate, error) {
	if b.firstErr != nil {
		return nil, b.firstErr
	}
	return b.e.CreateDelegate()
}
