package sigil

import "github.com/Turyansky/Sigil/internal/instrbuf"

// LoadConstantInt32 pushes a 32-bit integer constant (spec §6 "Load/store constant").
func (e *Emitter) LoadConstantInt32(v int32) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	_, err := e.v.UpdateState("ldc.i4", instrbuf.Operand{Kind: instrbuf.OperandI32, I32: v}, nil, []StackType{Int32Type}, loc(1))
	return e.wrap(err)
}

// LoadConstantInt64 pushes a 64-bit integer constant.
func (e *Emitter) LoadConstantInt64(v int64) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	_, err := e.v.UpdateState("ldc.i8", instrbuf.Operand{Kind: instrbuf.OperandI64, I64: v}, nil, []StackType{Int64Type}, loc(1))
	return e.wrap(err)
}

// LoadConstantFloat32 pushes a 32-bit floating point constant.
func (e *Emitter) LoadConstantFloat32(v float32) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	_, err := e.v.UpdateState("ldc.r4", instrbuf.Operand{Kind: instrbuf.OperandF32, F32: v}, nil, []StackType{Float32Type}, loc(1))
	return e.wrap(err)
}

// LoadConstantFloat64 pushes a 64-bit floating point constant.
func (e *Emitter) LoadConstantFloat64(v float64) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	_, err := e.v.UpdateState("ldc.r8", instrbuf.Operand{Kind: instrbuf.OperandF64, F64: v}, nil, []StackType{Float64Type}, loc(1))
	return e.wrap(err)
}

// LoadNull pushes the null literal, assignable to any reference-typed slot.
func (e *Emitter) LoadNull() error {
	if err := e.poisoned(); err != nil {
		return err
	}
	_, err := e.v.UpdateState("ldnull", instrbuf.Operand{}, nil, []StackType{NullLiteral}, loc(1))
	return e.wrap(err)
}
