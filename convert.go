package sigil

import "github.com/Turyansky/Sigil/internal/instrbuf"

// convert pops one numeric operand and pushes to as a fresh value of that type. CIL
// narrowing conversions are explicit opcodes, never implicit (spec §4.1) — this is the
// single primitive behind ConvertToInt32/64, ConvertToFloat32/64 and ConvertToNativeInt.
func (e *Emitter) convert(opcode string, to StackType) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	if e.v.Stack().IsUnreachable() {
		_, err := e.v.UpdateState(opcode, instrbuf.Operand{}, []StackType{Int32Type}, []StackType{to}, loc(2))
		return e.wrap(err)
	}
	top, ok := e.v.Stack().TopN(1)
	if !ok {
		return e.errorf(KindStackUnderflow, "%s requires 1 operand, have 0", opcode)
	}
	if !isNumeric(top[0]) {
		return e.errorf(KindTypeMismatch, "%s: operand must be numeric, got %s", opcode, top[0])
	}
	_, err := e.v.UpdateState(opcode, instrbuf.Operand{}, []StackType{top[0]}, []StackType{to}, loc(2))
	return e.wrap(err)
}

func (e *Emitter) ConvertToInt32() error     { return e.convert("conv.i4", Int32Type) }
func (e *Emitter) ConvertToInt64() error     { return e.convert("conv.i8", Int64Type) }
func (e *Emitter) ConvertToFloat32() error   { return e.convert("conv.r4", Float32Type) }
func (e *Emitter) ConvertToFloat64() error   { return e.convert("conv.r8", Float64Type) }
func (e *Emitter) ConvertToNativeInt() error { return e.convert("conv.i", NativeIntType) }
